package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/joestump/prompt-generator/internal/generator"
	"github.com/joestump/prompt-generator/internal/prompt"
)

const maxBodyBytes = 64 << 10

// GenerateResponse is the success body of POST /api/v1/generate.
type GenerateResponse struct {
	Prompt string `json:"prompt"`
}

// GenerateHandler mirrors the web form's generate action for JSON clients.
type GenerateHandler struct {
	svc *generator.Service
}

// Generate handles POST /api/v1/generate.
//
//	400 invalid_json / validation_error  no provider call made
//	503 config_error                     no API key configured
//	502 upstream_error                   provider call failed; error holds the description
//
// @Summary      Generate a prompt
// @Description  Composes the meta-prompt from the request fields and asks the configured provider to write the final prompt. Does not touch the browser session.
// @Tags         Generate
// @Accept       json
// @Produce      json
// @Param        body  body      prompt.Request  true  "Prompt fields"
// @Success      200   {object}  GenerateResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      502   {object}  ErrorResponse
// @Failure      503   {object}  ErrorResponse
// @Router       /generate [post]
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req prompt.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error(), "invalid_json")
		return
	}

	res, err := h.svc.Generate(r.Context(), req)
	switch {
	case errors.Is(err, prompt.ErrMissingField), errors.Is(err, prompt.ErrInvalidChoice):
		writeError(w, http.StatusBadRequest, err.Error(), "validation_error")
		return
	case errors.Is(err, generator.ErrNoAPIKey):
		writeError(w, http.StatusServiceUnavailable, err.Error(), "config_error")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error(), "internal_error")
		return
	}

	if !res.OK() {
		writeError(w, http.StatusBadGateway, res.Display(), "upstream_error")
		return
	}
	writeJSON(w, http.StatusOK, GenerateResponse{Prompt: res.Text})
}

// Options handles GET /api/v1/options and lists every enumerated field's values.
//
// @Summary      List field options
// @Description  Returns the allowed values of the objective, format and tone fields.
// @Tags         Generate
// @Produce      json
// @Success      200  {object}  prompt.Choices
// @Router       /options [get]
func Options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, prompt.AllChoices())
}
