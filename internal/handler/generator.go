package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"
	"go.uber.org/zap"

	"github.com/joestump/prompt-generator/internal/config"
	"github.com/joestump/prompt-generator/internal/generator"
	"github.com/joestump/prompt-generator/internal/prompt"
	"github.com/joestump/prompt-generator/internal/session"
)

const (
	missingFieldsMessage = "Please fill in every text field: "
	noAPIKeyMessage      = "The API key is not configured. Set " + config.APIKeyEnv + " in the server's secrets."
)

// GeneratorPage is the template data for the generator form and its result.
type GeneratorPage struct {
	BasePage
	Form    prompt.Request
	Choices prompt.Choices
	Output  string
	Flash   *Flash
}

// GeneratorHandler serves the form and the generate action.
type GeneratorHandler struct {
	svc    *generator.Service
	slot   session.Slot
	logger *zap.Logger
}

// NewGeneratorHandler creates a new GeneratorHandler.
func NewGeneratorHandler(svc *generator.Service, sm *scs.SessionManager, logger *zap.Logger) *GeneratorHandler {
	return &GeneratorHandler{svc: svc, slot: session.NewSlot(sm), logger: logger}
}

// Index serves GET /. The session's last output, if any, is shown below the form.
func (h *GeneratorHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	render(w, "index.html", GeneratorPage{
		BasePage: newBasePage(r),
		Form:     h.slot.Form(ctx),
		Choices:  prompt.AllChoices(),
		Output:   h.slot.Output(ctx),
	})
}

// Generate serves POST /generate. Blank text fields and a missing API key are
// reported as flashes without calling the provider; everything else ends with
// the result (text or error description) stored in the session output slot.
func (h *GeneratorHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	form := formFromRequest(r)

	data := GeneratorPage{
		BasePage: newBasePage(r),
		Form:     form,
		Choices:  prompt.AllChoices(),
	}

	res, err := h.svc.Generate(ctx, form)
	switch {
	case errors.Is(err, prompt.ErrMissingField):
		data.Flash = &Flash{Type: "warning", Message: missingFieldsMessage + fieldList(err)}
	case errors.Is(err, prompt.ErrInvalidChoice):
		data.Flash = &Flash{Type: "warning", Message: "Please pick one of the offered options: " + fieldList(err)}
	case errors.Is(err, generator.ErrNoAPIKey):
		data.Flash = &Flash{Type: "error", Message: noAPIKeyMessage}
	case err != nil:
		h.logger.Error("generate", zap.Error(err))
		data.Flash = &Flash{Type: "error", Message: "Something went wrong. Please try again."}
	}

	if data.Flash != nil {
		h.slot.RememberForm(ctx, form)
		data.Output = h.slot.Output(ctx)
	} else {
		data.Output = res.Display()
		h.slot.Store(ctx, form, data.Output)
	}

	if isHTMX(r) {
		renderFragment(w, "result", data)
		return
	}
	render(w, "index.html", data)
}

func formFromRequest(r *http.Request) prompt.Request {
	return prompt.Request{
		Objective:    prompt.Objective(r.FormValue("objective")),
		Topic:        r.FormValue("topic"),
		Role:         r.FormValue("role"),
		Format:       prompt.Format(r.FormValue("format")),
		Audience:     r.FormValue("audience"),
		Tone:         prompt.Tone(r.FormValue("tone")),
		ExtraContext: r.FormValue("extra_context"),
	}
}

// fieldList extracts the field names from a wrapped validation error.
func fieldList(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{prompt.ErrMissingField, prompt.ErrInvalidChoice} {
		if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
			return rest
		}
	}
	return msg
}
