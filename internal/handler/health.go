package handler

import (
	"encoding/json"
	"net/http"

	"github.com/joestump/prompt-generator/internal/build"
	"github.com/joestump/prompt-generator/internal/generator"
)

type healthBody struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	Commit     string `json:"commit"`
	Configured bool   `json:"configured"`
}

// Health serves GET /healthz. A missing API key does not make the process
// unhealthy; it is reported as configured=false.
func Health(svc *generator.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(healthBody{
			Status:     "ok",
			Version:    build.Version,
			Commit:     build.Commit,
			Configured: svc.Configured(),
		})
	}
}
