// Package generator runs one generate action: validate, check the credential,
// compose the instruction and call the completion provider.
package generator

import (
	"context"
	"errors"

	"github.com/joestump/prompt-generator/internal/llm"
	"github.com/joestump/prompt-generator/internal/metrics"
	"github.com/joestump/prompt-generator/internal/prompt"
)

// ErrNoAPIKey is returned when no provider credential is configured.
var ErrNoAPIKey = errors.New("the API key is not configured")

// Service holds the read-only pieces shared by every session.
type Service struct {
	composer  *prompt.Composer
	completer llm.Completer
	apiKey    string
}

// NewService creates a Service. An empty apiKey is allowed; Generate reports it.
func NewService(composer *prompt.Composer, completer llm.Completer, apiKey string) *Service {
	return &Service{composer: composer, completer: completer, apiKey: apiKey}
}

// Configured reports whether a provider credential is present.
func (s *Service) Configured() bool { return s.apiKey != "" }

// Generate validates req, then performs exactly one completion call. A non-nil
// error (prompt.ErrMissingField, prompt.ErrInvalidChoice or ErrNoAPIKey) means
// no call was made. Provider failures are reported inside the Result.
func (s *Service) Generate(ctx context.Context, req prompt.Request) (llm.Result, error) {
	if err := prompt.Validate(req); err != nil {
		metrics.RejectedTotal.WithLabelValues("validation").Inc()
		return llm.Result{}, err
	}
	if !s.Configured() {
		metrics.RejectedTotal.WithLabelValues("config").Inc()
		return llm.Result{}, ErrNoAPIKey
	}
	return s.completer.Complete(ctx, s.apiKey, s.composer.Compose(req)), nil
}
