// Package llm performs the single chat-completion call behind each generate
// action. Every outcome, including transport and decode failures, comes back as
// a Result value; nothing in this package returns an error to its caller.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joestump/prompt-generator/internal/config"
	"github.com/joestump/prompt-generator/internal/metrics"
)

// Kind classifies a failed completion.
type Kind string

const (
	KindHTTPStatus Kind = "http_status" // provider answered with a non-2xx status
	KindProvider   Kind = "provider"    // 2xx body carrying an error object
	KindTransport  Kind = "transport"   // connect, DNS, TLS, timeout, body read
	KindDecode     Kind = "decode"      // malformed or incomplete payload
)

// noMessage stands in when the provider's error object has no message.
const noMessage = "no message"

// Error describes why a completion produced no text.
type Error struct {
	Kind    Kind
	Status  int    // KindHTTPStatus only
	Body    string // raw response body, KindHTTPStatus only
	Message string // provider-supplied message, KindProvider only
	Err     error  // underlying cause, KindTransport and KindDecode
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("HTTP error %d: %s", e.Status, e.Body)
	case KindProvider:
		return "Provider error: " + e.Message
	case KindTransport:
		return fmt.Sprintf("Request failed: %v", e.Err)
	default:
		return fmt.Sprintf("Unexpected response: %v", e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Result holds either the generated text or an Error, never both.
type Result struct {
	Text string
	Err  *Error
}

// OK reports whether the completion produced text.
func (r Result) OK() bool { return r.Err == nil }

// Display collapses the result into the string shown to the user.
func (r Result) Display() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return r.Text
}

func textResult(s string) Result { return Result{Text: s} }
func errResult(e *Error) Result  { return Result{Err: e} }

// Completer sends one instruction to a completion provider.
type Completer interface {
	Complete(ctx context.Context, apiKey, instruction string) Result
}

// Options are the request parameters shared by all providers.
type Options struct {
	BaseURL     string
	Model       string
	Referer     string
	Title       string
	MaxTokens   int
	Temperature *float64 // nil selects the default; 0 is a valid setting
	Timeout     time.Duration
}

// New creates the Completer selected by cfg.LLM.Provider.
func New(cfg *config.Config, logger *zap.Logger) (Completer, error) {
	opts := Options{
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Referer:     cfg.LLM.Referer,
		Title:       cfg.LLM.Title,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: &cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}
	var c Completer
	switch cfg.LLM.Provider {
	case "", "openrouter":
		c = NewOpenRouter(opts)
	case "openai", "openai-compatible":
		c = NewOpenAI(opts)
	case "anthropic":
		c = NewAnthropic(opts)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q", cfg.LLM.Provider)
	}
	return Instrument(c, cfg.LLM.Provider, logger), nil
}

// Instrument wraps c so each completion is logged and counted.
func Instrument(c Completer, provider string, logger *zap.Logger) Completer {
	if provider == "" {
		provider = "openrouter"
	}
	return &instrumented{next: c, provider: provider, logger: logger}
}

type instrumented struct {
	next     Completer
	provider string
	logger   *zap.Logger
}

func (i *instrumented) Complete(ctx context.Context, apiKey, instruction string) Result {
	id := uuid.NewString()
	start := time.Now()
	res := i.next.Complete(ctx, apiKey, instruction)
	elapsed := time.Since(start)

	outcome := "ok"
	if res.Err != nil {
		outcome = string(res.Err.Kind)
	}
	metrics.GenerationsTotal.WithLabelValues(i.provider, outcome).Inc()
	metrics.GenerationDuration.WithLabelValues(i.provider).Observe(elapsed.Seconds())

	fields := []zap.Field{
		zap.String("generation_id", id),
		zap.String("provider", i.provider),
		zap.String("outcome", outcome),
		zap.Duration("duration", elapsed),
		zap.Int("instruction_chars", len(instruction)),
	}
	if res.Err != nil {
		if res.Err.Status != 0 {
			fields = append(fields, zap.Int("status", res.Err.Status))
		}
		i.logger.Warn("generation failed", append(fields, zap.String("error", res.Err.Error()))...)
		return res
	}
	i.logger.Info("generation complete", append(fields, zap.Int("output_chars", len(res.Text)))...)
	return res
}
