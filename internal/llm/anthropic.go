package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion        = "2023-06-01"
	defaultAnthropicModel   = "claude-haiku-4-5-20251001"
)

// AnthropicCompleter talks to the Anthropic Messages API.
type AnthropicCompleter struct {
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	client      *http.Client
}

// NewAnthropic returns a completer for the Anthropic Messages API.
func NewAnthropic(opts Options) *AnthropicCompleter {
	opts = opts.withDefaults(defaultAnthropicBaseURL, defaultAnthropicModel)
	return &AnthropicCompleter{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		temperature: *opts.Temperature,
		client:      &http.Client{Timeout: opts.Timeout},
	}
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends instruction as a single user message and returns the
// concatenated text blocks, trimmed.
func (a *AnthropicCompleter) Complete(ctx context.Context, apiKey, instruction string) Result {
	body := anthropicRequest{
		Model:       a.model,
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
		Messages:    []anthropicMessage{{Role: "user", Content: instruction}},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return errResult(&Error{Kind: KindDecode, Err: err})
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return errResult(&Error{Kind: KindTransport, Err: err})
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	respBody, failure := do(a.client, httpReq)
	if failure != nil {
		return errResult(failure)
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return errResult(&Error{Kind: KindDecode, Err: err})
	}
	if apiResp.Error != nil {
		return errResult(providerError(apiResp.Error.Message))
	}

	var sb strings.Builder
	found := false
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
			found = true
		}
	}
	if !found {
		return errResult(&Error{Kind: KindDecode, Err: errors.New("response has no text content")})
	}
	return textResult(strings.TrimSpace(sb.String()))
}
