package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	defaultOpenRouterModel   = "openai/gpt-3.5-turbo"
	defaultOpenAIBaseURL     = "https://api.openai.com/v1"
	defaultOpenAIModel       = "gpt-4o-mini"
	defaultMaxTokens         = 1024
	defaultTemperature       = 0.7
	defaultTimeout           = 60 * time.Second
)

// OpenAICompleter talks to any OpenAI-compatible /chat/completions endpoint.
type OpenAICompleter struct {
	baseURL     string
	model       string
	referer     string
	title       string
	maxTokens   int
	temperature float64
	client      *http.Client
}

// NewOpenRouter returns a completer for OpenRouter. Unset options fall back to
// the OpenRouter endpoint and model.
func NewOpenRouter(opts Options) *OpenAICompleter {
	return newOpenAICompatible(opts, defaultOpenRouterBaseURL, defaultOpenRouterModel)
}

// NewOpenAI returns a completer for the OpenAI API or a compatible server at opts.BaseURL.
func NewOpenAI(opts Options) *OpenAICompleter {
	return newOpenAICompatible(opts, defaultOpenAIBaseURL, defaultOpenAIModel)
}

func newOpenAICompatible(opts Options, baseURL, model string) *OpenAICompleter {
	opts = opts.withDefaults(baseURL, model)
	return &OpenAICompleter{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		model:       opts.Model,
		referer:     opts.Referer,
		title:       opts.Title,
		maxTokens:   opts.MaxTokens,
		temperature: *opts.Temperature,
		client:      &http.Client{Timeout: opts.Timeout},
	}
}

func (o Options) withDefaults(baseURL, model string) Options {
	if o.BaseURL == "" {
		o.BaseURL = baseURL
	}
	if o.Model == "" {
		o.Model = model
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = defaultMaxTokens
	}
	if o.Temperature == nil {
		t := defaultTemperature
		o.Temperature = &t
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return o
}

type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends instruction as a single user message and returns the first
// choice's content, trimmed.
func (o *OpenAICompleter) Complete(ctx context.Context, apiKey, instruction string) Result {
	body := openaiRequest{
		Model:       o.model,
		Messages:    []openaiMessage{{Role: "user", Content: instruction}},
		MaxTokens:   o.maxTokens,
		Temperature: o.temperature,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return errResult(&Error{Kind: KindDecode, Err: err})
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return errResult(&Error{Kind: KindTransport, Err: err})
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	if o.referer != "" {
		httpReq.Header.Set("HTTP-Referer", o.referer)
	}
	if o.title != "" {
		httpReq.Header.Set("X-Title", o.title)
	}

	respBody, failure := do(o.client, httpReq)
	if failure != nil {
		return errResult(failure)
	}

	var apiResp openaiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return errResult(&Error{Kind: KindDecode, Err: err})
	}
	if apiResp.Error != nil {
		return errResult(providerError(apiResp.Error.Message))
	}
	if len(apiResp.Choices) == 0 || apiResp.Choices[0].Message.Content == nil {
		return errResult(&Error{Kind: KindDecode, Err: errors.New("response has no choices[0].message.content")})
	}
	return textResult(strings.TrimSpace(*apiResp.Choices[0].Message.Content))
}

// do performs the request and reads the whole body. Non-2xx statuses are
// returned as KindHTTPStatus errors with the raw body.
func do(client *http.Client, req *http.Request) ([]byte, *Error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return respBody, &Error{Kind: KindHTTPStatus, Status: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}

func providerError(msg string) *Error {
	if strings.TrimSpace(msg) == "" {
		msg = noMessage
	}
	return &Error{Kind: KindProvider, Message: msg}
}
