package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

var (
	// ErrCompletionUnavailable is returned when no completion credential is configured.
	ErrCompletionUnavailable = errors.New("completion api is not configured")
)

const (
	defaultTopP              = 0.9
	defaultCompletionTimeout = 3 * time.Minute
)

// TransportError means the completion endpoint could not be reached.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("completion transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamError means the completion endpoint answered with a failure.
type UpstreamError struct {
	StatusCode int
	// Body is the response body as sent. When the body is a standard error
	// envelope only its message survives decoding.
	Body string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("completion api error: status %d: %s", e.StatusCode, e.Body)
}

// CompletionRequest carries every knob for one call; nothing is read from globals.
type CompletionRequest struct {
	Model       string
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

// Completer is the narrow interface the generator depends on.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionClient talks to any OpenAI-compatible chat completion endpoint.
type CompletionClient struct {
	client  *openai.Client
	timeout time.Duration
}

func NewCompletionClient(apiKey, baseURL string) *CompletionClient {
	return NewCompletionClientWithHTTP(apiKey, baseURL, nil)
}

// NewCompletionClientWithHTTP lets callers supply the HTTP client (tests use httptest).
func NewCompletionClientWithHTTP(apiKey, baseURL string, httpClient *http.Client) *CompletionClient {
	if apiKey == "" {
		return &CompletionClient{}
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &CompletionClient{
		client:  openai.NewClientWithConfig(cfg),
		timeout: defaultCompletionTimeout,
	}
}

func (c *CompletionClient) disabled() bool {
	return c == nil || c.client == nil
}

// Complete sends exactly one chat completion request and returns the raw text of
// the first choice.
func (c *CompletionClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if c.disabled() {
		return "", ErrCompletionUnavailable
	}

	chatReq := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		TopP:        defaultTopP,
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", classifyCompletionError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &UpstreamError{StatusCode: http.StatusOK, Body: "no choices"}
	}
	return resp.Choices[0].Message.Content, nil
}

func classifyCompletionError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &UpstreamError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		body := string(reqErr.Body)
		if body == "" && reqErr.Err != nil {
			body = reqErr.Err.Error()
		}
		return &UpstreamError{StatusCode: reqErr.HTTPStatusCode, Body: body}
	}
	return &TransportError{Err: err}
}
