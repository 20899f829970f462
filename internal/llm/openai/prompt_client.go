package openai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"resume-feedback/internal/llm"
	"resume-feedback/internal/shared/telemetry"
)

const defaultTimeout = 120 * time.Second

// PromptClient implements llm.Completer on the OpenAI Chat Completions API.
type PromptClient struct {
	model  string
	client *goopenai.Client
}

// Option adjusts the underlying client configuration.
type Option func(*goopenai.ClientConfig)

// WithBaseURL points the client at an alternative API root, e.g. a proxy or a test server.
func WithBaseURL(baseURL string) Option {
	return func(cfg *goopenai.ClientConfig) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			cfg.BaseURL = strings.TrimRight(trimmed, "/")
		}
	}
}

// WithTimeout bounds each completion call.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *goopenai.ClientConfig) {
		if timeout > 0 {
			cfg.HTTPClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewPromptClient constructs a completion client.
func NewPromptClient(apiKey, model string, opts ...Option) (*PromptClient, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	cfg := goopenai.DefaultConfig(apiKey)
	cfg.HTTPClient = &http.Client{Timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &PromptClient{
		model:  model,
		client: goopenai.NewClientWithConfig(cfg),
	}, nil
}

// Complete issues one chat completion for prompt and returns the first choice's content as-is.
// Content that is empty or only whitespace is returned as an error, not as blank feedback.
func (c *PromptClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: llm.Temperature,
		MaxTokens:   llm.MaxTokens,
	})
	if err != nil {
		return "", wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices")
	}

	telemetry.Info("llm.response", map[string]any{
		"model":             resp.Model,
		"finish_reason":     string(resp.Choices[0].FinishReason),
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
		"total_tokens":      resp.Usage.TotalTokens,
	})

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("openai response empty content")
	}
	return content, nil
}

func wrapError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("openai http status %d: %s (%s): %w", apiErr.HTTPStatusCode, apiErr.Message, apiErr.Type, err)
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("openai http status %d: %w", reqErr.HTTPStatusCode, err)
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("openai request timeout: %w", err)
	}
	return fmt.Errorf("openai request: %w", err)
}

var _ llm.Completer = (*PromptClient)(nil)
