package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/mykushyn/prismiq/internal/model"
)

// CompletionProvider defines the interface for the blocking completion call.
type CompletionProvider interface {
	Complete(ctx context.Context, messages []model.ChatMessage) (string, error)
}

// ProviderError reports a non-2xx response from the language-model provider.
// The raw body is carried so the caller can log it and surface a labeled
// failure to the end user.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Body)
}

// Options are the sampling parameters sent with every completion request.
type Options struct {
	Model            string
	Temperature      float32
	MaxTokens        int
	PresencePenalty  float32
	FrequencyPenalty float32
}

type openaiProvider struct {
	client *openai.Client
	opts   Options
}

// NewOpenAIProvider builds a completion client for the given key and base
// URL. The base URL is configurable so tests can point the client at a mock
// server.
func NewOpenAIProvider(apiKey, baseURL string, opts Options) CompletionProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &openaiProvider{client: openai.NewClientWithConfig(cfg), opts: opts}
}

// Complete sends one chat-completion request and extracts the first choice's
// message content. A non-2xx response becomes a *ProviderError; a response
// without the expected shape resolves to an empty string, never an error.
func (p *openaiProvider) Complete(ctx context.Context, messages []model.ChatMessage) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:            p.opts.Model,
		Temperature:      p.opts.Temperature,
		MaxTokens:        p.opts.MaxTokens,
		PresencePenalty:  p.opts.PresencePenalty,
		FrequencyPenalty: p.opts.FrequencyPenalty,
		Messages:         toOpenAIMessages(messages),
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", asProviderError(err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []model.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		out = append(out, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return out
}

// asProviderError translates the client library's error types into a
// ProviderError when an HTTP status is known, and passes transport errors
// through unchanged.
func asProviderError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &ProviderError{StatusCode: reqErr.HTTPStatusCode, Body: string(reqErr.Body)}
	}
	return err
}
