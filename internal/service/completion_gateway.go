package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"app/internal/config"
	"app/internal/model"

	openai "github.com/sashabaranov/go-openai"
)

var (
	// ErrUpstreamTimeout means the completion call exceeded its hard budget.
	ErrUpstreamTimeout = errors.New("upstream timeout")
	// ErrUpstreamUnavailable means the provider could not be reached at all.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrEmptyCompletion means the provider answered 2xx with no choices.
	ErrEmptyCompletion = errors.New("empty completion response")
)

// UpstreamError is a non-2xx rejection from the completion provider. The
// provider message is for server-side logs only and must never reach the
// end user.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream rejected request: status %d: %s", e.StatusCode, e.Message)
}

// CompletionGateway forwards a system prompt plus conversation history to the
// language-model API and returns the reply text. It does not retry.
type CompletionGateway interface {
	Complete(ctx context.Context, systemPrompt string, messages []model.ChatMessage) (string, error)
}

type completionGateway struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
}

// NewCompletionGateway builds the gateway with fixed model, creativity and
// reply-length settings from config.
func NewCompletionGateway(cfg *config.Config) CompletionGateway {
	clientCfg := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAIBaseURL
	}
	return &completionGateway{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.CompletionModel,
		temperature: cfg.CompletionTemperature,
		maxTokens:   cfg.CompletionMaxTokens,
		timeout:     time.Duration(cfg.CompletionTimeoutSec) * time.Second,
	}
}

func (g *completionGateway) Complete(ctx context.Context, systemPrompt string, messages []model.ChatMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	chatMessages = append(chatMessages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range messages {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    chatMessages,
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		return "", classifyCompletionError(err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyCompletionError maps client errors into the gateway's taxonomy.
func classifyCompletionError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrUpstreamTimeout
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusRequestTimeout || apiErr.HTTPStatusCode == http.StatusGatewayTimeout {
			return ErrUpstreamTimeout
		}
		return &UpstreamError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &UpstreamError{StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error()}
	}
	return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
}
