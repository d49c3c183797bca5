package llm

import (
	"context"
	"errors"
	"fmt"

	"quizbot/internal/config"
	"quizbot/internal/logger"

	anthropic "github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"
)

type messagesCreator interface {
	CreateMessages(ctx context.Context, request anthropic.MessagesRequest) (anthropic.MessagesResponse, error)
}

// Anthropic calls the Messages API. Claude has no JSON mode, so the system
// prompt asks for a bare object and callers extract it.
type Anthropic struct {
	client      messagesCreator
	model       string
	temperature float32
	maxTokens   int
}

func NewAnthropic(cfg config.LLMConfig) (*Anthropic, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic API key cannot be empty")
	}
	opts := []anthropic.ClientOption{anthropic.WithHTTPClient(httpClient(cfg.Timeout))}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}
	return newAnthropic(anthropic.NewClient(cfg.APIKey, opts...), cfg), nil
}

func newAnthropic(client messagesCreator, cfg config.LLMConfig) *Anthropic {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &Anthropic{
		client:      client,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   maxTokens,
	}
}

func (a *Anthropic) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(a.model),
		System:      systemPrompt,
		Temperature: &a.temperature,
		MaxTokens:   a.maxTokens,
		Messages:    []anthropic.Message{anthropic.NewUserTextMessage(prompt)},
	})
	if err != nil {
		logger.Get().Error("Anthropic messages call failed", zap.String("model", a.model), zap.Error(err))
		return "", fmt.Errorf("anthropic messages call failed: %w", err)
	}
	text := resp.GetFirstContentText()
	if text == "" {
		return "", errors.New("anthropic returned no text content")
	}
	return text, nil
}

func (a *Anthropic) Close() error { return nil }
