package llm

import (
	"context"
	"errors"
	"fmt"

	"quizbot/internal/config"
	"quizbot/internal/logger"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const systemPrompt = "You are a quiz assistant. Reply with a single JSON object and nothing else."

// OpenAICompatible speaks the chat-completions protocol to any compatible
// endpoint. The default base URL is Gemini's OpenAI-compatible gateway.
type OpenAICompatible struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func NewOpenAICompatible(cfg config.LLMConfig) (*OpenAICompatible, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("API key cannot be empty for the openai-compatible provider")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = config.DefaultOpenAICompatibleBaseURL
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = httpClient(cfg.Timeout)

	return &OpenAICompatible{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   cfg.MaxTokens,
	}, nil
}

func (o *OpenAICompatible) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: o.temperature,
		MaxTokens:   o.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		logger.Get().Error("Chat completion failed", zap.String("model", o.model), zap.Error(err))
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAICompatible) Close() error { return nil }
