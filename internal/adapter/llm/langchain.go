package llm

import (
	"context"
	"errors"
	"fmt"

	"quizbot/internal/config"
	"quizbot/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// LangChain drives any langchaingo model in JSON mode.
type LangChain struct {
	model       llms.Model
	temperature float64
	maxTokens   int
}

func NewLangChain(model llms.Model, cfg config.LLMConfig) *LangChain {
	return &LangChain{model: model, temperature: cfg.Temperature, maxTokens: cfg.MaxTokens}
}

// NewOllama talks to a local Ollama server.
func NewOllama(cfg config.LLMConfig) (*LangChain, error) {
	model, err := ollama.New(
		ollama.WithServerURL(cfg.ServerURL),
		ollama.WithModel(cfg.Model),
		ollama.WithHTTPClient(httpClient(cfg.Timeout)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}
	return NewLangChain(model, cfg), nil
}

// NewLangChainOpenAI talks to the OpenAI API.
func NewLangChainOpenAI(cfg config.LLMConfig) (*LangChain, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai API key cannot be empty")
	}
	model, err := openai.New(
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
		openai.WithHTTPClient(httpClient(cfg.Timeout)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}
	return NewLangChain(model, cfg), nil
}

func (l *LangChain) Generate(ctx context.Context, prompt string) (string, error) {
	opts := []llms.CallOption{
		llms.WithTemperature(l.temperature),
		llms.WithJSONMode(),
	}
	if l.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(l.maxTokens))
	}

	out, err := llms.GenerateFromSinglePrompt(ctx, l.model, prompt, opts...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Get().Error("LLM request timed out", zap.Error(err))
			return "", fmt.Errorf("LLM request timed out: %w", err)
		}
		logger.Get().Error("Failed to get response from LLM", zap.Error(err))
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	logger.Get().Debug("Raw LLM response received", zap.String("raw_response", truncate(out, 500)))
	return out, nil
}

func (l *LangChain) Close() error { return nil }
