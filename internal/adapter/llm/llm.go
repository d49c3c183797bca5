// Package llm adapts hosted text-generation SDKs to domain.TextGenerator.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"quizbot/internal/config"
	"quizbot/internal/domain"
	"quizbot/internal/logger"

	"go.uber.org/zap"
)

// Client is a TextGenerator that may hold network resources.
type Client interface {
	domain.TextGenerator
	Close() error
}

// New builds the client selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig) (Client, error) {
	logger.Get().Info("Initializing LLM client",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model))

	switch cfg.Provider {
	case config.ProviderOllama:
		return NewOllama(cfg)
	case config.ProviderOpenAI:
		return NewLangChainOpenAI(cfg)
	case config.ProviderOpenAICompatible:
		return NewOpenAICompatible(cfg)
	case config.ProviderGemini:
		return NewGemini(ctx, cfg)
	case config.ProviderAnthropic:
		return NewAnthropic(cfg)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}

func httpClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     30 * time.Second,
		},
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
