package domain

import (
	"context"
	"time"
)

// TextGenerator is the hosted text-generation service. Implementations return the
// raw completion text; callers own parsing and shape validation.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// TextGeneratorFunc adapts a plain function to TextGenerator.
type TextGeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f TextGeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// QuizResultRepository persists the history of reviewed sessions.
type QuizResultRepository interface {
	Save(ctx context.Context, result *QuizResult) error
	ListRecent(ctx context.Context, limit int) ([]*QuizResult, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
