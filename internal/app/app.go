// Package app wires configuration into the services shared by the HTTP server
// and the terminal runner.
package app

import (
	"context"
	"errors"
	"fmt"

	"quizbot/internal/adapter"
	"quizbot/internal/adapter/llm"
	"quizbot/internal/auth"
	"quizbot/internal/cache"
	"quizbot/internal/config"
	"quizbot/internal/database"
	"quizbot/internal/domain"
	"quizbot/internal/logger"
	"quizbot/internal/repository"
	"quizbot/internal/service"
	"quizbot/internal/tool"
	"quizbot/internal/validation"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Components are the long-lived objects built from one Config.
type Components struct {
	Cache     domain.Cache
	Results   domain.QuizResultRepository
	Tokens    *auth.TokenManager
	Quiz      service.QuizService
	Registry  *tool.Registry
	Validator *validation.Validator

	closers []func() error
}

// Close releases connections in reverse order of creation.
func (c *Components) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Build connects the cache, the model provider and the history database, runs
// migrations and assembles the services. On error everything opened so far is closed.
func Build(ctx context.Context, cfg *config.Config) (_ *Components, err error) {
	log := logger.Get()
	c := &Components{}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	if cfg.Redis.Address != "" {
		client, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, client.Close)
		c.Cache = adapter.NewRedisCache(client)
		log.Info("Using Redis session store", zap.String("address", cfg.Redis.Address))
	} else {
		c.Cache = adapter.NewMemoryCache()
		log.Info("Using in-memory session store")
	}

	model, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}
	c.closers = append(c.closers, model.Close)

	db, err := openHistory(cfg)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, db.Close)
	c.Results = repository.NewSQLXQuizResultRepository(db)

	c.Tokens = auth.NewTokenManager(cfg.Auth)
	if c.Tokens == nil {
		log.Warn("auth.secret is empty, session tokens are disabled")
	}

	c.Validator = validation.NewValidator()
	rng := service.NewRandomizer(cfg.Quiz.Seed)

	c.Quiz = service.NewQuizService(service.QuizServiceDeps{
		Generator:    service.NewQuestionGenerator(model, c.Validator, rng, cfg.Quiz.MaxQuestions, cfg.LLM.Timeout),
		Summarizer:   service.NewReviewSummarizer(model, c.Validator, cfg.LLM.Timeout),
		Sessions:     service.NewSessionStore(c.Cache, cfg.Quiz.SessionTTL),
		Reviews:      service.NewReviewCache(c.Cache, cfg.Quiz.ReviewTTL),
		Results:      c.Results,
		Tokens:       c.Tokens,
		Validator:    c.Validator,
		Rand:         rng,
		MaxQuestions: cfg.Quiz.MaxQuestions,
	})
	c.Registry = tool.NewRegistry(c.Quiz, c.Validator, c.Tokens)
	return c, nil
}

func openHistory(cfg *config.Config) (*sqlx.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(db, database.Up); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}
