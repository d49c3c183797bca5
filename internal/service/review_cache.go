package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quizbot/internal/cache"
	"quizbot/internal/domain"
	"quizbot/internal/logger"

	"go.uber.org/zap"
)

// ErrReviewNotCached is returned when no report is stored for a session.
var ErrReviewNotCached = errors.New("review not found in cache")

// ReviewCache keeps the last report per session so showing it again costs no model call.
type ReviewCache interface {
	Put(ctx context.Context, sessionID string, report *domain.ReviewReport) error
	Get(ctx context.Context, sessionID string) (*domain.ReviewReport, error)
}

type reviewCache struct {
	cache domain.Cache
	ttl   time.Duration
}

func NewReviewCache(c domain.Cache, ttl time.Duration) ReviewCache {
	if c == nil {
		logger.Get().Warn("ReviewCache initialized with nil cache. Service will be no-op.")
		return noopReviewCache{}
	}
	return &reviewCache{cache: c, ttl: ttl}
}

func (r *reviewCache) Put(ctx context.Context, sessionID string, report *domain.ReviewReport) error {
	if report == nil {
		return domain.NewInvalidInputError("cannot cache nil review")
	}
	key := cache.ReviewKey(sessionID)
	data, err := json.Marshal(report)
	if err != nil {
		return domain.NewInternalError("failed to marshal review for caching", err)
	}
	if err := r.cache.Set(ctx, key, string(data), r.ttl); err != nil {
		logger.Get().Error("Failed to cache review", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError(fmt.Sprintf("failed to set review to cache for key %s", key), err)
	}
	logger.Get().Debug("Cached review", zap.String("key", key), zap.Duration("ttl", r.ttl))
	return nil
}

func (r *reviewCache) Get(ctx context.Context, sessionID string) (*domain.ReviewReport, error) {
	key := cache.ReviewKey(sessionID)
	data, err := r.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, ErrReviewNotCached
		}
		logger.Get().Error("Failed to get review from cache", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError(fmt.Sprintf("failed to get review from cache for key %s", key), err)
	}
	if data == "" {
		return nil, ErrReviewNotCached
	}

	var report domain.ReviewReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, domain.NewInternalError(fmt.Sprintf("failed to unmarshal review from cache for key %s", key), err)
	}
	return &report, nil
}

type noopReviewCache struct{}

func (noopReviewCache) Put(context.Context, string, *domain.ReviewReport) error { return nil }

func (noopReviewCache) Get(context.Context, string) (*domain.ReviewReport, error) {
	return nil, ErrReviewNotCached
}
