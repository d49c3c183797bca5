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

// SessionStore keeps quiz sessions between requests.
type SessionStore interface {
	Save(ctx context.Context, session *domain.QuizSession) error
	Load(ctx context.Context, sessionID string) (*domain.QuizSession, error)
	Delete(ctx context.Context, sessionID string) error
}

type cacheSessionStore struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewSessionStore stores sessions as JSON in cache. Each save refreshes the ttl.
func NewSessionStore(c domain.Cache, ttl time.Duration) SessionStore {
	return &cacheSessionStore{cache: c, ttl: ttl}
}

func (s *cacheSessionStore) Save(ctx context.Context, session *domain.QuizSession) error {
	if session == nil || session.ID == "" {
		return domain.NewInvalidInputError("cannot store a session without an id")
	}
	data, err := json.Marshal(session)
	if err != nil {
		return domain.NewInternalError("failed to marshal quiz session", err)
	}

	key := cache.SessionKey(session.ID)
	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		logger.Get().Error("Failed to store quiz session", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError(fmt.Sprintf("failed to store quiz session %s", session.ID), err)
	}
	return nil
}

func (s *cacheSessionStore) Load(ctx context.Context, sessionID string) (*domain.QuizSession, error) {
	key := cache.SessionKey(sessionID)
	data, err := s.cache.Get(ctx, key)
	if errors.Is(err, domain.ErrCacheMiss) || (err == nil && data == "") {
		return nil, domain.NewSessionNotFoundError(sessionID)
	}
	if err != nil {
		logger.Get().Error("Failed to load quiz session", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError(fmt.Sprintf("failed to load quiz session %s", sessionID), err)
	}

	var session domain.QuizSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		logger.Get().Error("Corrupt quiz session in cache", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError(fmt.Sprintf("failed to decode quiz session %s", sessionID), err)
	}
	if session.Answers == nil {
		session.Answers = make(map[int]string)
	}
	if session.Incorrect == nil {
		session.Incorrect = make(map[int]struct{})
	}
	return &session, nil
}

func (s *cacheSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.cache.Delete(ctx, cache.SessionKey(sessionID)); err != nil {
		return domain.NewInternalError(fmt.Sprintf("failed to delete quiz session %s", sessionID), err)
	}
	return nil
}
