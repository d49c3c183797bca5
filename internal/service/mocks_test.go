package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"quizbot/internal/domain"

	"github.com/stretchr/testify/mock"
)

// ManualMockCache implements domain.Cache with overridable funcs.
type ManualMockCache struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
	PingFunc   func(ctx context.Context) error
}

func (m *ManualMockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", errors.New("GetFunc not set")
}

func (m *ManualMockCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	return errors.New("SetFunc not set")
}

func (m *ManualMockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return errors.New("DeleteFunc not set")
}

func (m *ManualMockCache) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// MockQuizResultRepository is a testify mock of domain.QuizResultRepository.
type MockQuizResultRepository struct {
	mock.Mock
}

func (m *MockQuizResultRepository) Save(ctx context.Context, result *domain.QuizResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockQuizResultRepository) ListRecent(ctx context.Context, limit int) ([]*domain.QuizResult, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.QuizResult), args.Error(1)
}

func (m *MockQuizResultRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// scriptedLLM replies with the queued responses in order and records every prompt.
type scriptedLLM struct {
	responses []string
	err       error
	mu        sync.Mutex
	prompts   []string
}

func (s *scriptedLLM) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

func (s *scriptedLLM) Generate(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	n := len(s.prompts)
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "", errors.New("no scripted response")
	}
	if n > len(s.responses) {
		return s.responses[len(s.responses)-1], nil
	}
	return s.responses[n-1], nil
}

// sampleQuestions returns n valid questions. The answer of question i is "Answer i".
func sampleQuestions(n int) []domain.QuizQuestion {
	out := make([]domain.QuizQuestion, n)
	for i := range out {
		out[i] = domain.QuizQuestion{
			Question: fmt.Sprintf("Question %d?", i),
			Options: []string{
				fmt.Sprintf("Answer %d", i),
				fmt.Sprintf("Wrong %d-1", i),
				fmt.Sprintf("Wrong %d-2", i),
				fmt.Sprintf("Wrong %d-3", i),
			},
			Answer: fmt.Sprintf("Answer %d", i),
		}
	}
	return out
}

func questionsPayload(qs []domain.QuizQuestion) string {
	data, err := json.Marshal(map[string]any{"questions": qs})
	if err != nil {
		panic(err)
	}
	return string(data)
}

func reviewPayload(remark string, weak []string, encouragement string) string {
	data, err := json.Marshal(domain.ReviewReport{
		OverallRemark: remark,
		WeakSubtopics: weak,
		Encouragement: encouragement,
	})
	if err != nil {
		panic(err)
	}
	return string(data)
}
