package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"quizbot/internal/config"
	"quizbot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResults struct {
	mu      sync.Mutex
	cutoffs []time.Time
	deleted int64
	err     error
}

func (f *fakeResults) Save(context.Context, *domain.QuizResult) error { return nil }

func (f *fakeResults) ListRecent(context.Context, int) ([]*domain.QuizResult, error) {
	return nil, nil
}

func (f *fakeResults) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.deleted, f.err
}

func (f *fakeResults) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cutoffs)
}

func TestPurgeUsesRetentionCutoff(t *testing.T) {
	repo := &fakeResults{deleted: 4}
	s := New(repo, config.HistoryConfig{Retention: 48 * time.Hour, PurgeInterval: time.Hour})
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	n, err := s.Purge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	require.Len(t, repo.cutoffs, 1)
	assert.Equal(t, now.Add(-48*time.Hour), repo.cutoffs[0])
}

func TestPurgeError(t *testing.T) {
	repo := &fakeResults{err: errors.New("db locked")}
	s := New(repo, config.HistoryConfig{Retention: time.Hour, PurgeInterval: time.Hour})

	_, err := s.Purge(context.Background())
	assert.EqualError(t, err, "db locked")
}

func TestStartRunsPurge(t *testing.T) {
	repo := &fakeResults{}
	s := New(repo, config.HistoryConfig{Retention: time.Hour, PurgeInterval: 50 * time.Millisecond})
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return repo.calls() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestStartDisabled(t *testing.T) {
	repo := &fakeResults{}
	s := New(repo, config.HistoryConfig{Retention: 0, PurgeInterval: time.Hour})
	require.NoError(t, s.Start())
	s.Stop()
	assert.Zero(t, repo.calls())
}
