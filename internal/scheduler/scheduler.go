package scheduler

import (
	"context"
	"fmt"
	"time"

	"quizbot/internal/config"
	"quizbot/internal/domain"
	"quizbot/internal/logger"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

const purgeTimeout = 30 * time.Second

// Scheduler runs the periodic history maintenance jobs.
type Scheduler struct {
	scheduler *gocron.Scheduler
	results   domain.QuizResultRepository
	cfg       config.HistoryConfig
	now       func() time.Time
}

// New creates a scheduler that purges results older than cfg.Retention.
func New(results domain.QuizResultRepository, cfg config.HistoryConfig) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		results:   results,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Start schedules the purge job and returns without blocking. A zero
// retention or interval disables it.
func (s *Scheduler) Start() error {
	if s.results == nil || s.cfg.Retention <= 0 || s.cfg.PurgeInterval <= 0 {
		logger.Get().Info("History purge disabled")
		return nil
	}
	if _, err := s.scheduler.Every(s.cfg.PurgeInterval).SingletonMode().Do(s.purgeJob); err != nil {
		return fmt.Errorf("failed to schedule history purge: %w", err)
	}
	s.scheduler.StartAsync()
	logger.Get().Info("History purge scheduled",
		zap.Duration("interval", s.cfg.PurgeInterval),
		zap.Duration("retention", s.cfg.Retention))
	return nil
}

// Stop terminates all scheduled jobs.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) purgeJob() {
	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()
	if _, err := s.Purge(ctx); err != nil {
		logger.Get().Error("History purge failed", zap.Error(err))
	}
}

// Purge deletes every result completed before now minus the retention.
func (s *Scheduler) Purge(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.cfg.Retention)
	n, err := s.results.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Get().Info("Purged old quiz results", zap.Int64("deleted", n), zap.Time("cutoff", cutoff))
	}
	return n, nil
}
