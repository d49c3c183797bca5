package repository

import (
	"context"
	"fmt"
	"time"

	"quizbot/internal/domain"
	"quizbot/internal/repository/models"
)

type sqlxQuizResultRepository struct {
	db DBTX
}

// NewSQLXQuizResultRepository stores review history in quiz_results.
func NewSQLXQuizResultRepository(db DBTX) domain.QuizResultRepository {
	return &sqlxQuizResultRepository{db: db}
}

func toDomainQuizResult(m *models.QuizResult) *domain.QuizResult {
	weak := []string(m.WeakSubtopics)
	if weak == nil {
		weak = []string{}
	}
	return &domain.QuizResult{
		ID:             m.ID,
		SessionID:      m.SessionID,
		Topic:          m.Topic,
		Difficulty:     domain.Difficulty(m.Difficulty),
		TotalQuestions: m.TotalQuestions,
		Score:          m.Score,
		WeakSubtopics:  weak,
		OverallRemark:  m.OverallRemark,
		CompletedAt:    m.CompletedAt,
		CreatedAt:      m.CreatedAt,
	}
}

func fromDomainQuizResult(r *domain.QuizResult) *models.QuizResult {
	return &models.QuizResult{
		ID:             r.ID,
		SessionID:      r.SessionID,
		Topic:          r.Topic,
		Difficulty:     r.Difficulty.String(),
		TotalQuestions: r.TotalQuestions,
		Score:          r.Score,
		WeakSubtopics:  models.StringSlice(r.WeakSubtopics),
		OverallRemark:  r.OverallRemark,
		CompletedAt:    r.CompletedAt,
		CreatedAt:      r.CreatedAt,
	}
}

func (r *sqlxQuizResultRepository) Save(ctx context.Context, result *domain.QuizResult) error {
	m := fromDomainQuizResult(result)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if m.CompletedAt.IsZero() {
		m.CompletedAt = m.CreatedAt
	}
	// Stored in UTC so text-backed timestamps (sqlite) compare correctly.
	m.CompletedAt = m.CompletedAt.UTC()
	m.CreatedAt = m.CreatedAt.UTC()

	query := r.db.Rebind(`INSERT INTO quiz_results (id, session_id, topic, difficulty, total_questions, score, weak_sub_topics, overall_remark, completed_at, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	// Bound as plain JSON text for Oracle compatibility.
	weak, err := m.WeakSubtopics.Value()
	if err != nil {
		return fmt.Errorf("failed to encode weak sub-topics: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		m.ID,
		m.SessionID,
		m.Topic,
		m.Difficulty,
		m.TotalQuestions,
		m.Score,
		weak,
		m.OverallRemark,
		m.CompletedAt,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save quiz result: %w", err)
	}
	return nil
}

func (r *sqlxQuizResultRepository) ListRecent(ctx context.Context, limit int) ([]*domain.QuizResult, error) {
	base := `SELECT id, session_id, topic, difficulty, total_questions, score, weak_sub_topics, overall_remark, completed_at, created_at
	          FROM quiz_results ORDER BY completed_at DESC`

	var query string
	if r.db.DriverName() == "oracle" {
		query = r.db.Rebind(base + ` FETCH FIRST ? ROWS ONLY`)
	} else {
		query = r.db.Rebind(base + ` LIMIT ?`)
	}

	var rows []models.QuizResult
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list quiz results: %w", err)
	}

	out := make([]*domain.QuizResult, 0, len(rows))
	for i := range rows {
		out = append(out, toDomainQuizResult(&rows[i]))
	}
	return out, nil
}

func (r *sqlxQuizResultRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM quiz_results WHERE completed_at < ?`), cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge quiz results: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged quiz results: %w", err)
	}
	return n, nil
}
