package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"quizbot/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T, driverName string) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	return sqlx.NewDb(mockDB, driverName), mock
}

var resultColumns = []string{"id", "session_id", "topic", "difficulty", "total_questions", "score", "weak_sub_topics", "overall_remark", "completed_at", "created_at"}

func TestQuizResultRepository_Save(t *testing.T) {
	db, mock := setupTestDB(t, "sqlite3")
	defer db.Close()
	repo := NewSQLXQuizResultRepository(db)

	completed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	result := &domain.QuizResult{
		ID:             "01JRESULT",
		SessionID:      "01JSESSION",
		Topic:          "Python",
		Difficulty:     domain.DifficultyEasy,
		TotalQuestions: 3,
		Score:          2,
		WeakSubtopics:  []string{"list slicing"},
		OverallRemark:  "Good effort 👍",
		CompletedAt:    completed,
		CreatedAt:      completed,
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO quiz_results`)).
		WithArgs("01JRESULT", "01JSESSION", "Python", "easy", 3, 2, `["list slicing"]`, "Good effort 👍", completed, completed).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Save(context.Background(), result))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizResultRepository_SaveError(t *testing.T) {
	db, mock := setupTestDB(t, "sqlite3")
	defer db.Close()
	repo := NewSQLXQuizResultRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO quiz_results`)).WillReturnError(errors.New("disk full"))

	err := repo.Save(context.Background(), &domain.QuizResult{ID: "x", SessionID: "s"})
	assert.ErrorContains(t, err, "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizResultRepository_ListRecent(t *testing.T) {
	db, mock := setupTestDB(t, "postgres")
	defer db.Close()
	repo := NewSQLXQuizResultRepository(db)

	now := time.Now().Truncate(time.Second)
	rows := sqlmock.NewRows(resultColumns).
		AddRow("r2", "s2", "Go", "hard", 5, 5, "[]", "Perfect 🎉", now, now).
		AddRow("r1", "s1", "Python", "easy", 3, 2, `["loops"]`, "Nice 👍", now.Add(-time.Hour), now.Add(-time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta(`FROM quiz_results ORDER BY completed_at DESC LIMIT $1`)).
		WithArgs(10).
		WillReturnRows(rows)

	results, err := repo.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "r2", results[0].ID)
	assert.Equal(t, []string{}, results[0].WeakSubtopics)
	assert.Equal(t, domain.DifficultyEasy, results[1].Difficulty)
	assert.Equal(t, []string{"loops"}, results[1].WeakSubtopics)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizResultRepository_ListRecentOracle(t *testing.T) {
	sqlx.BindDriver("oracle", sqlx.NAMED)
	db, mock := setupTestDB(t, "oracle")
	defer db.Close()
	repo := NewSQLXQuizResultRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY completed_at DESC FETCH FIRST :arg1 ROWS ONLY`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(resultColumns))

	results, err := repo.ListRecent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizResultRepository_DeleteOlderThan(t *testing.T) {
	db, mock := setupTestDB(t, "sqlite3")
	defer db.Close()
	repo := NewSQLXQuizResultRepository(db)

	cutoff := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM quiz_results WHERE completed_at < ?`)).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.DeleteOlderThan(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
