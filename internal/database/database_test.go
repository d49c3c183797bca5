package database

import (
	"context"
	"testing"
	"time"

	"quizbot/internal/config"
	"quizbot/internal/domain"
	"quizbot/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteMigrateAndRepository(t *testing.T) {
	cfg := &config.Config{DB: config.DBConfig{Driver: "sqlite3", DSN: "file:migrate_test?mode=memory&cache=shared"}}
	db, err := Open(cfg)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db, Up))
	require.NoError(t, Migrate(db, Up), "re-running up is a no-op")

	repo := repository.NewSQLXQuizResultRepository(db)
	ctx := context.Background()
	old := time.Now().Add(-48 * time.Hour).UTC().Truncate(time.Second)
	recent := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, repo.Save(ctx, &domain.QuizResult{
		ID: "01OLD", SessionID: "s-old", Topic: "History", Difficulty: domain.DifficultyHard,
		TotalQuestions: 4, Score: 1, WeakSubtopics: []string{"treaties"}, OverallRemark: "Keep going 💡",
		CompletedAt: old, CreatedAt: old,
	}))
	require.NoError(t, repo.Save(ctx, &domain.QuizResult{
		ID: "01NEW", SessionID: "s-new", Topic: "Python", Difficulty: domain.DifficultyEasy,
		TotalQuestions: 3, Score: 3, OverallRemark: "Excellent 🎉",
		CompletedAt: recent, CreatedAt: recent,
	}))

	results, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "01NEW", results[0].ID)
	assert.Equal(t, []string{}, results[0].WeakSubtopics)
	assert.Equal(t, []string{"treaties"}, results[1].WeakSubtopics)

	purged, err := repo.DeleteOlderThan(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	require.NoError(t, Migrate(db, Down))
}
