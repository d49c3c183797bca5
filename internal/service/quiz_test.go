package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"quizbot/internal/adapter"
	"quizbot/internal/auth"
	"quizbot/internal/config"
	"quizbot/internal/domain"
	"quizbot/internal/dto"
	"quizbot/internal/service"
	"quizbot/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type quizFixture struct {
	svc      service.QuizService
	gen      *scriptedLLM
	reviewer *scriptedLLM
	repo     *MockQuizResultRepository
	sessions service.SessionStore
}

func newQuizFixture(t *testing.T, questions int, tokens *auth.TokenManager) *quizFixture {
	t.Helper()
	v := validation.NewValidator()
	rng := service.NewRandomizer(99)
	memory := adapter.NewMemoryCache()

	f := &quizFixture{
		gen:      &scriptedLLM{responses: []string{questionsPayload(sampleQuestions(questions))}},
		reviewer: &scriptedLLM{responses: []string{reviewPayload("Solid 💪", []string{"concurrency"}, "Keep it up")}},
		repo:     new(MockQuizResultRepository),
		sessions: service.NewSessionStore(memory, time.Hour),
	}
	f.svc = service.NewQuizService(service.QuizServiceDeps{
		Generator:    service.NewQuestionGenerator(f.gen, v, rng, 20, time.Second),
		Summarizer:   service.NewReviewSummarizer(f.reviewer, v, time.Second),
		Sessions:     f.sessions,
		Reviews:      service.NewReviewCache(memory, time.Hour),
		Results:      f.repo,
		Tokens:       tokens,
		Validator:    v,
		Rand:         rng,
		MaxQuestions: 20,
	})
	return f
}

// answerAll answers every question, getting the indices in wrong incorrect.
func answerAll(t *testing.T, f *quizFixture, sessionID string, wrong ...int) {
	t.Helper()
	miss := map[int]bool{}
	for _, i := range wrong {
		miss[i] = true
	}
	s, err := f.sessions.Load(context.Background(), sessionID)
	require.NoError(t, err)
	for i, q := range s.Questions {
		_, err := f.svc.SubmitAnswer(context.Background(), sessionID, &dto.SubmitAnswerRequest{Label: labelFor(q, !miss[i])})
		require.NoError(t, err)
	}
}

func TestQuizService_CreateQuiz(t *testing.T) {
	f := newQuizFixture(t, 3, nil)

	resp, err := f.svc.CreateQuiz(context.Background(), &dto.CreateQuizRequest{Topic: " Go ", Count: 3, Difficulty: "Easy"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Session.ID)
	assert.Equal(t, "Go", resp.Session.Topic)
	assert.Equal(t, "easy", resp.Session.Difficulty)
	assert.Equal(t, 3, resp.Session.TotalQuestions)
	assert.Equal(t, string(domain.StateAwaitingAnswer), resp.Session.State)
	require.NotNil(t, resp.Session.Current)
	assert.Equal(t, 0, resp.Session.Current.Index)
	assert.Nil(t, resp.Session.Current.Correct)
	assert.Len(t, resp.Session.Questions, 1)
	assert.Empty(t, resp.Token)

	stored, err := f.sessions.Load(context.Background(), resp.Session.ID)
	require.NoError(t, err)
	for _, q := range stored.Questions {
		assert.ElementsMatch(t, q.Options, q.Presented)
	}
}

func TestQuizService_CreateQuizValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   *dto.CreateQuizRequest
		field string
	}{
		{"blank topic", &dto.CreateQuizRequest{Topic: "", Count: 3, Difficulty: "easy"}, "topic"},
		{"zero count", &dto.CreateQuizRequest{Topic: "Go", Count: 0, Difficulty: "easy"}, "count"},
		{"over cap", &dto.CreateQuizRequest{Topic: "Go", Count: 21, Difficulty: "easy"}, "count"},
		{"bad difficulty", &dto.CreateQuizRequest{Topic: "Go", Count: 3, Difficulty: "insane"}, "difficulty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newQuizFixture(t, 3, nil)
			_, err := f.svc.CreateQuiz(context.Background(), tt.req)
			require.Error(t, err)

			var verrs domain.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field)
			assert.Zero(t, f.gen.calls())
		})
	}

	f := newQuizFixture(t, 3, nil)
	_, err := f.svc.CreateQuiz(context.Background(), nil)
	assert.True(t, domain.IsValidationFailure(err))
}

func TestQuizService_CreateQuizGenerationFailure(t *testing.T) {
	f := newQuizFixture(t, 3, nil)
	f.gen.responses = []string{`{"questions": []}`}

	_, err := f.svc.CreateQuiz(context.Background(), &dto.CreateQuizRequest{Topic: "Go", Count: 3, Difficulty: "easy"})
	require.Error(t, err)
	assert.True(t, domain.IsGenerationFailure(err))
}

func TestQuizService_IssuesSessionToken(t *testing.T) {
	tm := auth.NewTokenManager(config.AuthConfig{Secret: "test-secret", TokenTTL: time.Hour})
	f := newQuizFixture(t, 2, tm)

	resp, err := f.svc.CreateQuiz(context.Background(), &dto.CreateQuizRequest{Topic: "Go", Count: 2, Difficulty: "easy"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.NoError(t, tm.Authorize(resp.Token, resp.Session.ID))
}

func TestQuizService_AnswerLoop(t *testing.T) {
	f := newQuizFixture(t, 2, nil)
	ctx := context.Background()
	created, err := f.svc.CreateQuiz(ctx, &dto.CreateQuizRequest{Topic: "Go", Count: 2, Difficulty: "medium"})
	require.NoError(t, err)
	id := created.Session.ID

	stored, err := f.sessions.Load(ctx, id)
	require.NoError(t, err)

	first, err := f.svc.SubmitAnswer(ctx, id, &dto.SubmitAnswerRequest{Label: labelFor(stored.Questions[0], false)})
	require.NoError(t, err)
	assert.False(t, first.Result.Correct)
	assert.Equal(t, stored.Questions[0].LabelFor(stored.Questions[0].Answer), first.Result.CorrectLabel)
	assert.Equal(t, []int{0}, first.Session.Incorrect)
	assert.Equal(t, 1, first.Session.CurrentIndex)

	// Answers are accepted in lower case.
	overwrite := 0
	fixed, err := f.svc.SubmitAnswer(ctx, id, &dto.SubmitAnswerRequest{
		Label: labelLower(labelFor(stored.Questions[0], true)),
		Index: &overwrite,
	})
	require.NoError(t, err)
	assert.True(t, fixed.Result.Correct)
	assert.True(t, fixed.Result.Overwrote)
	assert.Equal(t, 1, fixed.Session.Score)
	assert.Empty(t, fixed.Session.Incorrect)
	assert.Equal(t, 1, fixed.Session.CurrentIndex)

	_, err = f.svc.SubmitAnswer(ctx, id, &dto.SubmitAnswerRequest{Label: "Z"})
	require.Error(t, err)
	assert.True(t, domain.IsValidationFailure(err))

	last, err := f.svc.SubmitAnswer(ctx, id, &dto.SubmitAnswerRequest{Label: labelFor(stored.Questions[1], true)})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StateComplete), last.Session.State)
	assert.Equal(t, 2, last.Session.Score)
	assert.Nil(t, last.Session.Current)
	assert.NotNil(t, last.Session.CompletedAt)

	_, err = f.svc.SubmitAnswer(ctx, id, &dto.SubmitAnswerRequest{Label: "A"})
	var derr *domain.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.CodeSessionComplete, derr.Code)
}

func labelLower(l string) string {
	return string(rune(l[0]) + ('a' - 'A'))
}

func TestQuizService_SubmitAnswerUnknownSession(t *testing.T) {
	f := newQuizFixture(t, 1, nil)
	_, err := f.svc.SubmitAnswer(context.Background(), "missing", &dto.SubmitAnswerRequest{Label: "A"})
	assert.True(t, domain.IsNotFound(err))
}

func TestQuizService_ReviewQuiz(t *testing.T) {
	f := newQuizFixture(t, 3, nil)
	ctx := context.Background()
	created, err := f.svc.CreateQuiz(ctx, &dto.CreateQuizRequest{Topic: "Go", Count: 3, Difficulty: "hard"})
	require.NoError(t, err)
	id := created.Session.ID

	_, err = f.svc.ReviewQuiz(ctx, id, false)
	var derr *domain.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.CodeSessionNotComplete, derr.Code)

	answerAll(t, f, id, 1)

	f.repo.On("Save", mock.Anything, mock.MatchedBy(func(r *domain.QuizResult) bool {
		return r.SessionID == id && r.Score == 2 && r.TotalQuestions == 3
	})).Return(nil)

	review, err := f.svc.ReviewQuiz(ctx, id, false)
	require.NoError(t, err)
	assert.False(t, review.Cached)
	assert.Equal(t, 2, review.Score)
	assert.Equal(t, 3, review.Total)
	assert.Equal(t, []string{"concurrency"}, review.Report.WeakSubtopics)

	again, err := f.svc.ReviewQuiz(ctx, id, false)
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, review.Report, again.Report)
	assert.Equal(t, 1, f.reviewer.calls())

	_, err = f.svc.ReviewQuiz(ctx, id, true)
	require.NoError(t, err)
	assert.Equal(t, 2, f.reviewer.calls())

	f.repo.AssertNumberOfCalls(t, "Save", 2)
}

func TestQuizService_ReviewSurvivesHistoryFailure(t *testing.T) {
	f := newQuizFixture(t, 1, nil)
	ctx := context.Background()
	created, err := f.svc.CreateQuiz(ctx, &dto.CreateQuizRequest{Topic: "Go", Count: 1, Difficulty: "easy"})
	require.NoError(t, err)
	answerAll(t, f, created.Session.ID, 0)

	f.repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	review, err := f.svc.ReviewQuiz(ctx, created.Session.ID, false)
	require.NoError(t, err)
	assert.NotEmpty(t, review.Report.OverallRemark)
}

func TestQuizService_ReviewFailureIsNotCached(t *testing.T) {
	f := newQuizFixture(t, 1, nil)
	ctx := context.Background()
	created, err := f.svc.CreateQuiz(ctx, &dto.CreateQuizRequest{Topic: "Go", Count: 1, Difficulty: "easy"})
	require.NoError(t, err)
	answerAll(t, f, created.Session.ID, 0)

	f.reviewer.responses = []string{"not json", reviewPayload("Ok", []string{"slices"}, "Next time")}
	f.repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	_, err = f.svc.ReviewQuiz(ctx, created.Session.ID, false)
	require.Error(t, err)
	assert.True(t, domain.IsReviewFailure(err))

	review, err := f.svc.ReviewQuiz(ctx, created.Session.ID, false)
	require.NoError(t, err)
	assert.False(t, review.Cached)
}

func TestQuizService_ConcurrentSubmissionsAdvanceOnce(t *testing.T) {
	f := newQuizFixture(t, 5, nil)
	ctx := context.Background()
	created, err := f.svc.CreateQuiz(ctx, &dto.CreateQuizRequest{Topic: "Go", Count: 5, Difficulty: "easy"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.SubmitAnswer(ctx, created.Session.ID, &dto.SubmitAnswerRequest{Label: "A"})
		}()
	}
	wg.Wait()

	s, err := f.svc.GetSession(ctx, created.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StateComplete), s.State)
	assert.Equal(t, 5, s.CurrentIndex)
}

func TestQuizService_ListResults(t *testing.T) {
	f := newQuizFixture(t, 1, nil)
	ctx := context.Background()
	completed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	f.repo.On("ListRecent", mock.Anything, service.DefaultResultLimit).Return([]*domain.QuizResult{
		{ID: "r1", SessionID: "s1", Topic: "Go", Difficulty: domain.DifficultyEasy, Score: 3, TotalQuestions: 4, CompletedAt: completed},
	}, nil)

	resp, err := f.svc.ListResults(ctx, 0)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "r1", resp.Results[0].ID)
	assert.Equal(t, []string{}, resp.Results[0].WeakSubtopics)

	for _, limit := range []int{-1, service.MaxResultLimit + 1} {
		_, err := f.svc.ListResults(ctx, limit)
		assert.True(t, domain.IsValidationFailure(err), "limit %d", limit)
	}
	f.repo.AssertExpectations(t)
}

func TestQuizService_ListResultsWithoutHistory(t *testing.T) {
	svc := service.NewQuizService(service.QuizServiceDeps{MaxQuestions: 10})
	resp, err := svc.ListResults(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
}

func TestQuizService_ReviewOutlivesCancelledCaller(t *testing.T) {
	f := newQuizFixture(t, 2, nil)
	ctx := context.Background()
	created, err := f.svc.CreateQuiz(ctx, &dto.CreateQuizRequest{Topic: "Go", Count: 2, Difficulty: "easy"})
	require.NoError(t, err)
	id := created.Session.ID
	answerAll(t, f, id, 1)

	entered := make(chan struct{})
	release := make(chan struct{})
	model := domain.TextGeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		close(entered)
		<-release
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return reviewPayload("Nice", []string{"maps"}, "Onward"), nil
	})
	memory := adapter.NewMemoryCache()
	sessions := service.NewSessionStore(memory, time.Hour)
	stored, err := f.sessions.Load(ctx, id)
	require.NoError(t, err)
	require.NoError(t, sessions.Save(ctx, stored))

	repo := new(MockQuizResultRepository)
	repo.On("Save", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil }), mock.Anything).Return(nil)
	svc := service.NewQuizService(service.QuizServiceDeps{
		Summarizer:   service.NewReviewSummarizer(model, validation.NewValidator(), time.Second),
		Sessions:     sessions,
		Reviews:      service.NewReviewCache(memory, time.Hour),
		Results:      repo,
		MaxQuestions: 20,
	})

	callerCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		_, err := svc.ReviewQuiz(callerCtx, id, false)
		done <- err
	}()

	<-entered
	cancel()
	close(release)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("review did not return")
	}

	cached, err := svc.ReviewQuiz(ctx, id, false)
	require.NoError(t, err)
	assert.True(t, cached.Cached)
	repo.AssertExpectations(t)
}

func TestQuizService_DeleteSession(t *testing.T) {
	f := newQuizFixture(t, 2, nil)
	ctx := context.Background()
	created, err := f.svc.CreateQuiz(ctx, &dto.CreateQuizRequest{Topic: "Go", Count: 2, Difficulty: "easy"})
	require.NoError(t, err)
	id := created.Session.ID

	require.NoError(t, f.svc.DeleteSession(ctx, id))

	_, err = f.svc.GetSession(ctx, id)
	var derr *domain.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.CodeSessionNotFound, derr.Code)

	err = f.svc.DeleteSession(ctx, id)
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.CodeSessionNotFound, derr.Code)
}
