package service

import (
	"context"
	"errors"
	"hash/fnv"
	"math/rand/v2"
	"strings"
	"sync"

	"quizbot/internal/auth"
	"quizbot/internal/domain"
	"quizbot/internal/dto"
	"quizbot/internal/logger"
	"quizbot/internal/util"
	"quizbot/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultResultLimit = 10
	MaxResultLimit     = 50
	sessionLockStripes = 64
)

// QuizService runs the generate, answer, review flow over stored sessions.
type QuizService interface {
	CreateQuiz(ctx context.Context, req *dto.CreateQuizRequest) (*dto.CreateQuizResponse, error)
	GetSession(ctx context.Context, sessionID string) (*dto.SessionView, error)
	SubmitAnswer(ctx context.Context, sessionID string, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error)
	ReviewQuiz(ctx context.Context, sessionID string, refresh bool) (*dto.ReviewResponse, error)
	ListResults(ctx context.Context, limit int) (*dto.ResultListResponse, error)
	// DeleteSession abandons a session. Its history row, if any, is kept.
	DeleteSession(ctx context.Context, sessionID string) error
	// LoadSession returns the stored session itself, for exporters.
	LoadSession(ctx context.Context, sessionID string) (*domain.QuizSession, error)
}

type quizService struct {
	generator    QuestionGenerator
	summarizer   ReviewSummarizer
	sessions     SessionStore
	reviews      ReviewCache
	results      domain.QuizResultRepository
	tokens       *auth.TokenManager
	validator    *validation.Validator
	rng          *Randomizer
	maxQuestions int

	reviewGroup singleflight.Group
	locks       [sessionLockStripes]sync.Mutex
}

// QuizServiceDeps groups the collaborators of NewQuizService. Results and
// Tokens may be nil: history is then not recorded and sessions are unowned.
type QuizServiceDeps struct {
	Generator    QuestionGenerator
	Summarizer   ReviewSummarizer
	Sessions     SessionStore
	Reviews      ReviewCache
	Results      domain.QuizResultRepository
	Tokens       *auth.TokenManager
	Validator    *validation.Validator
	Rand         *Randomizer
	MaxQuestions int
}

func NewQuizService(deps QuizServiceDeps) QuizService {
	if deps.Reviews == nil {
		deps.Reviews = noopReviewCache{}
	}
	if deps.Validator == nil {
		deps.Validator = validation.NewValidator()
	}
	if deps.Rand == nil {
		deps.Rand = NewRandomizer(0)
	}
	return &quizService{
		generator:    deps.Generator,
		summarizer:   deps.Summarizer,
		sessions:     deps.Sessions,
		reviews:      deps.Reviews,
		results:      deps.Results,
		tokens:       deps.Tokens,
		validator:    deps.Validator,
		rng:          deps.Rand,
		maxQuestions: deps.MaxQuestions,
	}
}

// lock serializes writers of one session. Readers do not take it.
func (s *quizService) lock(sessionID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	mu := &s.locks[h.Sum32()%sessionLockStripes]
	mu.Lock()
	return mu.Unlock
}

func (s *quizService) CreateQuiz(ctx context.Context, req *dto.CreateQuizRequest) (*dto.CreateQuizResponse, error) {
	if req == nil {
		return nil, domain.NewInvalidInputError("request body is required")
	}
	errs := s.validator.Struct(req)
	errs = append(errs, ValidateGenerationInput(req.Topic, req.Count, s.maxQuestions)...)
	if len(errs) > 0 {
		return nil, dedupeFieldErrors(errs)
	}
	difficulty, err := domain.ParseDifficulty(req.Difficulty)
	if err != nil {
		return nil, err
	}
	topic := strings.TrimSpace(req.Topic)

	generated, err := s.generator.Generate(ctx, topic, req.Count, difficulty)
	if err != nil {
		return nil, err
	}

	var session *domain.QuizSession
	s.rng.with(func(r *rand.Rand) {
		session, err = domain.NewQuizSession(util.NewULID(), topic, req.Count, difficulty, generated.Questions, r)
	})
	if err != nil {
		return nil, domain.NewGenerationError("generated questions could not start a session", err)
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	resp := &dto.CreateQuizResponse{
		Session:  dto.NewSessionView(session),
		Warnings: generated.Warnings,
	}
	if s.tokens != nil {
		token, err := s.tokens.Issue(session.ID)
		if err != nil {
			return nil, domain.NewInternalError("failed to issue session token", err)
		}
		resp.Token = token
	}

	logger.Get().Info("Quiz session created",
		zap.String("session_id", session.ID),
		zap.String("topic", topic),
		zap.Int("questions", len(session.Questions)))
	return resp, nil
}

func (s *quizService) LoadSession(ctx context.Context, sessionID string) (*domain.QuizSession, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("session_id")}
	}
	return s.sessions.Load(ctx, sessionID)
}

func (s *quizService) GetSession(ctx context.Context, sessionID string) (*dto.SessionView, error) {
	session, err := s.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	view := dto.NewSessionView(session)
	return &view, nil
}

func (s *quizService) SubmitAnswer(ctx context.Context, sessionID string, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
	if req == nil {
		return nil, domain.NewInvalidInputError("request body is required")
	}
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	unlock := s.lock(sessionID)
	defer unlock()

	session, err := s.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var result *domain.SubmitResult
	if req.Index != nil {
		result, err = session.SubmitAt(*req.Index, req.Label)
	} else {
		result, err = session.Submit(req.Label)
	}
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	return &dto.SubmitAnswerResponse{
		Result:  dto.NewAnswerResult(result),
		Session: dto.NewSessionView(session),
	}, nil
}

func (s *quizService) DeleteSession(ctx context.Context, sessionID string) error {
	unlock := s.lock(sessionID)
	defer unlock()

	if _, err := s.LoadSession(ctx, sessionID); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	logger.Get().Info("Quiz session deleted", zap.String("session_id", sessionID))
	return nil
}

// ReviewQuiz returns the cached report unless refresh is set. Concurrent calls
// for one session share a single upstream request.
func (s *quizService) ReviewQuiz(ctx context.Context, sessionID string, refresh bool) (*dto.ReviewResponse, error) {
	session, err := s.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsComplete() {
		return nil, domain.NewSessionNotCompleteError(len(session.Answers), len(session.Questions))
	}

	if !refresh {
		cached, err := s.reviews.Get(ctx, sessionID)
		if err == nil {
			return newReviewResponse(session, cached, true), nil
		}
		if !errors.Is(err, ErrReviewNotCached) {
			logger.Get().Warn("Review cache read failed, regenerating", zap.String("session_id", sessionID), zap.Error(err))
		}
	}

	// The shared call outlives any one waiter; Summarize still bounds it by llm.timeout.
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.reviewGroup.Do(sessionID, func() (interface{}, error) {
		report, err := s.summarizer.Summarize(shared, session)
		if err != nil {
			return nil, err
		}
		if err := s.reviews.Put(shared, sessionID, report); err != nil {
			logger.Get().Warn("Failed to cache review", zap.String("session_id", sessionID), zap.Error(err))
		}
		s.recordResult(shared, session, report)
		return report, nil
	})
	if err != nil {
		return nil, err
	}
	return newReviewResponse(session, v.(*domain.ReviewReport), false), nil
}

// recordResult writes the history row. Failures are logged: the review is still shown.
func (s *quizService) recordResult(ctx context.Context, session *domain.QuizSession, report *domain.ReviewReport) {
	if s.results == nil {
		return
	}
	result := domain.NewQuizResult(util.NewULID(), session, report)
	if err := s.results.Save(ctx, result); err != nil {
		logger.Get().Error("Failed to record quiz result", zap.String("session_id", session.ID), zap.Error(err))
	}
}

func newReviewResponse(session *domain.QuizSession, report *domain.ReviewReport, cached bool) *dto.ReviewResponse {
	return &dto.ReviewResponse{
		SessionID: session.ID,
		Score:     session.Score,
		Total:     len(session.Questions),
		Report:    dto.NewReviewView(report),
		Cached:    cached,
	}
}

func (s *quizService) ListResults(ctx context.Context, limit int) (*dto.ResultListResponse, error) {
	if limit == 0 {
		limit = DefaultResultLimit
	}
	if limit < 1 || limit > MaxResultLimit {
		return nil, domain.ValidationErrors{domain.NewOutOfRangeError("limit", limit, 1, MaxResultLimit)}
	}
	if s.results == nil {
		return &dto.ResultListResponse{Results: []dto.ResultResponse{}}, nil
	}

	results, err := s.results.ListRecent(ctx, limit)
	if err != nil {
		return nil, domain.NewInternalError("failed to list quiz results", err)
	}
	out := make([]dto.ResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, dto.NewResultResponse(r))
	}
	return &dto.ResultListResponse{Results: out}, nil
}

// dedupeFieldErrors keeps the first error reported for each field.
func dedupeFieldErrors(errs domain.ValidationErrors) domain.ValidationErrors {
	seen := make(map[string]struct{}, len(errs))
	out := make(domain.ValidationErrors, 0, len(errs))
	for _, e := range errs {
		if _, dup := seen[e.Field]; dup && e.Field != "" {
			continue
		}
		seen[e.Field] = struct{}{}
		out = append(out, e)
	}
	return out
}
