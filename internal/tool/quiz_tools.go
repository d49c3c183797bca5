package tool

import (
	"context"

	"quizbot/internal/auth"
	"quizbot/internal/dto"
	"quizbot/internal/service"
	"quizbot/internal/validation"
)

// Operation names.
const (
	GenerateQuiz = "generate_quiz"
	GetSession   = "get_session"
	SubmitAnswer = "submit_answer"
	ReviewQuiz   = "review_quiz"
	ListResults  = "list_results"
)

type GenerateQuizInput struct {
	Topic      string `json:"topic" validate:"notblank,max=200" jsonschema:"title=topic,description=subject of the quiz,minLength=1,maxLength=200"`
	Count      int    `json:"count" validate:"min=1" jsonschema:"title=count,description=number of questions to generate,minimum=1"`
	Difficulty string `json:"difficulty" validate:"difficulty" jsonschema:"title=difficulty,enum=easy,enum=medium,enum=hard"`
}

type SessionInput struct {
	SessionID string `json:"session_id" validate:"notblank" jsonschema:"title=session_id,description=id returned by generate_quiz"`
}

func (in *SessionInput) sessionRef() string { return in.SessionID }

type SubmitAnswerInput struct {
	SessionID string `json:"session_id" validate:"notblank" jsonschema:"title=session_id"`
	Label     string `json:"label" validate:"notblank" jsonschema:"title=label,description=option label such as A or b"`
	Index     *int   `json:"index,omitempty" validate:"omitempty,min=0" jsonschema:"title=index,description=earlier question to re-answer,minimum=0"`
}

func (in *SubmitAnswerInput) sessionRef() string { return in.SessionID }

type ReviewQuizInput struct {
	SessionID string `json:"session_id" validate:"notblank" jsonschema:"title=session_id"`
	Refresh   bool   `json:"refresh,omitempty" jsonschema:"title=refresh,description=regenerate instead of returning the cached review"`
}

func (in *ReviewQuizInput) sessionRef() string { return in.SessionID }

type ListResultsInput struct {
	Limit int `json:"limit,omitempty" validate:"omitempty,min=1,max=50" jsonschema:"title=limit,description=defaults to 10,minimum=1,maximum=50"`
}

// NewRegistry wires the quiz operations over svc. tokens may be nil.
func NewRegistry(svc service.QuizService, v *validation.Validator, tokens *auth.TokenManager) *Registry {
	r := &Registry{tools: make(map[string]AnonymousTool)}

	r.register(&Tool[GenerateQuizInput, dto.CreateQuizResponse]{
		name:        GenerateQuiz,
		description: "Generate a multiple-choice quiz for a topic and start a session.",
		validator:   v,
		run: func(ctx context.Context, in *GenerateQuizInput) (*dto.CreateQuizResponse, error) {
			return svc.CreateQuiz(ctx, &dto.CreateQuizRequest{Topic: in.Topic, Count: in.Count, Difficulty: in.Difficulty})
		},
	})
	r.register(&Tool[SessionInput, dto.SessionView]{
		name:        GetSession,
		description: "Show the current question and progress of a session.",
		validator:   v,
		run: func(ctx context.Context, in *SessionInput) (*dto.SessionView, error) {
			return svc.GetSession(ctx, in.SessionID)
		},
	})
	r.register(&Tool[SubmitAnswerInput, dto.SubmitAnswerResponse]{
		name:        SubmitAnswer,
		description: "Answer the current question by option label, or re-answer an earlier one by index.",
		owned:       true,
		validator:   v,
		tokens:      tokens,
		run: func(ctx context.Context, in *SubmitAnswerInput) (*dto.SubmitAnswerResponse, error) {
			return svc.SubmitAnswer(ctx, in.SessionID, &dto.SubmitAnswerRequest{Label: in.Label, Index: in.Index})
		},
	})
	r.register(&Tool[ReviewQuizInput, dto.ReviewResponse]{
		name:        ReviewQuiz,
		description: "Summarize a completed session: overall remark, weak sub-topics, encouragement.",
		owned:       true,
		validator:   v,
		tokens:      tokens,
		run: func(ctx context.Context, in *ReviewQuizInput) (*dto.ReviewResponse, error) {
			return svc.ReviewQuiz(ctx, in.SessionID, in.Refresh)
		},
	})
	r.register(&Tool[ListResultsInput, dto.ResultListResponse]{
		name:        ListResults,
		description: "List the most recently reviewed quizzes.",
		validator:   v,
		run: func(ctx context.Context, in *ListResultsInput) (*dto.ResultListResponse, error) {
			return svc.ListResults(ctx, in.Limit)
		},
	})
	return r
}
