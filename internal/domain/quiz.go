package domain

import (
	"fmt"
	"strings"
	"time"
)

// OptionsPerQuestion is the fixed number of choices every question carries.
const OptionsPerQuestion = 4

// Difficulty is the requested quiz difficulty.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the accepted levels in menu order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty converts user input to a Difficulty, ignoring case and surrounding space.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	default:
		return "", ValidationErrors{NewInvalidFormatError("difficulty", s)}
	}
}

func (d Difficulty) String() string {
	return string(d)
}

// QuizQuestion is one multiple-choice question as produced by the generator.
type QuizQuestion struct {
	Question string   `json:"question" validate:"required"`
	Options  []string `json:"options" validate:"len=4,unique,dive,required"`
	Answer   string   `json:"answer" validate:"required"`
}

// Validate checks the shape invariants. A question that fails is unscoreable.
func (q QuizQuestion) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return NewValidationError("question text is required")
	}
	if len(q.Options) != OptionsPerQuestion {
		return NewValidationError(fmt.Sprintf("expected %d options, got %d", OptionsPerQuestion, len(q.Options)))
	}
	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return NewValidationError("options must not be empty")
		}
		if _, dup := seen[opt]; dup {
			return NewValidationError(fmt.Sprintf("duplicate option %q", opt))
		}
		seen[opt] = struct{}{}
	}
	if _, ok := seen[q.Answer]; !ok {
		return NewValidationError(fmt.Sprintf("answer %q is not one of the options", q.Answer))
	}
	return nil
}

// ReviewReport is the natural-language summary of a finished quiz.
type ReviewReport struct {
	OverallRemark string   `json:"overall_remark" validate:"required"`
	WeakSubtopics []string `json:"weak_sub_topics" validate:"dive,required"`
	Encouragement string   `json:"encouragement" validate:"required"`
}

// QuizResult is the persisted summary of a reviewed session.
type QuizResult struct {
	ID             string
	SessionID      string
	Topic          string
	Difficulty     Difficulty
	TotalQuestions int
	Score          int
	WeakSubtopics  []string
	OverallRemark  string
	CompletedAt    time.Time
	CreatedAt      time.Time
}

// NewQuizResult builds the history row for a completed session.
func NewQuizResult(id string, s *QuizSession, report *ReviewReport) *QuizResult {
	completed := time.Now()
	if s.CompletedAt != nil {
		completed = *s.CompletedAt
	}
	return &QuizResult{
		ID:             id,
		SessionID:      s.ID,
		Topic:          s.Topic,
		Difficulty:     s.Difficulty,
		TotalQuestions: len(s.Questions),
		Score:          s.Score,
		WeakSubtopics:  report.WeakSubtopics,
		OverallRemark:  report.OverallRemark,
		CompletedAt:    completed,
		CreatedAt:      time.Now(),
	}
}
