package domain

import (
	"errors"
	"testing"
)

func validQuestion() QuizQuestion {
	return QuizQuestion{
		Question: "Which keyword starts a goroutine?",
		Options:  []string{"go", "async", "spawn", "thread"},
		Answer:   "go",
	}
}

func TestQuizQuestion_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(q *QuizQuestion)
		wantErr bool
	}{
		{"valid", func(q *QuizQuestion) {}, false},
		{"blank question", func(q *QuizQuestion) { q.Question = "  " }, true},
		{"three options", func(q *QuizQuestion) { q.Options = q.Options[:3] }, true},
		{"five options", func(q *QuizQuestion) { q.Options = append(q.Options, "fork") }, true},
		{"duplicate option", func(q *QuizQuestion) { q.Options = []string{"go", "go", "spawn", "thread"} }, true},
		{"empty option", func(q *QuizQuestion) { q.Options[3] = "" }, true},
		{"answer not an option", func(q *QuizQuestion) { q.Answer = "Go" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuestion()
			q.Options = append([]string(nil), q.Options...)
			tt.mutate(&q)
			err := q.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsValidationFailure(err) {
				t.Errorf("Validate() error should be a validation failure, got %T", err)
			}
		})
	}
}

func TestParseDifficulty(t *testing.T) {
	for _, in := range []string{"easy", " Medium ", "HARD"} {
		if _, err := ParseDifficulty(in); err != nil {
			t.Errorf("ParseDifficulty(%q) unexpected error: %v", in, err)
		}
	}
	if _, err := ParseDifficulty("expert"); err == nil {
		t.Error("ParseDifficulty(expert) should fail")
	}
	if d, _ := ParseDifficulty("Hard"); d != DifficultyHard {
		t.Errorf("ParseDifficulty(Hard) = %q, want %q", d, DifficultyHard)
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		validation bool
		notFound   bool
		generation bool
		review     bool
	}{
		{"field errors", ValidationErrors{NewMissingFieldError("topic")}, true, false, false, false},
		{"invalid option", NewInvalidOptionError(0, "Q"), true, false, false, false},
		{"session complete", NewSessionCompleteError(), true, false, false, false},
		{"not found", NewSessionNotFoundError("s1"), false, true, false, false},
		{"generation", NewGenerationError("bad", errors.New("x")), false, false, true, false},
		{"review", NewReviewError("bad", nil), false, false, false, true},
		{"internal", NewInternalError("boom", nil), false, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidationFailure(tt.err); got != tt.validation {
				t.Errorf("IsValidationFailure = %v, want %v", got, tt.validation)
			}
			if got := IsNotFound(tt.err); got != tt.notFound {
				t.Errorf("IsNotFound = %v, want %v", got, tt.notFound)
			}
			if got := IsGenerationFailure(tt.err); got != tt.generation {
				t.Errorf("IsGenerationFailure = %v, want %v", got, tt.generation)
			}
			if got := IsReviewFailure(tt.err); got != tt.review {
				t.Errorf("IsReviewFailure = %v, want %v", got, tt.review)
			}
		})
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := NewGenerationError("question generation failed", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if err.Error() != "question generation failed: timeout" {
		t.Errorf("Error() = %q", err.Error())
	}
}
