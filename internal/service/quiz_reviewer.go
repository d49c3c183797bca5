package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"quizbot/internal/domain"
	"quizbot/internal/logger"
	"quizbot/internal/util"
	"quizbot/internal/validation"

	"go.uber.org/zap"
)

const reviewInstructions = `You are a quiz review agent. Analyze the user's quiz performance and give constructive feedback.
Your output MUST be a JSON object of this exact shape:

{"overall_remark": "text", "weak_sub_topics": ["text"], "encouragement": "text"}

1. "overall_remark" reflects the general performance and includes an emoji.
2. "weak_sub_topics" names, for each question answered incorrectly, the specific sub-topic or
   concept it tested within the quiz topic, as concise strings. If every answer was correct the
   list must be empty.
3. "encouragement" is a concluding encouraging remark.
Do NOT include any additional text, markdown formatting or explanations outside of the JSON object.`

// ReviewSummarizer turns a finished session into a short natural-language report.
type ReviewSummarizer interface {
	Summarize(ctx context.Context, session *domain.QuizSession) (*domain.ReviewReport, error)
}

type reviewSummarizer struct {
	llm       domain.TextGenerator
	validator *validation.Validator
	timeout   time.Duration
}

func NewReviewSummarizer(llm domain.TextGenerator, v *validation.Validator, timeout time.Duration) ReviewSummarizer {
	return &reviewSummarizer{llm: llm, validator: v, timeout: timeout}
}

// buildReviewPrompt lists every question with its outcome, then each miss with
// both the correct and the chosen answer text.
func buildReviewPrompt(s *domain.QuizSession) string {
	var sb strings.Builder
	sb.WriteString(reviewInstructions)
	fmt.Fprintf(&sb, "\n\nQuiz Topic: %s\nDifficulty: %s\nTotal Questions Asked: %d\nScore: %d\n",
		s.Topic, s.Difficulty, len(s.Questions), s.Score)

	sb.WriteString("\nAll Questions:\n")
	for i, q := range s.Questions {
		outcome := "correct"
		if _, wrong := s.Incorrect[i]; wrong {
			outcome = "incorrect"
		}
		fmt.Fprintf(&sb, "%d. %s [%s]\n", i+1, q.Question, outcome)
	}

	missed := s.Missed()
	if len(missed) == 0 {
		sb.WriteString("\nIncorrectly Answered Questions: none\n")
	} else {
		sb.WriteString("\nIncorrectly Answered Questions:\n")
		for _, m := range missed {
			fmt.Fprintf(&sb, "- Question: %s\n  Correct answer: %s\n  User's answer: %s\n",
				m.Question, m.CorrectAnswer, m.ChosenAnswer)
		}
	}

	sb.WriteString("\nPlease provide a review based on the above data.")
	return sb.String()
}

func (r *reviewSummarizer) Summarize(ctx context.Context, s *domain.QuizSession) (*domain.ReviewReport, error) {
	if !s.IsComplete() {
		return nil, domain.NewSessionNotCompleteError(len(s.Answers), len(s.Questions))
	}

	l := logger.Get().With(zap.String("session_id", s.ID))

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	raw, err := r.llm.Generate(ctx, buildReviewPrompt(s))
	if err != nil {
		l.Error("Review call failed", zap.Error(err))
		return nil, domain.NewReviewError("quiz review failed", err)
	}

	report, err := r.parse(raw, s)
	if err != nil {
		l.Error("Unusable review response", zap.Error(err), zap.String("raw_response", raw))
		return nil, err
	}
	return report, nil
}

func (r *reviewSummarizer) parse(raw string, s *domain.QuizSession) (*domain.ReviewReport, error) {
	extracted, err := util.ExtractJSONObject(raw)
	if err != nil {
		return nil, domain.NewReviewError("review response contained no JSON object", err)
	}

	var report domain.ReviewReport
	if err := json.Unmarshal([]byte(extracted), &report); err != nil {
		return nil, domain.NewReviewError("review response did not match the review schema", err)
	}

	report.OverallRemark = strings.TrimSpace(report.OverallRemark)
	report.Encouragement = strings.TrimSpace(report.Encouragement)
	weak := make([]string, 0, len(report.WeakSubtopics))
	for _, w := range report.WeakSubtopics {
		if w = strings.TrimSpace(w); w != "" {
			weak = append(weak, w)
		}
	}
	report.WeakSubtopics = weak

	if r.validator != nil {
		if errs := r.validator.Struct(report); len(errs) > 0 {
			return nil, domain.NewReviewError("review response is incomplete", errs)
		}
	}
	if len(report.WeakSubtopics) == 0 && s.Score < len(s.Questions) {
		return nil, domain.NewReviewError("review names no weak sub-topics despite incorrect answers", nil).
			WithContext("incorrect", len(s.Incorrect))
	}
	return &report, nil
}
