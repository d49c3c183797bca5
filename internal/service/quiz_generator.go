package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"quizbot/internal/domain"
	"quizbot/internal/logger"
	"quizbot/internal/util"
	"quizbot/internal/validation"

	"go.uber.org/zap"
)

const generationInstructions = `You are a quiz generator. Your sole task is to generate a list of multiple-choice questions.
You MUST return ONLY a JSON object of this exact shape:

{"questions": [{"question": "text", "options": ["a", "b", "c", "d"], "answer": "one of the options"}]}

Each question must have exactly four distinct options, and the "answer" field must be
copied verbatim from the "options" list.
Do NOT include any additional text, markdown formatting or explanations outside of the JSON object.`

// GeneratedQuestions is the validated outcome of one generation call.
type GeneratedQuestions struct {
	Questions []domain.QuizQuestion
	// Warnings are non-fatal: short batches and dropped unscoreable questions.
	Warnings []string
}

// QuestionGenerator turns a topic, a count and a difficulty into scoreable questions.
type QuestionGenerator interface {
	Generate(ctx context.Context, topic string, count int, difficulty domain.Difficulty) (*GeneratedQuestions, error)
}

type questionGenerator struct {
	llm          domain.TextGenerator
	validator    *validation.Validator
	rng          *Randomizer
	maxQuestions int
	timeout      time.Duration
}

// NewQuestionGenerator creates a generator. rng drives the truncation of
// oversized batches; pass a seeded one for reproducible runs.
func NewQuestionGenerator(llm domain.TextGenerator, v *validation.Validator, rng *Randomizer, maxQuestions int, timeout time.Duration) QuestionGenerator {
	return &questionGenerator{
		llm:          llm,
		validator:    v,
		rng:          rng,
		maxQuestions: maxQuestions,
		timeout:      timeout,
	}
}

// ValidateGenerationInput checks the request constraints shared by every entry point.
func ValidateGenerationInput(topic string, count, maxQuestions int) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if strings.TrimSpace(topic) == "" {
		errs = append(errs, domain.NewMissingFieldError("topic"))
	}
	if count < 1 || count > maxQuestions {
		errs = append(errs, domain.NewOutOfRangeError("count", count, 1, maxQuestions))
	}
	return errs
}

func buildGenerationPrompt(topic string, count int, difficulty domain.Difficulty) string {
	return fmt.Sprintf("%s\n\nGenerate a quiz about %s with %d multiple-choice questions at a %s difficulty level.",
		generationInstructions, strings.TrimSpace(topic), count, difficulty)
}

type generationPayload struct {
	Questions *[]domain.QuizQuestion `json:"questions"`
}

func (g *questionGenerator) Generate(ctx context.Context, topic string, count int, difficulty domain.Difficulty) (*GeneratedQuestions, error) {
	if errs := ValidateGenerationInput(topic, count, g.maxQuestions); len(errs) > 0 {
		return nil, errs
	}
	if _, err := domain.ParseDifficulty(string(difficulty)); err != nil {
		return nil, err
	}

	l := logger.Get().With(zap.String("topic", topic), zap.Int("count", count), zap.String("difficulty", difficulty.String()))

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	raw, err := g.llm.Generate(ctx, buildGenerationPrompt(topic, count, difficulty))
	if err != nil {
		l.Error("Question generation call failed", zap.Error(err))
		return nil, domain.NewGenerationError("question generation failed", err)
	}

	questions, warnings, err := g.parse(raw)
	if err != nil {
		l.Error("Unusable question generation response", zap.Error(err), zap.String("raw_response", raw))
		return nil, err
	}

	switch {
	case len(questions) > count:
		questions = g.sample(questions, count)
	case len(questions) < count:
		warnings = append(warnings, fmt.Sprintf("only %d questions were generated, instead of the requested %d", len(questions), count))
	}

	l.Info("Generated quiz questions", zap.Int("usable", len(questions)), zap.Int("warnings", len(warnings)))
	return &GeneratedQuestions{Questions: questions, Warnings: warnings}, nil
}

// parse decodes the completion, drops unscoreable questions and fails when none survive.
func (g *questionGenerator) parse(raw string) ([]domain.QuizQuestion, []string, error) {
	extracted, err := util.ExtractJSONObject(raw)
	if err != nil {
		return nil, nil, domain.NewGenerationError("model response contained no JSON object", err)
	}

	var payload generationPayload
	if err := json.Unmarshal([]byte(extracted), &payload); err != nil {
		return nil, nil, domain.NewGenerationError("model response did not match the quiz schema", err)
	}
	if payload.Questions == nil {
		return nil, nil, domain.NewGenerationError("model response has no questions field", nil)
	}

	var (
		usable   []domain.QuizQuestion
		warnings []string
	)
	for i, q := range *payload.Questions {
		q = normalizeQuestion(q)
		if err := g.checkQuestion(q); err != nil {
			warnings = append(warnings, fmt.Sprintf("question %d dropped: %v", i+1, err))
			continue
		}
		usable = append(usable, q)
	}

	if len(usable) == 0 {
		return nil, warnings, domain.NewGenerationError("model returned no usable questions", errors.Join(warningErrors(warnings)...)).
			WithContext("dropped", len(warnings))
	}
	return usable, warnings, nil
}

func (g *questionGenerator) checkQuestion(q domain.QuizQuestion) error {
	if g.validator != nil {
		if errs := g.validator.Struct(q); len(errs) > 0 {
			return errs
		}
	}
	return q.Validate()
}

func normalizeQuestion(q domain.QuizQuestion) domain.QuizQuestion {
	out := domain.QuizQuestion{
		Question: strings.TrimSpace(q.Question),
		Answer:   strings.TrimSpace(q.Answer),
		Options:  make([]string, len(q.Options)),
	}
	for i, opt := range q.Options {
		out.Options[i] = strings.TrimSpace(opt)
	}
	return out
}

// sample keeps count questions chosen uniformly without replacement.
func (g *questionGenerator) sample(questions []domain.QuizQuestion, count int) []domain.QuizQuestion {
	var perm []int
	g.rng.with(func(r *rand.Rand) {
		perm = r.Perm(len(questions))
	})
	out := make([]domain.QuizQuestion, count)
	for i, idx := range perm[:count] {
		out[i] = questions[idx]
	}
	return out
}

func warningErrors(warnings []string) []error {
	errs := make([]error, len(warnings))
	for i, w := range warnings {
		errs[i] = errors.New(w)
	}
	return errs
}
