package domain

import (
	"math/rand/v2"
	"slices"
	"sort"
	"strings"
	"time"
)

// SessionState is the position of a session in the question loop.
type SessionState string

const (
	StateAwaitingAnswer SessionState = "awaiting_answer"
	StateComplete       SessionState = "complete"
)

// SessionQuestion is a generated question plus the order its options are shown in.
// Label "A"+i always maps to Presented[i] for the lifetime of the session.
type SessionQuestion struct {
	QuizQuestion
	Presented []string `json:"presented"`
}

// OptionLabel returns the display label of the i-th presented option.
func OptionLabel(i int) string {
	return string(rune('A' + i))
}

func normalizeLabel(label string) string {
	return strings.ToUpper(strings.TrimSpace(label))
}

// Labels returns the labels shown for this question, in display order.
func (q SessionQuestion) Labels() []string {
	labels := make([]string, len(q.Presented))
	for i := range q.Presented {
		labels[i] = OptionLabel(i)
	}
	return labels
}

// OptionFor resolves a label to the option text it stands for.
func (q SessionQuestion) OptionFor(label string) (string, bool) {
	l := normalizeLabel(label)
	if len(l) != 1 {
		return "", false
	}
	i := int(l[0]) - 'A'
	if i < 0 || i >= len(q.Presented) {
		return "", false
	}
	return q.Presented[i], true
}

// LabelFor returns the label under which the given option text is shown.
func (q SessionQuestion) LabelFor(text string) string {
	if i := slices.Index(q.Presented, text); i >= 0 {
		return OptionLabel(i)
	}
	return ""
}

// QuizSession is one user's pass through a generated quiz.
//
// Score and Incorrect are derived from Answers and recomputed after every
// transition, so overwriting an answer can never double count.
type QuizSession struct {
	ID             string            `json:"id"`
	Topic          string            `json:"topic"`
	RequestedCount int               `json:"requested_count"`
	Difficulty     Difficulty        `json:"difficulty"`
	Questions      []SessionQuestion `json:"questions"`
	CurrentIndex   int               `json:"current_index"`
	Score          int               `json:"score"`
	Answers        map[int]string    `json:"answers"`
	Incorrect      map[int]struct{}  `json:"incorrect"`
	CreatedAt      time.Time         `json:"created_at"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty"`
}

// NewQuizSession starts a session over already validated questions. Each
// question's options are shuffled once with rng and never again.
func NewQuizSession(id, topic string, requested int, difficulty Difficulty, questions []QuizQuestion, rng *rand.Rand) (*QuizSession, error) {
	if len(questions) == 0 {
		return nil, NewValidationError("a session needs at least one question")
	}
	if requested < len(questions) {
		return nil, NewValidationError("session holds more questions than requested")
	}

	sq := make([]SessionQuestion, 0, len(questions))
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, err
		}
		presented := slices.Clone(q.Options)
		rng.Shuffle(len(presented), func(i, j int) {
			presented[i], presented[j] = presented[j], presented[i]
		})
		sq = append(sq, SessionQuestion{QuizQuestion: q, Presented: presented})
	}

	return &QuizSession{
		ID:             id,
		Topic:          topic,
		RequestedCount: requested,
		Difficulty:     difficulty,
		Questions:      sq,
		Answers:        make(map[int]string, len(sq)),
		Incorrect:      make(map[int]struct{}),
		CreatedAt:      time.Now(),
	}, nil
}

// State reports where the session is in the question loop.
func (s *QuizSession) State() SessionState {
	if s.CurrentIndex >= len(s.Questions) {
		return StateComplete
	}
	return StateAwaitingAnswer
}

// IsComplete is shorthand for State() == StateComplete.
func (s *QuizSession) IsComplete() bool {
	return s.State() == StateComplete
}

// CurrentQuestion returns the question awaiting an answer, or nil once complete.
func (s *QuizSession) CurrentQuestion() *SessionQuestion {
	if s.IsComplete() {
		return nil
	}
	return &s.Questions[s.CurrentIndex]
}

// SubmitResult describes the outcome of one accepted submission.
type SubmitResult struct {
	Index         int          `json:"index"`
	Label         string       `json:"label"`
	Chosen        string       `json:"chosen"`
	Correct       bool         `json:"correct"`
	CorrectAnswer string       `json:"correct_answer"`
	CorrectLabel  string       `json:"correct_label"`
	Overwrote     bool         `json:"overwrote"`
	State         SessionState `json:"state"`
}

// Submit answers the current question and advances the loop.
func (s *QuizSession) Submit(label string) (*SubmitResult, error) {
	return s.SubmitAt(s.CurrentIndex, label)
}

// SubmitAt records label as the answer to question index. Index may be the
// current question, which advances the loop, or an already answered one, which
// overwrites the earlier choice. Skipping ahead and answering a complete
// session are rejected. A rejected submission leaves the session untouched.
func (s *QuizSession) SubmitAt(index int, label string) (*SubmitResult, error) {
	if s.IsComplete() {
		return nil, NewSessionCompleteError()
	}
	if index < 0 || index > s.CurrentIndex {
		return nil, ValidationErrors{NewOutOfRangeError("index", index, 0, s.CurrentIndex)}
	}

	q := s.Questions[index]
	chosen, ok := q.OptionFor(label)
	if !ok {
		return nil, NewInvalidOptionError(index, label)
	}

	if s.Answers == nil {
		s.Answers = make(map[int]string, len(s.Questions))
	}
	norm := normalizeLabel(label)
	_, overwrote := s.Answers[index]
	s.Answers[index] = norm
	if index == s.CurrentIndex {
		s.CurrentIndex++
	}
	s.recompute()

	if s.IsComplete() && s.CompletedAt == nil {
		now := time.Now()
		s.CompletedAt = &now
	}

	return &SubmitResult{
		Index:         index,
		Label:         norm,
		Chosen:        chosen,
		Correct:       chosen == q.Answer,
		CorrectAnswer: q.Answer,
		CorrectLabel:  q.LabelFor(q.Answer),
		Overwrote:     overwrote,
		State:         s.State(),
	}, nil
}

func (s *QuizSession) recompute() {
	score := 0
	incorrect := make(map[int]struct{})
	for idx, label := range s.Answers {
		q := s.Questions[idx]
		if chosen, ok := q.OptionFor(label); ok && chosen == q.Answer {
			score++
			continue
		}
		incorrect[idx] = struct{}{}
	}
	s.Score = score
	s.Incorrect = incorrect
}

// ChosenAnswer returns the option text picked for question index, if answered.
func (s *QuizSession) ChosenAnswer(index int) (string, bool) {
	label, ok := s.Answers[index]
	if !ok {
		return "", false
	}
	return s.Questions[index].OptionFor(label)
}

// IncorrectIndices returns the incorrectly answered question indices in ascending order.
func (s *QuizSession) IncorrectIndices() []int {
	out := make([]int, 0, len(s.Incorrect))
	for idx := range s.Incorrect {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// MissedQuestion pairs a wrongly answered question with both answers.
type MissedQuestion struct {
	Index         int
	Question      string
	CorrectAnswer string
	ChosenAnswer  string
}

// Missed lists every incorrectly answered question with the correct and chosen text.
func (s *QuizSession) Missed() []MissedQuestion {
	idxs := s.IncorrectIndices()
	out := make([]MissedQuestion, 0, len(idxs))
	for _, idx := range idxs {
		chosen, _ := s.ChosenAnswer(idx)
		out = append(out, MissedQuestion{
			Index:         idx,
			Question:      s.Questions[idx].Question,
			CorrectAnswer: s.Questions[idx].Answer,
			ChosenAnswer:  chosen,
		})
	}
	return out
}
