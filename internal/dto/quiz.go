package dto

import (
	"time"

	"quizbot/internal/domain"
)

// CreateQuizRequest asks for a freshly generated quiz
// @Description Request body for generating a quiz
type CreateQuizRequest struct {
	Topic      string `json:"topic" validate:"notblank,max=200" example:"Python"`
	Count      int    `json:"count" validate:"min=1" example:"5"`
	Difficulty string `json:"difficulty" validate:"difficulty" example:"easy"`
}

// OptionView is one labelled choice
type OptionView struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// QuestionView renders one question in its session-local option order.
// Correctness is only revealed once the question has been answered.
type QuestionView struct {
	Index         int          `json:"index"`
	Question      string       `json:"question"`
	Options       []OptionView `json:"options"`
	Answered      bool         `json:"answered"`
	ChosenLabel   string       `json:"chosen_label,omitempty"`
	Correct       *bool        `json:"correct,omitempty"`
	CorrectLabel  string       `json:"correct_label,omitempty"`
	CorrectAnswer string       `json:"correct_answer,omitempty"`
}

// SessionView is the read-only snapshot handed to front ends
// @Description Quiz session snapshot
type SessionView struct {
	ID             string         `json:"id"`
	Topic          string         `json:"topic"`
	Difficulty     string         `json:"difficulty"`
	RequestedCount int            `json:"requested_count"`
	TotalQuestions int            `json:"total_questions"`
	CurrentIndex   int            `json:"current_index"`
	Score          int            `json:"score"`
	State          string         `json:"state"`
	Current        *QuestionView  `json:"current,omitempty"`
	Questions      []QuestionView `json:"questions"`
	Incorrect      []int          `json:"incorrect"`
	CreatedAt      time.Time      `json:"created_at"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
}

// CreateQuizResponse carries the new session and the token that owns it
type CreateQuizResponse struct {
	Session  SessionView `json:"session"`
	Token    string      `json:"token,omitempty"`
	Warnings []string    `json:"warnings,omitempty"`
}

// SubmitAnswerRequest answers the current question, or re-answers an earlier
// one when Index is set.
// @Description Request body for answering a question
type SubmitAnswerRequest struct {
	Label string `json:"label" validate:"notblank" example:"B"`
	Index *int   `json:"index,omitempty" validate:"omitempty,min=0"`
}

// AnswerResult reports how one submission was scored
type AnswerResult struct {
	Index         int    `json:"index"`
	Label         string `json:"label"`
	Chosen        string `json:"chosen"`
	Correct       bool   `json:"correct"`
	CorrectLabel  string `json:"correct_label"`
	CorrectAnswer string `json:"correct_answer"`
	Overwrote     bool   `json:"overwrote"`
	State         string `json:"state"`
}

type SubmitAnswerResponse struct {
	Result  AnswerResult `json:"result"`
	Session SessionView  `json:"session"`
}

// ReviewView is the generated feedback for a finished session
type ReviewView struct {
	OverallRemark string   `json:"overall_remark"`
	WeakSubtopics []string `json:"weak_sub_topics"`
	Encouragement string   `json:"encouragement"`
}

// ReviewResponse
// @Description Review of a completed quiz
type ReviewResponse struct {
	SessionID string     `json:"session_id"`
	Score     int        `json:"score"`
	Total     int        `json:"total"`
	Report    ReviewView `json:"report"`
	Cached    bool       `json:"cached"`
}

// ResultResponse is one history row
type ResultResponse struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"session_id"`
	Topic          string    `json:"topic"`
	Difficulty     string    `json:"difficulty"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	WeakSubtopics  []string  `json:"weak_sub_topics"`
	OverallRemark  string    `json:"overall_remark"`
	CompletedAt    time.Time `json:"completed_at"`
}

type ResultListResponse struct {
	Results []ResultResponse `json:"results"`
}

// NewSessionView builds the snapshot for s. Questions past the current one are not included.
func NewSessionView(s *domain.QuizSession) SessionView {
	view := SessionView{
		ID:             s.ID,
		Topic:          s.Topic,
		Difficulty:     s.Difficulty.String(),
		RequestedCount: s.RequestedCount,
		TotalQuestions: len(s.Questions),
		CurrentIndex:   s.CurrentIndex,
		Score:          s.Score,
		State:          string(s.State()),
		Incorrect:      s.IncorrectIndices(),
		CreatedAt:      s.CreatedAt,
		CompletedAt:    s.CompletedAt,
	}

	visible := s.CurrentIndex + 1
	if visible > len(s.Questions) {
		visible = len(s.Questions)
	}
	view.Questions = make([]QuestionView, 0, visible)
	for i := 0; i < visible; i++ {
		view.Questions = append(view.Questions, newQuestionView(s, i))
	}
	if !s.IsComplete() {
		current := view.Questions[s.CurrentIndex]
		view.Current = &current
	}
	return view
}

func newQuestionView(s *domain.QuizSession, i int) QuestionView {
	q := s.Questions[i]
	qv := QuestionView{
		Index:    i,
		Question: q.Question,
		Options:  make([]OptionView, len(q.Presented)),
	}
	for j, text := range q.Presented {
		qv.Options[j] = OptionView{Label: domain.OptionLabel(j), Text: text}
	}

	if label, ok := s.Answers[i]; ok {
		_, wrong := s.Incorrect[i]
		correct := !wrong
		qv.Answered = true
		qv.ChosenLabel = label
		qv.Correct = &correct
		qv.CorrectLabel = q.LabelFor(q.Answer)
		qv.CorrectAnswer = q.Answer
	}
	return qv
}

func NewAnswerResult(r *domain.SubmitResult) AnswerResult {
	return AnswerResult{
		Index:         r.Index,
		Label:         r.Label,
		Chosen:        r.Chosen,
		Correct:       r.Correct,
		CorrectLabel:  r.CorrectLabel,
		CorrectAnswer: r.CorrectAnswer,
		Overwrote:     r.Overwrote,
		State:         string(r.State),
	}
}

func NewReviewView(r *domain.ReviewReport) ReviewView {
	weak := r.WeakSubtopics
	if weak == nil {
		weak = []string{}
	}
	return ReviewView{
		OverallRemark: r.OverallRemark,
		WeakSubtopics: weak,
		Encouragement: r.Encouragement,
	}
}

func NewResultResponse(r *domain.QuizResult) ResultResponse {
	weak := r.WeakSubtopics
	if weak == nil {
		weak = []string{}
	}
	return ResultResponse{
		ID:             r.ID,
		SessionID:      r.SessionID,
		Topic:          r.Topic,
		Difficulty:     r.Difficulty.String(),
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		WeakSubtopics:  weak,
		OverallRemark:  r.OverallRemark,
		CompletedAt:    r.CompletedAt,
	}
}
