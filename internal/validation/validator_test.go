package validation

import (
	"testing"

	"quizbot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Topic      string `json:"topic" validate:"notblank,max=200"`
	Count      int    `json:"count" validate:"min=1,max=50"`
	Difficulty string `json:"difficulty" validate:"difficulty"`
}

func TestValidator_Struct(t *testing.T) {
	v := NewValidator()

	t.Run("valid", func(t *testing.T) {
		assert.Nil(t, v.Struct(sampleRequest{Topic: "Python", Count: 3, Difficulty: "Easy"}))
	})

	t.Run("every field wrong", func(t *testing.T) {
		errs := v.Struct(sampleRequest{Topic: "   ", Count: 0, Difficulty: "impossible"})
		require.Len(t, errs, 3)

		byField := map[string]domain.ValidationError{}
		for _, e := range errs {
			byField[e.Field] = e
		}
		assert.Equal(t, domain.CodeMissingField, byField["topic"].Code)
		assert.Equal(t, domain.CodeOutOfRange, byField["count"].Code)
		assert.Equal(t, domain.CodeInvalidFormat, byField["difficulty"].Code)
		assert.True(t, domain.IsValidationFailure(errs))
	})

	t.Run("count above cap", func(t *testing.T) {
		errs := v.Struct(sampleRequest{Topic: "Go", Count: 51, Difficulty: "hard"})
		require.Len(t, errs, 1)
		assert.Equal(t, "count", errs[0].Field)
		assert.Contains(t, errs[0].Message, "at most 50")
	})
}

func TestValidator_QuizQuestionTags(t *testing.T) {
	v := NewValidator()

	ok := domain.QuizQuestion{Question: "2+2?", Options: []string{"3", "4", "5", "6"}, Answer: "4"}
	assert.Nil(t, v.Struct(ok))

	short := domain.QuizQuestion{Question: "2+2?", Options: []string{"3", "4"}, Answer: "4"}
	errs := v.Struct(short)
	require.NotEmpty(t, errs)
	assert.Equal(t, "options", errs[0].Field)

	dup := domain.QuizQuestion{Question: "2+2?", Options: []string{"4", "4", "5", "6"}, Answer: "4"}
	assert.NotEmpty(t, v.Struct(dup))
}

func TestValidator_ReviewReportTags(t *testing.T) {
	v := NewValidator()
	errs := v.Struct(domain.ReviewReport{WeakSubtopics: []string{"loops", ""}})
	require.Len(t, errs, 3)
	fields := []string{errs[0].Field, errs[1].Field, errs[2].Field}
	assert.ElementsMatch(t, []string{"overall_remark", "weak_sub_topics[1]", "encouragement"}, fields)
}
