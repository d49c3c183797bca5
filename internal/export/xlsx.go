package export

import (
	"fmt"
	"io"

	"quizbot/internal/domain"

	"github.com/xuri/excelize/v2"
)

const (
	QuestionsSheet = "Questions"
	SummarySheet   = "Summary"
	ContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var questionHeaders = []any{"#", "Question", "Correct answer", "Your answer", "Correct?"}

// WriteSession writes a completed session as a workbook with one row per question
// and a summary sheet. Sessions still awaiting answers are rejected so the sheet
// never reveals answers to questions that have not been shown.
func WriteSession(w io.Writer, s *domain.QuizSession) error {
	if !s.IsComplete() {
		return domain.NewSessionNotCompleteError(len(s.Answers), len(s.Questions))
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", QuestionsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := f.SetSheetRow(QuestionsSheet, "A1", &questionHeaders); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, q := range s.Questions {
		chosen, _ := s.ChosenAnswer(i)
		row := []any{i + 1, q.Question, q.Answer, chosen, yesNo(chosen == q.Answer)}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(QuestionsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write question %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(QuestionsSheet, "B", "D", 40); err != nil {
		return err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	summary := [][]any{
		{"Session", s.ID},
		{"Topic", s.Topic},
		{"Difficulty", s.Difficulty.String()},
		{"Questions", len(s.Questions)},
		{"Answered", len(s.Answers)},
		{"Score", s.Score},
		{"State", string(s.State())},
	}
	for i, row := range summary {
		if err := f.SetSheetRow(SummarySheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
