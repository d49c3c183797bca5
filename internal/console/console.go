// Package console runs a quiz interactively on a terminal.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"quizbot/internal/domain"
	"quizbot/internal/dto"
	"quizbot/internal/service"
)

// Runner drives one quiz from topic prompt to review over a line-oriented terminal.
type Runner struct {
	svc service.QuizService
	in  *bufio.Scanner
	out io.Writer
}

func NewRunner(svc service.QuizService, in io.Reader, out io.Writer) *Runner {
	return &Runner{svc: svc, in: bufio.NewScanner(in), out: out}
}

var errQuit = errors.New("quit")

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// ask prints prompt and returns the next trimmed line. "q" or end of input quits.
func (r *Runner) ask(prompt string) (string, error) {
	r.printf("%s", prompt)
	if !r.in.Scan() {
		if err := r.in.Err(); err != nil {
			return "", err
		}
		return "", errQuit
	}
	line := strings.TrimSpace(r.in.Text())
	if strings.EqualFold(line, "q") {
		return "", errQuit
	}
	return line, nil
}

// Run plays one quiz. Returning nil means the user finished or quit.
func (r *Runner) Run(ctx context.Context) error {
	err := r.run(ctx)
	if errors.Is(err, errQuit) {
		r.printf("\nBye!\n")
		return nil
	}
	return err
}

func (r *Runner) run(ctx context.Context) error {
	created, err := r.create(ctx)
	if err != nil {
		return err
	}
	for _, w := range created.Warnings {
		r.printf("note: %s\n", w)
	}

	session := created.Session
	for session.Current != nil {
		session, err = r.answer(ctx, session)
		if err != nil {
			return err
		}
	}

	r.printf("\nQuiz complete! Score: %d/%d\n", session.Score, session.TotalQuestions)
	return r.review(ctx, session.ID)
}

func (r *Runner) create(ctx context.Context) (*dto.CreateQuizResponse, error) {
	for {
		topic, err := r.ask("Topic: ")
		if err != nil {
			return nil, err
		}
		countText, err := r.ask("Number of questions: ")
		if err != nil {
			return nil, err
		}
		count, convErr := strconv.Atoi(countText)
		if convErr != nil {
			r.printf("Please enter a whole number.\n")
			continue
		}
		difficulty, err := r.ask("Difficulty (easy/medium/hard): ")
		if err != nil {
			return nil, err
		}

		r.printf("Generating quiz...\n")
		resp, err := r.svc.CreateQuiz(ctx, &dto.CreateQuizRequest{Topic: topic, Count: count, Difficulty: difficulty})
		switch {
		case err == nil:
			return resp, nil
		case domain.IsValidationFailure(err), domain.IsGenerationFailure(err):
			r.printf("Could not create the quiz: %v\nPlease try again.\n", err)
		default:
			return nil, err
		}
	}
}

func (r *Runner) answer(ctx context.Context, session dto.SessionView) (dto.SessionView, error) {
	q := session.Current
	r.printf("\nQuestion %d of %d\n%s\n", q.Index+1, session.TotalQuestions, q.Question)
	for _, opt := range q.Options {
		r.printf("  %s) %s\n", opt.Label, opt.Text)
	}

	for {
		label, err := r.ask("Your answer: ")
		if err != nil {
			return session, err
		}
		resp, err := r.svc.SubmitAnswer(ctx, session.ID, &dto.SubmitAnswerRequest{Label: label})
		if err != nil {
			if domain.IsValidationFailure(err) {
				r.printf("Please choose one of the listed letters.\n")
				continue
			}
			return session, err
		}
		if resp.Result.Correct {
			r.printf("Correct!\n")
		} else {
			r.printf("Incorrect. The answer was %s) %s\n", resp.Result.CorrectLabel, resp.Result.CorrectAnswer)
		}
		return resp.Session, nil
	}
}

func (r *Runner) review(ctx context.Context, sessionID string) error {
	for {
		resp, err := r.svc.ReviewQuiz(ctx, sessionID, false)
		if err == nil {
			r.printReview(resp)
			return nil
		}
		if !domain.IsReviewFailure(err) {
			return err
		}
		again, askErr := r.ask(fmt.Sprintf("Review failed (%v). Retry? [y/N]: ", err))
		if askErr != nil {
			return askErr
		}
		if !strings.EqualFold(again, "y") {
			return nil
		}
	}
}

func (r *Runner) printReview(resp *dto.ReviewResponse) {
	r.printf("\n%s\n", resp.Report.OverallRemark)
	if len(resp.Report.WeakSubtopics) > 0 {
		r.printf("Topics to revisit:\n")
		for _, w := range resp.Report.WeakSubtopics {
			r.printf("  - %s\n", w)
		}
	}
	r.printf("%s\n", resp.Report.Encouragement)
}
