package handler

import (
	"bytes"
	"fmt"

	"quizbot/internal/domain"
	"quizbot/internal/dto"
	"quizbot/internal/export"
	"quizbot/internal/logger"
	"quizbot/internal/middleware"
	"quizbot/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz session HTTP requests
type QuizHandler struct {
	service service.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service: service,
	}
}

// sessionID prefers the id authorized by RequireSessionToken.
func sessionID(c *fiber.Ctx) string {
	if id, ok := c.Locals(middleware.SessionIDKey).(string); ok && id != "" {
		return id
	}
	return c.Params("id")
}

// CreateQuiz godoc
// @Summary Generate a quiz
// @Description Generates multiple-choice questions for a topic and starts a session. The returned token authorizes answering and reviewing it.
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.CreateQuizRequest true "Quiz parameters"
// @Success 201 {object} dto.CreateQuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /quizzes [post]
func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Debug("Failed to parse create quiz request", zap.Error(err))
		return domain.NewInvalidInputError("request body must be a JSON object with topic, count and difficulty")
	}

	resp, err := h.service.CreateQuiz(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetSession godoc
// @Summary Get a quiz session
// @Description Returns progress and the question awaiting an answer
// @Tags quiz
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionView
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetSession(c *fiber.Ctx) error {
	view, err := h.service.GetSession(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// SubmitAnswer godoc
// @Summary Answer a question
// @Description Answers the current question by option label. Setting index re-answers an earlier question.
// @Tags quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Param request body dto.SubmitAnswerRequest true "Chosen option"
// @Success 200 {object} dto.SubmitAnswerResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /quizzes/{id}/answers [post]
func (h *QuizHandler) SubmitAnswer(c *fiber.Ctx) error {
	var req dto.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body must be a JSON object with a label")
	}

	resp, err := h.service.SubmitAnswer(c.UserContext(), sessionID(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ReviewQuiz godoc
// @Summary Review a completed quiz
// @Description Returns feedback for a completed session. The report is cached; refresh=true regenerates it.
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Param refresh query bool false "Regenerate the review"
// @Success 200 {object} dto.ReviewResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /quizzes/{id}/review [post]
func (h *QuizHandler) ReviewQuiz(c *fiber.Ctx) error {
	resp, err := h.service.ReviewQuiz(c.UserContext(), sessionID(c), c.QueryBool("refresh", false))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteSession godoc
// @Summary Abandon a quiz session
// @Tags quiz
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Success 204
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [delete]
func (h *QuizHandler) DeleteSession(c *fiber.Ctx) error {
	if err := h.service.DeleteSession(c.UserContext(), sessionID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ExportSession godoc
// @Summary Export a session as a spreadsheet
// @Tags quiz
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Success 200 {file} file
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /quizzes/{id}/export [get]
func (h *QuizHandler) ExportSession(c *fiber.Ctx) error {
	id := sessionID(c)
	session, err := h.service.LoadSession(c.UserContext(), id)
	if err != nil {
		return err
	}
	if !session.IsComplete() {
		return domain.NewSessionNotCompleteError(len(session.Answers), len(session.Questions))
	}

	var buf bytes.Buffer
	if err := export.WriteSession(&buf, session); err != nil {
		return domain.NewInternalError("failed to build spreadsheet", err)
	}

	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="quiz-%s.xlsx"`, id))
	return c.Send(buf.Bytes())
}

// ListResults godoc
// @Summary List recent quiz results
// @Tags results
// @Produce json
// @Param limit query int false "Number of results (1-50, default 10)"
// @Success 200 {object} dto.ResultListResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /results [get]
func (h *QuizHandler) ListResults(c *fiber.Ctx) error {
	limit, _ := c.Locals(middleware.ValidatedLimitKey).(int)
	resp, err := h.service.ListResults(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
