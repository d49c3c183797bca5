package middleware

import (
	"errors"
	"net/http"

	"quizbot/internal/domain"
	"quizbot/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every non-validation failure
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ValidationErrorResponse lists every rejected field at once
type ValidationErrorResponse struct {
	Code    string                   `json:"code"`
	Message string                   `json:"message"`
	Status  int                      `json:"status"`
	Errors  []domain.ValidationError `json:"errors"`
}

const codeHTTPError = "HTTP_ERROR"

// statusByCode maps domain codes to HTTP. Codes not listed are 500.
var statusByCode = map[domain.ErrorCode]int{
	domain.CodeNotFound:           http.StatusNotFound,
	domain.CodeSessionNotFound:    http.StatusNotFound,
	domain.CodeInvalidInput:       http.StatusBadRequest,
	domain.CodeInvalidOption:      http.StatusBadRequest,
	domain.CodeValidation:         http.StatusBadRequest,
	domain.CodeMissingField:       http.StatusBadRequest,
	domain.CodeInvalidFormat:      http.StatusBadRequest,
	domain.CodeOutOfRange:         http.StatusBadRequest,
	domain.CodeSessionComplete:    http.StatusConflict,
	domain.CodeSessionNotComplete: http.StatusConflict,
	domain.CodeUnauthorized:       http.StatusUnauthorized,
	domain.CodeGenerationFailed:   http.StatusBadGateway,
	domain.CodeReviewFailed:       http.StatusBadGateway,
}

// StatusFor returns the HTTP status a domain error is rendered with.
func StatusFor(err *domain.DomainError) int {
	if status, ok := statusByCode[err.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorHandler renders handler errors as JSON. It is installed as the fiber
// app's ErrorHandler and also invoked by RequestLogger.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fieldErrs domain.ValidationErrors
		if errors.As(err, &fieldErrs) {
			logger.Get().Warn("Request rejected by validation",
				zap.String("path", c.Path()),
				zap.Int("error_count", len(fieldErrs)),
			)
			return c.Status(http.StatusBadRequest).JSON(ValidationErrorResponse{
				Code:    string(domain.CodeValidation),
				Message: "Request validation failed",
				Status:  http.StatusBadRequest,
				Errors:  fieldErrs,
			})
		}

		resp := toErrorResponse(err)
		logError(c, resp, err)
		return c.Status(resp.Status).JSON(resp)
	}
}

func toErrorResponse(err error) ErrorResponse {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		resp := ErrorResponse{
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
			Status:  StatusFor(domainErr),
		}
		if len(domainErr.Context) > 0 {
			resp.Details = domainErr.Context
		}
		return resp
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ErrorResponse{Code: codeHTTPError, Message: fiberErr.Message, Status: fiberErr.Code}
	}

	return ErrorResponse{
		Code:    string(domain.CodeInternal),
		Message: "Internal server error",
		Status:  http.StatusInternalServerError,
	}
}

func logError(c *fiber.Ctx, resp ErrorResponse, err error) {
	fields := []zap.Field{
		zap.String("path", c.Path()),
		zap.String("code", resp.Code),
		zap.Int("status", resp.Status),
		zap.Error(err),
	}
	if resp.Status >= http.StatusInternalServerError {
		logger.Get().Error("Request failed", fields...)
		return
	}
	logger.Get().Warn("Request failed", fields...)
}
