package middleware

import (
	"strings"

	"quizbot/internal/auth"
	"quizbot/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	SessionIDKey        = "sessionID" // Key for storing the authorized session in fiber.Ctx locals
)

// BearerToken returns the token of a Bearer Authorization header, or "".
func BearerToken(c *fiber.Ctx) string {
	authHeader := c.Get(AuthorizationHeader)
	if !strings.HasPrefix(authHeader, BearerSchema) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
}

// RequireSessionToken protects routes under /:id so that only the holder of the
// token issued with that session may act on it. A nil manager disables the check.
func RequireSessionToken(tm *auth.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Params("id")
		if tm == nil {
			c.Locals(SessionIDKey, sessionID)
			return c.Next()
		}

		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "MISSING_AUTH_HEADER",
				Message: "Authorization header is missing",
				Status:  fiber.StatusUnauthorized,
			})
		}
		if !strings.HasPrefix(authHeader, BearerSchema) {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_AUTH_SCHEME",
				Message: "Authorization scheme is not Bearer",
				Status:  fiber.StatusUnauthorized,
			})
		}

		tokenString := BearerToken(c)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "EMPTY_TOKEN",
				Message: "Token is empty",
				Status:  fiber.StatusUnauthorized,
			})
		}

		if err := tm.Authorize(tokenString, sessionID); err != nil {
			logger.Get().Debug("Session token rejected", zap.String("session_id", sessionID), zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN",
				Message: err.Error(),
				Status:  fiber.StatusUnauthorized,
			})
		}

		c.Locals(SessionIDKey, sessionID)
		return c.Next()
	}
}
