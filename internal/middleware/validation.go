package middleware

import (
	"strconv"

	"quizbot/internal/domain"

	"github.com/gofiber/fiber/v2"
)

const ValidatedLimitKey = "validated_limit"

// ValidateLimit parses the optional limit query parameter into locals.
// Absent means 0, which the service replaces with its default.
func ValidateLimit(max int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := 0
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				return domain.ValidationErrors{domain.NewInvalidFormatError("limit", raw)}
			}
			if parsed < 1 || parsed > max {
				return domain.ValidationErrors{domain.NewOutOfRangeError("limit", parsed, 1, max)}
			}
			limit = parsed
		}
		c.Locals(ValidatedLimitKey, limit)
		return c.Next()
	}
}
