package handler

import (
	"context"
	"time"

	"quizbot/internal/domain"
	"quizbot/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const healthPingTimeout = 2 * time.Second

// HealthHandler reports whether the session cache is reachable
type HealthHandler struct {
	cache domain.Cache
}

func NewHealthHandler(cache domain.Cache) *HealthHandler {
	return &HealthHandler{cache: cache}
}

// Health answers 503 when the cache does not respond to a ping.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthPingTimeout)
		defer cancel()
		if err := h.cache.Ping(ctx); err != nil {
			logger.Get().Warn("Health check: cache unreachable", zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "cache": "unreachable"})
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
