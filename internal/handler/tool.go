package handler

import (
	"quizbot/internal/middleware"
	"quizbot/internal/tool"

	"github.com/gofiber/fiber/v2"
)

// ToolHandler exposes the operation registry over HTTP
type ToolHandler struct {
	registry *tool.Registry
}

func NewToolHandler(registry *tool.Registry) *ToolHandler {
	return &ToolHandler{registry: registry}
}

// ListTools godoc
// @Summary List operations
// @Tags tools
// @Produce json
// @Success 200 {array} tool.Descriptor
// @Router /tools [get]
func (h *ToolHandler) ListTools(c *fiber.Ctx) error {
	return c.JSON(h.registry.Describe())
}

// CallTool godoc
// @Summary Run an operation by name
// @Description The body is the operation input. Session-scoped operations require the session token.
// @Tags tools
// @Accept json
// @Produce json
// @Param name path string true "Operation name"
// @Success 200 {object} object
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /tools/{name} [post]
func (h *ToolHandler) CallTool(c *fiber.Ctx) error {
	ctx := tool.WithBearer(c.UserContext(), middleware.BearerToken(c))
	out, err := h.registry.Dispatch(ctx, c.Params("name"), c.Body())
	if err != nil {
		return err
	}
	return c.JSON(out)
}
