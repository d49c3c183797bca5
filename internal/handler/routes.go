package handler

import (
	"quizbot/internal/auth"
	"quizbot/internal/middleware"
	"quizbot/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the API under /api. tm may be nil to run without session tokens.
func RegisterRoutes(app *fiber.App, quiz *QuizHandler, tools *ToolHandler, health *HealthHandler, tm *auth.TokenManager) {
	app.Get("/health", health.Health)

	api := app.Group("/api")

	quizzes := api.Group("/quizzes")
	quizzes.Post("/", quiz.CreateQuiz)
	quizzes.Get("/:id", quiz.GetSession)
	quizzes.Delete("/:id", middleware.RequireSessionToken(tm), quiz.DeleteSession)
	quizzes.Post("/:id/answers", middleware.RequireSessionToken(tm), quiz.SubmitAnswer)
	quizzes.Post("/:id/review", middleware.RequireSessionToken(tm), quiz.ReviewQuiz)
	quizzes.Get("/:id/export", middleware.RequireSessionToken(tm), quiz.ExportSession)

	api.Get("/results", middleware.ValidateLimit(service.MaxResultLimit), quiz.ListResults)

	api.Get("/tools", tools.ListTools)
	api.Post("/tools/:name", tools.CallTool)
}
