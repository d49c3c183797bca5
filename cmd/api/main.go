// @title Quizbot API
// @version 1.0
// @description Generates multiple-choice quizzes on any topic, runs them one question at a time and reviews the result.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer SESSION_TOKEN' with the token returned when the quiz was generated.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "quizbot/cmd/api/docs"
	"quizbot/internal/app"
	"quizbot/internal/config"
	"quizbot/internal/handler"
	"quizbot/internal/logger"
	"quizbot/internal/middleware"
	"quizbot/internal/scheduler"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	components, err := app.Build(context.Background(), cfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer components.Close()

	purger := scheduler.New(components.Results, cfg.History)
	if err := purger.Start(); err != nil {
		appLogger.Fatal("Failed to start scheduler", zap.Error(err))
	}
	defer purger.Stop()

	quizHandler := handler.NewQuizHandler(components.Quiz)
	toolHandler := handler.NewToolHandler(components.Registry)
	healthHandler := handler.NewHealthHandler(components.Cache)

	fiberApp := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.WriteTimeout,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	fiberApp.Use(recover.New())
	fiberApp.Use(middleware.RequestLogger())
	fiberApp.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))

	fiberApp.Get("/swagger/*", swagger.HandlerDefault)
	handler.RegisterRoutes(fiberApp, quizHandler, toolHandler, healthHandler, components.Tokens)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Env))
		if err := fiberApp.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fiberApp.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
