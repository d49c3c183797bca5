package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"quizbot/internal/app"
	"quizbot/internal/config"
	"quizbot/internal/console"
	"quizbot/internal/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	// Keep the terminal readable: only warnings and above.
	cfg.Logger.Level = "warn"
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := app.Build(ctx, cfg)
	if err != nil {
		logger.Get().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer components.Close()

	fmt.Println("Quiz time! Type q at any prompt to quit.")
	if err := console.NewRunner(components.Quiz, os.Stdin, os.Stdout).Run(ctx); err != nil {
		logger.Get().Error("Quiz aborted", zap.Error(err))
		os.Exit(1)
	}
}
