package main

import (
	"flag"
	"log"

	"quizbot/internal/config"
	"quizbot/internal/database"
	"quizbot/internal/logger"

	"go.uber.org/zap"
)

func main() {
	down := flag.Bool("down", false, "revert every migration instead of applying them")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	db, err := database.Open(cfg)
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	dir := database.Up
	if *down {
		dir = database.Down
	}
	if err := database.Migrate(db, dir); err != nil {
		l.Fatal("Failed to run migrations", zap.String("direction", string(dir)), zap.Error(err))
	}
	l.Info("Migrations finished", zap.String("direction", string(dir)), zap.String("driver", cfg.DB.Driver))
}
