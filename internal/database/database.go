package database

import (
	"fmt"

	"quizbot/internal/config"
	"quizbot/internal/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	_ "github.com/sijms/go-ora/v2"  // oracle driver
	"go.uber.org/zap"
)

func init() {
	// go-ora takes :name placeholders; sqlx does not know the driver name.
	sqlx.BindDriver("oracle", sqlx.NAMED)
}

// Open connects to the configured database and verifies the connection.
func Open(cfg *config.Config) (*sqlx.DB, error) {
	driver := cfg.DB.Driver
	db, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	if driver == "sqlite3" {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	logger.Get().Info("Connected to database", zap.String("driver", driver))
	return db, nil
}
