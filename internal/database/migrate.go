package database

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"quizbot/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations
var migrationsFS embed.FS

// Direction selects which way Migrate moves the schema.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Migrate applies (or reverts) the embedded migrations for db's driver.
func Migrate(db *sqlx.DB, dir Direction) error {
	switch db.DriverName() {
	case "oracle":
		return migrateOracle(db, dir)
	case "sqlite3", "postgres":
		return migrateWithLibrary(db, dir)
	default:
		return fmt.Errorf("no migrations for driver %q", db.DriverName())
	}
}

func migrateWithLibrary(db *sqlx.DB, dir Direction) error {
	driverName := db.DriverName()
	src, err := iofs.New(migrationsFS, "migrations/"+driverName)
	if err != nil {
		return fmt.Errorf("could not open embedded migrations: %w", err)
	}

	var target migratedb.Driver
	if driverName == "postgres" {
		target, err = postgres.WithInstance(db.DB, &postgres.Config{})
	} else {
		target, err = sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	}
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driverName, target)
	if err != nil {
		return fmt.Errorf("could not create migrator: %w", err)
	}

	if dir == Down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration %s failed: %w", dir, err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("could not read migration version: %w", verr)
	}
	logger.Get().Info("Migrations completed",
		zap.String("driver", driverName),
		zap.String("direction", string(dir)),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
	return nil
}

// migrateOracle runs one statement per file in name order. Objects that
// already exist (ORA-00955) or are already gone (ORA-00942, ORA-01418) are skipped.
func migrateOracle(db *sqlx.DB, dir Direction) error {
	files, err := migrationFiles("migrations/oracle", dir)
	if err != nil {
		return err
	}

	for _, name := range files {
		content, err := migrationsFS.ReadFile("migrations/oracle/" + name)
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", name, err)
		}
		stmt := strings.TrimSuffix(strings.TrimSpace(string(content)), ";")

		if _, err := db.Exec(stmt); err != nil {
			if isIgnorableOracleError(err) {
				logger.Get().Info("Skipped migration", zap.String("file", name), zap.Error(err))
				continue
			}
			return fmt.Errorf("could not execute migration %s: %w", name, err)
		}
		logger.Get().Info("Executed migration", zap.String("file", name))
	}
	return nil
}

func migrationFiles(root string, dir Direction) ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, root)
	if err != nil {
		return nil, fmt.Errorf("could not read migrations directory: %w", err)
	}

	suffix := "." + string(dir) + ".sql"
	var files []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), suffix) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	if dir == Down {
		sort.Sort(sort.Reverse(sort.StringSlice(files)))
	}
	return files, nil
}

func isIgnorableOracleError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "ORA-00955") || strings.Contains(msg, "ORA-00942") || strings.Contains(msg, "ORA-01418")
}
