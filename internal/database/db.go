// Package database provides the sqlite connection, schema migrations and the
// sqlx-backed preference store.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"github.com/edgard/nexabot/migrations"

	_ "modernc.org/sqlite" //revive:disable:blank-imports
)

// memoryPath opens a private in-memory database.
const memoryPath = ":memory:"

// connPragmas tune the single connection the store uses. Preference writes
// are tiny and frequent, so WAL with NORMAL sync keeps callbacks fast.
var connPragmas = []string{
	"PRAGMA busy_timeout = 5000;",
	"PRAGMA journal_mode = WAL;",
	"PRAGMA synchronous = NORMAL;",
}

// Open connects to the preference database at path, creating the file and
// its directory when missing, and applies the embedded migrations.
func Open(path string, logger *slog.Logger) (*sqlx.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "database")

	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("preference database path is empty")
	}
	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One connection for the process lifetime: sqlite serialises writers
	// and the pragmas below are per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range connPragmas {
		if _, err := db.Exec(pragma); err != nil {
			Close(db, logger)
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := migrateUp(db.DB, log); err != nil {
		Close(db, logger)
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	log.Info("Preference database ready", "path", path)
	return db, nil
}

// Close closes db. A nil db is ignored.
func Close(db *sqlx.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := db.Close(); err != nil {
		logger.Error("Error closing preference database", "error", err)
		return
	}
	logger.Info("Preference database closed.")
}

func migrateUp(db *sql.DB, log *slog.Logger) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	dbDriver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite migration driver: %w", err)
	}
	migrator, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Debug("Preference schema is up to date.")
			return nil
		}
		return err
	}

	version, _, err := migrator.Version()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	log.Info("Preference schema migrated", "version", version)
	return nil
}
