package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
)

// MigratePostgres applies every pending "up" migration found under
// sourceURL/postgres to the database at databaseURL.
func MigratePostgres(databaseURL, sourceURL string, logger *slog.Logger) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}
	return runMigrations(joinSource(sourceURL, "postgres"), "postgres", driver, logger)
}

// MigrateSQLite applies every pending "up" migration found under
// sourceURL/sqlite to db.
func MigrateSQLite(db *sql.DB, sourceURL string, logger *slog.Logger) error {
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create sqlite driver instance for migrations: %w", err)
	}
	return runMigrations(joinSource(sourceURL, "sqlite"), "sqlite", driver, logger)
}

func runMigrations(sourceURL, dbName string, driver database.Driver, logger *slog.Logger) error {
	m, err := migrate.NewWithDatabaseInstance(sourceURL, dbName, driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", upErr)
	}

	// Closing the sqlite driver would close the caller's *sql.DB.
	if dbName != "sqlite" {
		sourceErr, dbErr := m.Close()
		if sourceErr != nil {
			return fmt.Errorf("migration source error: %w", sourceErr)
		}
		if dbErr != nil {
			return fmt.Errorf("migration database error: %w", dbErr)
		}
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.", slog.String("database", dbName))
	} else {
		logger.Info("Database migrations applied successfully.", slog.String("database", dbName))
	}
	return nil
}

func joinSource(sourceURL, dir string) string {
	return strings.TrimSuffix(sourceURL, "/") + "/" + dir
}
