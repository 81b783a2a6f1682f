package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies every pending migration found at migrationsPath
// (for example "file://./migrations") to db. No pending changes is not an error.
func RunMigrations(db *sql.DB, migrationsPath string) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(migrationsPath, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Open opens the database and brings its schema up to date
func Open(dbPath, migrationsPath string) (*DB, error) {
	database, err := New(dbPath)
	if err != nil {
		return nil, err
	}

	sqlDB, err := database.GetSQLDB()
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if err := RunMigrations(sqlDB, migrationsPath); err != nil {
		_ = database.Close()
		return nil, err
	}

	return database, nil
}
