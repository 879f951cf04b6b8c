// Package migrations embeds the settings schema for each supported database
// and builds golang-migrate runners over it.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// FS holds the migration files, one directory per driver.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

// Postgres returns a migrator for the database at dsn.
//
// Precondition: dsn must be a postgres:// URL.
// Postcondition: the caller owns the returned Migrate and must Close it.
func Postgres(dsn string) (*migrate.Migrate, error) {
	src, err := iofs.New(FS, "postgres")
	if err != nil {
		return nil, fmt.Errorf("opening postgres migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating postgres migrator: %w", err)
	}
	return m, nil
}

// SQLite returns a migrator bound to an already open SQLite handle.
//
// Precondition: db must be opened with the "sqlite" driver.
// Postcondition: closing the returned Migrate also closes db.
func SQLite(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("creating sqlite migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("creating sqlite migrator: %w", err)
	}
	return m, nil
}

// Up applies every pending migration. Having nothing to apply is not an error.
func Up(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}
