// Package sqlite provides SQLite persistence for proxy preferences using the
// pure Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/mudproxy/internal/settings"
	"github.com/cory-johannsen/mudproxy/internal/storage/migrations"
)

// SettingsStore implements settings.Store over a SQLite file.
type SettingsStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ settings.Store = (*SettingsStore)(nil)

func dsn(path string) string {
	pragmas := url.Values{}
	for _, p := range []string{"journal_mode(WAL)", "foreign_keys(1)", "busy_timeout(5000)", "synchronous(NORMAL)"} {
		pragmas.Add("_pragma", p)
	}
	return "file:" + path + "?" + pragmas.Encode()
}

// Open opens the database at path, creating it if needed, and applies
// pending migrations.
//
// Precondition: path must be a non-empty file path.
// Postcondition: returns a ready store or a non-nil error.
func Open(path string) (*SettingsStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlite: path is required")
	}
	if err := applyMigrations(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening sqlite store: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite store: %w", err)
	}
	return &SettingsStore{db: db, now: time.Now}, nil
}

// Migrator returns a migrator over its own handle to the database at path.
// Closing the migrator closes that handle.
func Migrator(path string) (*migrate.Migrate, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening sqlite for migration: %w", err)
	}
	m, err := migrations.SQLite(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return m, nil
}

func applyMigrations(path string) error {
	m, err := Migrator(path)
	if err != nil {
		return err
	}
	defer m.Close()
	return migrations.Up(m)
}

// Get implements settings.Store.
func (s *SettingsStore) Get(ctx context.Context, profile, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE profile = ? AND key = ?`, profile, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s/%s", settings.ErrNotFound, profile, key)
	}
	if err != nil {
		return "", fmt.Errorf("reading setting %s/%s: %w", profile, key, err)
	}
	return value, nil
}

// Set implements settings.Store.
func (s *SettingsStore) Set(ctx context.Context, profile, key, value string) error {
	if profile == "" || key == "" {
		return errors.New("sqlite: profile and key must not be empty")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (profile, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (profile, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		profile, key, value, s.now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("writing setting %s/%s: %w", profile, key, err)
	}
	return nil
}

// Delete implements settings.Store.
func (s *SettingsStore) Delete(ctx context.Context, profile, key string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM settings WHERE profile = ? AND key = ?`, profile, key,
	); err != nil {
		return fmt.Errorf("deleting setting %s/%s: %w", profile, key, err)
	}
	return nil
}

// List implements settings.Store.
func (s *SettingsStore) List(ctx context.Context, profile string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM settings WHERE profile = ?`, profile)
	if err != nil {
		return nil, fmt.Errorf("listing settings for %s: %w", profile, err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scanning setting: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

// Close implements settings.Store.
func (s *SettingsStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
