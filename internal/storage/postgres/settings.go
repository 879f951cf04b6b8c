package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cory-johannsen/mudproxy/internal/config"
	"github.com/cory-johannsen/mudproxy/internal/settings"
	"github.com/cory-johannsen/mudproxy/internal/storage/migrations"
)

// SettingsStore implements settings.Store over the settings table.
type SettingsStore struct {
	pool *Pool
}

var _ settings.Store = (*SettingsStore)(nil)

// NewSettingsStore wraps an existing pool. The store takes ownership of pool
// and closes it on Close.
//
// Precondition: pool must not be nil and the schema must be migrated.
func NewSettingsStore(pool *Pool) *SettingsStore {
	if pool == nil {
		panic("postgres.NewSettingsStore: pool must not be nil")
	}
	return &SettingsStore{pool: pool}
}

// OpenSettings migrates the database described by cfg and connects a store.
//
// Postcondition: returns a ready store or a non-nil error.
func OpenSettings(ctx context.Context, cfg config.DatabaseConfig) (*SettingsStore, error) {
	m, err := migrations.Postgres(cfg.DSN())
	if err != nil {
		return nil, err
	}
	err = migrations.Up(m)
	srcErr, dbErr := m.Close()
	if err != nil {
		return nil, err
	}
	if err := errors.Join(srcErr, dbErr); err != nil {
		return nil, fmt.Errorf("closing migrator: %w", err)
	}

	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewSettingsStore(pool), nil
}

// Get implements settings.Store.
func (s *SettingsStore) Get(ctx context.Context, profile, key string) (string, error) {
	var value string
	err := s.pool.DB().QueryRow(ctx,
		`SELECT value FROM settings WHERE profile = $1 AND key = $2`, profile, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
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
		return errors.New("postgres: profile and key must not be empty")
	}
	_, err := s.pool.DB().Exec(ctx, `
		INSERT INTO settings (profile, key, value, updated_at) VALUES ($1, $2, $3, NOW())
		ON CONFLICT (profile, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		profile, key, value,
	)
	if err != nil {
		return fmt.Errorf("writing setting %s/%s: %w", profile, key, err)
	}
	return nil
}

// Delete implements settings.Store.
func (s *SettingsStore) Delete(ctx context.Context, profile, key string) error {
	if _, err := s.pool.DB().Exec(ctx,
		`DELETE FROM settings WHERE profile = $1 AND key = $2`, profile, key,
	); err != nil {
		return fmt.Errorf("deleting setting %s/%s: %w", profile, key, err)
	}
	return nil
}

// List implements settings.Store.
func (s *SettingsStore) List(ctx context.Context, profile string) (map[string]string, error) {
	rows, err := s.pool.DB().Query(ctx,
		`SELECT key, value FROM settings WHERE profile = $1`, profile)
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
	s.pool.Close()
	return nil
}

// Health checks that the database answers within timeout.
func (s *SettingsStore) Health(ctx context.Context, timeout time.Duration) error {
	return s.pool.Health(ctx, timeout)
}
