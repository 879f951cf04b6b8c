// Package postgres keeps proxy preferences in a shared PostgreSQL database so
// several proxies can serve the same profiles.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/mudproxy/internal/config"
)

// applicationName tags proxy connections in pg_stat_activity.
const applicationName = "mudproxy"

// Pool is the pgx pool behind a SettingsStore.
type Pool struct {
	db *pgxpool.Pool
}

// NewPool connects to the database in cfg and pings it.
//
// Precondition: cfg passes config validation for the postgres driver.
// Postcondition: Returns a ready Pool, or an error with no pool left open.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	db, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return &Pool{db: db}, nil
}

func poolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.ConnConfig.RuntimeParams["application_name"] = applicationName
	return pc, nil
}

// Health pings the database, giving up after timeout.
func (p *Pool) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := p.db.Ping(ctx); err != nil {
		return fmt.Errorf("settings database unreachable: %w", err)
	}
	return nil
}

// Close releases every connection. Calling it twice is safe.
func (p *Pool) Close() {
	p.db.Close()
}

// DB exposes the pgx pool for queries.
func (p *Pool) DB() *pgxpool.Pool {
	return p.db
}
