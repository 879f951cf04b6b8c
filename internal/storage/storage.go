// Package storage selects the settings backend named by configuration.
package storage

import (
	"context"
	"fmt"

	"github.com/cory-johannsen/mudproxy/internal/config"
	"github.com/cory-johannsen/mudproxy/internal/settings"
	"github.com/cory-johannsen/mudproxy/internal/storage/postgres"
	"github.com/cory-johannsen/mudproxy/internal/storage/sqlite"
)

// OpenSettings opens the store for cfg.Settings.Driver, migrating it first
// for the SQL drivers.
//
// Precondition: cfg must have passed Validate.
// Postcondition: the caller owns the returned store and must Close it.
func OpenSettings(ctx context.Context, cfg config.Config) (settings.Store, error) {
	switch cfg.Settings.Driver {
	case config.DriverMemory:
		return settings.NewMemory(), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.Settings.SQLitePath)
	case config.DriverPostgres:
		return postgres.OpenSettings(ctx, cfg.Database)
	}
	return nil, fmt.Errorf("unknown settings driver %q", cfg.Settings.Driver)
}
