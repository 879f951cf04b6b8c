package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/cory-johannsen/mudproxy/internal/config"
	"github.com/cory-johannsen/mudproxy/internal/storage/migrations"
	"github.com/cory-johannsen/mudproxy/internal/storage/sqlite"
)

func migrateCmd() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:       "migrate up|down",
		Short:     "Apply or roll back the settings database schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runMigrate(cmd, cfg.Settings, cfg.Database, args[0], steps)
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 0, "number of steps (0 = all)")
	return cmd
}

func newMigrator(s config.SettingsConfig, db config.DatabaseConfig) (*migrate.Migrate, error) {
	switch s.Driver {
	case config.DriverPostgres:
		return migrations.Postgres(db.DSN())
	case config.DriverSQLite:
		return sqlite.Migrator(s.SQLitePath)
	}
	return nil, fmt.Errorf("settings driver %q has no schema to migrate", s.Driver)
}

func runMigrate(cmd *cobra.Command, s config.SettingsConfig, db config.DatabaseConfig, direction string, steps int) error {
	start := time.Now()
	m, err := newMigrator(s, db)
	if err != nil {
		return err
	}
	defer m.Close()

	switch direction {
	case "up":
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
	default:
		return fmt.Errorf("invalid direction %q: must be 'up' or 'down'", direction)
	}

	noChange := errors.Is(err, migrate.ErrNoChange)
	if err != nil && !noChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, _ := m.Version()
	elapsed := time.Since(start)
	if noChange {
		cmd.Printf("no changes (version=%d dirty=%v) [%s]\n", version, dirty, elapsed)
	} else {
		cmd.Printf("migrated %s to version=%d dirty=%v [%s]\n", direction, version, dirty, elapsed)
	}
	return nil
}
