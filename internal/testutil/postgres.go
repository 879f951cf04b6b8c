// Package testutil holds integration test fixtures: a disposable PostgreSQL
// server, a telnet client for the proxy listener and a fake game server.
package testutil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cory-johannsen/mudproxy/internal/config"
	"github.com/cory-johannsen/mudproxy/internal/storage/migrations"
	"github.com/cory-johannsen/mudproxy/internal/storage/postgres"
)

const (
	pgImage    = "postgres:16-alpine"
	pgUser     = "test"
	pgPassword = "test"
	pgDatabase = "test"
)

// PostgresContainer is a throwaway PostgreSQL server with the settings
// schema applied.
type PostgresContainer struct {
	Config config.DatabaseConfig
	Pool   *postgres.Pool
}

// NewPostgresContainer starts a server, migrates it and connects a pool.
// Everything is torn down when the test ends. The test is skipped in -short
// mode since it needs Docker.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	ctx := context.Background()
	start := time.Now()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        pgImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       pgDatabase,
			},
			// postgres logs readiness once for the init server and once for
			// the real one.
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting %s: %v [%s]", pgImage, err, time.Since(start))
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}

	cfg := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            pgUser,
		Password:        pgPassword,
		Name:            pgDatabase,
		SSLMode:         "disable",
		MaxConns:        4,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
	}
	if err := migrate(cfg); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		t.Fatalf("connecting to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	t.Logf("postgres ready at %s:%d [%s]", host, cfg.Port, time.Since(start))
	return &PostgresContainer{Config: cfg, Pool: pool}
}

func migrate(cfg config.DatabaseConfig) error {
	m, err := migrations.Postgres(cfg.DSN())
	if err != nil {
		return err
	}
	err = migrations.Up(m)
	srcErr, dbErr := m.Close()
	return errors.Join(err, srcErr, dbErr)
}
