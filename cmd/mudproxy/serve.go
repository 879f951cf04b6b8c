package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/mudproxy/internal/config"
	"github.com/cory-johannsen/mudproxy/internal/game/session"
	"github.com/cory-johannsen/mudproxy/internal/observability"
	"github.com/cory-johannsen/mudproxy/internal/proxy"
	"github.com/cory-johannsen/mudproxy/internal/scripting"
	"github.com/cory-johannsen/mudproxy/internal/server"
	"github.com/cory-johannsen/mudproxy/internal/stateapi"
	"github.com/cory-johannsen/mudproxy/internal/storage"
)

const healthInterval = 30 * time.Second

// healthChecker is implemented by settings stores backed by a server.
type healthChecker interface {
	Health(ctx context.Context, timeout time.Duration) error
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Accept client connections and proxy them to the game",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	start := time.Now()
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting mudproxy",
		zap.String("version", version),
		zap.String("proxy_addr", cfg.Proxy.Addr()),
		zap.String("game_addr", cfg.Game.Addr()),
		zap.String("settings_driver", cfg.Settings.Driver),
	)

	store, err := storage.OpenSettings(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening settings store: %w", err)
	}

	sessions := session.NewManager()
	var scripts *scripting.Manager
	if cfg.Content.ScriptsDir != "" {
		scripts = scripting.NewManager(cfg.Content.ScriptsDir, 0, logger)
	}

	bridge, err := proxy.NewBridge(cfg, sessions, store, scripts, logger)
	if err != nil {
		_ = store.Close()
		return err
	}

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("proxy", proxy.NewAcceptor(cfg.Proxy, bridge, logger))
	if cfg.StateAPI.Enabled {
		lifecycle.Add("state_api", stateapi.NewServer(cfg.StateAPI, sessions, logger))
	}
	if hc, ok := store.(healthChecker); ok {
		lifecycle.Add("settings_health", storeHealth(hc, logger))
	}

	lifecycle.OnShutdown("settings", store.Close)
	if scripts != nil {
		lifecycle.OnShutdown("scripting", func() error {
			scripts.Close()
			return nil
		})
	}

	logger.Info("mudproxy initialized", zap.Duration("startup", time.Since(start)))
	return lifecycle.Run(ctx)
}

// storeHealth periodically pings a server-backed settings store.
func storeHealth(hc healthChecker, logger *zap.Logger) server.Service {
	quit := make(chan struct{})
	return &server.FuncService{
		StartFn: func() error {
			ticker := time.NewTicker(healthInterval)
			defer ticker.Stop()
			for {
				select {
				case <-quit:
					return nil
				case <-ticker.C:
					if err := hc.Health(context.Background(), 5*time.Second); err != nil {
						logger.Warn("settings store health check failed", zap.Error(err))
					}
				}
			}
		},
		StopFn: func() { close(quit) },
	}
}
