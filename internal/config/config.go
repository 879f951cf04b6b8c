// Package config provides Viper-based configuration loading for the proxy.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// GameConfig holds the upstream game server connection settings.
type GameConfig struct {
	// Host is the game server hostname.
	Host string `mapstructure:"host"`
	// Port is the game server TCP port.
	Port int `mapstructure:"port"`
	// DialTimeout bounds the initial connection attempt.
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	// ReadTimeout is the per-read timeout on the game connection. Zero disables it.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the per-write timeout on the game connection.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the "host:port" dial address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (g GameConfig) Addr() string {
	return fmt.Sprintf("%s:%d", g.Host, g.Port)
}

// ProxyConfig holds the local listener that player frontends connect to.
type ProxyConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// ReadTimeout is the per-read timeout for frontend connections.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the per-write timeout for frontend connections.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// Profile names the settings profile preferences are read from and
	// written to.
	Profile string `mapstructure:"profile"`
	// CommandPrefix marks frontend lines the proxy handles itself instead of
	// forwarding to the game.
	CommandPrefix string `mapstructure:"command_prefix"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (p ProxyConfig) Addr() string {
	return fmt.Sprintf("%s:%d", p.Host, p.Port)
}

// StateAPIConfig holds the gRPC state query service settings.
type StateAPIConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	GRPCHost string `mapstructure:"grpc_host"`
	GRPCPort int    `mapstructure:"grpc_port"`
}

// Addr returns the "host:port" gRPC address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (s StateAPIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.GRPCHost, s.GRPCPort)
}

// Settings store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// SettingsConfig selects the persistent preference store.
type SettingsConfig struct {
	// Driver is one of "sqlite", "postgres" or "memory".
	Driver string `mapstructure:"driver"`
	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string `mapstructure:"sqlite_path"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ParserConfig tunes the game line parser.
type ParserConfig struct {
	// CapturePolicy is "keep_armed" or "reset_on_error".
	CapturePolicy string `mapstructure:"capture_policy"`
	// EchoGains is the default for the echo_exp preference when the settings
	// store has no value.
	EchoGains bool `mapstructure:"echo_gains"`
	// NoticeBuffer is the capacity of each session's notice queue.
	NoticeBuffer int `mapstructure:"notice_buffer"`
}

// ContentConfig locates on-disk content.
type ContentConfig struct {
	// FlagsDir holds YAML flag definitions. Empty disables loading.
	FlagsDir string `mapstructure:"flags_dir"`
	// ScriptsDir holds Lua automation scripts. Empty disables scripting.
	ScriptsDir string `mapstructure:"scripts_dir"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Game     GameConfig     `mapstructure:"game"`
	Proxy    ProxyConfig    `mapstructure:"proxy"`
	StateAPI StateAPIConfig `mapstructure:"state_api"`
	Settings SettingsConfig `mapstructure:"settings"`
	Database DatabaseConfig `mapstructure:"database"`
	Parser   ParserConfig   `mapstructure:"parser"`
	Content  ContentConfig  `mapstructure:"content"`
}

// Validate checks all configuration invariants. The database section is only
// checked when the postgres settings driver is selected.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateProxy(c.Proxy); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateStateAPI(c.StateAPI); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSettings(c.Settings); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Settings.Driver == DriverPostgres {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateParser(c.Parser); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validPort(p int) bool { return p >= 1 && p <= 65535 }

func validateGame(g GameConfig) error {
	var errs []string
	if g.Host == "" {
		errs = append(errs, "game.host must not be empty")
	}
	if !validPort(g.Port) {
		errs = append(errs, fmt.Sprintf("game.port must be 1-65535, got %d", g.Port))
	}
	if g.DialTimeout <= 0 {
		errs = append(errs, "game.dial_timeout must be positive")
	}
	if g.ReadTimeout < 0 {
		errs = append(errs, "game.read_timeout must not be negative")
	}
	if g.WriteTimeout < 0 {
		errs = append(errs, "game.write_timeout must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateProxy(p ProxyConfig) error {
	var errs []string
	if !validPort(p.Port) {
		errs = append(errs, fmt.Sprintf("proxy.port must be 1-65535, got %d", p.Port))
	}
	if p.ReadTimeout < 0 {
		errs = append(errs, "proxy.read_timeout must not be negative")
	}
	if p.WriteTimeout < 0 {
		errs = append(errs, "proxy.write_timeout must not be negative")
	}
	if p.Profile == "" {
		errs = append(errs, "proxy.profile must not be empty")
	}
	if p.CommandPrefix == "" {
		errs = append(errs, "proxy.command_prefix must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateStateAPI(s StateAPIConfig) error {
	if !s.Enabled {
		return nil
	}
	var errs []string
	if s.GRPCHost == "" {
		errs = append(errs, "state_api.grpc_host must not be empty")
	}
	if !validPort(s.GRPCPort) {
		errs = append(errs, fmt.Sprintf("state_api.grpc_port must be 1-65535, got %d", s.GRPCPort))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSettings(s SettingsConfig) error {
	switch s.Driver {
	case DriverSQLite:
		if s.SQLitePath == "" {
			return errors.New("settings.sqlite_path must not be empty for the sqlite driver")
		}
		return nil
	case DriverPostgres, DriverMemory:
		return nil
	}
	return fmt.Errorf("settings.driver must be one of [sqlite, postgres, memory], got %q", s.Driver)
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if !validPort(d.Port) {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateParser(p ParserConfig) error {
	var errs []string
	switch p.CapturePolicy {
	case "keep_armed", "reset_on_error":
	default:
		errs = append(errs, fmt.Sprintf("parser.capture_policy must be one of [keep_armed, reset_on_error], got %q", p.CapturePolicy))
	}
	if p.NoticeBuffer < 1 {
		errs = append(errs, fmt.Sprintf("parser.notice_buffer must be >= 1, got %d", p.NoticeBuffer))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance carrying the MUDPROXY_ environment
// overrides and every default. Callers without a config file use it with
// LoadFromViper directly.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("MUDPROXY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("game.host", "dr.simutronics.net")
	v.SetDefault("game.port", 11024)
	v.SetDefault("game.dial_timeout", "10s")
	v.SetDefault("game.read_timeout", "0s")
	v.SetDefault("game.write_timeout", "10s")

	v.SetDefault("proxy.host", "127.0.0.1")
	v.SetDefault("proxy.port", 8000)
	v.SetDefault("proxy.read_timeout", "0s")
	v.SetDefault("proxy.write_timeout", "10s")
	v.SetDefault("proxy.profile", "default")
	v.SetDefault("proxy.command_prefix", ";")

	v.SetDefault("state_api.enabled", false)
	v.SetDefault("state_api.grpc_host", "127.0.0.1")
	v.SetDefault("state_api.grpc_port", 50061)

	v.SetDefault("settings.driver", DriverSQLite)
	v.SetDefault("settings.sqlite_path", "mudproxy.db")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "mudproxy")
	v.SetDefault("database.password", "mudproxy")
	v.SetDefault("database.name", "mudproxy")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("parser.capture_policy", "keep_armed")
	v.SetDefault("parser.echo_gains", false)
	v.SetDefault("parser.notice_buffer", 32)

	v.SetDefault("content.flags_dir", "content/flags")
	v.SetDefault("content.scripts_dir", "")
}
