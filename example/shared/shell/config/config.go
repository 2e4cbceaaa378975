package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Supported database drivers.
const (
	DriverPGX  = "pgx"
	DriverSQL  = "sql"
	DriverSQLX = "sqlx"
)

// Config is the runtime configuration of the demo.
// An empty PostgresDSN runs the demo against the in-memory reader repository.
type Config struct {
	PostgresDSN  string `env:"CQRS_DEMO_POSTGRES_DSN"`
	DBDriver     string `env:"CQRS_DEMO_DB_DRIVER"     envDefault:"pgx"`
	LogLevel     string `env:"CQRS_DEMO_LOG_LEVEL"     envDefault:"info"`
	OTel         bool   `env:"CQRS_DEMO_OTEL"          envDefault:"false"`
	OTelEndpoint string `env:"CQRS_DEMO_OTEL_ENDPOINT"`
	AuditTable   string `env:"CQRS_DEMO_AUDIT_TABLE"   envDefault:"audit_log"`
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the configuration from the given variables instead of the environment.
func LoadFrom(environment map[string]string) (Config, error) {
	return parse(env.Options{Environment: environment})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.DBDriver {
	case DriverPGX, DriverSQL, DriverSQLX:
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.DBDriver)
	}

	if _, err := cfg.SlogLevel(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// UsesPostgres reports whether a database is configured.
func (c Config) UsesPostgres() bool {
	return c.PostgresDSN != ""
}

// SlogLevel maps LogLevel to a slog.Level.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLogLevel, c.LogLevel)
	}

	return level, nil
}
