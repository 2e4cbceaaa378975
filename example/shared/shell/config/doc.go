// Package config provides the runtime configuration of the reader registration example.
//
// Settings are read from CQRS_DEMO_* environment variables. The package also contains factory
// functions for PostgreSQL connections using the supported drivers (pgx.Pool, sql.DB, sqlx.DB)
// and the optional OpenTelemetry setup.
//
// This package is part of the shell (infrastructure) layer.
package config
