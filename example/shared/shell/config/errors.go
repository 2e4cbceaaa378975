package config

import "errors"

var (
	// ErrUnknownDriver is returned for a CQRS_DEMO_DB_DRIVER other than pgx, sql, or sqlx.
	ErrUnknownDriver = errors.New("unknown database driver")

	// ErrUnknownLogLevel is returned for a CQRS_DEMO_LOG_LEVEL slog does not know.
	ErrUnknownLogLevel = errors.New("unknown log level")
)
