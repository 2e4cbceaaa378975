package postgresbehavior

import "errors"

var (
	// ErrNilDatabaseConnection is returned when a nil database connection is supplied.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrEmptyAuditTableName is returned when an empty audit table name is supplied.
	ErrEmptyAuditTableName = errors.New("audit table name must not be empty")

	// ErrUnknownIsolationLevel is returned for an isolation level PostgreSQL does not know.
	ErrUnknownIsolationLevel = errors.New("unknown isolation level")

	// ErrBuildingQueryFailed is returned when building a SQL statement failed.
	ErrBuildingQueryFailed = errors.New("building query failed")
)
