// Package adapters provide database adapter implementations for the PostgreSQL behaviors.
//
// This package implements the adapter pattern to support multiple PostgreSQL database libraries:
// pgxpool.Pool, sql.DB, and sqlx.DB. All adapters provide equivalent functionality through
// a common DBAdapter interface: parameterized statements on the connection itself and
// transactions with a configurable isolation level and access mode.
package adapters
