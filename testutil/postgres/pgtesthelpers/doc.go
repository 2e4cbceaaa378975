// Package pgtesthelpers runs PostgreSQL integration tests against every supported driver.
//
// Wrapper hides whether a test talks to a pgx.Pool, a sql.DB, or a sqlx.DB. ForEachAdapter runs
// a test once per adapter selected in testutil/postgres/config and skips it when the database
// is not reachable. NewTransaction and NewAudit build the postgresbehavior behaviors on top of
// the wrapped connection.
package pgtesthelpers
