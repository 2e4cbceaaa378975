// Package postgresbehavior provides PostgreSQL-backed behaviors for cqrs.Pipeline.
//
//   - Transaction: runs the rest of the chain inside a database transaction, committing only
//     for a success outcome and rolling back otherwise
//   - Audit: records one row per handled request, outside of the request's transaction
//
// Both behaviors can be built from a pgxpool.Pool, a sql.DB, or a sqlx.DB. Handlers reach the
// open transaction through TxFromContext.
//
// The audit table is expected to look like this, AuditTableDDL renders the statement
// for any table name:
//
//	CREATE TABLE IF NOT EXISTS audit_log (
//	    id               BIGSERIAL PRIMARY KEY,
//	    request_id       UUID             NOT NULL,
//	    request_type     TEXT             NOT NULL,
//	    code             INTEGER          NOT NULL,
//	    categorized_code TEXT             NOT NULL,
//	    description      TEXT             NOT NULL,
//	    success          BOOLEAN          NOT NULL,
//	    errors           JSONB            NOT NULL,
//	    duration_ms      DOUBLE PRECISION NOT NULL,
//	    occurred_at      TIMESTAMPTZ      NOT NULL
//	);
package postgresbehavior
