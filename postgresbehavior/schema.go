package postgresbehavior

import (
	"fmt"

	"github.com/jackc/pgx/v5"
)

const auditTableDDL = `CREATE TABLE IF NOT EXISTS %s (
    id               BIGSERIAL PRIMARY KEY,
    request_id       UUID             NOT NULL,
    request_type     TEXT             NOT NULL,
    code             INTEGER          NOT NULL,
    categorized_code TEXT             NOT NULL,
    description      TEXT             NOT NULL,
    success          BOOLEAN          NOT NULL,
    errors           JSONB            NOT NULL,
    duration_ms      DOUBLE PRECISION NOT NULL,
    occurred_at      TIMESTAMPTZ      NOT NULL
)`

// AuditTableDDL returns the CREATE TABLE IF NOT EXISTS statement for an audit table.
// An empty name yields the default table audit_log.
func AuditTableDDL(tableName string) string {
	if tableName == "" {
		tableName = defaultAuditTableName
	}

	return fmt.Sprintf(auditTableDDL, pgx.Identifier{tableName}.Sanitize())
}
