package postgresbehavior

const (
	logMsgBeginFailed      = "transaction begin failed"
	logMsgCommitFailed     = "transaction commit failed"
	logMsgRollbackFailed   = "transaction rollback failed"
	logMsgCommitted        = "transaction committed"
	logMsgRolledBack       = "transaction rolled back"
	logMsgJoinedTx         = "joined enclosing transaction"
	logMsgAuditBuildFailed = "failed to build audit insert"
	logMsgAuditWriteFailed = "failed to write audit record"
	logMsgAuditWritten     = "audit record written"
	logAttrIsolation       = "isolation"
	logAttrTable           = "table"
	logAttrQuery           = "query"
	dialectPostgres        = "postgres"
	castJsonb              = "?::jsonb"
	defaultAuditTableName  = "audit_log"
	colRequestID           = "request_id"
	colRequestType         = "request_type"
	colCode                = "code"
	colCategorizedCode     = "categorized_code"
	colDescription         = "description"
	colSuccess             = "success"
	colErrors              = "errors"
	colDurationMS          = "duration_ms"
	colOccurredAt          = "occurred_at"
)
