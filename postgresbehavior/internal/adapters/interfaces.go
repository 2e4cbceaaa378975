package adapters

import "context"

// Querier executes parameterized statements. Placeholders follow PostgreSQL's $1, $2, ... syntax.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (DBRows, error)
	Exec(ctx context.Context, query string, args ...any) (DBResult, error)
}

// DBAdapter defines the database operations needed by the behaviors.
type DBAdapter interface {
	Querier
	Begin(ctx context.Context, opts TxOptions) (DBTx, error)
}

// DBTx is an open transaction.
type DBTx interface {
	Querier
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
}

// IsolationLevel names a PostgreSQL transaction isolation level. The empty value means the server default.
type IsolationLevel string

// Supported isolation levels, spelled as in PostgreSQL.
const (
	IsolationDefault         IsolationLevel = ""
	IsolationReadCommitted   IsolationLevel = "read committed"
	IsolationRepeatableRead  IsolationLevel = "repeatable read"
	IsolationSerializable    IsolationLevel = "serializable"
	IsolationReadUncommitted IsolationLevel = "read uncommitted"
)

// TxOptions configure a transaction.
type TxOptions struct {
	Isolation IsolationLevel
	ReadOnly  bool
}
