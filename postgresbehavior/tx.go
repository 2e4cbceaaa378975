package postgresbehavior

import (
	"context"

	"github.com/AntonStoeckl/cqrs-pipeline-go/postgresbehavior/internal/adapters"
)

type (
	// Rows are the rows of a query executed through Tx.
	Rows = adapters.DBRows

	// Result is the result of a statement executed through Tx.
	Result = adapters.DBResult

	// IsolationLevel names a PostgreSQL transaction isolation level.
	IsolationLevel = adapters.IsolationLevel
)

// Supported isolation levels.
const (
	IsolationReadCommitted   = adapters.IsolationReadCommitted
	IsolationRepeatableRead  = adapters.IsolationRepeatableRead
	IsolationSerializable    = adapters.IsolationSerializable
	IsolationReadUncommitted = adapters.IsolationReadUncommitted
)

// Tx is the open transaction handed to handlers through the context.
// Placeholders follow PostgreSQL's $1, $2, ... syntax regardless of the underlying driver.
// Commit and rollback are owned by the Transaction behavior.
type Tx interface {
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	Exec(ctx context.Context, query string, args ...any) (Result, error)
}

type txContextKey struct{}

// ContextWithTx returns a copy of ctx that carries tx.
func ContextWithTx(ctx context.Context, tx Tx) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// TxFromContext returns the transaction opened by the Transaction behavior, if any.
func TxFromContext(ctx context.Context) (Tx, bool) {
	tx, ok := ctx.Value(txContextKey{}).(Tx)
	return tx, ok
}
