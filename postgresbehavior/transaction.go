package postgresbehavior

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/cqrs-pipeline-go/cqrs"
	"github.com/AntonStoeckl/cqrs-pipeline-go/outcome"
	"github.com/AntonStoeckl/cqrs-pipeline-go/postgresbehavior/internal/adapters"
)

// Transaction runs the rest of the chain inside a database transaction.
// It commits when the chain returns a success outcome without error and rolls back otherwise,
// including when a later link panics. A chain that already runs inside a transaction opened by
// another Transaction behavior joins it instead of opening a nested one.
type Transaction[Req cqrs.Request, Res cqrs.Response[Res]] struct {
	db               adapters.DBAdapter
	txOptions        adapters.TxOptions
	logger           cqrs.Logger
	contextualLogger cqrs.ContextualLogger
}

// TransactionOption defines a functional option for configuring Transaction.
type TransactionOption[Req cqrs.Request, Res cqrs.Response[Res]] func(*Transaction[Req, Res]) error

// NewTransactionFromPGXPool creates a Transaction behavior using a pgx Pool.
func NewTransactionFromPGXPool[Req cqrs.Request, Res cqrs.Response[Res]](
	db *pgxpool.Pool,
	opts ...TransactionOption[Req, Res],
) (*Transaction[Req, Res], error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newTransaction(adapters.NewPGXAdapter(db), opts)
}

// NewTransactionFromSQLDB creates a Transaction behavior using a sql.DB.
func NewTransactionFromSQLDB[Req cqrs.Request, Res cqrs.Response[Res]](
	db *sql.DB,
	opts ...TransactionOption[Req, Res],
) (*Transaction[Req, Res], error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newTransaction(adapters.NewSQLAdapter(db), opts)
}

// NewTransactionFromSQLX creates a Transaction behavior using a sqlx.DB.
func NewTransactionFromSQLX[Req cqrs.Request, Res cqrs.Response[Res]](
	db *sqlx.DB,
	opts ...TransactionOption[Req, Res],
) (*Transaction[Req, Res], error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newTransaction(adapters.NewSQLXAdapter(db), opts)
}

func newTransaction[Req cqrs.Request, Res cqrs.Response[Res]](
	db adapters.DBAdapter,
	opts []TransactionOption[Req, Res],
) (*Transaction[Req, Res], error) {
	t := &Transaction[Req, Res]{db: db}

	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// WithIsolationLevel sets the isolation level of the transactions.
func WithIsolationLevel[Req cqrs.Request, Res cqrs.Response[Res]](level IsolationLevel) TransactionOption[Req, Res] {
	return func(t *Transaction[Req, Res]) error {
		switch level {
		case IsolationReadCommitted, IsolationRepeatableRead, IsolationSerializable, IsolationReadUncommitted:
			t.txOptions.Isolation = level
			return nil
		default:
			return fmt.Errorf("%w: %q", ErrUnknownIsolationLevel, string(level))
		}
	}
}

// WithReadOnly opens read-only transactions, e.g., for query pipelines.
func WithReadOnly[Req cqrs.Request, Res cqrs.Response[Res]]() TransactionOption[Req, Res] {
	return func(t *Transaction[Req, Res]) error {
		t.txOptions.ReadOnly = true
		return nil
	}
}

// WithLogger sets the basic logger.
func WithLogger[Req cqrs.Request, Res cqrs.Response[Res]](logger cqrs.Logger) TransactionOption[Req, Res] {
	return func(t *Transaction[Req, Res]) error {
		t.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger.
func WithContextualLogger[Req cqrs.Request, Res cqrs.Response[Res]](logger cqrs.ContextualLogger) TransactionOption[Req, Res] {
	return func(t *Transaction[Req, Res]) error {
		t.contextualLogger = logger
		return nil
	}
}

// Handle implements cqrs.Behavior.
func (t *Transaction[Req, Res]) Handle(ctx context.Context, request Req, next cqrs.Next[Res]) (res Res, err error) {
	if _, ok := TxFromContext(ctx); ok {
		cqrs.LogDebug(ctx, t.logger, t.contextualLogger, logMsgJoinedTx, t.logArgs(request)...)
		return next(ctx)
	}

	tx, beginErr := t.db.Begin(ctx, t.txOptions)
	if beginErr != nil {
		cqrs.LogError(ctx, t.logger, t.contextualLogger, logMsgBeginFailed,
			append(t.logArgs(request), cqrs.LogAttrError, beginErr.Error())...)

		rc := CodeBeginFailed
		if ctxErr := ctx.Err(); ctxErr != nil {
			rc = cqrs.CodeForError(ctxErr)
		}

		return cqrs.FailureFor[Res](rc, outcome.WithCorrelationID(request.ID()))
	}

	finished := false
	defer func() {
		if !finished {
			t.rollback(ctx, tx, request)
		}
	}()

	res, err = next(ContextWithTx(ctx, tx))
	if err != nil || !res.IsSuccess() {
		return res, err
	}

	finished = true

	if commitErr := tx.Commit(ctx); commitErr != nil {
		cqrs.LogError(ctx, t.logger, t.contextualLogger, logMsgCommitFailed,
			append(t.logArgs(request), cqrs.LogAttrError, commitErr.Error())...)

		rc := CodeCommitFailed
		if ctxErr := ctx.Err(); ctxErr != nil {
			rc = cqrs.CodeForError(ctxErr)
		}

		return cqrs.FailureFor[Res](rc, outcome.WithCorrelationID(request.ID()))
	}

	cqrs.LogDebug(ctx, t.logger, t.contextualLogger, logMsgCommitted, t.logArgs(request)...)

	return res, nil
}

func (t *Transaction[Req, Res]) rollback(ctx context.Context, tx adapters.DBTx, request Req) {
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil {
		cqrs.LogWarn(ctx, t.logger, t.contextualLogger, logMsgRollbackFailed,
			append(t.logArgs(request), cqrs.LogAttrError, err.Error())...)

		return
	}

	cqrs.LogDebug(ctx, t.logger, t.contextualLogger, logMsgRolledBack, t.logArgs(request)...)
}

func (t *Transaction[Req, Res]) logArgs(request Req) []any {
	return []any{
		cqrs.LogAttrRequestType, request.RequestType(),
		cqrs.LogAttrRequestID, request.ID().String(),
		logAttrIsolation, string(t.txOptions.Isolation),
	}
}
