package demo

import (
	"context"
	"fmt"

	"github.com/AntonStoeckl/cqrs-pipeline-go/behavior"
	"github.com/AntonStoeckl/cqrs-pipeline-go/cqrs"
	"github.com/AntonStoeckl/cqrs-pipeline-go/example/features/registerreader"
	"github.com/AntonStoeckl/cqrs-pipeline-go/example/shared/shell"
	"github.com/AntonStoeckl/cqrs-pipeline-go/example/shared/shell/config"
	"github.com/AntonStoeckl/cqrs-pipeline-go/postgresbehavior"
)

const maxCommitAttempts = 3

type (
	transactionOption = postgresbehavior.TransactionOption[registerreader.Command, registerreader.Result]
	auditOption       = postgresbehavior.AuditOption[registerreader.Command, registerreader.Result]
)

// Database bundles the PostgreSQL parts of the demo.
type Database struct {
	Behaviors DatabaseBehaviors
	Readers   *shell.PostgresReaders
	Close     func()
}

// OpenDatabase connects with the configured driver, creates the tables, and builds the
// Audit, Retry, and Transaction behaviors. Retry re-runs the transaction when committing
// it failed, which is how serialization conflicts surface.
func OpenDatabase(
	ctx context.Context,
	cfg config.Config,
	logger cqrs.ContextualLogger,
	metrics cqrs.MetricsCollector,
) (*Database, error) {
	readers := shell.NewPostgresReaders("")

	txOpts := []transactionOption{
		postgresbehavior.WithIsolationLevel[registerreader.Command, registerreader.Result](postgresbehavior.IsolationSerializable),
		postgresbehavior.WithContextualLogger[registerreader.Command, registerreader.Result](logger),
	}
	auditOpts := []auditOption{
		postgresbehavior.WithAuditTableName[registerreader.Command, registerreader.Result](cfg.AuditTable),
		postgresbehavior.WithAuditContextualLogger[registerreader.Command, registerreader.Result](logger),
	}

	var (
		exec        func(ctx context.Context, statement string) error
		transaction *postgresbehavior.Transaction[registerreader.Command, registerreader.Result]
		audit       *postgresbehavior.Audit[registerreader.Command, registerreader.Result]
		closeFn     func()
		err         error
	)

	switch cfg.DBDriver {
	case config.DriverPGX:
		pool, openErr := config.NewPostgresPGXPool(ctx, cfg.PostgresDSN)
		if openErr != nil {
			return nil, openErr
		}

		closeFn = pool.Close
		exec = func(ctx context.Context, statement string) error {
			_, execErr := pool.Exec(ctx, statement)
			return execErr
		}

		if transaction, err = postgresbehavior.NewTransactionFromPGXPool(pool, txOpts...); err == nil {
			audit, err = postgresbehavior.NewAuditFromPGXPool(pool, auditOpts...)
		}

	case config.DriverSQL:
		db, openErr := config.NewPostgresSQLDB(ctx, cfg.PostgresDSN)
		if openErr != nil {
			return nil, openErr
		}

		closeFn = func() { _ = db.Close() }
		exec = func(ctx context.Context, statement string) error {
			_, execErr := db.ExecContext(ctx, statement)
			return execErr
		}

		if transaction, err = postgresbehavior.NewTransactionFromSQLDB(db, txOpts...); err == nil {
			audit, err = postgresbehavior.NewAuditFromSQLDB(db, auditOpts...)
		}

	case config.DriverSQLX:
		db, openErr := config.NewPostgresSQLX(ctx, cfg.PostgresDSN)
		if openErr != nil {
			return nil, openErr
		}

		closeFn = func() { _ = db.Close() }
		exec = func(ctx context.Context, statement string) error {
			_, execErr := db.ExecContext(ctx, statement)
			return execErr
		}

		if transaction, err = postgresbehavior.NewTransactionFromSQLX(db, txOpts...); err == nil {
			audit, err = postgresbehavior.NewAuditFromSQLX(db, auditOpts...)
		}

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.DBDriver)
	}

	if err != nil {
		closeFn()
		return nil, err
	}

	for _, statement := range []string{readers.ReadersTableDDL(), postgresbehavior.AuditTableDDL(cfg.AuditTable)} {
		if execErr := exec(ctx, statement); execErr != nil {
			closeFn()
			return nil, fmt.Errorf("create schema: %w", execErr)
		}
	}

	retry, err := newCommitRetry(logger, metrics)
	if err != nil {
		closeFn()
		return nil, err
	}

	return &Database{
		Behaviors: DatabaseBehaviors{
			Audit:       audit,
			Retry:       retry,
			Transaction: transaction,
		},
		Readers: readers,
		Close:   closeFn,
	}, nil
}

func newCommitRetry(
	logger cqrs.ContextualLogger,
	metrics cqrs.MetricsCollector,
) (*behavior.Retry[registerreader.Command, registerreader.Result], error) {
	opts := []behavior.RetryOption[registerreader.Command, registerreader.Result]{
		behavior.WithRetryableCodes[registerreader.Command, registerreader.Result](postgresbehavior.CodeCommitFailed),
		behavior.WithMaxAttempts[registerreader.Command, registerreader.Result](maxCommitAttempts),
		behavior.WithRetryContextualLogger[registerreader.Command, registerreader.Result](logger),
	}
	if metrics != nil {
		opts = append(opts, behavior.WithRetryMetrics[registerreader.Command, registerreader.Result](metrics))
	}

	return behavior.NewRetry[registerreader.Command, registerreader.Result](opts...)
}
