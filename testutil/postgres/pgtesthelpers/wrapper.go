package pgtesthelpers

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/cqrs-pipeline-go/cqrs"
	shellconfig "github.com/AntonStoeckl/cqrs-pipeline-go/example/shared/shell/config"
	"github.com/AntonStoeckl/cqrs-pipeline-go/postgresbehavior"
	"github.com/AntonStoeckl/cqrs-pipeline-go/testutil/postgres/config"
)

const connectTimeout = 3 * time.Second

// Wrapper abstracts over the supported database handles.
type Wrapper interface {
	Type() string
	Exec(ctx context.Context, query string, args ...any) error
	QueryInt(ctx context.Context, query string, args ...any) (int, error)
	Close()
}

// PGXPoolWrapper wraps a pgxpool.Pool.
type PGXPoolWrapper struct {
	Pool *pgxpool.Pool
}

func (w *PGXPoolWrapper) Type() string { return config.AdapterPGXPool }

func (w *PGXPoolWrapper) Exec(ctx context.Context, query string, args ...any) error {
	_, err := w.Pool.Exec(ctx, query, args...)
	return err
}

func (w *PGXPoolWrapper) QueryInt(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	err := w.Pool.QueryRow(ctx, query, args...).Scan(&n)

	return n, err
}

func (w *PGXPoolWrapper) Close() { w.Pool.Close() }

// SQLDBWrapper wraps a sql.DB.
type SQLDBWrapper struct {
	DB *sql.DB
}

func (w *SQLDBWrapper) Type() string { return config.AdapterSQLDB }

func (w *SQLDBWrapper) Exec(ctx context.Context, query string, args ...any) error {
	_, err := w.DB.ExecContext(ctx, query, args...)
	return err
}

func (w *SQLDBWrapper) QueryInt(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	err := w.DB.QueryRowContext(ctx, query, args...).Scan(&n)

	return n, err
}

func (w *SQLDBWrapper) Close() { _ = w.DB.Close() }

// SQLXWrapper wraps a sqlx.DB.
type SQLXWrapper struct {
	DB *sqlx.DB
}

func (w *SQLXWrapper) Type() string { return config.AdapterSQLXDB }

func (w *SQLXWrapper) Exec(ctx context.Context, query string, args ...any) error {
	_, err := w.DB.ExecContext(ctx, query, args...)
	return err
}

func (w *SQLXWrapper) QueryInt(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	err := w.DB.GetContext(ctx, &n, query, args...)

	return n, err
}

func (w *SQLXWrapper) Close() { _ = w.DB.Close() }

// Connect opens a wrapper of the given adapter type.
func Connect(ctx context.Context, adapterType, dsn string) (Wrapper, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch adapterType {
	case config.AdapterPGXPool:
		pool, err := shellconfig.NewPostgresPGXPool(ctx, dsn)
		if err != nil {
			return nil, err
		}

		return &PGXPoolWrapper{Pool: pool}, nil
	case config.AdapterSQLDB:
		db, err := shellconfig.NewPostgresSQLDB(ctx, dsn)
		if err != nil {
			return nil, err
		}

		return &SQLDBWrapper{DB: db}, nil
	case config.AdapterSQLXDB:
		db, err := shellconfig.NewPostgresSQLX(ctx, dsn)
		if err != nil {
			return nil, err
		}

		return &SQLXWrapper{DB: db}, nil
	default:
		return nil, fmt.Errorf("unsupported adapter type %q", adapterType)
	}
}

// ForEachAdapter runs fn as a subtest per configured adapter.
// A subtest is skipped when the database is not reachable.
func ForEachAdapter(t *testing.T, fn func(t *testing.T, w Wrapper)) {
	t.Helper()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load postgres test config: %v", err)
	}

	for _, adapterType := range cfg.Adapters {
		t.Run(adapterType, func(t *testing.T) {
			w, connectErr := Connect(context.Background(), adapterType, cfg.DSN)
			if connectErr != nil {
				t.Skipf("postgres not reachable via %s: %v", adapterType, connectErr)
			}

			t.Cleanup(w.Close)

			fn(t, w)
		})
	}
}

// NewTransaction creates a Transaction behavior on the wrapped connection.
func NewTransaction[Req cqrs.Request, Res cqrs.Response[Res]](
	w Wrapper,
	opts ...postgresbehavior.TransactionOption[Req, Res],
) (*postgresbehavior.Transaction[Req, Res], error) {
	switch db := w.(type) {
	case *PGXPoolWrapper:
		return postgresbehavior.NewTransactionFromPGXPool[Req, Res](db.Pool, opts...)
	case *SQLDBWrapper:
		return postgresbehavior.NewTransactionFromSQLDB[Req, Res](db.DB, opts...)
	case *SQLXWrapper:
		return postgresbehavior.NewTransactionFromSQLX[Req, Res](db.DB, opts...)
	default:
		return nil, fmt.Errorf("unsupported wrapper %T", w)
	}
}

// NewAudit creates an Audit behavior on the wrapped connection.
func NewAudit[Req cqrs.Request, Res cqrs.Response[Res]](
	w Wrapper,
	opts ...postgresbehavior.AuditOption[Req, Res],
) (*postgresbehavior.Audit[Req, Res], error) {
	switch db := w.(type) {
	case *PGXPoolWrapper:
		return postgresbehavior.NewAuditFromPGXPool[Req, Res](db.Pool, opts...)
	case *SQLDBWrapper:
		return postgresbehavior.NewAuditFromSQLDB[Req, Res](db.DB, opts...)
	case *SQLXWrapper:
		return postgresbehavior.NewAuditFromSQLX[Req, Res](db.DB, opts...)
	default:
		return nil, fmt.Errorf("unsupported wrapper %T", w)
	}
}
