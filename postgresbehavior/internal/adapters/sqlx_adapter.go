package adapters

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// SQLXAdapter implements DBAdapter for sqlx.DB.
type SQLXAdapter struct {
	db *sqlx.DB
}

// NewSQLXAdapter creates a new SQLX adapter.
func NewSQLXAdapter(db *sqlx.DB) *SQLXAdapter {
	return &SQLXAdapter{db: db}
}

// Query executes a query using the sqlx.DB and returns wrapped rows.
func (s *SQLXAdapter) Query(ctx context.Context, query string, args ...any) (DBRows, error) {
	return sqlxQuery(ctx, s.db, query, args)
}

// Exec executes a statement using the sqlx.DB and returns the wrapped result.
func (s *SQLXAdapter) Exec(ctx context.Context, query string, args ...any) (DBResult, error) {
	return sqlExec(ctx, s.db, query, args)
}

// Begin starts a transaction.
func (s *SQLXAdapter) Begin(ctx context.Context, opts TxOptions) (DBTx, error) {
	tx, err := s.db.BeginTxx(ctx, sqlTxOptions(opts))
	if err != nil {
		return nil, err
	}

	return &sqlxTx{stdTx: stdTx{tx: tx.Tx}, txx: tx}, nil
}

// sqlxTx queries through sqlx.Tx and shares commit and rollback with stdTx.
type sqlxTx struct {
	stdTx
	txx *sqlx.Tx
}

func (t *sqlxTx) Query(ctx context.Context, query string, args ...any) (DBRows, error) {
	return sqlxQuery(ctx, t.txx, query, args)
}

// sqlxQuerier is what sqlx.DB and sqlx.Tx have in common.
type sqlxQuerier interface {
	QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
}

func sqlxQuery(ctx context.Context, q sqlxQuerier, query string, args []any) (DBRows, error) {
	rows, err := q.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &stdRows{rows: rows.Rows}, nil
}
