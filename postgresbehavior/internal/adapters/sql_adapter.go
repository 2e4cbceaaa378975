package adapters

import (
	"context"
	"database/sql"
)

// SQLAdapter implements DBAdapter for sql.DB.
type SQLAdapter struct {
	db *sql.DB
}

// NewSQLAdapter creates a new SQL adapter.
func NewSQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{db: db}
}

// Query executes a query using the sql.DB and returns wrapped rows.
func (s *SQLAdapter) Query(ctx context.Context, query string, args ...any) (DBRows, error) {
	return sqlQuery(ctx, s.db, query, args)
}

// Exec executes a statement using the sql.DB and returns the wrapped result.
func (s *SQLAdapter) Exec(ctx context.Context, query string, args ...any) (DBResult, error) {
	return sqlExec(ctx, s.db, query, args)
}

// Begin starts a transaction.
func (s *SQLAdapter) Begin(ctx context.Context, opts TxOptions) (DBTx, error) {
	tx, err := s.db.BeginTx(ctx, sqlTxOptions(opts))
	if err != nil {
		return nil, err
	}

	return &stdTx{tx: tx}, nil
}
