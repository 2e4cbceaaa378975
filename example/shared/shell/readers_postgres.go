package shell

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/AntonStoeckl/cqrs-pipeline-go/postgresbehavior"
)

const (
	dialectPostgres       = "postgres"
	defaultReadersTable   = "readers"
	colID                 = "id"
	colName               = "name"
	colEmail              = "email"
	colRegisteredAt       = "registered_at"
	readersTableStatement = `CREATE TABLE IF NOT EXISTS %s (
    id            UUID        PRIMARY KEY,
    name          TEXT        NOT NULL,
    email         TEXT        NOT NULL UNIQUE,
    registered_at TIMESTAMPTZ NOT NULL
)`
)

// ErrBuildingQueryFailed is returned when building a SQL statement failed.
var ErrBuildingQueryFailed = errors.New("building query failed")

// PostgresReaders is a Readers implementation that works on the transaction opened by
// postgresbehavior.Transaction, so it has to be used from within a transactional pipeline.
type PostgresReaders struct {
	table string
}

// NewPostgresReaders creates a PostgresReaders on the given table, "readers" if empty.
func NewPostgresReaders(table string) *PostgresReaders {
	if table == "" {
		table = defaultReadersTable
	}

	return &PostgresReaders{table: table}
}

// ReadersTableDDL returns the CREATE TABLE IF NOT EXISTS statement for the readers table.
func (r *PostgresReaders) ReadersTableDDL() string {
	return fmt.Sprintf(readersTableStatement, pgx.Identifier{r.table}.Sanitize())
}

// ByID returns the reader with the given id.
func (r *PostgresReaders) ByID(ctx context.Context, id uuid.UUID) (Reader, bool, error) {
	return r.selectOne(ctx, goqu.Ex{colID: id.String()})
}

// ByEmail returns the reader registered with the given email.
func (r *PostgresReaders) ByEmail(ctx context.Context, email string) (Reader, bool, error) {
	return r.selectOne(ctx, goqu.Ex{colEmail: NormalizeEmail(email)})
}

// Add stores a reader. It returns ErrDuplicateReader if the id or the email is taken.
func (r *PostgresReaders) Add(ctx context.Context, reader Reader) error {
	tx, ok := postgresbehavior.TxFromContext(ctx)
	if !ok {
		return ErrNoTransaction
	}

	sqlQuery, args, err := goqu.Dialect(dialectPostgres).
		Insert(r.table).
		Prepared(true).
		Rows(goqu.Record{
			colID:           reader.ID.String(),
			colName:         reader.Name,
			colEmail:        NormalizeEmail(reader.Email),
			colRegisteredAt: reader.RegisteredAt.UTC(),
		}).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return errors.Join(ErrBuildingQueryFailed, err)
	}

	result, err := tx.Exec(ctx, sqlQuery, args...)
	if err != nil {
		return fmt.Errorf("insert reader: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert reader: %w", err)
	}

	if affected == 0 {
		return ErrDuplicateReader
	}

	return nil
}

func (r *PostgresReaders) selectOne(ctx context.Context, where goqu.Ex) (Reader, bool, error) {
	tx, ok := postgresbehavior.TxFromContext(ctx)
	if !ok {
		return Reader{}, false, ErrNoTransaction
	}

	sqlQuery, args, err := goqu.Dialect(dialectPostgres).
		From(r.table).
		Select(goqu.L("id::text"), colName, colEmail, colRegisteredAt).
		Where(where).
		Limit(1).
		Prepared(true).
		ToSQL()
	if err != nil {
		return Reader{}, false, errors.Join(ErrBuildingQueryFailed, err)
	}

	rows, err := tx.Query(ctx, sqlQuery, args...)
	if err != nil {
		return Reader{}, false, fmt.Errorf("select reader: %w", err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return Reader{}, false, rows.Err()
	}

	var (
		id           string
		reader       Reader
		registeredAt time.Time
	)

	if scanErr := rows.Scan(&id, &reader.Name, &reader.Email, &registeredAt); scanErr != nil {
		return Reader{}, false, fmt.Errorf("scan reader: %w", scanErr)
	}

	reader.ID, err = uuid.Parse(id)
	if err != nil {
		return Reader{}, false, fmt.Errorf("parse reader id: %w", err)
	}

	reader.RegisteredAt = registeredAt.UTC()

	return reader, true, nil
}
