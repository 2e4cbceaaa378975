package postgresbehavior

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/cqrs-pipeline-go/cqrs"
	"github.com/AntonStoeckl/cqrs-pipeline-go/outcome"
	"github.com/AntonStoeckl/cqrs-pipeline-go/postgresbehavior/internal/adapters"
)

// Audit records one row per handled request: identity, type, outcome, and duration.
// The row is written on the behavior's own connection, so it survives a rollback of the
// request's transaction. A failed write is logged and never changes the outcome.
type Audit[Req cqrs.Request, Res cqrs.Response[Res]] struct {
	db               adapters.Querier
	tableName        string
	clock            func() time.Time
	logger           cqrs.Logger
	contextualLogger cqrs.ContextualLogger
}

// AuditOption defines a functional option for configuring Audit.
type AuditOption[Req cqrs.Request, Res cqrs.Response[Res]] func(*Audit[Req, Res]) error

// NewAuditFromPGXPool creates an Audit behavior using a pgx Pool.
func NewAuditFromPGXPool[Req cqrs.Request, Res cqrs.Response[Res]](
	db *pgxpool.Pool,
	opts ...AuditOption[Req, Res],
) (*Audit[Req, Res], error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newAudit(adapters.NewPGXAdapter(db), opts)
}

// NewAuditFromSQLDB creates an Audit behavior using a sql.DB.
func NewAuditFromSQLDB[Req cqrs.Request, Res cqrs.Response[Res]](
	db *sql.DB,
	opts ...AuditOption[Req, Res],
) (*Audit[Req, Res], error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newAudit(adapters.NewSQLAdapter(db), opts)
}

// NewAuditFromSQLX creates an Audit behavior using a sqlx.DB.
func NewAuditFromSQLX[Req cqrs.Request, Res cqrs.Response[Res]](
	db *sqlx.DB,
	opts ...AuditOption[Req, Res],
) (*Audit[Req, Res], error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newAudit(adapters.NewSQLXAdapter(db), opts)
}

func newAudit[Req cqrs.Request, Res cqrs.Response[Res]](
	db adapters.Querier,
	opts []AuditOption[Req, Res],
) (*Audit[Req, Res], error) {
	a := &Audit[Req, Res]{
		db:        db,
		tableName: defaultAuditTableName,
		clock:     time.Now,
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// WithAuditTableName sets the table the records are written to.
func WithAuditTableName[Req cqrs.Request, Res cqrs.Response[Res]](tableName string) AuditOption[Req, Res] {
	return func(a *Audit[Req, Res]) error {
		if tableName == "" {
			return ErrEmptyAuditTableName
		}

		a.tableName = tableName

		return nil
	}
}

// WithAuditLogger sets the basic logger.
func WithAuditLogger[Req cqrs.Request, Res cqrs.Response[Res]](logger cqrs.Logger) AuditOption[Req, Res] {
	return func(a *Audit[Req, Res]) error {
		a.logger = logger
		return nil
	}
}

// WithAuditContextualLogger sets the contextual logger.
func WithAuditContextualLogger[Req cqrs.Request, Res cqrs.Response[Res]](logger cqrs.ContextualLogger) AuditOption[Req, Res] {
	return func(a *Audit[Req, Res]) error {
		a.contextualLogger = logger
		return nil
	}
}

// Handle implements cqrs.Behavior.
func (a *Audit[Req, Res]) Handle(ctx context.Context, request Req, next cqrs.Next[Res]) (Res, error) {
	start := time.Now()

	// A panicking request is recorded as the exception the pipeline will turn it into.
	defer func() {
		if r := recover(); r != nil {
			var zero Res
			panicErr := fmt.Errorf("%w: %v", cqrs.ErrHandlerPanicked, r)
			a.write(context.WithoutCancel(ctx), newAuditRecord(request, zero, panicErr, time.Since(start), a.clock()))
			panic(r)
		}
	}()

	res, err := next(ctx)

	a.write(context.WithoutCancel(ctx), newAuditRecord(request, res, err, time.Since(start), a.clock()))

	return res, err
}

// auditRecord is the row written per request.
// For an unexpected error it describes the failure the caller will eventually see.
type auditRecord struct {
	requestID       uuid.UUID
	requestType     string
	code            int
	categorizedCode string
	description     string
	success         bool
	errors          outcome.FieldErrors
	duration        time.Duration
	occurredAt      time.Time
}

func newAuditRecord(request cqrs.Request, res outcome.Outcome, err error, duration time.Duration, occurredAt time.Time) auditRecord {
	record := auditRecord{
		requestID:   request.ID(),
		requestType: request.RequestType(),
		duration:    duration,
		occurredAt:  occurredAt.UTC(),
	}

	if err != nil {
		rc := cqrs.CodeForError(err)
		record.code = rc.Code()
		record.categorizedCode = rc.String()
		record.description = rc.Description()
		record.errors = outcome.NewFieldErrors()

		return record
	}

	record.code = res.Code()
	record.categorizedCode = res.CategorizedCode()
	record.description = res.Description()
	record.success = res.IsSuccess()
	record.errors = res.Errors()
	if record.errors == nil {
		record.errors = outcome.NewFieldErrors()
	}

	return record
}

func (a *Audit[Req, Res]) buildInsertQuery(record auditRecord) (string, []any, error) {
	errorsJSON, marshalErr := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(record.errors)
	if marshalErr != nil {
		return "", nil, errors.Join(ErrBuildingQueryFailed, marshalErr)
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(a.tableName).
		Prepared(true).
		Rows(goqu.Record{
			colRequestID:       record.requestID.String(),
			colRequestType:     record.requestType,
			colCode:            record.code,
			colCategorizedCode: record.categorizedCode,
			colDescription:     record.description,
			colSuccess:         record.success,
			colErrors:          goqu.L(castJsonb, string(errorsJSON)),
			colDurationMS:      float64(record.duration.Nanoseconds()) / 1e6,
			colOccurredAt:      record.occurredAt,
		})

	sqlQuery, args, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", nil, errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, args, nil
}

func (a *Audit[Req, Res]) write(ctx context.Context, record auditRecord) {
	logArgs := []any{
		cqrs.LogAttrRequestType, record.requestType,
		cqrs.LogAttrRequestID, record.requestID.String(),
		logAttrTable, a.tableName,
	}

	sqlQuery, args, buildErr := a.buildInsertQuery(record)
	if buildErr != nil {
		cqrs.LogError(ctx, a.logger, a.contextualLogger, logMsgAuditBuildFailed, append(logArgs, cqrs.LogAttrError, buildErr.Error())...)
		return
	}

	if _, execErr := a.db.Exec(ctx, sqlQuery, args...); execErr != nil {
		cqrs.LogError(ctx, a.logger, a.contextualLogger, logMsgAuditWriteFailed, append(logArgs, cqrs.LogAttrError, execErr.Error())...)
		return
	}

	cqrs.LogDebug(ctx, a.logger, a.contextualLogger, logMsgAuditWritten, append(logArgs, logAttrQuery, sqlQuery)...)
}
