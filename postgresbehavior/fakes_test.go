package postgresbehavior_test

import (
	"context"
	"errors"
	"sync"

	"github.com/AntonStoeckl/cqrs-pipeline-go/cqrs"
	"github.com/AntonStoeckl/cqrs-pipeline-go/postgresbehavior/internal/adapters"
)

type registerReader struct {
	cqrs.Identity
	Email string
}

func (registerReader) RequestType() string { return "RegisterReader" }

type execCall struct {
	query   string
	args    []any
	ctxDone bool
}

// fakeDB records what the behaviors do with the database.
type fakeDB struct {
	mu          sync.Mutex
	beginErr    error
	commitErr   error
	execErr     error
	txOptions   []adapters.TxOptions
	commits     int
	rollbacks   int
	execs       []execCall
	txExecs     []execCall
	openTxCount int
}

var errQueryNotSupported = errors.New("query not supported by fakeDB")

func (f *fakeDB) Begin(_ context.Context, opts adapters.TxOptions) (adapters.DBTx, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.beginErr != nil {
		return nil, f.beginErr
	}

	f.txOptions = append(f.txOptions, opts)
	f.openTxCount++

	return &fakeTx{db: f}, nil
}

func (f *fakeDB) Query(_ context.Context, _ string, _ ...any) (adapters.DBRows, error) {
	return nil, errQueryNotSupported
}

func (f *fakeDB) Exec(ctx context.Context, query string, args ...any) (adapters.DBResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.execs = append(f.execs, execCall{query: query, args: args, ctxDone: ctx.Err() != nil})
	if f.execErr != nil {
		return nil, f.execErr
	}

	return rowsAffected(1), nil
}

func (f *fakeDB) snapshot() fakeDB {
	f.mu.Lock()
	defer f.mu.Unlock()

	return fakeDB{
		txOptions:   append([]adapters.TxOptions(nil), f.txOptions...),
		commits:     f.commits,
		rollbacks:   f.rollbacks,
		execs:       append([]execCall(nil), f.execs...),
		txExecs:     append([]execCall(nil), f.txExecs...),
		openTxCount: f.openTxCount,
	}
}

type fakeTx struct {
	db *fakeDB
}

func (t *fakeTx) Query(_ context.Context, _ string, _ ...any) (adapters.DBRows, error) {
	return nil, errQueryNotSupported
}

func (t *fakeTx) Exec(_ context.Context, query string, args ...any) (adapters.DBResult, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	t.db.txExecs = append(t.db.txExecs, execCall{query: query, args: args})

	return rowsAffected(1), nil
}

func (t *fakeTx) Commit(_ context.Context) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	t.db.commits++

	return t.db.commitErr
}

func (t *fakeTx) Rollback(_ context.Context) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	t.db.rollbacks++

	return nil
}

type rowsAffected int64

func (r rowsAffected) RowsAffected() (int64, error) {
	return int64(r), nil
}
