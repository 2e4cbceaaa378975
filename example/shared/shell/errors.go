package shell

import "errors"

var (
	// ErrDuplicateReader is returned by Readers.Add when the reader id or the email is already registered.
	ErrDuplicateReader = errors.New("reader id or email already registered")

	// ErrNoTransaction is returned by PostgresReaders when the context carries no transaction.
	ErrNoTransaction = errors.New("no transaction in context")
)
