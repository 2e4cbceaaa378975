package behavior

import "errors"

var (
	// ErrNilValidator is returned when a nil validator is supplied.
	ErrNilValidator = errors.New("validator must not be nil")

	// ErrNilMetricsCollector is returned when a nil metrics collector is supplied.
	ErrNilMetricsCollector = errors.New("metrics collector must not be nil")

	// ErrInvalidMaxAttempts is returned when max attempts are not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrNegativeBaseDelay is returned when the base delay is negative.
	ErrNegativeBaseDelay = errors.New("base delay must not be negative")

	// ErrInvalidMaxDelay is returned when the maximum backoff delay is not positive.
	ErrInvalidMaxDelay = errors.New("max delay must be positive")

	// ErrInvalidJitterFactor is returned when the jitter factor is not between 0.0 and 1.0.
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)
