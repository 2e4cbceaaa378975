package cqrs

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNilHandler is returned when a nil handler is supplied.
	ErrNilHandler = errors.New("handler must not be nil")

	// ErrNilBehavior is returned when a nil behavior is supplied.
	ErrNilBehavior = errors.New("behavior must not be nil")

	// ErrMissingIdentity is returned when a notification has no identity.
	ErrMissingIdentity = errors.New("message identity must not be nil")

	// ErrHandlerPanicked wraps a value recovered from a panicking handler or behavior.
	ErrHandlerPanicked = errors.New("handler panicked")

	// ErrInvalidMaxConcurrency is returned when a negative concurrency limit is supplied.
	ErrInvalidMaxConcurrency = errors.New("max concurrency must not be negative")
)

// HandlerError describes the failure of one notification handler.
type HandlerError struct {
	Index            int
	NotificationType string
	NotificationID   uuid.UUID
	Err              error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("notification handler #%d for %s %s failed: %v",
		e.Index, e.NotificationType, e.NotificationID, e.Err)
}

// Unwrap returns the handler's error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}
