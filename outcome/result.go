package outcome

import (
	"fmt"

	"github.com/google/uuid"
)

// Outcome is the read-only view shared by Result and every ResultOf[T].
type Outcome interface {
	Code() int
	CategorizedCode() string
	Description() string
	IsSuccess() bool
	IsFailure() bool
	Errors() FieldErrors
	CorrelationID() (uuid.UUID, bool)
}

// Result is the untyped outcome of a handler or behavior.
// All fields are set once by Success or Failure and never change afterward.
// The zero value reads as a success with an empty categorized code; always use the factories.
type Result struct {
	code            int
	categorizedCode string
	description     string
	errors          FieldErrors
	correlationID   uuid.NullUUID
}

// Success creates a successful Result. The ResultCode defaults to CodeSuccess.
// Field errors are never attached to a success, error options are ignored.
//
// A non-zero code passed with WithResultCode yields a Result that reports IsFailure,
// because the code is the single source of truth for success. Use Failure for failures.
func Success(opts ...Option) Result {
	s := buildSettings(opts)

	rc := CodeSuccess
	if s.hasResultCode {
		rc = s.resultCode
	}

	return Result{
		code:            rc.Code(),
		categorizedCode: rc.String(),
		description:     s.describe(rc),
		errors:          NewFieldErrors(),
		correlationID:   s.correlationID,
	}
}

// Failure creates a failed Result for the given ResultCode, which is required.
// It returns ErrSuccessCodeOnFailure if rc denotes success.
func Failure(rc ResultCode, opts ...Option) (Result, error) {
	if rc.IsSuccess() {
		return Result{}, fmt.Errorf("%w: %s", ErrSuccessCodeOnFailure, rc)
	}

	s := buildSettings(opts)

	errs := s.errors
	if errs == nil {
		errs = NewFieldErrors()
	}

	return Result{
		code:            rc.Code(),
		categorizedCode: rc.String(),
		description:     s.describe(rc),
		errors:          errs,
		correlationID:   s.correlationID,
	}, nil
}

// MustFailure is like Failure but panics if rc denotes success.
// It is meant for fixed, known failure codes.
func MustFailure(rc ResultCode, opts ...Option) Result {
	res, err := Failure(rc, opts...)
	if err != nil {
		panic(err)
	}

	return res
}

// Code returns the numeric code.
func (r Result) Code() int {
	return r.code
}

// CategorizedCode returns the rendered "{category}{code}" string.
func (r Result) CategorizedCode() string {
	return r.categorizedCode
}

// Description returns the human-readable description.
func (r Result) Description() string {
	return r.description
}

// IsSuccess reports whether the code is 0.
func (r Result) IsSuccess() bool {
	return r.code == 0
}

// IsFailure reports whether the code is not 0.
func (r Result) IsFailure() bool {
	return !r.IsSuccess()
}

// Errors returns a copy of the field errors. It is never nil.
func (r Result) Errors() FieldErrors {
	return r.errors.Clone()
}

// CorrelationID returns the identifier of the triggering message, if one was stamped.
func (r Result) CorrelationID() (uuid.UUID, bool) {
	return r.correlationID.UUID, r.correlationID.Valid
}

// Is reports whether the Result was built from a ResultCode with the same categorized code.
func (r Result) Is(rc ResultCode) bool {
	return r.categorizedCode == rc.String()
}

// Correlated returns a copy of r that carries the given correlation id. uuid.Nil clears it.
func (r Result) Correlated(id uuid.UUID) Result {
	c := r
	c.errors = r.errors.Clone()
	c.correlationID = uuid.NullUUID{UUID: id, Valid: id != uuid.Nil}

	return c
}

// AsFailure creates a failed Result. It exists so that generic code can synthesize a failure
// of the same shape as a given outcome type, see ResultOf.AsFailure.
func (Result) AsFailure(rc ResultCode, opts ...Option) (Result, error) {
	return Failure(rc, opts...)
}

// String implements fmt.Stringer for logging.
func (r Result) String() string {
	if r.description == "" {
		return r.categorizedCode
	}

	return r.categorizedCode + " " + r.description
}
