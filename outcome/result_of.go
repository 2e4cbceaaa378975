package outcome

import "github.com/google/uuid"

// ResultOf is an outcome that carries a payload of type T on success.
// It is a Result with one additional immutable field, all Result rules apply unchanged.
// The Result part is held unexported so it cannot be replaced after construction.
type ResultOf[T any] struct {
	base    Result
	data    T
	hasData bool
}

// SuccessOf creates a successful ResultOf carrying data.
func SuccessOf[T any](data T, opts ...Option) ResultOf[T] {
	return ResultOf[T]{
		base:    Success(opts...),
		data:    data,
		hasData: true,
	}
}

// FailureOf creates a failed ResultOf without data.
// It returns ErrSuccessCodeOnFailure if rc denotes success.
func FailureOf[T any](rc ResultCode, opts ...Option) (ResultOf[T], error) {
	res, err := Failure(rc, opts...)
	if err != nil {
		return ResultOf[T]{}, err
	}

	return ResultOf[T]{base: res}, nil
}

// MustFailureOf is like FailureOf but panics if rc denotes success.
func MustFailureOf[T any](rc ResultCode, opts ...Option) ResultOf[T] {
	res, err := FailureOf[T](rc, opts...)
	if err != nil {
		panic(err)
	}

	return res
}

// Data returns the payload and whether it is present. Failures never carry data,
// also not a SuccessOf that was given a failure code with WithResultCode.
// Presence of data must not be used to decide success, use IsSuccess.
func (r ResultOf[T]) Data() (T, bool) {
	if !r.hasData || r.IsFailure() {
		var zero T
		return zero, false
	}

	return r.data, true
}

// Untyped returns the plain Result part.
func (r ResultOf[T]) Untyped() Result {
	return r.base
}

// Code returns the numeric code.
func (r ResultOf[T]) Code() int {
	return r.base.Code()
}

// CategorizedCode returns the rendered "{category}{code}" string.
func (r ResultOf[T]) CategorizedCode() string {
	return r.base.CategorizedCode()
}

// Description returns the human-readable description.
func (r ResultOf[T]) Description() string {
	return r.base.Description()
}

// IsSuccess reports whether the code is 0.
func (r ResultOf[T]) IsSuccess() bool {
	return r.base.IsSuccess()
}

// IsFailure reports whether the code is not 0.
func (r ResultOf[T]) IsFailure() bool {
	return r.base.IsFailure()
}

// Errors returns a copy of the field errors. It is never nil.
func (r ResultOf[T]) Errors() FieldErrors {
	return r.base.Errors()
}

// CorrelationID returns the identifier of the triggering message, if one was stamped.
func (r ResultOf[T]) CorrelationID() (uuid.UUID, bool) {
	return r.base.CorrelationID()
}

// Is reports whether the outcome was built from a ResultCode with the same categorized code.
func (r ResultOf[T]) Is(rc ResultCode) bool {
	return r.base.Is(rc)
}

// String implements fmt.Stringer for logging.
func (r ResultOf[T]) String() string {
	return r.base.String()
}

// Correlated returns a copy of r that carries the given correlation id.
func (r ResultOf[T]) Correlated(id uuid.UUID) ResultOf[T] {
	c := r
	c.base = r.base.Correlated(id)

	return c
}

// AsFailure creates a failed ResultOf[T].
func (ResultOf[T]) AsFailure(rc ResultCode, opts ...Option) (ResultOf[T], error) {
	return FailureOf[T](rc, opts...)
}
