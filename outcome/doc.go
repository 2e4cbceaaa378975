// Package outcome provides the uniform result model returned by every request handler and pipeline behavior.
//
// An outcome carries a numeric code, a categorized code, a human description, a structured
// field error map, and an optional correlation identifier. Success is defined by the code alone:
// code 0 means success, every other code means failure.
//
// Key types:
//   - ResultCode: the immutable (code, category, description) triple that names an outcome
//   - Result: the untyped outcome
//   - ResultOf[T]: an outcome that additionally carries a payload on success
//   - FieldErrors: field name to ordered list of violation messages
//
// Outcomes are values: they are built once by Success/Failure (or their typed variants) and never
// change afterward. Methods that look like modifiers, such as Correlated, return a new value.
//
// Common usage pattern:
//
//	// Success without payload
//	return outcome.Success(outcome.WithCorrelationID(cmd.ID())), nil
//
//	// Typed success
//	return outcome.SuccessOf(readerID), nil
//
//	// Business failure with field errors
//	res, err := outcome.FailureOf[uuid.UUID](
//		CodeEmailTaken,
//		outcome.WithFieldError("email", "is already registered"),
//	)
//
//	// Categorized code for client-side branching
//	if res.Is(CodeEmailTaken) { ... } // "RD1"
package outcome
