package outcome

import "github.com/google/uuid"

// settings collects the optional parts of an outcome before it is frozen.
type settings struct {
	resultCode     ResultCode
	hasResultCode  bool
	description    string
	hasDescription bool
	errors         FieldErrors
	correlationID  uuid.NullUUID
}

// Option configures an outcome at construction time.
type Option func(*settings)

// WithResultCode sets the ResultCode of a success. Failure takes its ResultCode as a required argument,
// this option is ignored there.
func WithResultCode(rc ResultCode) Option {
	return func(s *settings) {
		s.resultCode = rc
		s.hasResultCode = true
	}
}

// WithCorrelationID stamps the identifier of the triggering message. uuid.Nil clears it.
func WithCorrelationID(id uuid.UUID) Option {
	return func(s *settings) {
		s.correlationID = uuid.NullUUID{UUID: id, Valid: id != uuid.Nil}
	}
}

// WithErrors adds all field errors. Only failures carry errors.
func WithErrors(errs FieldErrors) Option {
	return func(s *settings) {
		s.errors = s.errors.Merge(errs)
	}
}

// WithFieldError adds messages for one field. Only failures carry errors.
func WithFieldError(field string, messages ...string) Option {
	return func(s *settings) {
		s.errors = s.errors.Add(field, messages...)
	}
}

// WithDescription overrides the description taken from the ResultCode.
// The categorized code is not affected.
func WithDescription(description string) Option {
	return func(s *settings) {
		s.description = description
		s.hasDescription = true
	}
}

func buildSettings(opts []Option) settings {
	s := settings{}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}

	return s
}

func (s settings) describe(rc ResultCode) string {
	if s.hasDescription {
		return s.description
	}

	return rc.Description()
}
