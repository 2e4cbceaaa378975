package outcome

import "sort"

// FieldErrors maps a field or key name to an ordered list of violation messages.
// It is the only error map shape carried by an outcome.
type FieldErrors map[string][]string

// NewFieldErrors creates an empty FieldErrors.
func NewFieldErrors() FieldErrors {
	return make(FieldErrors)
}

// Add appends messages to the given field and returns the (possibly newly allocated) map,
// so it can be used as a builder starting from a nil FieldErrors:
//
//	errs := outcome.FieldErrors(nil).Add("email", "is required")
func (fe FieldErrors) Add(field string, messages ...string) FieldErrors {
	if fe == nil {
		fe = make(FieldErrors)
	}

	fe[field] = append(fe[field], messages...)

	return fe
}

// Merge adds all messages of other, keeping their order, and returns the resulting map.
func (fe FieldErrors) Merge(other FieldErrors) FieldErrors {
	for _, field := range other.Fields() {
		fe = fe.Add(field, other[field]...)
	}

	if fe == nil {
		fe = make(FieldErrors)
	}

	return fe
}

// Clone returns a deep copy. The copy is never nil.
func (fe FieldErrors) Clone() FieldErrors {
	clone := make(FieldErrors, len(fe))
	for field, messages := range fe {
		clone[field] = append([]string(nil), messages...)
	}

	return clone
}

// Has reports whether the field has at least one message.
func (fe FieldErrors) Has(field string) bool {
	return len(fe[field]) > 0
}

// IsEmpty reports whether there are no messages at all.
func (fe FieldErrors) IsEmpty() bool {
	for _, messages := range fe {
		if len(messages) > 0 {
			return false
		}
	}

	return true
}

// Fields returns the field names in lexical order.
func (fe FieldErrors) Fields() []string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}

	sort.Strings(fields)

	return fields
}
