package outcome

import "strconv"

const (
	// DefaultCategory is used for every ResultCode created without a category.
	DefaultCategory = "DF"

	// CustomCategory groups ad-hoc codes created with CustomCode.
	CustomCategory = "CUSTOM"
)

var (
	// CodeSuccess is the canonical success code. Code 0 is reserved for success in every category.
	CodeSuccess = NewResultCode(0, DefaultCategory, "Success")

	// CodeException denotes an unexpected or unhandled fault.
	CodeException = NewResultCode(1, DefaultCategory, "Exception")

	// CodeFailure denotes an expected failure, e.g., a violated business rule or invalid input.
	CodeFailure = NewResultCode(2, DefaultCategory, "Failure")
)

// ResultCode is the canonical (code, category, description) triple that names an outcome.
// The numeric code is meant for fast comparisons, the rendered String form "{category}{code}"
// is the stable machine-readable identifier across service boundaries.
type ResultCode struct {
	code        int
	category    string
	description string
}

// NewResultCode creates a ResultCode. It does not validate the input, the same numeric code
// may be used in different categories.
func NewResultCode(code int, category, description string) ResultCode {
	return ResultCode{
		code:        code,
		category:    category,
		description: description,
	}
}

// CustomCode creates a ResultCode in the CustomCategory, rendered as "CUSTOM{code}".
func CustomCode(code int, description string) ResultCode {
	return NewResultCode(code, CustomCategory, description)
}

// Code returns the numeric code.
func (rc ResultCode) Code() int {
	return rc.code
}

// Category returns the category tag, DefaultCategory if none was given.
func (rc ResultCode) Category() string {
	if rc.category == "" {
		return DefaultCategory
	}

	return rc.category
}

// Description returns the human-readable description, which may be empty.
func (rc ResultCode) Description() string {
	return rc.description
}

// IsSuccess reports whether the code denotes success.
func (rc ResultCode) IsSuccess() bool {
	return rc.code == 0
}

// String renders the categorized code "{category}{code}", e.g. "DF2".
func (rc ResultCode) String() string {
	return rc.Category() + strconv.Itoa(rc.code)
}
