package cqrs

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/cqrs-pipeline-go/outcome"
)

// CategoryPipeline groups the result codes synthesized by the Pipeline itself.
const CategoryPipeline = "PL"

var (
	// CodeCanceled is returned when the context was canceled before or during handling.
	CodeCanceled = outcome.NewResultCode(1, CategoryPipeline, "Canceled")

	// CodeDeadlineExceeded is returned when the context deadline passed before or during handling.
	CodeDeadlineExceeded = outcome.NewResultCode(2, CategoryPipeline, "Deadline exceeded")

	// CodeMissingIdentity is returned for a request whose ID is uuid.Nil.
	CodeMissingIdentity = outcome.NewResultCode(3, CategoryPipeline, "Missing request identity")
)

// IsCancellation reports whether o was synthesized for a canceled or timed-out context.
func IsCancellation(o outcome.Outcome) bool {
	switch o.CategorizedCode() {
	case CodeCanceled.String(), CodeDeadlineExceeded.String():
		return true
	default:
		return false
	}
}

// CodeForError maps an unexpected error to the code of the failure that replaces it.
// Context errors map to CodeCanceled or CodeDeadlineExceeded, everything else to outcome.CodeException.
func CodeForError(err error) outcome.ResultCode {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return CodeDeadlineExceeded
	case errors.Is(err, context.Canceled):
		return CodeCanceled
	default:
		return outcome.CodeException
	}
}
