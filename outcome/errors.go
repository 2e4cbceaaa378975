package outcome

import "errors"

// ErrSuccessCodeOnFailure is returned when a failure is constructed with a success (0) code.
var ErrSuccessCodeOnFailure = errors.New("failure must not carry a success result code")
