package registerreader

import (
	"context"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/cqrs-pipeline-go/behavior"
	"github.com/AntonStoeckl/cqrs-pipeline-go/outcome"
)

const maxNameLength = 120

// Field names used in field errors.
const (
	FieldReaderID = "readerId"
	FieldName     = "name"
	FieldEmail    = "email"
)

// Validators returns the input validators of the command, meant for behavior.NewValidation.
func Validators() []behavior.Validator[Command] {
	return []behavior.Validator[Command]{
		behavior.ValidatorFunc[Command](validateReaderID),
		behavior.ValidatorFunc[Command](validateName),
		behavior.ValidatorFunc[Command](validateEmail),
	}
}

func validateReaderID(_ context.Context, command Command) outcome.FieldErrors {
	if command.ReaderID == uuid.Nil {
		return outcome.FieldErrors(nil).Add(FieldReaderID, "is required")
	}

	return nil
}

func validateName(_ context.Context, command Command) outcome.FieldErrors {
	name := strings.TrimSpace(command.Name)

	switch {
	case name == "":
		return outcome.FieldErrors(nil).Add(FieldName, "is required")
	case utf8.RuneCountInString(name) > maxNameLength:
		return outcome.FieldErrors(nil).Add(FieldName, "must not be longer than 120 characters")
	default:
		return nil
	}
}

func validateEmail(_ context.Context, command Command) outcome.FieldErrors {
	email := strings.TrimSpace(command.Email)
	if email == "" {
		return outcome.FieldErrors(nil).Add(FieldEmail, "is required")
	}

	address, err := mail.ParseAddress(email)
	if err != nil || address.Address != email {
		return outcome.FieldErrors(nil).Add(FieldEmail, "is not a valid email address")
	}

	return nil
}
