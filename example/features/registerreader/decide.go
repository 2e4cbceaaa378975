package registerreader

import "github.com/AntonStoeckl/cqrs-pipeline-go/example/shared/shell"

// Decision is the outcome of the business rules for one command.
type Decision int

const (
	// DecisionRegister means the reader must be stored.
	DecisionRegister Decision = iota

	// DecisionAlreadyRegistered means the same reader is already registered.
	DecisionAlreadyRegistered

	// DecisionEmailTaken means another reader is registered with the email.
	DecisionEmailTaken

	// DecisionReaderIDTaken means the reader id is registered with another email.
	DecisionReaderIDTaken
)

// State is what the repository knows about the command's reader id and email.
type State struct {
	RegisteredWithID    *shell.Reader
	RegisteredWithEmail *shell.Reader
}

// Decide implements the business logic to determine whether a reader should be registered.
// This is a pure function with no side effects.
//
// Business Rules:
//
//	GIVEN: A reader with ReaderID and Email
//	WHEN: RegisterReader command is received
//	THEN: the reader is registered
//	ERROR: another reader is registered with the email, or the id is registered with another email
//	IDEMPOTENCY: If the same reader is already registered, nothing is stored
func Decide(s State, command Command) Decision {
	email := shell.NormalizeEmail(command.Email)

	if s.RegisteredWithID != nil {
		if shell.NormalizeEmail(s.RegisteredWithID.Email) == email {
			return DecisionAlreadyRegistered
		}

		return DecisionReaderIDTaken
	}

	if s.RegisteredWithEmail != nil {
		return DecisionEmailTaken
	}

	return DecisionRegister
}
