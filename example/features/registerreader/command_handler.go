package registerreader

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/cqrs-pipeline-go/cqrs"
	"github.com/AntonStoeckl/cqrs-pipeline-go/example/shared/shell"
	"github.com/AntonStoeckl/cqrs-pipeline-go/outcome"
)

// ErrNilReaders is returned when a nil reader repository is supplied.
var ErrNilReaders = errors.New("readers must not be nil")

// Result is the outcome of the use case: the id of the registered reader on success.
type Result = outcome.ResultOf[uuid.UUID]

// CommandHandler orchestrates the command processing workflow: Query -> Decide -> Store.
// Cross-cutting concerns like validation, transactions, and observability are behaviors
// of the pipeline the handler is registered with.
type CommandHandler struct {
	readers shell.Readers
}

// NewCommandHandler creates a new CommandHandler with the provided reader repository.
func NewCommandHandler(readers shell.Readers) (CommandHandler, error) {
	if readers == nil {
		return CommandHandler{}, ErrNilReaders
	}

	return CommandHandler{readers: readers}, nil
}

// Handle executes the command processing workflow.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	s, err := h.query(ctx, command)
	if err != nil {
		return Result{}, err
	}

	switch Decide(s, command) {
	case DecisionAlreadyRegistered:
		return outcome.SuccessOf(command.ReaderID, outcome.WithResultCode(CodeAlreadyRegistered)), nil

	case DecisionReaderIDTaken:
		return outcome.FailureOf[uuid.UUID](CodeReaderIDTaken,
			outcome.WithFieldError(FieldReaderID, "is already registered with another email"))

	case DecisionEmailTaken:
		return emailTaken()
	}

	addErr := h.readers.Add(ctx, shell.Reader{
		ID:           command.ReaderID,
		Name:         command.Name,
		Email:        command.Email,
		RegisteredAt: command.OccurredAt,
	})
	if errors.Is(addErr, shell.ErrDuplicateReader) {
		// a concurrent registration won the race after the query phase
		return emailTaken()
	}

	if addErr != nil {
		return Result{}, addErr
	}

	return outcome.SuccessOf(command.ReaderID), nil
}

func (h CommandHandler) query(ctx context.Context, command Command) (State, error) {
	var s State

	byID, found, err := h.readers.ByID(ctx, command.ReaderID)
	if err != nil {
		return State{}, err
	}

	if found {
		s.RegisteredWithID = &byID
	}

	byEmail, found, err := h.readers.ByEmail(ctx, command.Email)
	if err != nil {
		return State{}, err
	}

	if found {
		s.RegisteredWithEmail = &byEmail
	}

	return s, nil
}

func emailTaken() (Result, error) {
	return outcome.FailureOf[uuid.UUID](CodeEmailTaken, outcome.WithFieldError(FieldEmail, "is already taken"))
}

var _ cqrs.RequestHandler[Command, Result] = CommandHandler{}
