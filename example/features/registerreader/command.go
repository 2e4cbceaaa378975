package registerreader

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/cqrs-pipeline-go/cqrs"
)

const (
	commandType = "RegisterReader"
)

// Command represents the intent to register a new reader.
// It encapsulates all the necessary information required to execute the register reader use case.
type Command struct {
	cqrs.Identity

	ReaderID   uuid.UUID
	Name       string
	Email      string
	OccurredAt time.Time
}

// RequestType returns the type of this command for observability and routing purposes.
func (c Command) RequestType() string {
	return commandType
}

// BuildCommand creates a new Command with a new identity.
func BuildCommand(
	readerID uuid.UUID,
	name string,
	email string,
	occurredAt time.Time,
) Command {

	return Command{
		Identity:   cqrs.NewIdentity(),
		ReaderID:   readerID,
		Name:       name,
		Email:      email,
		OccurredAt: occurredAt.UTC(),
	}
}
