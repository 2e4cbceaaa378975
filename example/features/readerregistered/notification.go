package readerregistered

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/cqrs-pipeline-go/cqrs"
)

const notificationType = "ReaderRegistered"

// Notification tells interested parties that a reader was registered.
type Notification struct {
	cqrs.Identity

	ReaderID     uuid.UUID
	Name         string
	Email        string
	RegisteredAt time.Time

	// CausationID is the id of the command that registered the reader.
	CausationID uuid.UUID
}

// NotificationType returns the type of this notification for observability and routing purposes.
func (n Notification) NotificationType() string {
	return notificationType
}

// BuildNotification creates a new Notification with a new identity.
func BuildNotification(readerID uuid.UUID, name, email string, registeredAt time.Time, causationID uuid.UUID) Notification {
	return Notification{
		Identity:     cqrs.NewIdentity(),
		ReaderID:     readerID,
		Name:         name,
		Email:        email,
		RegisteredAt: registeredAt.UTC(),
		CausationID:  causationID,
	}
}
