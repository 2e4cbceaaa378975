package cqrs

import "github.com/google/uuid"

// Identified is implemented by every request and notification.
// ID must return the same value on every call for the lifetime of the message.
type Identified interface {
	ID() uuid.UUID
}

// Identity is meant to be embedded into request and notification types.
// The identifier is generated once by NewIdentity and stored, it is never recomputed on access.
type Identity struct {
	id uuid.UUID
}

// NewIdentity creates an Identity with a new random identifier.
func NewIdentity() Identity {
	return Identity{id: uuid.New()}
}

// IdentityOf creates an Identity for a known identifier, e.g., when a message is re-hydrated.
func IdentityOf(id uuid.UUID) Identity {
	return Identity{id: id}
}

// ID returns the stored identifier.
func (i Identity) ID() uuid.UUID {
	return i.id
}

// IsZero reports whether the Identity was never initialized.
func (i Identity) IsZero() bool {
	return i.id == uuid.Nil
}
