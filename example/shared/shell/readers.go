package shell

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Reader is a registered library reader.
type Reader struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// Readers is the repository of registered readers.
// Emails are compared after NormalizeEmail.
type Readers interface {
	ByID(ctx context.Context, id uuid.UUID) (Reader, bool, error)
	ByEmail(ctx context.Context, email string) (Reader, bool, error)
	Add(ctx context.Context, reader Reader) error
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
