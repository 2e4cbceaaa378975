package readerregistered

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/cqrs-pipeline-go/cqrs"
	"github.com/AntonStoeckl/cqrs-pipeline-go/example/shared/shell"
)

// MessageKindWelcomeMail is the outbox kind of welcome mails.
const MessageKindWelcomeMail = "welcome_mail"

// ErrNilOutbox is returned when a nil outbox is supplied.
var ErrNilOutbox = errors.New("outbox must not be nil")

// Outbox accepts outgoing messages for later delivery.
type Outbox interface {
	Enqueue(ctx context.Context, message shell.Message) error
}

// WelcomeMailHandler enqueues a welcome mail for every registered reader.
type WelcomeMailHandler struct {
	outbox Outbox
	clock  func() time.Time
}

// NewWelcomeMailHandler creates a WelcomeMailHandler writing to the given outbox.
func NewWelcomeMailHandler(outbox Outbox, clock func() time.Time) (WelcomeMailHandler, error) {
	if outbox == nil {
		return WelcomeMailHandler{}, ErrNilOutbox
	}

	if clock == nil {
		clock = time.Now
	}

	return WelcomeMailHandler{outbox: outbox, clock: clock}, nil
}

// Handle implements cqrs.NotificationHandler.
func (h WelcomeMailHandler) Handle(ctx context.Context, notification Notification) error {
	err := h.outbox.Enqueue(ctx, shell.Message{
		ID:          uuid.New(),
		Kind:        MessageKindWelcomeMail,
		Recipient:   notification.Email,
		Subject:     "Welcome to the library",
		Body:        fmt.Sprintf("Hello %s, your reader id is %s.", notification.Name, notification.ReaderID),
		EnqueuedAt:  h.clock().UTC(),
		CausationID: notification.ID(),
	})
	if err != nil {
		return fmt.Errorf("enqueue welcome mail: %w", err)
	}

	return nil
}

var _ cqrs.NotificationHandler[Notification] = WelcomeMailHandler{}
