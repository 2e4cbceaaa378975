package shell

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Message is an outgoing message waiting for delivery.
type Message struct {
	ID          uuid.UUID `json:"id"`
	Kind        string    `json:"kind"`
	Recipient   string    `json:"recipient"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	EnqueuedAt  time.Time `json:"enqueuedAt"`
	CausationID uuid.UUID `json:"causationId"`
}

// InMemoryOutbox collects outgoing messages. It is safe for concurrent use.
type InMemoryOutbox struct {
	mu       sync.Mutex
	messages []Message
}

// NewInMemoryOutbox creates an empty outbox.
func NewInMemoryOutbox() *InMemoryOutbox {
	return &InMemoryOutbox{}
}

// Enqueue adds a message.
func (o *InMemoryOutbox) Enqueue(ctx context.Context, message Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.messages = append(o.messages, message)

	return nil
}

// Messages returns a copy of all enqueued messages in enqueue order.
func (o *InMemoryOutbox) Messages() []Message {
	o.mu.Lock()
	defer o.mu.Unlock()

	return append([]Message(nil), o.messages...)
}
