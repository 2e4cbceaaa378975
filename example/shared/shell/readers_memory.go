package shell

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// InMemoryReaders is a Readers implementation for tests and the demo without a database.
type InMemoryReaders struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]Reader
	byEmail map[string]uuid.UUID
}

// NewInMemoryReaders creates an empty InMemoryReaders.
func NewInMemoryReaders() *InMemoryReaders {
	return &InMemoryReaders{
		byID:    make(map[uuid.UUID]Reader),
		byEmail: make(map[string]uuid.UUID),
	}
}

// ByID returns the reader with the given id.
func (r *InMemoryReaders) ByID(_ context.Context, id uuid.UUID) (Reader, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reader, ok := r.byID[id]

	return reader, ok, nil
}

// ByEmail returns the reader registered with the given email.
func (r *InMemoryReaders) ByEmail(_ context.Context, email string) (Reader, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[NormalizeEmail(email)]
	if !ok {
		return Reader{}, false, nil
	}

	return r.byID[id], true, nil
}

// Add stores a reader. It returns ErrDuplicateReader if the id or the email is taken.
func (r *InMemoryReaders) Add(ctx context.Context, reader Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	reader.Email = NormalizeEmail(reader.Email)

	if _, taken := r.byID[reader.ID]; taken {
		return ErrDuplicateReader
	}

	if _, taken := r.byEmail[reader.Email]; taken {
		return ErrDuplicateReader
	}

	r.byID[reader.ID] = reader
	r.byEmail[reader.Email] = reader.ID

	return nil
}

// All returns all readers ordered by registration time.
func (r *InMemoryReaders) All() []Reader {
	r.mu.RLock()
	defer r.mu.RUnlock()

	readers := make([]Reader, 0, len(r.byID))
	for _, reader := range r.byID {
		readers = append(readers, reader)
	}

	sort.Slice(readers, func(i, j int) bool {
		return readers[i].RegisteredAt.Before(readers[j].RegisteredAt)
	})

	return readers
}
