package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/partspoint/checkout-backend/pkg/errors"
)

// Repository stores live checkout sessions. Implementations expire sessions
// after the configured TTL.
type Repository interface {
	Save(ctx context.Context, session *Session) error
	Find(ctx context.Context, id uuid.UUID) (*Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type memoryEntry struct {
	session   *Session
	expiresAt time.Time
}

type memoryRepository struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryRepository keeps sessions in process memory. Suitable for a
// single instance; multi-instance deployments use the redis repository.
func NewMemoryRepository(ttl time.Duration) Repository {
	return &memoryRepository{
		entries: make(map[uuid.UUID]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (r *memoryRepository) Save(ctx context.Context, session *Session) error {
	if session == nil || session.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "session id required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[session.ID] = memoryEntry{
		session:   session.Clone(),
		expiresAt: r.now().Add(r.ttl),
	}
	return nil
}

func (r *memoryRepository) Find(ctx context.Context, id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	entry, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout session not found")
	}
	if r.ttl > 0 && r.now().After(entry.expiresAt) {
		r.mu.Lock()
		delete(r.entries, id)
		r.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout session expired")
	}
	return entry.session.Clone(), nil
}

func (r *memoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
	return nil
}
