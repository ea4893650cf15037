package cache

import (
	"context"
	"sync"
	"time"

	"github.com/printshop/backend/internal/domain/shared"
)

// InMemoryLocker implements Locker with an in-memory map. Expired locks are
// reclaimed lazily on the next TryLock for the same key.
type InMemoryLocker struct {
	mu    sync.Mutex
	locks map[string]time.Time
}

var _ shared.Locker = (*InMemoryLocker)(nil)

// NewInMemoryLocker creates a new in-memory locker
func NewInMemoryLocker() *InMemoryLocker {
	return &InMemoryLocker{
		locks: make(map[string]time.Time),
	}
}

// TryLock attempts to acquire the lock for key with the given TTL
func (l *InMemoryLocker) TryLock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if expiresAt, held := l.locks[key]; held && time.Now().Before(expiresAt) {
		return false, nil
	}

	l.locks[key] = time.Now().Add(ttl)
	return true, nil
}

// Unlock releases the lock for key. Releasing an unheld lock is a no-op.
func (l *InMemoryLocker) Unlock(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.locks, key)
	return nil
}
