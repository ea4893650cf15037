package shared

import (
	"context"
	"time"
)

// Locker provides mutual exclusion keyed by an arbitrary string.
// The fulfillment creation workflow acquires a lock keyed by the local order
// ID so that at most one creation attempt per order is in flight at a time.
type Locker interface {
	// TryLock attempts to acquire the lock for key with the given TTL.
	// Returns true if the lock was acquired, false if it is held elsewhere.
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Unlock releases the lock for key. Releasing an unheld lock is a no-op.
	Unlock(ctx context.Context, key string) error
}
