package cache

import (
	"context"
	"sync"
	"time"

	appledger "github.com/strata/backend/internal/application/ledger"
)

// lockEntry represents a held lock with expiration
type lockEntry struct {
	expiresAt time.Time
}

// InMemorySchedulerLock implements SchedulerLock using an in-memory map.
// This is suitable for single-instance deployments and testing.
type InMemorySchedulerLock struct {
	mu    sync.Mutex
	locks map[string]lockEntry
}

// NewInMemorySchedulerLock creates a new in-memory scheduler lock
func NewInMemorySchedulerLock() *InMemorySchedulerLock {
	return &InMemorySchedulerLock{
		locks: make(map[string]lockEntry),
	}
}

// Acquire attempts to take the named lock for the given TTL.
// Returns true if the lock was taken, false if another holder has it.
func (l *InMemorySchedulerLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, exists := l.locks[key]; exists {
		if time.Now().Before(e.expiresAt) {
			return false, nil // Held by someone else
		}
		// Entry exists but expired, will be overwritten
	}

	l.locks[key] = lockEntry{
		expiresAt: time.Now().Add(ttl),
	}

	return true, nil
}

// Release drops the named lock. Releasing a lock that is not held is a no-op.
func (l *InMemorySchedulerLock) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.locks, key)
	return nil
}

var _ appledger.SchedulerLock = (*InMemorySchedulerLock)(nil)
