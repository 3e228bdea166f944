package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type lockEntry struct {
	token     string
	expiresAt time.Time
}

// InMemoryLocker is a process-local Locker for single-instance deployments and tests.
type InMemoryLocker struct {
	mu    sync.Mutex
	locks map[string]lockEntry
}

func NewInMemoryLocker() *InMemoryLocker {
	return &InMemoryLocker{
		locks: make(map[string]lockEntry),
	}
}

func (l *InMemoryLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if e, exists := l.locks[key]; exists && now.Before(e.expiresAt) {
		return "", false, nil
	}

	token := uuid.NewString()
	l.locks[key] = lockEntry{
		token:     token,
		expiresAt: now.Add(ttl),
	}
	return token, true, nil
}

func (l *InMemoryLocker) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, exists := l.locks[key]
	if !exists || e.token != token {
		return ErrLockNotHeld
	}
	delete(l.locks, key)
	return nil
}

func (l *InMemoryLocker) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.locks = make(map[string]lockEntry)
	return nil
}

var _ Locker = (*InMemoryLocker)(nil)
