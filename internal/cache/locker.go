package cache

import (
	"context"
	"errors"
	"time"
)

var ErrLockNotHeld = errors.New("cache: lock not held")

// Locker hands out short-lived exclusive locks keyed by string. A lock is
// released by Unlock with the token TryLock returned, or when its ttl expires.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Unlock(ctx context.Context, key, token string) error
	Close() error
}

// Acquire polls TryLock until it succeeds, wait elapses or ctx is done.
// ok is false on timeout; err is set only for backend failures.
func Acquire(ctx context.Context, l Locker, key string, ttl, wait time.Duration) (string, bool, error) {
	deadline := time.Now().Add(wait)
	backoff := 25 * time.Millisecond

	for {
		token, ok, err := l.TryLock(ctx, key, ttl)
		if err != nil || ok {
			return token, ok, err
		}
		if time.Now().Add(backoff).After(deadline) {
			return "", false, nil
		}

		select {
		case <-ctx.Done():
			return "", false, ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 200*time.Millisecond {
			backoff *= 2
		}
	}
}
