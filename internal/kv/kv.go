package kv

import (
	"context"
	"errors"
	"time"
)

// SessionStore tracks a per-user session version. Tokens minted for an older
// version are no longer accepted.
type SessionStore interface {
	Version(ctx context.Context, userID string) (int64, error)
	Bump(ctx context.Context, userID string) (int64, error)
}

// Locker hands out short-lived exclusive locks keyed by name.
type Locker interface {
	// Acquire returns ErrLocked when another holder owns key. The returned
	// release function only deletes the lock if it is still ours.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}

var ErrLocked = errors.New("lock is held by another owner")
