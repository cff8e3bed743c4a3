package lockout

import (
	"context"
	"fmt"
	"time"

	"sugurico/internal/cache"
)

const (
	DefaultMaxFails     = 5
	DefaultLockDuration = 24 * time.Hour
)

// Guard counts failed password re-verifications per user and locks the user
// out once the limit is reached. State lives in the shared store so every
// instance sees the same counter.
type Guard struct {
	store        cache.Store
	maxFails     int
	lockDuration time.Duration
	now          func() time.Time
}

type Option func(*Guard)

func WithClock(now func() time.Time) Option {
	return func(g *Guard) { g.now = now }
}

func WithLimits(maxFails int, lockDuration time.Duration) Option {
	return func(g *Guard) {
		g.maxFails = maxFails
		g.lockDuration = lockDuration
	}
}

func New(store cache.Store, opts ...Option) *Guard {
	g := &Guard{
		store:        store,
		maxFails:     DefaultMaxFails,
		lockDuration: DefaultLockDuration,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func failKey(userID string) string { return "auth_fails:" + userID }
func lockKey(userID string) string { return "auth_lock:" + userID }

// LockedUntil returns the unlock time while the user is locked.
func (g *Guard) LockedUntil(ctx context.Context, userID string) (time.Time, bool, error) {
	val, ok, err := g.store.Get(ctx, lockKey(userID))
	if err != nil || !ok {
		return time.Time{}, false, err
	}

	until, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("ロック情報が不正です: %w", err)
	}
	if !g.now().Before(until) {
		return time.Time{}, false, nil
	}
	return until, true, nil
}

// Fail records one failed attempt. It returns the attempts left, or the unlock
// time when this failure triggered the lock.
func (g *Guard) Fail(ctx context.Context, userID string) (remaining int, lockedUntil time.Time, err error) {
	n, err := g.store.Incr(ctx, failKey(userID))
	if err != nil {
		return 0, time.Time{}, err
	}
	if n == 1 {
		if err := g.store.Expire(ctx, failKey(userID), g.lockDuration); err != nil {
			return 0, time.Time{}, err
		}
	}

	if n < int64(g.maxFails) {
		return g.maxFails - int(n), time.Time{}, nil
	}

	until := g.now().Add(g.lockDuration)
	if err := g.store.Set(ctx, lockKey(userID), until.Format(time.RFC3339), g.lockDuration); err != nil {
		return 0, time.Time{}, err
	}
	if err := g.store.Del(ctx, failKey(userID)); err != nil {
		return 0, time.Time{}, err
	}
	return 0, until, nil
}

func (g *Guard) Reset(ctx context.Context, userID string) error {
	return g.store.Del(ctx, failKey(userID))
}
