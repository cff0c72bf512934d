package cron

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	lockName   = "cron-worker"
	minLockTTL = time.Minute
)

// Lock coordinates exclusive cron cycles across worker replicas.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, owner string) (bool, error)
	LockKey(name string) string
}

// RedisLock is a SET NX lease tagged with a per-acquire owner token.
type RedisLock struct {
	store lockStore
	key   string
	ttl   time.Duration

	mu    sync.Mutex
	owner string
}

// NewRedisLock sizes the lease to two intervals, so a crashed holder blocks
// at most one extra cycle.
func NewRedisLock(store lockStore, interval time.Duration) (*RedisLock, error) {
	if store == nil {
		return nil, errors.New("redis client required for lock")
	}
	return &RedisLock{
		store: store,
		key:   store.LockKey(lockName),
		ttl:   max(2*interval, minLockTTL),
	}, nil
}

// TTL reports how long an acquired lock lives without a release.
func (l *RedisLock) TTL() time.Duration { return l.ttl }

func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	token := uuid.NewString()
	ok, err := l.store.SetNX(ctx, l.key, token, l.ttl)
	if err != nil {
		return false, fmt.Errorf("setnx %s: %w", l.key, err)
	}
	if ok {
		l.mu.Lock()
		l.owner = token
		l.mu.Unlock()
	}
	return ok, nil
}

// Release is a no-op unless this instance holds the lease; a lease that
// expired and was taken by another worker is left alone.
func (l *RedisLock) Release(ctx context.Context) error {
	l.mu.Lock()
	token := l.owner
	l.owner = ""
	l.mu.Unlock()
	if token == "" {
		return nil
	}
	if _, err := l.store.ReleaseLock(ctx, l.key, token); err != nil {
		return err
	}
	return nil
}
