package scheduling

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ResourceLocker serializes commits per resource. Operations on
// different resources proceed fully in parallel; there is no global
// lock. Once a caller holds the lock, the commit runs to completion
// and is not interruptible mid-critical-section.
type ResourceLocker interface {
	Lock(ctx context.Context, resourceID string) (release func(), err error)
}

// KeyedMutexLocker is the single-process locker: one mutex per
// resource id, created lazily.
type KeyedMutexLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewKeyedMutexLocker constructs an in-process resource locker.
func NewKeyedMutexLocker() *KeyedMutexLocker {
	return &KeyedMutexLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *KeyedMutexLocker) Lock(_ context.Context, resourceID string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[resourceID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[resourceID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock, nil
}

// luaRelease deletes the lock key only while we still hold its token,
// so an expired lock reacquired by another process is never released
// by us.
const luaRelease = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`

// RedisLocker serializes commits across processes with a SETNX lease.
// Used when the engine is horizontally scaled; the in-process
// KeyedMutexLocker remains the single-process default.
type RedisLocker struct {
	Client        *redis.Client
	TTL           time.Duration
	RetryInterval time.Duration
}

// NewRedisLocker constructs a distributed resource locker.
func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{Client: client, TTL: ttl, RetryInterval: 50 * time.Millisecond}
}

func (l *RedisLocker) Lock(ctx context.Context, resourceID string) (func(), error) {
	key := "resource-lock:" + resourceID
	token := uuid.New().String()
	for {
		ok, err := l.Client.SetNX(ctx, key, token, l.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquiring lock for resource %s: %w", resourceID, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.RetryInterval):
		}
	}
	release := func() {
		// Release runs even when the caller's ctx is already done.
		l.Client.Eval(context.Background(), luaRelease, []string{key}, token)
	}
	return release, nil
}
