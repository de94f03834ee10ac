package reservation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/freshmart/inventory-backend/pkg/config"
	pkgerrors "github.com/freshmart/inventory-backend/pkg/errors"
)

const (
	defaultLockTTL      = 10 * time.Second
	defaultWaitAttempts = 50
	defaultWaitDelay    = 20 * time.Millisecond
)

// Release frees a held lock. Safe to call once per acquisition.
type Release func(ctx context.Context)

// Locker serializes reservations per product. Holding the product lock
// guarantees no other coordinator in the same deployment interleaves a
// read-decide-commit sequence for that product.
type Locker interface {
	Acquire(ctx context.Context, productID int64) (Release, error)
}

// redisStore defines the operations used by RedisLocker.
type redisStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	LockKey(parts ...string) string
}

// RedisLocker implements Locker with Redis SETNX + TTL and a bounded
// polling wait. The TTL bounds how long a crashed holder can block a
// product.
type RedisLocker struct {
	client       redisStore
	ttl          time.Duration
	waitAttempts int
	waitDelay    time.Duration
}

// NewRedisLocker constructs a Redis-backed per-product locker.
func NewRedisLocker(client redisStore, cfg config.ReservationConfig) (*RedisLocker, error) {
	if client == nil {
		return nil, errors.New("redis client required for locker")
	}
	locker := &RedisLocker{
		client:       client,
		ttl:          cfg.LockTTL,
		waitAttempts: cfg.LockWaitAttempts,
		waitDelay:    cfg.LockWaitDelay,
	}
	if locker.ttl <= 0 {
		locker.ttl = defaultLockTTL
	}
	if locker.waitAttempts <= 0 {
		locker.waitAttempts = defaultWaitAttempts
	}
	if locker.waitDelay <= 0 {
		locker.waitDelay = defaultWaitDelay
	}
	return locker, nil
}

func (l *RedisLocker) Acquire(ctx context.Context, productID int64) (Release, error) {
	key := l.client.LockKey("product", strconv.FormatInt(productID, 10))
	owner := uuid.NewString()

	for attempt := 0; attempt < l.waitAttempts; attempt++ {
		ok, err := l.client.SetNX(ctx, key, owner, l.ttl)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquiring product lock")
		}
		if ok {
			return l.releaseFunc(key, owner), nil
		}
		select {
		case <-ctx.Done():
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), "waiting for product lock")
		case <-time.After(l.waitDelay):
		}
	}

	return nil, pkgerrors.New(
		pkgerrors.CodeDependency,
		fmt.Sprintf("product %d lock not acquired after %d attempts", productID, l.waitAttempts),
	)
}

// releaseFunc frees the lock only while the owner value still matches, so
// a lock that expired and was re-acquired by someone else is left alone.
func (l *RedisLocker) releaseFunc(key, owner string) Release {
	var once sync.Once
	return func(ctx context.Context) {
		once.Do(func() {
			value, err := l.client.Get(ctx, key)
			if err != nil {
				if errors.Is(err, redis.Nil) {
					return
				}
				return
			}
			if value != owner {
				return
			}
			_ = l.client.Del(ctx, key)
		})
	}
}

// KeyedMutex is an in-process Locker for single-instance deployments and
// tests. Acquisition honors context cancellation.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[int64]chan struct{}
}

// NewKeyedMutex constructs an in-process per-product locker.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[int64]chan struct{})}
}

func (m *KeyedMutex) Acquire(ctx context.Context, productID int64) (Release, error) {
	m.mu.Lock()
	ch, ok := m.locks[productID]
	if !ok {
		ch = make(chan struct{}, 1)
		m.locks[productID] = ch
	}
	m.mu.Unlock()

	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), "waiting for product lock")
	}

	var once sync.Once
	return func(context.Context) {
		once.Do(func() { <-ch })
	}, nil
}
