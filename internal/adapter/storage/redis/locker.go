package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pix-gateway/internal/core/ports"

	"github.com/bsm/redislock"
	goredis "github.com/redis/go-redis/v9"
)

// Locker implements ports.Locker with redislock.
type Locker struct {
	client *redislock.Client
	prefix string
}

func NewLocker(client goredis.UniversalClient) *Locker {
	return &Locker{client: redislock.New(client), prefix: KeyPrefix + "lock:"}
}

// Obtain tries once and returns ports.ErrLockHeld if another process holds key.
func (l *Locker) Obtain(ctx context.Context, key string, ttl time.Duration) (ports.Lock, error) {
	lock, err := l.client.Obtain(ctx, l.prefix+key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ports.ErrLockHeld
	}
	if err != nil {
		return nil, fmt.Errorf("redis lock obtain: %w", err)
	}
	return &redisLock{lock: lock}, nil
}

type redisLock struct {
	lock *redislock.Lock
}

// Release ignores a lock that already expired.
func (l *redisLock) Release(ctx context.Context) error {
	err := l.lock.Release(ctx)
	if errors.Is(err, redislock.ErrLockNotHeld) {
		return nil
	}
	return err
}
