package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/formalizer/pkg/ports"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

var (
	// ErrLockAcquire is returned when the lock cannot be acquired.
	ErrLockAcquire = errors.New("failed to acquire distributed lock")
)

// Locker implements ports.DistributedLocker using Redis.
type Locker struct {
	client *backend.Client
	prefix string
}

// NewLocker creates a new Redis locker.
func NewLocker(client *backend.Client, prefix string) *Locker {
	return &Locker{
		client: client,
		prefix: prefix,
	}
}

// Lock acquires a distributed lock for the given key using Redis SET NX PX.
// It polls every 100ms until acquired or ctx is done.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := l.prefix + "lock:" + key
	// Random token so only the holder can release the lock
	val := uuid.NewString()

	// Try once immediately, then poll.
	if unlock, ok, err := l.try(ctx, lockKey, val, ttl); err != nil || ok {
		return unlock, err
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			if unlock, ok, err := l.try(ctx, lockKey, val, ttl); err != nil || ok {
				return unlock, err
			}
		}
	}
}

func (l *Locker) try(ctx context.Context, lockKey, val string, ttl time.Duration) (ports.UnlockFunc, bool, error) {
	success, err := l.client.SetNX(ctx, lockKey, val, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrLockAcquire, err)
	}
	if !success {
		return nil, false, nil
	}
	return func(ctx context.Context) error {
		// Delete only if we still own the key
		return unlockScript.Run(ctx, l.client, []string{lockKey}, val).Err()
	}, true, nil
}

var unlockScript = backend.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)
