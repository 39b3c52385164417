// Package redislock serialises sorting runs across processes with a Redis key per cohort
package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "tripsort:lock:"

// Deletes the key only if it still holds our token
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

var (
	// ErrLockHeld is returned when another run holds the lock
	ErrLockHeld = errors.New("another sorting run is in progress")

	// ErrLockLost reports that the lock expired or was taken over before release
	ErrLockLost = errors.New("lock expired before it was released")
)

// Client is the subset of *redis.Client the locker needs
type Client interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// Locker hands out expiring locks keyed by resource name
type Locker struct {
	client Client
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a Locker; locks expire after ttl if never released
func New(client Client, ttl time.Duration, logger *zap.Logger) *Locker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Locker{client: client, ttl: ttl, logger: logger}
}

// Connect opens a Redis client and checks it is reachable
func Connect(ctx context.Context, opts *redis.Options) (*redis.Client, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}
	return client, nil
}

// WithLock runs fn while holding the lock for resource and returns fn's error.
// Returns ErrLockHeld without calling fn if the lock is taken. A failed release
// is logged rather than returned.
func (l *Locker) WithLock(ctx context.Context, resource string, fn func(ctx context.Context) error) error {
	key := keyPrefix + resource
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", resource, ErrLockHeld)
	}
	l.logger.Debug("Acquired lock", zap.String("key", key), zap.Duration("ttl", l.ttl))

	defer func() {
		// Release with a fresh context so a cancelled run still frees the key
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		if err := l.release(releaseCtx, key, token); err != nil {
			if errors.Is(err, ErrLockLost) {
				l.logger.Warn("Lock expired before the run finished; consider raising lockTTL",
					zap.String("key", key), zap.Duration("ttl", l.ttl))
				return
			}
			l.logger.Warn("Failed to release lock", zap.String("key", key), zap.Error(err))
		}
	}()

	return fn(ctx)
}

func (l *Locker) release(ctx context.Context, key, token string) error {
	deleted, err := l.client.Eval(ctx, releaseScript, []string{key}, token).Int()
	if err != nil {
		return fmt.Errorf("failed to release lock %s: %w", key, err)
	}
	if deleted == 0 {
		return fmt.Errorf("%s: %w", key, ErrLockLost)
	}
	l.logger.Debug("Released lock", zap.String("key", key))
	return nil
}
