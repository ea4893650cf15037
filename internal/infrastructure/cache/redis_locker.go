package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/printshop/backend/internal/domain/shared"
)

const defaultLockKeyPrefix = "fulfillment:lock:"

// RedisLocker implements Locker using Redis SETNX with a TTL. The TTL bounds
// how long a crashed holder can keep the key; Unlock deletes it eagerly on
// the happy path.
type RedisLocker struct {
	client    *redis.Client
	keyPrefix string
}

var _ shared.Locker = (*RedisLocker)(nil)

// NewRedisLocker creates a Redis-backed locker sharing an existing client
func NewRedisLocker(client *redis.Client, keyPrefix string) *RedisLocker {
	if keyPrefix == "" {
		keyPrefix = defaultLockKeyPrefix
	}
	return &RedisLocker{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// TryLock attempts to acquire the lock for key with the given TTL
func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	acquired, err := l.client.SetNX(ctx, l.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	return acquired, nil
}

// Unlock releases the lock for key
func (l *RedisLocker) Unlock(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}
