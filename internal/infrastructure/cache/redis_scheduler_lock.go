package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	appledger "github.com/strata/backend/internal/application/ledger"
)

// RedisSchedulerLock implements SchedulerLock using Redis.
// This is suitable for distributed deployments where multiple instances
// must not run the same generation sweep concurrently.
type RedisSchedulerLock struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisSchedulerLock creates a new Redis-based scheduler lock
func NewRedisSchedulerLock(cfg RedisConfig) (*RedisSchedulerLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSchedulerLock{
		client:    client,
		keyPrefix: "lock:",
	}, nil
}

// NewRedisSchedulerLockWithClient creates a lock with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisSchedulerLockWithClient(client *redis.Client, keyPrefix string) *RedisSchedulerLock {
	if keyPrefix == "" {
		keyPrefix = "lock:"
	}
	return &RedisSchedulerLock{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Acquire attempts to take the named lock for the given TTL.
// Returns true if the lock was taken, false if another holder has it.
// Uses SETNX (SET if Not eXists) for atomic operation.
func (l *RedisSchedulerLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	acquired, err := l.client.SetNX(ctx, l.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	return acquired, nil
}

// Release drops the named lock. Releasing a lock that is not held is a no-op.
func (l *RedisSchedulerLock) Release(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (l *RedisSchedulerLock) Close() error {
	return l.client.Close()
}

var _ appledger.SchedulerLock = (*RedisSchedulerLock)(nil)
