package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// New creates a new Redis client and verifies connectivity.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("platform/cache: ping: %w", err)
	}

	return client, nil
}

// GetString fetches a cached value; a miss returns ok=false, not an error.
func GetString(ctx context.Context, client *redis.Client, key string) (string, bool, error) {
	val, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("platform/cache: get %s: %w", key, err)
	}
	return val, true, nil
}

// SetString stores a value with a TTL.
func SetString(ctx context.Context, client *redis.Client, key, val string, ttl time.Duration) error {
	if err := client.Set(ctx, key, val, ttl).Err(); err != nil {
		return fmt.Errorf("platform/cache: set %s: %w", key, err)
	}
	return nil
}
