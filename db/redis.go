package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/mo"
)

// NewRedisClient connects to the Redis instance that holds short-lived proxy
// state (pending selections, registration orders, OAuth states).
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func setJSON(ctx context.Context, client *redis.Client, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

func getJSON[T any](ctx context.Context, client *redis.Client, key string) (mo.Option[*T], error) {
	data, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return mo.None[*T](), nil
	}
	if err != nil {
		return mo.None[*T](), fmt.Errorf("failed to get %s: %w", key, err)
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return mo.None[*T](), fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return mo.Some(&value), nil
}

// takeJSON reads and deletes key atomically, so a value is handed out at most once.
func takeJSON[T any](ctx context.Context, client *redis.Client, key string) (mo.Option[*T], error) {
	data, err := client.GetDel(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return mo.None[*T](), nil
	}
	if err != nil {
		return mo.None[*T](), fmt.Errorf("failed to take %s: %w", key, err)
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return mo.None[*T](), fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return mo.Some(&value), nil
}
