package db

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const oauthStateKeyPrefix = "state:"

type RedisOAuthStatesRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisOAuthStatesRepository(client *redis.Client, ttl time.Duration) *RedisOAuthStatesRepository {
	return &RedisOAuthStatesRepository{client: client, ttl: ttl}
}

func (r *RedisOAuthStatesRepository) SaveState(ctx context.Context, state string) error {
	if err := r.client.Set(ctx, oauthStateKeyPrefix+state, time.Now().UTC().Format(time.RFC3339), r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store oauth state: %w", err)
	}
	return nil
}

// ConsumeState reports whether state was issued and not used yet.
func (r *RedisOAuthStatesRepository) ConsumeState(ctx context.Context, state string) (bool, error) {
	deleted, err := r.client.Del(ctx, oauthStateKeyPrefix+state).Result()
	if err != nil {
		return false, fmt.Errorf("failed to consume oauth state: %w", err)
	}
	return deleted == 1, nil
}
