package db

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/mo"

	"slackproxy/models"
)

const orderKeyPrefix = "order:"

// RedisOrdersRepository keys registration orders by the wiki-to-proxy token the
// wiki will present when it confirms the registration.
type RedisOrdersRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisOrdersRepository(client *redis.Client, ttl time.Duration) *RedisOrdersRepository {
	return &RedisOrdersRepository{client: client, ttl: ttl}
}

func (r *RedisOrdersRepository) SaveOrder(ctx context.Context, order *models.RegistrationOrder) error {
	return setJSON(ctx, r.client, orderKeyPrefix+order.TokenGtoP, order, r.ttl)
}

func (r *RedisOrdersRepository) GetOrderByTokenGtoP(
	ctx context.Context,
	tokenGtoP string,
) (mo.Option[*models.RegistrationOrder], error) {
	return getJSON[models.RegistrationOrder](ctx, r.client, orderKeyPrefix+tokenGtoP)
}

func (r *RedisOrdersRepository) DeleteOrderByTokenGtoP(ctx context.Context, tokenGtoP string) error {
	if err := r.client.Del(ctx, orderKeyPrefix+tokenGtoP).Err(); err != nil {
		return fmt.Errorf("failed to delete %s%s: %w", orderKeyPrefix, tokenGtoP, err)
	}
	return nil
}
