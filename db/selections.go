package db

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/mo"

	"slackproxy/models"
)

const selectionKeyPrefix = "selection:"

type RedisSelectionsRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSelectionsRepository(client *redis.Client, ttl time.Duration) *RedisSelectionsRepository {
	return &RedisSelectionsRepository{client: client, ttl: ttl}
}

func (r *RedisSelectionsRepository) SaveSelection(ctx context.Context, selection *models.PendingSelection) error {
	return setJSON(ctx, r.client, selectionKeyPrefix+selection.ID, selection, r.ttl)
}

func (r *RedisSelectionsRepository) TakeSelection(
	ctx context.Context,
	id string,
) (mo.Option[*models.PendingSelection], error) {
	return takeJSON[models.PendingSelection](ctx, r.client, selectionKeyPrefix+id)
}
