// README: Roster backed by Redis sets, one per category.
package matching

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"hitch/internal/observability"
	"hitch/internal/types"
)

const (
	availableKeyPrefix = "roster:available:%s"
	categoryKey        = "roster:category"
)

type RedisRoster struct {
	redis *redis.Client
}

func NewRedisRoster(rc *redis.Client) *RedisRoster {
	return &RedisRoster{redis: rc}
}

func (r *RedisRoster) Add(ctx context.Context, id types.ID, cat types.Category) error {
	pipe := r.redis.Pipeline()
	added := pipe.SAdd(ctx, availableKey(cat), string(id))
	pipe.HSet(ctx, categoryKey, string(id), string(cat))
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	if added.Val() == 1 {
		observability.DriversAvailable.Inc()
	}
	return nil
}

func (r *RedisRoster) Remove(ctx context.Context, id types.ID) error {
	cat, err := r.redis.HGet(ctx, categoryKey, string(id)).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	pipe := r.redis.Pipeline()
	removed := pipe.SRem(ctx, availableKey(types.Category(cat)), string(id))
	pipe.HDel(ctx, categoryKey, string(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	if removed.Val() == 1 {
		observability.DriversAvailable.Dec()
	}
	return nil
}

func (r *RedisRoster) List(ctx context.Context, cat types.Category) ([]types.ID, error) {
	members, err := r.redis.SMembers(ctx, availableKey(cat)).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]types.ID, len(members))
	for i, m := range members {
		ids[i] = types.ID(m)
	}
	return ids, nil
}

func availableKey(cat types.Category) string {
	return fmt.Sprintf(availableKeyPrefix, string(cat))
}
