package store

import (
	"context"
	"encoding/json"

	commonerrors "x360-agent/internal/common/errors"
	"x360-agent/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisSource reads the dataset from a single key holding a JSON array,
// the layout the virtualization layer publishes snapshots under.
type RedisSource struct {
	client *redis.Client
	key    string
}

func NewRedisSource(client *redis.Client, key string) *RedisSource {
	return &RedisSource{client: client, key: key}
}

func (r *RedisSource) Name() string { return "redis" }

func (r *RedisSource) Load(ctx context.Context) ([]models.Ticket, error) {
	raw, err := r.client.Get(ctx, r.key).Result()
	if err != nil {
		return nil, err
	}

	var tickets []models.Ticket
	if err := json.Unmarshal([]byte(raw), &tickets); err != nil {
		return nil, commonerrors.NewStoreDecodeFailedError(r.Name(), err)
	}
	return tickets, nil
}
