package realtime

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Channel names. One process holds exactly one subscription to each (the
// Hub owns it); everything else only publishes.
const (
	ChannelSettings  = "settings:changed"
	ChannelIncidents = "incidents:new"
)

type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	return p.rdb.Publish(ctx, channel, payload).Err()
}
