// Package cache is the Redis-backed snapshot layer. Profiles are the main
// tenant: resolved rows are cached per user and invalidated on any fetch
// failure or admin mutation, so a stale role or subscription status never
// outlives its TTL plus one write.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key namespaces. Everything this service writes to Redis lives under one
// of these prefixes.
const (
	NSProfile = "profile" // resolved profile snapshots, JSON
	NSRevoked = "revoked" // signed-out jtis, plain flag with remaining-TTL
)

// Key builds the canonical "<namespace>:<id>" Redis key.
func Key(ns, id string) string { return ns + ":" + id }

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

// GetJSON reports a miss for absent keys. A key holding bytes that no
// longer unmarshal (schema drift across deploys) is deleted and treated
// as a miss rather than surfaced as an error.
func (c *RedisCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	s, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dst); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

func (c *RedisCache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, ttl).Err()
}

func (c *RedisCache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
