package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wpwscannerapp/scanner-feed/internal/cache"
)

// TokenRevoker is the sign-out denylist. Entries live only as long as the
// token they shadow would have.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type redisRevoker struct {
	rdb *redis.Client
}

func NewRedisRevoker(rdb *redis.Client) TokenRevoker {
	return &redisRevoker{rdb: rdb}
}

func (r *redisRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// already expired; nothing to shadow
		return nil
	}
	return r.rdb.Set(ctx, cache.Key(cache.NSRevoked, jti), "1", ttl).Err()
}

func (r *redisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.rdb.Exists(ctx, cache.Key(cache.NSRevoked, jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
