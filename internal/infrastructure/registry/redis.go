package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSource reads destinations from a single hash keyed by public key.
type RedisSource struct {
	client *redis.Client
	key    string
}

func NewRedisSource(client *redis.Client, key string) *RedisSource {
	return &RedisSource{client: client, key: key}
}

func (s *RedisSource) Name() string { return "redis" }

func (s *RedisSource) Lookup(ctx context.Context, publicKey string) (string, bool, error) {
	url, err := s.client.HGet(ctx, s.key, publicKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("hget %s: %w", s.key, err)
	}
	return url, true, nil
}
