package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const messageTokenKeyPrefix = "viber:msgtoken:"

type redisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDeduper records message tokens with SETNX so that a redelivered
// webhook is processed once across all instances.
func NewRedisDeduper(client *redis.Client, ttl time.Duration) TokenDeduper {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisDeduper{client: client, ttl: ttl}
}

func (d *redisDeduper) Seen(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	stored, err := d.client.SetNX(ctx, messageTokenKeyPrefix+token, 1, d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record message token: %w", err)
	}

	return !stored, nil
}
