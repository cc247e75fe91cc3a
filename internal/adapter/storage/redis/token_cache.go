package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// TokenCache implements ports.TokenCache so every gateway process shares one
// PSP access token.
type TokenCache struct {
	client goredis.UniversalClient
	prefix string
}

func NewTokenCache(client goredis.UniversalClient) *TokenCache {
	return &TokenCache{
		client: client,
		prefix: KeyPrefix,
	}
}

// Get returns nil, nil on a miss.
func (c *TokenCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis token get: %w", err)
	}
	return val, nil
}

func (c *TokenCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis token set: %w", err)
	}
	return nil
}
