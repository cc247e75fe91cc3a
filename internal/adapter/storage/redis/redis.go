// Package redis holds the Redis-backed stores: PSP token cache, webhook event
// dedupe, rate limit counters and distributed locks.
package redis

import (
	"context"
	"fmt"
	"time"

	"pix-gateway/config"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// KeyPrefix namespaces every key the gateway writes.
const KeyPrefix = "pixgw:"

const healthKey = KeyPrefix + "health"

// Options maps the redis settings onto client options.
func Options(cfg config.RedisConfig) *goredis.Options {
	return &goredis.Options{
		Addr:        cfg.Addr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: cfg.DialTimeout,
	}
}

// NewClient connects and pings.
func NewClient(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (*goredis.Client, error) {
	client := goredis.NewClient(Options(cfg))
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", cfg.Addr(), err)
	}

	log.Info().Str("addr", cfg.Addr()).Int("db", cfg.DB).Msg("redis ready")
	return client, nil
}

// HealthCheck writes a short-lived probe key. A read-only replica left
// behind by a failover fails it, since dedupe and locks need writes.
type HealthCheck struct {
	client goredis.UniversalClient
	now    func() time.Time
}

func NewHealthCheck(client goredis.UniversalClient) *HealthCheck {
	return &HealthCheck{client: client, now: time.Now}
}

func (h *HealthCheck) Ping(ctx context.Context) error {
	return h.client.Set(ctx, healthKey, h.now().UTC().Format(time.RFC3339), 30*time.Second).Err()
}

func (h *HealthCheck) Name() string {
	return "redis"
}
