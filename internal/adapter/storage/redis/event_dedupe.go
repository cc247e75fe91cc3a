package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// EventDedupe implements ports.EventDeduper with SET NX.
type EventDedupe struct {
	client goredis.UniversalClient
	prefix string
}

func NewEventDedupe(client goredis.UniversalClient) *EventDedupe {
	return &EventDedupe{
		client: client,
		prefix: KeyPrefix + "event:",
	}
}

// MarkSeen returns true the first time key is recorded within ttl.
func (d *EventDedupe) MarkSeen(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	result, err := d.client.SetArgs(ctx, d.prefix+key, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis event mark: %w", err)
	}
	return result == "OK", nil
}

func (d *EventDedupe) Forget(ctx context.Context, key string) error {
	if err := d.client.Del(ctx, d.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis event forget: %w", err)
	}
	return nil
}
