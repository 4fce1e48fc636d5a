// Package dedup implements webhook event deduplication on Redis. Seen event
// ids are kept under a TTL; re-deliveries inside the window are acknowledged
// without reprocessing.
package dedup

import (
	"context"
	"time"

	"backoffice/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "webhook:event:"

// RedisEventDeduplicator implements ports.EventDeduplicator on a Redis
// key-per-event scheme.
type RedisEventDeduplicator struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisEventDeduplicator creates a deduplicator that remembers processed
// event ids for the given TTL.
func NewRedisEventDeduplicator(client *redis.Client, ttl time.Duration) *RedisEventDeduplicator {
	return &RedisEventDeduplicator{client: client, ttl: ttl}
}

// AlreadyProcessed reports whether the event id was marked within the TTL
// window.
func (d *RedisEventDeduplicator) AlreadyProcessed(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return false, errs.NewValueIsRequiredError("eventId")
	}

	n, err := d.client.Exists(ctx, keyPrefix+eventID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkProcessed records the event id. Marking the same id twice is harmless.
func (d *RedisEventDeduplicator) MarkProcessed(ctx context.Context, eventID string) error {
	if eventID == "" {
		return errs.NewValueIsRequiredError("eventId")
	}

	return d.client.SetNX(ctx, keyPrefix+eventID, 1, d.ttl).Err()
}
