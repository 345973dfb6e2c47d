package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which event IDs have been handled so a
// re-delivered event cannot post a ledger entry or send a notification
// twice.
type IdempotencyStore interface {
	// MarkProcessed claims the event for the given TTL. True means the
	// caller owns the first delivery; false means it was seen before.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the event has already been handled.
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	Close() error
}

// IdempotencyConfig controls duplicate-event suppression.
type IdempotencyConfig struct {
	// TTL bounds how long processed event IDs are remembered.
	TTL time.Duration

	Enabled bool
}

// DefaultIdempotencyConfig remembers events for a day.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
