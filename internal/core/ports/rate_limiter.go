package ports

import (
	"context"
	"time"

	"github.com/hazelmere/property-api/internal/core/domain/ratelimit"
)

// RateLimitStore persists per-(identifier, event) request records for the
// read-then-upsert limiter. Implementations are not required to be atomic:
// the limiter deliberately tolerates the check-then-act race of the original
// service. See RateLimitCounter for the strict variant.
type RateLimitStore interface {
	// Get returns the stored record, or nil when the pair has never been seen.
	Get(ctx context.Context, identifier string, event ratelimit.Event) (*ratelimit.Record, error)
	// Upsert writes the record, replacing any existing row for its key.
	Upsert(ctx context.Context, rec *ratelimit.Record) error
}

// RateLimitCounter provides an atomic fixed-window counter, used by the
// opt-in redis limiter backend.
type RateLimitCounter interface {
	// IncrementWindow atomically increments the counter for the current
	// window and ensures the key expires after ttl. Returns the updated count.
	IncrementWindow(ctx context.Context, identifier string, event ratelimit.Event, window, ttl time.Duration) (int, error)
}

// RateLimiterService decides whether to admit a request for a throttled event.
type RateLimiterService interface {
	// CheckAndIncrement reports whether the request is blocked. Admitted
	// requests are counted; rejected ones are not. A store error propagates
	// and the caller must fail the request rather than admit it.
	CheckAndIncrement(ctx context.Context, identifier string, event ratelimit.Event) (blocked bool, err error)
}
