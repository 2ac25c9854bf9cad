package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/hazelmere/property-api/internal/core/domain/ratelimit"
	"github.com/hazelmere/property-api/internal/core/ports"
)

// RateLimitRedisRepository implements the atomic fixed-window counter backend.
type RateLimitRedisRepository struct {
	r redis.Cmdable
}

func NewRateLimitRedisRepository(r redis.Cmdable) ports.RateLimitCounter {
	return &RateLimitRedisRepository{r: r}
}

// IncrementWindow increments the (identifier, event) counter for the current
// fixed window and refreshes its expiry.
func (repo *RateLimitRedisRepository) IncrementWindow(ctx context.Context, identifier string, event ratelimit.Event, window, ttl time.Duration) (int, error) {
	windowStart := time.Now().Truncate(window)
	key := fmt.Sprintf("ratelimit:%s:%s:%d", event, identifier, windowStart.Unix())
	pipe := repo.r.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}
