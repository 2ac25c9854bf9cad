package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hazelmere/property-api/internal/core/domain/guide"
	"github.com/hazelmere/property-api/internal/core/ports"
)

// Utility helpers
func cacheSetSilently(c ports.Cache, ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, b, ttl)
}

func cacheGet[T any](c ports.Cache, ctx context.Context, key string) (*T, bool) {
	if c == nil {
		return nil, false
	}
	b, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// CachingAreaGuideRepository decorates the Postgres area-guide store with a
// Redis cache-aside layer. The cached value is the whole entry, including
// UpdatedAt, so freshness is still evaluated by the service regardless of
// which layer served the read.
type CachingAreaGuideRepository struct {
	inner ports.AreaGuideRepository
	cache ports.Cache
	ttl   time.Duration
}

func NewCachingAreaGuideRepository(inner ports.AreaGuideRepository, cache ports.Cache, ttl time.Duration) ports.AreaGuideRepository {
	return &CachingAreaGuideRepository{inner: inner, cache: cache, ttl: ttl}
}

func (c *CachingAreaGuideRepository) Get(ctx context.Context, area string) (*guide.Entry, error) {
	if v, ok := cacheGet[guide.Entry](c.cache, ctx, "areaguide:"+area); ok {
		return v, nil
	}
	entry, err := c.inner.Get(ctx, area)
	if err == nil && entry != nil {
		cacheSetSilently(c.cache, ctx, "areaguide:"+area, entry, c.ttl)
	}
	return entry, err
}

func (c *CachingAreaGuideRepository) Upsert(ctx context.Context, entry *guide.Entry) error {
	if err := c.inner.Upsert(ctx, entry); err != nil {
		return err
	}
	cacheSetSilently(c.cache, ctx, "areaguide:"+entry.Area, entry, c.ttl)
	return nil
}
