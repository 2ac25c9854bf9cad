package ports

import (
	"context"

	"github.com/hazelmere/property-api/internal/core/domain/guide"
)

// AreaGuideRepository is the durable area-guide cache.
type AreaGuideRepository interface {
	// Get returns the cached entry, or nil when the area has never been looked up.
	Get(ctx context.Context, area string) (*guide.Entry, error)
	// Upsert writes the entry for its area, replacing any previous payload.
	Upsert(ctx context.Context, entry *guide.Entry) error
}

// AreaGuideService answers area-guide lookups, serving from cache within the
// freshness window and aggregating upstream data otherwise.
type AreaGuideService interface {
	Lookup(ctx context.Context, area string) (*guide.AreaGuide, error)
}
