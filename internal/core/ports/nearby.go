package ports

import (
	"context"

	"github.com/hazelmere/property-api/internal/core/domain/nearby"
)

// NearbyCacheRepository is the durable nearby-amenities cache, keyed by
// quantized coordinates.
type NearbyCacheRepository interface {
	// Get returns the cached entry for the cell, or nil on a miss.
	Get(ctx context.Context, key nearby.CellKey) (*nearby.Entry, error)
	// Upsert writes the entry for its cell.
	Upsert(ctx context.Context, entry *nearby.Entry) error
}

// NearbyService answers nearby-amenities lookups.
type NearbyService interface {
	Lookup(ctx context.Context, lat, lon float64) (*nearby.Result, error)
}
