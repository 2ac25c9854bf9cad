package ports

import (
	"context"

	"github.com/hazelmere/property-api/internal/core/domain/guide"
)

// Geocoder resolves an outcode or postcode area to coordinates and an
// administrative geography code.
type Geocoder interface {
	LookupOutcode(ctx context.Context, area string) (*guide.AreaInfo, error)
}

// StatsClient fetches the latest observation of a statistics time series for
// an administrative geography.
type StatsClient interface {
	AveragePrice(ctx context.Context, adminCode string) (float64, error)
	Population(ctx context.Context, adminCode string) (float64, error)
}

// POIClient queries points of interest around a coordinate. types filters the
// amenity tag; nil matches any amenity. Nodes without a name tag are dropped.
type POIClient interface {
	AmenityNames(ctx context.Context, lat, lon float64, radiusMeters int, types []string) ([]string, error)
}
