package nearby

import (
	"math"
	"time"
)

// CellKey is a pair of coordinates quantized to three decimal places,
// roughly a 111 m grid at the latitude axis. Queries inside the same cell
// share one cache entry.
type CellKey struct {
	Lat float64 `db:"lat"`
	Lon float64 `db:"lon"`
}

// Quantize derives the cache key for a coordinate pair.
func Quantize(lat, lon float64) CellKey {
	return CellKey{
		Lat: math.Round(lat*1000) / 1000,
		Lon: math.Round(lon*1000) / 1000,
	}
}

// Result is the nearby-amenities payload: names of matching points of
// interest within the search radius.
type Result struct {
	Results []string `json:"results"`
}

// Entry is a cached result with its write time.
type Entry struct {
	Key       CellKey
	Results   []string
	CreatedAt time.Time
}

// RadiusMeters is the fixed point-of-interest search radius.
const RadiusMeters = 1000

// AmenityAllowlist are the amenity tag values the nearby lookup matches.
var AmenityAllowlist = []string{
	"school", "hospital", "pharmacy", "restaurant", "cafe", "pub", "bar", "supermarket", "bank",
}

// LookupRequest is the nearby endpoint body.
type LookupRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
