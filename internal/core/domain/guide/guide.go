package guide

import "time"

// AreaGuide is the aggregated lookup payload for an outcode or postcode area.
// Pointer fields distinguish "upstream had no data" from zero values so the
// JSON nulls survive a cache round trip unchanged.
type AreaGuide struct {
	AveragePrice *float64     `json:"averagePrice"`
	Demographics Demographics `json:"demographics"`
	Amenities    []string     `json:"amenities"`
}

type Demographics struct {
	Population *float64 `json:"population"`
	Region     string   `json:"region,omitempty"`
}

// Entry is a cached guide together with its write time, used for freshness
// evaluation by the service layer.
type Entry struct {
	Area      string    `json:"area" db:"area"`
	Guide     AreaGuide `json:"guide"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AreaInfo is the geocoding result for an area: coordinates plus the
// administrative geography code that keys the statistics lookups. Coordinates
// are pointers because the upstream may resolve an area without them, in
// which case the amenity lookup is skipped.
type AreaInfo struct {
	Latitude  *float64
	Longitude *float64
	AdminCode string
	Region    string
}

// MaxAmenities caps how many amenity names an area guide carries.
const MaxAmenities = 10

// LookupRequest is the area-guide endpoint body.
type LookupRequest struct {
	Area string `json:"area" validate:"required"`
}
