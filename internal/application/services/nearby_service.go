package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/hazelmere/property-api/internal/core/domain/nearby"
	"github.com/hazelmere/property-api/internal/core/ports"
)

// NearbyService answers nearby-amenities lookups from a durable cache keyed
// by quantized coordinates. With the default zero freshness window a cached
// cell is served forever; set a freshness to make entries expire.
type NearbyService struct {
	cache     ports.NearbyCacheRepository
	poi       ports.POIClient
	freshness time.Duration
	logger    *logrus.Logger
	sf        singleflight.Group
}

func NewNearbyService(cache ports.NearbyCacheRepository, poi ports.POIClient, freshness time.Duration, logger *logrus.Logger) *NearbyService {
	return &NearbyService{cache: cache, poi: poi, freshness: freshness, logger: logger}
}

// Lookup returns named amenities within the search radius of the coordinate.
// The exact coordinate is used for the upstream query; the cache is shared by
// every coordinate in the same ~111 m cell.
func (s *NearbyService) Lookup(ctx context.Context, lat, lon float64) (*nearby.Result, error) {
	key := nearby.Quantize(lat, lon)

	entry, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if entry != nil && s.fresh(entry.CreatedAt) {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"lat": key.Lat, "lon": key.Lon}).Debug("nearby: cache hit")
		}
		return &nearby.Result{Results: entry.Results}, nil
	}

	sfKey := fmt.Sprintf("%.3f:%.3f", key.Lat, key.Lon)
	v, err, _ := s.sf.Do(sfKey, func() (any, error) {
		return s.lookupAndCache(ctx, lat, lon, key)
	})
	if err != nil {
		return nil, err
	}
	res, ok := v.(*nearby.Result)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight result")
	}
	return res, nil
}

func (s *NearbyService) fresh(createdAt time.Time) bool {
	if s.freshness <= 0 {
		return true
	}
	return time.Since(createdAt) < s.freshness
}

func (s *NearbyService) lookupAndCache(ctx context.Context, lat, lon float64, key nearby.CellKey) (*nearby.Result, error) {
	names, err := s.poi.AmenityNames(ctx, lat, lon, nearby.RadiusMeters, nearby.AmenityAllowlist)
	if err != nil {
		// Degrade to an empty result but do not cache it: with no expiry on
		// this cache a transient upstream failure would otherwise stick.
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"lat": key.Lat, "lon": key.Lon}).WithError(err).Warn("nearby: amenity lookup failed, serving empty result uncached")
		}
		return &nearby.Result{Results: []string{}}, nil
	}
	if names == nil {
		names = []string{}
	}

	entry := &nearby.Entry{Key: key, Results: names, CreatedAt: time.Now().UTC()}
	if err := s.cache.Upsert(ctx, entry); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"lat": key.Lat, "lon": key.Lon, "results": len(names)}).Info("nearby: looked up and cached")
	}
	return &nearby.Result{Results: names}, nil
}
