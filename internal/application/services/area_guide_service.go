package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/hazelmere/property-api/internal/core/domain/guide"
	"github.com/hazelmere/property-api/internal/core/ports"
)

const amenityRadiusMeters = 1000

// AreaGuideService aggregates geocoding, housing statistics and nearby
// amenities into an area guide. Lookups are served from the durable cache
// within the freshness window; on a miss the upstream calls run once per
// area (singleflight) and each sub-lookup degrades independently, so a
// failed statistics call still yields a usable guide with null fields.
type AreaGuideService struct {
	repo      ports.AreaGuideRepository
	geocoder  ports.Geocoder
	stats     ports.StatsClient
	poi       ports.POIClient
	freshness time.Duration
	logger    *logrus.Logger
	sf        singleflight.Group
}

func NewAreaGuideService(repo ports.AreaGuideRepository, geocoder ports.Geocoder, stats ports.StatsClient, poi ports.POIClient, freshness time.Duration, logger *logrus.Logger) *AreaGuideService {
	return &AreaGuideService{
		repo:      repo,
		geocoder:  geocoder,
		stats:     stats,
		poi:       poi,
		freshness: freshness,
		logger:    logger,
	}
}

// Lookup returns the guide for an area, aggregating upstream data on a cache
// miss or stale entry. Cache store errors are fatal for the request.
func (s *AreaGuideService) Lookup(ctx context.Context, area string) (*guide.AreaGuide, error) {
	entry, err := s.repo.Get(ctx, area)
	if err != nil {
		return nil, err
	}
	if entry != nil && s.fresh(entry.UpdatedAt) {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"area": area}).Debug("area guide: cache hit")
		}
		g := entry.Guide
		return &g, nil
	}

	v, err, _ := s.sf.Do(area, func() (any, error) {
		return s.aggregate(ctx, area)
	})
	if err != nil {
		return nil, err
	}
	g, ok := v.(*guide.AreaGuide)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight result")
	}
	return g, nil
}

func (s *AreaGuideService) fresh(updatedAt time.Time) bool {
	if s.freshness <= 0 {
		return true
	}
	return time.Since(updatedAt) < s.freshness
}

func (s *AreaGuideService) aggregate(ctx context.Context, area string) (*guide.AreaGuide, error) {
	g := &guide.AreaGuide{Amenities: []string{}}

	info, err := s.geocoder.LookupOutcode(ctx, area)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"area": area}).WithError(err).Warn("area guide: geocoding failed, serving degraded guide")
		}
		info = nil
	}

	if info != nil {
		g.Demographics.Region = info.Region

		if info.AdminCode != "" {
			if price, err := s.stats.AveragePrice(ctx, info.AdminCode); err == nil {
				g.AveragePrice = &price
			} else if s.logger != nil {
				s.logger.WithFields(logrus.Fields{"area": area, "admin_code": info.AdminCode}).WithError(err).Warn("area guide: price lookup failed")
			}

			if pop, err := s.stats.Population(ctx, info.AdminCode); err == nil {
				g.Demographics.Population = &pop
			} else if s.logger != nil {
				s.logger.WithFields(logrus.Fields{"area": area, "admin_code": info.AdminCode}).WithError(err).Warn("area guide: population lookup failed")
			}
		}

		if info.Latitude != nil && info.Longitude != nil {
			names, err := s.poi.AmenityNames(ctx, *info.Latitude, *info.Longitude, amenityRadiusMeters, nil)
			if err == nil {
				if len(names) > guide.MaxAmenities {
					names = names[:guide.MaxAmenities]
				}
				g.Amenities = names
			} else if s.logger != nil {
				s.logger.WithFields(logrus.Fields{"area": area}).WithError(err).Warn("area guide: amenity lookup failed")
			}
		}
	}

	entry := &guide.Entry{Area: area, Guide: *g, UpdatedAt: time.Now().UTC()}
	if err := s.repo.Upsert(ctx, entry); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"area": area, "amenities": len(g.Amenities)}).Info("area guide: aggregated and cached")
	}
	return g, nil
}
