package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hazelmere/property-api/internal/core/domain/nearby"
	"github.com/hazelmere/property-api/internal/core/ports"
	"github.com/hazelmere/property-api/internal/infrastructure/db"
)

// NearbyCacheRepository is the durable nearby-amenities cache over Postgres.
// Rows are keyed by the quantized coordinate pair.
type NearbyCacheRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewNearbyCacheRepository(database *db.Database, logger *logrus.Logger) ports.NearbyCacheRepository {
	return &NearbyCacheRepository{db: database, logger: logger}
}

type nearbyRow struct {
	Lat       float64         `db:"lat"`
	Lon       float64         `db:"lon"`
	Results   json.RawMessage `db:"results"`
	CreatedAt time.Time       `db:"created_at"`
}

// Get returns the cached entry for the cell, or nil on a miss.
func (r *NearbyCacheRepository) Get(ctx context.Context, key nearby.CellKey) (*nearby.Entry, error) {
	var row nearbyRow
	query := `SELECT lat, lon, results, created_at FROM nearby_cache WHERE lat = $1 AND lon = $2`

	err := r.db.DB.GetContext(ctx, &row, query, key.Lat, key.Lon)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"lat": key.Lat, "lon": key.Lon}).WithError(err).Error("db: failed to get nearby cache entry")
		}
		return nil, fmt.Errorf("failed to get nearby cache entry: %w", err)
	}

	var results []string
	if err := json.Unmarshal(row.Results, &results); err != nil {
		return nil, fmt.Errorf("failed to decode nearby cache payload: %w", err)
	}
	return &nearby.Entry{
		Key:       nearby.CellKey{Lat: row.Lat, Lon: row.Lon},
		Results:   results,
		CreatedAt: row.CreatedAt,
	}, nil
}

// Upsert writes the entry for its cell.
func (r *NearbyCacheRepository) Upsert(ctx context.Context, entry *nearby.Entry) error {
	results, err := json.Marshal(entry.Results)
	if err != nil {
		return fmt.Errorf("failed to encode nearby cache payload: %w", err)
	}

	query := `
		INSERT INTO nearby_cache (lat, lon, results, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (lat, lon)
		DO UPDATE SET results = EXCLUDED.results, created_at = EXCLUDED.created_at`

	if _, err := r.db.DB.ExecContext(ctx, query, entry.Key.Lat, entry.Key.Lon, results, entry.CreatedAt); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"lat": entry.Key.Lat, "lon": entry.Key.Lon}).WithError(err).Error("db: failed to upsert nearby cache entry")
		}
		return fmt.Errorf("failed to upsert nearby cache entry: %w", err)
	}
	return nil
}
