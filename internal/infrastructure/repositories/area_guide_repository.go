package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hazelmere/property-api/internal/core/domain/guide"
	"github.com/hazelmere/property-api/internal/core/ports"
	"github.com/hazelmere/property-api/internal/infrastructure/db"
)

// AreaGuideRepository is the durable area-guide cache over Postgres. The
// payload is stored as JSONB so the response bytes survive a round trip
// without reshaping.
type AreaGuideRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewAreaGuideRepository(database *db.Database, logger *logrus.Logger) ports.AreaGuideRepository {
	return &AreaGuideRepository{db: database, logger: logger}
}

type areaGuideRow struct {
	Area      string          `db:"area"`
	Data      json.RawMessage `db:"data"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// Get returns the cached entry for the area, or nil on a miss.
func (r *AreaGuideRepository) Get(ctx context.Context, area string) (*guide.Entry, error) {
	var row areaGuideRow
	query := `SELECT area, data, updated_at FROM area_guides WHERE area = $1`

	err := r.db.DB.GetContext(ctx, &row, query, area)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"area": area}).WithError(err).Error("db: failed to get area guide")
		}
		return nil, fmt.Errorf("failed to get area guide: %w", err)
	}

	var g guide.AreaGuide
	if err := json.Unmarshal(row.Data, &g); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"area": area}).WithError(err).Error("db: corrupt area guide payload")
		}
		return nil, fmt.Errorf("failed to decode area guide payload: %w", err)
	}
	return &guide.Entry{Area: row.Area, Guide: g, UpdatedAt: row.UpdatedAt}, nil
}

// Upsert writes the entry, replacing the payload and refresh time for an
// existing area.
func (r *AreaGuideRepository) Upsert(ctx context.Context, entry *guide.Entry) error {
	data, err := json.Marshal(entry.Guide)
	if err != nil {
		return fmt.Errorf("failed to encode area guide payload: %w", err)
	}

	query := `
		INSERT INTO area_guides (area, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (area)
		DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`

	if _, err := r.db.DB.ExecContext(ctx, query, entry.Area, data, entry.UpdatedAt); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"area": entry.Area}).WithError(err).Error("db: failed to upsert area guide")
		}
		return fmt.Errorf("failed to upsert area guide: %w", err)
	}
	return nil
}
