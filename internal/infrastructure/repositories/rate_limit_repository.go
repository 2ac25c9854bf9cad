package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/hazelmere/property-api/internal/core/domain/ratelimit"
	"github.com/hazelmere/property-api/internal/core/ports"
	"github.com/hazelmere/property-api/internal/infrastructure/db"
)

// RateLimitRepository stores rate-limit records in Postgres. Reads and writes
// are separate statements on purpose: the limiter's window semantics are
// recompute-on-read, not an atomic increment.
type RateLimitRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewRateLimitRepository(database *db.Database, logger *logrus.Logger) ports.RateLimitStore {
	return &RateLimitRepository{db: database, logger: logger}
}

// Get returns the record for (identifier, event), or nil when absent.
func (r *RateLimitRepository) Get(ctx context.Context, identifier string, event ratelimit.Event) (*ratelimit.Record, error) {
	var rec ratelimit.Record
	query := `
		SELECT identifier, event, count, last_request
		FROM rate_limits
		WHERE identifier = $1 AND event = $2`

	err := r.db.DB.GetContext(ctx, &rec, query, identifier, event)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"identifier": identifier, "event": event}).WithError(err).Error("db: failed to get rate limit record")
		}
		return nil, fmt.Errorf("failed to get rate limit record: %w", err)
	}
	return &rec, nil
}

// Upsert writes the record, replacing count and last_request for an existing key.
func (r *RateLimitRepository) Upsert(ctx context.Context, rec *ratelimit.Record) error {
	query := `
		INSERT INTO rate_limits (identifier, event, count, last_request)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (identifier, event)
		DO UPDATE SET count = EXCLUDED.count, last_request = EXCLUDED.last_request`

	_, err := r.db.DB.ExecContext(ctx, query, rec.Identifier, rec.Event, rec.Count, rec.LastRequest)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"identifier": rec.Identifier, "event": rec.Event}).WithError(err).Error("db: failed to upsert rate limit record")
		}
		return fmt.Errorf("failed to upsert rate limit record: %w", err)
	}
	return nil
}
