package repositories

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/hazelmere/property-api/internal/core/domain/enquiry"
	"github.com/hazelmere/property-api/internal/core/ports"
	"github.com/hazelmere/property-api/internal/infrastructure/db"
)

// MessageRepository persists enquiry messages in Postgres.
type MessageRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewMessageRepository(database *db.Database, logger *logrus.Logger) ports.MessageRepository {
	return &MessageRepository{db: database, logger: logger}
}

// Insert stores a new message.
func (r *MessageRepository) Insert(ctx context.Context, m *enquiry.Message) error {
	query := `
		INSERT INTO messages (id, property_id, sender_id, receiver_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.DB.ExecContext(ctx, query, m.ID, m.PropertyID, m.SenderID, m.ReceiverID, m.Content, m.CreatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"property_id": m.PropertyID, "sender_id": m.SenderID}).WithError(err).Error("db: failed to insert message")
		}
		return fmt.Errorf("failed to insert message: %w", err)
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"message_id": m.ID, "property_id": m.PropertyID}).Info("db: message created")
	}
	return nil
}
