package enquiry

import (
	"time"

	"github.com/google/uuid"
)

// Message is a buyer-to-agent enquiry about a property. SenderID is nil for
// anonymous enquiries and stored as NULL.
type Message struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	PropertyID uuid.UUID  `json:"property_id" db:"property_id"`
	SenderID   *uuid.UUID `json:"sender_id" db:"sender_id"`
	ReceiverID uuid.UUID  `json:"receiver_id" db:"receiver_id"`
	Content    string     `json:"content" db:"content"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// SubmitRequest is the enquiry endpoint body. Sender may be empty for
// anonymous enquiries; rate limiting then falls back to the client IP.
type SubmitRequest struct {
	PropertyID string `json:"propertyId" validate:"required"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId" validate:"required"`
	Content    string `json:"content" validate:"required"`
}
