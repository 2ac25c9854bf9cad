package ports

import (
	"context"

	"github.com/hazelmere/property-api/internal/core/domain/enquiry"
)

// MessageRepository persists enquiry messages.
type MessageRepository interface {
	Insert(ctx context.Context, m *enquiry.Message) error
}

// EnquiryService validates and stores an enquiry, and notifies the receiving
// agent when email is configured.
type EnquiryService interface {
	Submit(ctx context.Context, req *enquiry.SubmitRequest) error
}
