package ports

import (
	"github.com/hazelmere/property-api/internal/core/domain/auth"
	"github.com/hazelmere/property-api/internal/core/domain/enquiry"
)

// EmailService sends transactional mail. Implementations may be a no-op when
// no provider is configured.
type EmailService interface {
	SendEnquiryNotification(receiver *auth.User, m *enquiry.Message) error
}
