package email

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"

	"github.com/hazelmere/property-api/internal/core/domain/auth"
	"github.com/hazelmere/property-api/internal/core/domain/enquiry"
	"github.com/hazelmere/property-api/internal/core/ports"
)

// EmailConfig holds email service configuration
type EmailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
}

// EmailService sends enquiry notifications via SendGrid.
type EmailService struct {
	config *EmailConfig
	logger *logrus.Logger
	client *sendgrid.Client
	tmpl   *template.Template
}

var enquiryTemplate = template.Must(template.New("enquiry").Parse(`
<p>Hello {{.Name}},</p>
<p>You have received a new enquiry about one of your listings:</p>
<blockquote>{{.Content}}</blockquote>
<p>Log in to your dashboard to reply.</p>
`))

// NewEmailService creates the SendGrid-backed notifier. When no API key is
// configured it returns a disabled service that drops mail silently, so the
// enquiry path works without a provider.
func NewEmailService(config *EmailConfig, logger *logrus.Logger) (ports.EmailService, error) {
	if config.SendGridAPIKey == "" {
		if logger != nil {
			logger.Warn("email: no SendGrid API key configured, notifications disabled")
		}
		return &disabledEmailService{logger: logger}, nil
	}

	return &EmailService{
		config: config,
		logger: logger,
		client: sendgrid.NewSendClient(config.SendGridAPIKey),
		tmpl:   enquiryTemplate,
	}, nil
}

// SendEnquiryNotification emails the receiving agent about a new enquiry.
func (e *EmailService) SendEnquiryNotification(receiver *auth.User, m *enquiry.Message) error {
	var htmlBody bytes.Buffer
	data := struct {
		Name    string
		Content string
	}{Name: receiver.FullName, Content: m.Content}
	if err := e.tmpl.Execute(&htmlBody, data); err != nil {
		return fmt.Errorf("failed to render enquiry notification: %w", err)
	}

	from := mail.NewEmail(e.config.FromName, e.config.FromEmail)
	to := mail.NewEmail(receiver.FullName, receiver.Email)
	subject := "New enquiry about your listing"
	message := mail.NewSingleEmail(from, subject, to, "You have received a new enquiry.", htmlBody.String())

	resp, err := e.client.Send(message)
	if err != nil {
		if e.logger != nil {
			e.logger.WithFields(logrus.Fields{"to": receiver.Email}).WithError(err).Error("email: failed to send enquiry notification")
		}
		return fmt.Errorf("failed to send enquiry notification: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}

	if e.logger != nil {
		e.logger.WithFields(logrus.Fields{"to": receiver.Email, "message_id": m.ID}).Info("email: enquiry notification sent")
	}
	return nil
}

// disabledEmailService is used when no provider is configured.
type disabledEmailService struct {
	logger *logrus.Logger
}

func (d *disabledEmailService) SendEnquiryNotification(receiver *auth.User, m *enquiry.Message) error {
	if d.logger != nil {
		d.logger.WithFields(logrus.Fields{"to": receiver.Email}).Debug("email: notifications disabled, dropping enquiry notification")
	}
	return nil
}
