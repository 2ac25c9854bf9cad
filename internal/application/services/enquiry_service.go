package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hazelmere/property-api/internal/core/domain/enquiry"
	"github.com/hazelmere/property-api/internal/core/ports"
)

// EnquiryService stores buyer enquiries and notifies the receiving agent.
// The notification is best-effort: a mail failure is logged, never surfaced.
type EnquiryService struct {
	messages ports.MessageRepository
	users    ports.UserRepository
	email    ports.EmailService
	logger   *logrus.Logger
}

func NewEnquiryService(messages ports.MessageRepository, users ports.UserRepository, email ports.EmailService, logger *logrus.Logger) *EnquiryService {
	return &EnquiryService{messages: messages, users: users, email: email, logger: logger}
}

// Submit validates and persists the enquiry.
func (s *EnquiryService) Submit(ctx context.Context, req *enquiry.SubmitRequest) error {
	if req.Content == "" {
		return fmt.Errorf("enquiry content is required")
	}
	propertyID, err := uuid.Parse(req.PropertyID)
	if err != nil {
		return fmt.Errorf("invalid property id: %w", err)
	}
	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		return fmt.Errorf("invalid receiver id: %w", err)
	}
	var senderID *uuid.UUID
	if req.SenderID != "" {
		id, err := uuid.Parse(req.SenderID)
		if err != nil {
			return fmt.Errorf("invalid sender id: %w", err)
		}
		senderID = &id
	}

	m := &enquiry.Message{
		ID:         uuid.New(),
		PropertyID: propertyID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    req.Content,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.messages.Insert(ctx, m); err != nil {
		return err
	}

	s.notify(ctx, m)
	return nil
}

func (s *EnquiryService) notify(ctx context.Context, m *enquiry.Message) {
	if s.email == nil {
		return
	}
	receiver, err := s.users.GetByID(ctx, m.ReceiverID)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"receiver_id": m.ReceiverID}).WithError(err).Warn("enquiry: receiver lookup failed, skipping notification")
		}
		return
	}
	if err := s.email.SendEnquiryNotification(receiver, m); err != nil && s.logger != nil {
		s.logger.WithFields(logrus.Fields{"receiver_id": m.ReceiverID}).WithError(err).Warn("enquiry: notification failed")
	}
}
