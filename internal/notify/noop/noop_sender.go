package noop

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stowage/internal/domain"
	"stowage/internal/metrics"
	"stowage/internal/port"
)

type smsSender struct {
	log *zap.Logger
}

// NewSMSSender creates a no-op SMSSender that only logs the message.
func NewSMSSender(log *zap.Logger) port.SMSSender {
	return &smsSender{log: log.Named("noop_sms")}
}

func (s *smsSender) SendSMS(_ context.Context, msg domain.SMSMessage) (*domain.PublishResult, error) {
	id := uuid.NewString()
	s.log.Info("[NOOP SMS]",
		zap.String("message_id", id),
		zap.String("phone_number", msg.PhoneNumber),
		zap.String("type", string(msg.Type)),
		zap.String("message", msg.Message),
	)
	metrics.RecordNotification("sms", "noop", true)
	return &domain.PublishResult{MessageID: id}, nil
}

type emailSender struct {
	log *zap.Logger
}

// NewEmailSender creates a no-op EmailSender that only logs the message.
func NewEmailSender(log *zap.Logger) port.EmailSender {
	return &emailSender{log: log.Named("noop_email")}
}

func (s *emailSender) SendEmail(_ context.Context, msg domain.EmailMessage) (*domain.PublishResult, error) {
	id := uuid.NewString()
	s.log.Info("[NOOP EMAIL]",
		zap.String("message_id", id),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	metrics.RecordNotification("email", "noop", true)
	return &domain.PublishResult{MessageID: id}, nil
}
