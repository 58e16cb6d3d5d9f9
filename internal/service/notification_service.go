package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"stowage/internal/domain"
	"stowage/internal/port"
)

// SendSMSInput is the DTO for SMS dispatch.
type SendSMSInput struct {
	Message     string
	PhoneNumber string
	// Type defaults to Transactional when empty.
	Type domain.SMSType
	// SenderID overrides the configured sender ID for this message.
	SenderID string
}

// SendEmailInput is the DTO for email dispatch.
type SendEmailInput struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// NotificationService defines the outbound notification contract.
type NotificationService interface {
	SendSMS(ctx context.Context, input SendSMSInput) (*domain.PublishResult, error)
	SendEmail(ctx context.Context, input SendEmailInput) (*domain.PublishResult, error)
}

type notificationService struct {
	sms   port.SMSSender
	email port.EmailSender
	audit *auditRecorder
	log   *zap.Logger
}

// NewNotificationService creates a new NotificationService implementation.
func NewNotificationService(
	sms port.SMSSender,
	email port.EmailSender,
	auditRepo port.AuditRepository,
	log *zap.Logger,
) NotificationService {
	log = log.Named("notification_service")
	return &notificationService{
		sms:   sms,
		email: email,
		audit: &auditRecorder{repo: auditRepo, log: log},
		log:   log,
	}
}

func (s *notificationService) SendSMS(ctx context.Context, input SendSMSInput) (*domain.PublishResult, error) {
	if err := requireArgs("message", input.Message, "phone number", input.PhoneNumber); err != nil {
		return nil, err
	}

	smsType := input.Type
	if smsType == "" {
		smsType = domain.SMSTransactional
	}
	if smsType != domain.SMSTransactional && smsType != domain.SMSPromotional {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSMSType, smsType)
	}

	res, err := s.sms.SendSMS(ctx, domain.SMSMessage{
		PhoneNumber: input.PhoneNumber,
		Message:     input.Message,
		Type:        smsType,
		SenderID:    input.SenderID,
	})
	s.audit.record(ctx, domain.AuditSendSMS, "", "",
		fmt.Sprintf("to=%s type=%s", input.PhoneNumber, smsType), err)
	if err != nil {
		s.log.Error("sms dispatch failed", zap.String("type", string(smsType)), zap.Error(err))
		return nil, err
	}
	return res, nil
}

func (s *notificationService) SendEmail(ctx context.Context, input SendEmailInput) (*domain.PublishResult, error) {
	if err := requireArgs("to", input.To, "subject", input.Subject); err != nil {
		return nil, err
	}
	if input.TextBody == "" && input.HTMLBody == "" {
		return nil, invalidArg("text or html body is required")
	}

	res, err := s.email.SendEmail(ctx, domain.EmailMessage{
		To:       input.To,
		Subject:  input.Subject,
		TextBody: input.TextBody,
		HTMLBody: input.HTMLBody,
	})
	s.audit.record(ctx, domain.AuditSendEmail, "", "", "to="+input.To, err)
	if err != nil {
		s.log.Error("email dispatch failed", zap.Error(err))
		return nil, err
	}
	return res, nil
}
