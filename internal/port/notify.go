package port

import (
	"context"

	"stowage/internal/domain"
)

// SMSSender delivers text messages to phone numbers.
type SMSSender interface {
	SendSMS(ctx context.Context, msg domain.SMSMessage) (*domain.PublishResult, error)
}

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendEmail(ctx context.Context, msg domain.EmailMessage) (*domain.PublishResult, error)
}
