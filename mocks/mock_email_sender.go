package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"stowage/internal/domain"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, msg domain.EmailMessage) (*domain.PublishResult, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublishResult), args.Error(1)
}
