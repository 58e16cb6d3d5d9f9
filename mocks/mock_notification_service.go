package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"stowage/internal/domain"
	"stowage/internal/service"
)

// MockNotificationService is a mock implementation of service.NotificationService.
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) SendSMS(ctx context.Context, input service.SendSMSInput) (*domain.PublishResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublishResult), args.Error(1)
}

func (m *MockNotificationService) SendEmail(ctx context.Context, input service.SendEmailInput) (*domain.PublishResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublishResult), args.Error(1)
}
