package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"stowage/internal/domain"
)

// MockSMSSender is a mock implementation of port.SMSSender.
type MockSMSSender struct {
	mock.Mock
}

func (m *MockSMSSender) SendSMS(ctx context.Context, msg domain.SMSMessage) (*domain.PublishResult, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublishResult), args.Error(1)
}
