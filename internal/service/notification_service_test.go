package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stowage/internal/domain"
	"stowage/internal/service"
	"stowage/mocks"
)

func newNotificationService() (service.NotificationService, *mocks.MockSMSSender, *mocks.MockEmailSender, *mocks.MockAuditRepo) {
	sms := new(mocks.MockSMSSender)
	email := new(mocks.MockEmailSender)
	auditRepo := new(mocks.MockAuditRepo)
	return service.NewNotificationService(sms, email, auditRepo, zap.NewNop()), sms, email, auditRepo
}

func TestNotificationService_SendSMS_DefaultsToTransactional(t *testing.T) {
	svc, sms, _, auditRepo := newNotificationService()
	ctx := context.Background()

	sms.On("SendSMS", ctx, domain.SMSMessage{
		PhoneNumber: "+15550100",
		Message:     "your code is 1234",
		Type:        domain.SMSTransactional,
	}).Return(&domain.PublishResult{MessageID: "m-1"}, nil)
	auditRepo.On("Create", ctx, mock.MatchedBy(func(e *domain.AuditEntry) bool {
		return e.Action == domain.AuditSendSMS && e.Succeeded
	})).Return(nil)

	res, err := svc.SendSMS(ctx, service.SendSMSInput{Message: "your code is 1234", PhoneNumber: "+15550100"})
	require.NoError(t, err)
	assert.Equal(t, "m-1", res.MessageID)
	sms.AssertExpectations(t)
	auditRepo.AssertExpectations(t)
}

func TestNotificationService_SendSMS_Validation(t *testing.T) {
	svc, sms, _, _ := newNotificationService()
	ctx := context.Background()

	_, err := svc.SendSMS(ctx, service.SendSMSInput{PhoneNumber: "+15550100"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.SendSMS(ctx, service.SendSMSInput{Message: "hi"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.SendSMS(ctx, service.SendSMSInput{Message: "hi", PhoneNumber: "+1", Type: "Urgent"})
	assert.ErrorIs(t, err, domain.ErrInvalidSMSType)

	sms.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything)
}

func TestNotificationService_SendSMS_ProviderError(t *testing.T) {
	svc, sms, _, auditRepo := newNotificationService()
	ctx := context.Background()

	sms.On("SendSMS", ctx, mock.Anything).Return(nil, errors.New("throttled"))
	auditRepo.On("Create", ctx, mock.MatchedBy(func(e *domain.AuditEntry) bool {
		return !e.Succeeded
	})).Return(nil)

	res, err := svc.SendSMS(ctx, service.SendSMSInput{Message: "hi", PhoneNumber: "+1", Type: domain.SMSPromotional})
	assert.Nil(t, res)
	assert.ErrorContains(t, err, "throttled")
	auditRepo.AssertExpectations(t)
}

func TestNotificationService_SendEmail(t *testing.T) {
	svc, _, email, auditRepo := newNotificationService()
	ctx := context.Background()

	msg := domain.EmailMessage{To: "ops@example.com", Subject: "Report", TextBody: "done"}
	email.On("SendEmail", ctx, msg).Return(&domain.PublishResult{MessageID: "e-1"}, nil)
	auditRepo.On("Create", ctx, mock.Anything).Return(nil)

	res, err := svc.SendEmail(ctx, service.SendEmailInput{To: msg.To, Subject: msg.Subject, TextBody: msg.TextBody})
	require.NoError(t, err)
	assert.Equal(t, "e-1", res.MessageID)
}

func TestNotificationService_SendEmail_RequiresBody(t *testing.T) {
	svc, _, email, _ := newNotificationService()

	_, err := svc.SendEmail(context.Background(), service.SendEmailInput{To: "a@b.c", Subject: "s"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	email.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
}
