package noop_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"stowage/internal/domain"
	"stowage/internal/notify/noop"
)

func TestNoopSMSSender_LogsMessage(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sender := noop.NewSMSSender(zap.New(core))

	res, err := sender.SendSMS(context.Background(), domain.SMSMessage{PhoneNumber: "+1555", Message: "hi", Type: domain.SMSTransactional})
	require.NoError(t, err)
	_, err = uuid.Parse(res.MessageID)
	assert.NoError(t, err)

	entries := logs.FilterMessage("[NOOP SMS]").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "+1555", entries[0].ContextMap()["phone_number"])
}

func TestNoopEmailSender_LogsMessage(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sender := noop.NewEmailSender(zap.New(core))

	res, err := sender.SendEmail(context.Background(), domain.EmailMessage{To: "a@b.c", Subject: "s"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.MessageID)
	assert.Equal(t, 1, logs.FilterMessage("[NOOP EMAIL]").Len())
}
