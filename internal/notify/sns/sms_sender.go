package sns

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"go.uber.org/zap"

	"stowage/internal/domain"
	"stowage/internal/metrics"
	"stowage/internal/port"
)

const (
	attrSenderID = "AWS.SNS.SMS.SenderID"
	attrSMSType  = "AWS.SNS.SMS.SMSType"
)

// API is the subset of *sns.Client used by the sender.
type API interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

var _ API = (*sns.Client)(nil)

type smsSender struct {
	client   API
	senderID string
	log      *zap.Logger
}

// NewSMSSender creates a new SNS-backed SMSSender.
func NewSMSSender(region, senderID string, log *zap.Logger) (port.SMSSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SNS: %w", err)
	}
	return newSMSSender(sns.NewFromConfig(cfg), senderID, log), nil
}

func newSMSSender(client API, senderID string, log *zap.Logger) *smsSender {
	return &smsSender{client: client, senderID: senderID, log: log.Named("sns")}
}

func (s *smsSender) SendSMS(ctx context.Context, msg domain.SMSMessage) (*domain.PublishResult, error) {
	senderID := msg.SenderID
	if senderID == "" {
		senderID = s.senderID
	}
	smsType := msg.Type
	if smsType == "" {
		smsType = domain.SMSTransactional
	}

	// Attributes are built per message so one promotional send cannot change later ones.
	attrs := map[string]types.MessageAttributeValue{
		attrSMSType: {
			DataType:    aws.String("String"),
			StringValue: aws.String(string(smsType)),
		},
	}
	if senderID != "" {
		attrs[attrSenderID] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(senderID),
		}
	}

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       aws.String(msg.PhoneNumber),
		Message:           aws.String(msg.Message),
		MessageAttributes: attrs,
	})
	metrics.RecordNotification("sms", "sns", err == nil)
	if err != nil {
		return nil, fmt.Errorf("SNS Publish: %w", err)
	}

	result := &domain.PublishResult{MessageID: aws.ToString(out.MessageId)}
	s.log.Info("sms published", zap.String("message_id", result.MessageID), zap.String("type", string(smsType)))
	return result, nil
}
