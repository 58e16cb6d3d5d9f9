package ses

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"

	"stowage/internal/domain"
	"stowage/internal/metrics"
	"stowage/internal/port"
)

// API is the subset of *sesv2.Client used by the sender.
type API interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

var _ API = (*sesv2.Client)(nil)

type emailSender struct {
	client      API
	fromAddress string
	fromName    string
	log         *zap.Logger
}

// NewEmailSender creates a new SES-backed EmailSender.
func NewEmailSender(region, fromAddress, fromName string, log *zap.Logger) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return newEmailSender(sesv2.NewFromConfig(cfg), fromAddress, fromName, log), nil
}

func newEmailSender(client API, fromAddress, fromName string, log *zap.Logger) *emailSender {
	return &emailSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
		log:         log.Named("ses"),
	}
}

func (s *emailSender) SendEmail(ctx context.Context, msg domain.EmailMessage) (*domain.PublishResult, error) {
	from := s.fromAddress
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	}

	body := &types.Body{}
	if msg.TextBody != "" {
		body.Text = &types.Content{Data: aws.String(msg.TextBody)}
	}
	if msg.HTMLBody != "" {
		body.Html = &types.Content{Data: aws.String(msg.HTMLBody)}
	}

	out, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject)},
				Body:    body,
			},
		},
	})
	metrics.RecordNotification("email", "ses", err == nil)
	if err != nil {
		return nil, fmt.Errorf("SES SendEmail: %w", err)
	}

	result := &domain.PublishResult{MessageID: aws.ToString(out.MessageId)}
	s.log.Info("email sent", zap.String("message_id", result.MessageID))
	return result, nil
}
