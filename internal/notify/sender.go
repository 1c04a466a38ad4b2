package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/google/uuid"

	"inspection-backend/internal/shared/telemetry"
)

// Sender delivers one SMS and returns the provider message ID.
type Sender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// SNSPublisher is the subset of the SNS client used for SMS.
type SNSPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSSender publishes SMS directly to phone numbers through AWS SNS.
type SNSSender struct {
	Client   SNSPublisher
	SenderID string
}

// NewSNSSender loads AWS config for region and returns an SNS-backed sender.
func NewSNSSender(ctx context.Context, region, senderID string) (*SNSSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SNSSender{Client: sns.NewFromConfig(cfg), SenderID: senderID}, nil
}

func (s *SNSSender) Send(ctx context.Context, to, body string) (string, error) {
	attrs := map[string]snstypes.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {
			DataType:    aws.String("String"),
			StringValue: aws.String("Transactional"),
		},
	}
	if s.SenderID != "" {
		attrs["AWS.SNS.SMS.SenderID"] = snstypes.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(s.SenderID),
		}
	}

	out, err := s.Client.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       aws.String(to),
		Message:           aws.String(body),
		MessageAttributes: attrs,
	})
	if err != nil {
		return "", fmt.Errorf("sns publish: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

// LogSender writes messages to the log instead of sending them.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, to, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := "log-" + uuid.NewString()
	telemetry.Info("notify.sms.logged", map[string]any{
		"to":         maskPhone(to),
		"body":       body,
		"message_id": id,
	})
	return id, nil
}

var (
	_ Sender = (*SNSSender)(nil)
	_ Sender = LogSender{}
)
