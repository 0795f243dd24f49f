package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/certzilla/auth-server/internal/model"
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SES delivers mail through Amazon SES v2.
type SES struct {
	api  sesAPI
	from string
	now  func() time.Time
}

var _ Driver = (*SES)(nil)

// NewSES loads AWS credentials from the default chain.
func NewSES(ctx context.Context, region, from string) (*SES, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return NewSESWithAPI(sesv2.NewFromConfig(awsCfg), from), nil
}

func NewSESWithAPI(api sesAPI, from string) *SES {
	return &SES{api: api, from: from, now: time.Now}
}

func (s *SES) Send(ctx context.Context, msg model.Message) (model.Receipt, error) {
	out, err := s.api.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(msg.HTML), Charset: aws.String("UTF-8")},
				},
			},
		},
	})
	if err != nil {
		return model.Receipt{}, fmt.Errorf("failed to send email via ses: %w", err)
	}

	return model.Receipt{
		ID:         aws.ToString(out.MessageId),
		Driver:     "ses",
		AcceptedAt: s.now(),
	}, nil
}

func (s *SES) Close() error {
	return nil
}
