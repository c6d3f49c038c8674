// Package mail delivers transactional email. SES is the production sender;
// the log sender stands in when no sender address is configured.
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESMailer sends password reset codes through AWS SES.
type SESMailer struct {
	client *ses.Client
	from   string
}

// NewSESMailer builds an SES client from the ambient AWS credential chain.
func NewSESMailer(ctx context.Context, region, from string) (*SESMailer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SESMailer{
		client: ses.NewFromConfig(awsCfg),
		from:   from,
	}, nil
}

func (m *SESMailer) SendPasswordResetCode(ctx context.Context, to, code string, ttl time.Duration) error {
	subject := "Your PickMe password reset code"
	body := fmt.Sprintf(
		"Your password reset code is %s.\n\nIt expires in %d minutes. If you did not request a reset, ignore this email.",
		code, int(ttl.Minutes()))

	input := &ses.SendEmailInput{
		Source: aws.String(m.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(body),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}
