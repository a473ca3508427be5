package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/yohannes4321/MissionForNation/pkg/slogx"
)

// SESConfig configures the SES-backed mailer.
type SESConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Sender          string
}

// SESMailer sends invitation emails through AWS SESv2.
type SESMailer struct {
	client *sesv2.Client
	sender string
}

func NewSESMailer(ctx context.Context, cfg SESConfig) (*SESMailer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("notify: failed to load SES config: %w", err)
	}

	return &SESMailer{
		client: sesv2.NewFromConfig(awsCfg),
		sender: cfg.Sender,
	}, nil
}

func (m *SESMailer) SendInvitation(ctx context.Context, msg InvitationEmail) error {
	subject := fmt.Sprintf("You've been invited to join %s", msg.OrganizationName)
	body := fmt.Sprintf(
		"Hello,\n\n"+
			"%s (%s) has invited you to join %s.\n\n"+
			"Accept the invitation before %s:\n%s\n\n"+
			"If you were not expecting this invitation you can ignore this email.",
		msg.InviterName, msg.InviterEmail, msg.OrganizationName,
		msg.ExpiresAt.Format("Jan 2, 2006 15:04 MST"), msg.AcceptURL,
	)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.sender),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("notify: SES send failed: %w", err)
	}
	return nil
}

func logFromContext(ctx context.Context) *slog.Logger {
	return slogx.FromContext(ctx)
}
