package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BradenHooton/dashgate/pkg/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Notifier tells users about changes an admin made to their account
type Notifier interface {
	AccountCreated(ctx context.Context, email, fullName string) error
	AccountSuspended(ctx context.Context, email string, until time.Time, reason string) error
	AccountBanned(ctx context.Context, email, reason string) error
}

// sesAPI is the part of the SES client the notifier uses
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESNotifier sends account notices through AWS SES
type SESNotifier struct {
	client      sesAPI
	fromAddress string
	appURL      string
	logger      *slog.Logger
}

// NewSESNotifier loads the default AWS credential chain for region
func NewSESNotifier(ctx context.Context, region, fromAddress, appURL string, logger *slog.Logger) (*SESNotifier, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SESNotifier{
		client:      ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		appURL:      strings.TrimRight(appURL, "/"),
		logger:      logger,
	}, nil
}

func (n *SESNotifier) AccountCreated(ctx context.Context, email, fullName string) error {
	name := fullName
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf(
		"Hi %s,\n\nAn administrator created a dashboard account for you.\nSign in at %s/login with the password you were given and change it after your first login.\n",
		name, n.appURL,
	)
	return n.send(ctx, email, "Your dashboard account is ready", body)
}

func (n *SESNotifier) AccountSuspended(ctx context.Context, email string, until time.Time, reason string) error {
	body := fmt.Sprintf(
		"Your dashboard account has been suspended until %s.\n\nReason: %s\n\nIf you believe this is a mistake, contact support.\n",
		until.UTC().Format(time.RFC1123), reason,
	)
	return n.send(ctx, email, "Your account has been suspended", body)
}

func (n *SESNotifier) AccountBanned(ctx context.Context, email, reason string) error {
	body := fmt.Sprintf(
		"Your dashboard account has been permanently banned.\n\nReason: %s\n",
		reason,
	)
	return n.send(ctx, email, "Your account has been banned", body)
}

func (n *SESNotifier) send(ctx context.Context, to, subject, text string) error {
	input := &ses.SendEmailInput{
		Source: aws.String(n.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(text)},
			},
		},
	}

	result, err := n.client.SendEmail(ctx, input)
	if err != nil {
		n.logger.Error("failed to send email via SES",
			slog.String("email", logger.SanitizedEmail(to)),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.logger.Info("account notice sent",
		slog.String("email", logger.SanitizedEmail(to)),
		slog.String("subject", subject),
		slog.String("message_id", aws.ToString(result.MessageId)))
	return nil
}

// LogNotifier writes notices to the log instead of sending them
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) AccountCreated(ctx context.Context, email, _ string) error {
	n.logger.InfoContext(ctx, "notice: account created", slog.String("email", logger.SanitizedEmail(email)))
	return nil
}

func (n *LogNotifier) AccountSuspended(ctx context.Context, email string, until time.Time, _ string) error {
	n.logger.InfoContext(ctx, "notice: account suspended",
		slog.String("email", logger.SanitizedEmail(email)),
		slog.Time("until", until))
	return nil
}

func (n *LogNotifier) AccountBanned(ctx context.Context, email, _ string) error {
	n.logger.InfoContext(ctx, "notice: account banned", slog.String("email", logger.SanitizedEmail(email)))
	return nil
}
