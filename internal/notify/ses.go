package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
)

// SESClient is the subset of the SES API used by SESNotifier.
type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESConfig holds the AWS and addressing settings for SESNotifier.
type SESConfig struct {
	Region           string
	Profile          string
	ConfigurationSet string
	From             string
	To               string
}

// SESNotifier sends email through AWS SES.
type SESNotifier struct {
	cfg    SESConfig
	logger *slog.Logger

	mu     sync.Mutex
	client SESClient
}

// SESOption customizes an SESNotifier.
type SESOption func(*SESNotifier)

// WithSESClient injects a pre-built client instead of loading AWS config lazily.
func WithSESClient(c SESClient) SESOption {
	return func(n *SESNotifier) {
		if c != nil {
			n.client = c
		}
	}
}

// NewSESNotifier creates an SESNotifier. Region defaults to us-east-1.
func NewSESNotifier(cfg SESConfig, l *slog.Logger, opts ...SESOption) *SESNotifier {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	n := &SESNotifier{cfg: cfg, logger: l}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *SESNotifier) ensureClient(ctx context.Context) (SESClient, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.client != nil {
		return n.client, nil
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(n.cfg.Region),
	}
	if n.cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(n.cfg.Profile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("ses: load config: %w", err)
	}
	n.client = ses.NewFromConfig(awsCfg, func(o *ses.Options) {
		o.RetryMaxAttempts = 3
	})
	return n.client, nil
}

// Notify implements Notifier.
func (n *SESNotifier) Notify(ctx context.Context, task domain.Task) error {
	if strings.TrimSpace(n.cfg.To) == "" {
		return fmt.Errorf("ses: destination required")
	}
	if strings.TrimSpace(n.cfg.From) == "" {
		return fmt.Errorf("ses: from required")
	}

	client, err := n.ensureClient(ctx)
	if err != nil {
		return err
	}

	msg := BuildMessage(strings.TrimSpace(n.cfg.To), task)
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Source: aws.String(n.cfg.From),
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(msg.Body), Charset: aws.String("UTF-8")},
			},
		},
	}
	if cs := strings.TrimSpace(n.cfg.ConfigurationSet); cs != "" {
		input.ConfigurationSetName = aws.String(cs)
	}

	out, err := client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("ses: send email: %w", err)
	}

	attrs := []any{
		slog.String("provider", "ses"),
		slog.String("task_id", task.ID.String()),
	}
	if out != nil && out.MessageId != nil {
		attrs = append(attrs, slog.String("message_id", *out.MessageId))
	}
	logger.FromContextOrDefault(ctx, n.logger).InfoContext(ctx, "task notification sent", attrs...)
	return nil
}
