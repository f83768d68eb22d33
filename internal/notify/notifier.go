package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// TimestampLayout is the layout used for the "Created at" line of the message.
const TimestampLayout = "2006-01-02T15:04:05"

// Notifier delivers a notification about a newly created task.
type Notifier interface {
	Notify(ctx context.Context, task domain.Task) error
}

// Message is a rendered plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// BuildMessage renders the task-created email addressed to the given recipient.
func BuildMessage(to string, task domain.Task) Message {
	var body strings.Builder
	body.WriteString("A new task has been created.\n\n")
	fmt.Fprintf(&body, "ID: %s\n", task.ID)
	fmt.Fprintf(&body, "Title: %s\n", task.Title)
	fmt.Fprintf(&body, "Description: %s\n", task.Description)
	fmt.Fprintf(&body, "Created at: %s\n", task.CreatedAt.Format(TimestampLayout))

	return Message{
		To:      to,
		Subject: "New task created: " + task.Title,
		Body:    body.String(),
	}
}

// New builds the Notifier described by cfg. When notifications are disabled a
// LogNotifier is returned that only records that sending was skipped.
func New(cfg config.NotifyConfig, logger *slog.Logger) (Notifier, error) {
	if !cfg.Enabled {
		return NewLogNotifier(cfg.AdminEmail, true, logger), nil
	}

	switch cfg.Provider {
	case config.NotifyProviderLog, "":
		return NewLogNotifier(cfg.AdminEmail, false, logger), nil
	case config.NotifyProviderSMTP:
		return NewSMTPNotifier(SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			UseTLS:   cfg.SMTP.UseTLS,
			From:     cfg.From,
			To:       cfg.AdminEmail,
			Timeout:  cfg.SendTimeout(),
		}, logger), nil
	case config.NotifyProviderSES:
		return NewSESNotifier(SESConfig{
			Region:           cfg.SES.Region,
			Profile:          cfg.SES.Profile,
			ConfigurationSet: cfg.SES.ConfigurationSet,
			From:             cfg.From,
			To:               cfg.AdminEmail,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown notify provider %q", cfg.Provider)
	}
}
