package notify

import (
	"context"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
)

// LogNotifier writes notifications to the structured log instead of sending them.
type LogNotifier struct {
	to       string
	disabled bool
	logger   *slog.Logger
}

// NewLogNotifier creates a LogNotifier. When disabled is true it only logs that
// email sending is turned off, without rendering the message.
func NewLogNotifier(to string, disabled bool, l *slog.Logger) *LogNotifier {
	return &LogNotifier{to: to, disabled: disabled, logger: l}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(ctx context.Context, task domain.Task) error {
	log := logger.FromContextOrDefault(ctx, n.logger)

	if n.disabled {
		log.InfoContext(ctx, "email sending disabled, skipping task notification",
			slog.String("task_id", task.ID.String()))
		return nil
	}

	msg := BuildMessage(n.to, task)
	log.InfoContext(ctx, "task notification",
		slog.String("task_id", task.ID.String()),
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.Body))
	return nil
}
