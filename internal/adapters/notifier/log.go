package notifier

import (
	"accountant-assistant/internal/core/domain"
	"accountant-assistant/internal/core/port"
	"context"
	"log/slog"
)

type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier writes every notification to the logger, errors at error level
func NewLogNotifier(logger *slog.Logger) port.Notifier {
	return &logNotifier{logger: logger}
}

func (l *logNotifier) Notify(ctx context.Context, n domain.Notification) error {
	level := slog.LevelInfo
	if n.Level == domain.NotificationLevelError {
		level = slog.LevelError
	}
	l.logger.Log(ctx, level, n.Message,
		"surface", n.Surface,
		"task_id", n.TaskID,
		"file", n.FileName,
		"mock", n.Mock,
	)
	return nil
}
