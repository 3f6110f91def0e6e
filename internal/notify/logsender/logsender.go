// Package logsender provides a notify.Sender that only writes log lines.
// It is the default channel and doubles as a dry run.
package logsender

import (
	"context"
	"log/slog"

	"github.com/mmynk/mealsplit/internal/models"
	"github.com/mmynk/mealsplit/internal/notify"
)

// Sender logs every message at info level and always succeeds.
type Sender struct {
	logger *slog.Logger
}

// New creates a log sender.
func New(logger *slog.Logger) *Sender {
	return &Sender{logger: logger}
}

// Name returns models.ChannelLog.
func (s *Sender) Name() string {
	return models.ChannelLog
}

// Send logs the message.
func (s *Sender) Send(ctx context.Context, msg notify.Message) error {
	s.logger.InfoContext(ctx, "billing notice",
		slog.String("username", msg.Username),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.Body),
		slog.Float64("total", msg.Total),
	)
	return nil
}
