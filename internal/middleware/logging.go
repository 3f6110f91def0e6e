// Package middleware decorates notify.Sender implementations with
// cross-cutting behavior.
package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmynk/mealsplit/internal/notify"
)

type loggingSender struct {
	next   notify.Sender
	logger *slog.Logger
}

// Logging returns a Sender that logs every send at debug level with the
// channel, recipient, duration, and any error. The dispatcher owns the
// warning for a failed delivery.
func Logging(next notify.Sender, logger *slog.Logger) notify.Sender {
	return &loggingSender{next: next, logger: logger}
}

func (s *loggingSender) Name() string {
	return s.next.Name()
}

func (s *loggingSender) Send(ctx context.Context, msg notify.Message) error {
	start := time.Now()

	err := s.next.Send(ctx, msg)

	duration := time.Since(start).Milliseconds()
	if err != nil {
		s.logger.DebugContext(ctx, "send error",
			"channel", s.next.Name(),
			"username", msg.Username,
			"error", err,
			"duration_ms", duration,
		)
	} else {
		s.logger.DebugContext(ctx, "send ok",
			"channel", s.next.Name(),
			"username", msg.Username,
			"duration_ms", duration,
		)
	}

	return err
}
