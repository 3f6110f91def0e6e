package middleware

import (
	"context"
	"time"

	"github.com/mmynk/mealsplit/internal/metrics"
	"github.com/mmynk/mealsplit/internal/notify"
)

type metricsSender struct {
	next notify.Sender
	m    *metrics.Metrics
}

// Metrics returns a Sender that counts sends and observes their latency.
func Metrics(next notify.Sender, m *metrics.Metrics) notify.Sender {
	return &metricsSender{next: next, m: m}
}

func (s *metricsSender) Name() string {
	return s.next.Name()
}

func (s *metricsSender) Send(ctx context.Context, msg notify.Message) error {
	start := time.Now()
	err := s.next.Send(ctx, msg)

	name := s.next.Name()
	s.m.NotificationDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	result := "ok"
	if err != nil {
		result = "error"
	}
	s.m.NotificationsSent.WithLabelValues(name, result).Inc()
	return err
}
