// Package metrics holds the Prometheus collectors for billing runs and
// notification delivery.
package metrics

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mmynk/mealsplit/internal/models"
)

// Metrics is a set of collectors bound to their own registry, so a
// single-shot CLI run can dump exactly what it recorded.
type Metrics struct {
	Registry *prometheus.Registry

	// BillingRuns counts billing runs by result ("ok" or a lower-cased error code).
	BillingRuns *prometheus.CounterVec

	// UsersBilled is the number of users in the latest run of a slot.
	UsersBilled *prometheus.GaugeVec

	// GrandTotal is the grand total of the latest run of a slot.
	GrandTotal *prometheus.GaugeVec

	// NotificationsSent counts sends by sender and result.
	NotificationsSent *prometheus.CounterVec

	// NotificationDuration observes send latency per sender.
	NotificationDuration *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		BillingRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billing_runs_total",
				Help: "Total number of billing runs by result",
			},
			[]string{"result"},
		),
		UsersBilled: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "billing_users_billed",
				Help: "Number of users billed in the latest run of a slot",
			},
			[]string{"restaurant_id", "meal_type"},
		),
		GrandTotal: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "billing_grand_total",
				Help: "Grand total of the latest run of a slot",
			},
			[]string{"restaurant_id", "meal_type"},
		),
		NotificationsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billing_notifications_sent_total",
				Help: "Total number of billing notices sent by sender and result",
			},
			[]string{"sender", "result"},
		),
		NotificationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "billing_notification_send_duration_seconds",
				Help:    "Duration of billing notice sends in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"sender"},
		),
	}
}

// ObserveRun records a successful billing run.
func (m *Metrics) ObserveRun(summary *models.BillingSummary) {
	m.BillingRuns.WithLabelValues("ok").Inc()
	m.UsersBilled.WithLabelValues(summary.RestaurantID, string(summary.MealType)).Set(float64(len(summary.Users)))
	m.GrandTotal.WithLabelValues(summary.RestaurantID, string(summary.MealType)).Set(summary.GrandTotal)
}

// RunFailed records a billing run that ended with the given error code.
func (m *Metrics) RunFailed(code string) {
	m.BillingRuns.WithLabelValues(strings.ToLower(code)).Inc()
}

// WriteTextfile writes the registry in the Prometheus text format, for the
// node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
