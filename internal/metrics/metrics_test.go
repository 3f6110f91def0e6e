package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/mealsplit/internal/models"
)

func TestMetrics_ObserveRun(t *testing.T) {
	m := New()
	summary := &models.BillingSummary{
		RestaurantID: "r-1",
		MealType:     models.MealLunch,
		Users:        make([]models.BillingUser, 2),
		GrandTotal:   80,
	}

	m.ObserveRun(summary)
	m.ObserveRun(summary)
	m.RunFailed("NO_ORDERS")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BillingRuns.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BillingRuns.WithLabelValues("no_orders")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.UsersBilled.WithLabelValues("r-1", "lunch")))
	assert.Equal(t, 80.0, testutil.ToFloat64(m.GrandTotal.WithLabelValues("r-1", "lunch")))
}

func TestMetrics_Registered(t *testing.T) {
	m := New()
	m.BillingRuns.WithLabelValues("ok")
	m.UsersBilled.WithLabelValues("r", "lunch")
	m.GrandTotal.WithLabelValues("r", "lunch")
	m.NotificationsSent.WithLabelValues("log", "ok")
	m.NotificationDuration.WithLabelValues("log")

	families, err := m.Registry.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, fam := range families {
		names[fam.GetName()] = true
	}

	for _, name := range []string{
		"billing_runs_total",
		"billing_users_billed",
		"billing_grand_total",
		"billing_notifications_sent_total",
		"billing_notification_send_duration_seconds",
	} {
		assert.True(t, names[name], "expected metric %q to be registered", name)
	}
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.RunFailed("INTERNAL_ERROR")

	path := filepath.Join(t.TempDir(), "mealsplit.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `billing_runs_total{result="internal_error"} 1`)
}
