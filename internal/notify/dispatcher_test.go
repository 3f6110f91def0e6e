package notify

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/mmynk/mealsplit/internal/models"
)

// --- Mock Sender ---

type mockSender struct {
	mock.Mock
}

func newMockSender(name string) *mockSender {
	s := &mockSender{}
	s.On("Name").Return(name)
	return s
}

func (m *mockSender) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *mockSender) Send(ctx context.Context, msg Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// --- Fake Directory ---

type fakeDirectory struct {
	channels map[string][]models.NotificationChannel
	err      error
}

func (d *fakeDirectory) UserChannels(_ context.Context, username string) ([]models.NotificationChannel, error) {
	return d.channels[username], d.err
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func forUser(username string) any {
	return mock.MatchedBy(func(msg Message) bool { return msg.Username == username })
}

func testSummary() *models.BillingSummary {
	return &models.BillingSummary{
		Date:         "2026-10-14",
		MealType:     models.MealLunch,
		Restaurant:   "Abou Tarek",
		RestaurantID: "r-1",
		DeliveryFee:  15,
		Currency:     "EGP",
		Users: []models.BillingUser{
			{Username: "Ahmed", Subtotal: 40, DeliveryShare: 7.5, Total: 47.5},
			{Username: "Sara", Subtotal: 25, DeliveryShare: 7.5, Total: 32.5},
			{Username: "Omar", Subtotal: 10, DeliveryShare: 7.5, Total: 17.5},
		},
		GrandTotal: 97.5,
	}
}

func TestDispatcher_Dispatch(t *testing.T) {
	t.Run("every user gets one message through the fallback", func(t *testing.T) {
		sender := newMockSender(models.ChannelLog)
		sender.On("Send", mock.Anything, mock.Anything).Return(nil)

		d := NewDispatcher(sender, newTestLogger())
		deliveries := d.Dispatch(context.Background(), testSummary())

		require.Len(t, deliveries, 3)
		for i, want := range []string{"Ahmed", "Sara", "Omar"} {
			assert.Equal(t, want, deliveries[i].Username)
			assert.Equal(t, []string{models.ChannelLog}, deliveries[i].Channels)
			assert.NoError(t, deliveries[i].Err)
		}
		sender.AssertNumberOfCalls(t, "Send", 3)
		sender.AssertCalled(t, "Send", mock.Anything, mock.MatchedBy(func(msg Message) bool {
			return msg.Username == "Sara" && msg.Total == 32.5 && msg.Address == ""
		}))
	})

	t.Run("one failure does not affect the others", func(t *testing.T) {
		sender := newMockSender(models.ChannelLog)
		sender.On("Send", mock.Anything, forUser("Sara")).Return(errors.New("mailbox full"))
		sender.On("Send", mock.Anything, mock.Anything).Return(nil)

		d := NewDispatcher(sender, newTestLogger())
		deliveries := d.Dispatch(context.Background(), testSummary())

		require.Len(t, deliveries, 3)
		assert.NoError(t, deliveries[0].Err)
		require.Error(t, deliveries[1].Err)
		assert.Contains(t, deliveries[1].Err.Error(), "mailbox full")
		assert.NoError(t, deliveries[2].Err)
	})

	t.Run("registered channels are used when a sender exists", func(t *testing.T) {
		fallback := newMockSender(models.ChannelLog)
		fallback.On("Send", mock.Anything, mock.Anything).Return(nil)
		kafka := newMockSender(models.ChannelKafka)
		kafka.On("Send", mock.Anything, mock.Anything).Return(nil)

		dir := &fakeDirectory{channels: map[string][]models.NotificationChannel{
			"Ahmed": {{Kind: models.ChannelKafka, Address: "ahmed-key"}},
			// no nats sender configured, so Sara falls back
			"Sara": {{Kind: models.ChannelNATS, Address: "sara"}},
		}}

		d := NewDispatcher(fallback, newTestLogger(), WithSender(kafka), WithDirectory(dir))
		deliveries := d.Dispatch(context.Background(), testSummary())

		assert.Equal(t, []string{models.ChannelKafka}, deliveries[0].Channels)
		assert.Equal(t, []string{models.ChannelLog}, deliveries[1].Channels)
		assert.Equal(t, []string{models.ChannelLog}, deliveries[2].Channels)

		kafka.AssertNumberOfCalls(t, "Send", 1)
		kafka.AssertCalled(t, "Send", mock.Anything, mock.MatchedBy(func(msg Message) bool {
			return msg.Username == "Ahmed" && msg.Address == "ahmed-key"
		}))
		fallback.AssertNumberOfCalls(t, "Send", 2)
	})

	t.Run("directory errors fall back", func(t *testing.T) {
		sender := newMockSender(models.ChannelLog)
		sender.On("Send", mock.Anything, mock.Anything).Return(nil)

		d := NewDispatcher(sender, newTestLogger(), WithDirectory(&fakeDirectory{err: errors.New("db down")}))
		deliveries := d.Dispatch(context.Background(), testSummary())

		for _, dl := range deliveries {
			assert.NoError(t, dl.Err)
		}
		sender.AssertNumberOfCalls(t, "Send", 3)
	})

	t.Run("sends run in parallel", func(t *testing.T) {
		var inFlight, peak int32
		sender := newMockSender(models.ChannelLog)
		sender.On("Send", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(50 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
		}).Return(nil)

		d := NewDispatcher(sender, newTestLogger())
		d.Dispatch(context.Background(), testSummary())

		assert.Greater(t, atomic.LoadInt32(&peak), int32(1))
	})

	t.Run("each send has a deadline", func(t *testing.T) {
		sender := newMockSender(models.ChannelLog)
		sender.On("Send", mock.MatchedBy(func(ctx context.Context) bool {
			_, ok := ctx.Deadline()
			return ok
		}), mock.Anything).Return(nil)

		d := NewDispatcher(sender, newTestLogger(), WithTimeout(time.Second))
		for _, dl := range d.Dispatch(context.Background(), testSummary()) {
			assert.NoError(t, dl.Err)
		}
	})

	t.Run("no users means no sends", func(t *testing.T) {
		sender := newMockSender(models.ChannelLog)

		d := NewDispatcher(sender, newTestLogger())
		summary := testSummary()
		summary.Users = nil

		assert.Empty(t, d.Dispatch(context.Background(), summary))
		sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})
}

func TestComposeMessage(t *testing.T) {
	summary := testSummary()

	t.Run("english", func(t *testing.T) {
		msg := ComposeMessage(summary, summary.Users[0], language.English)

		assert.Equal(t, "Ahmed", msg.Username)
		assert.Equal(t, "Lunch bill - 2026-10-14", msg.Subject)
		assert.Equal(t, "Hi Ahmed, your Lunch from Abou Tarek on Wednesday, 14 October 2026 comes to 47.50 EGP.", msg.Body)
		assert.Equal(t, 47.5, msg.Total)
		assert.Equal(t, "2026-10-14", msg.Date)
		assert.Equal(t, models.MealLunch, msg.MealType)
	})

	t.Run("arabic", func(t *testing.T) {
		msg := ComposeMessage(summary, summary.Users[1], language.MustParse("ar-EG"))

		assert.Contains(t, msg.Body, "Sara")
		assert.Contains(t, msg.Body, "غداء")
		assert.Contains(t, msg.Body, "الأربعاء، 14 أكتوبر 2026")
		assert.Contains(t, msg.Body, "32.50 EGP")
	})

	t.Run("unparseable date is shown as given", func(t *testing.T) {
		s := testSummary()
		s.Date = "today"
		msg := ComposeMessage(s, s.Users[0], language.English)
		assert.Contains(t, msg.Body, "on today")
	})

	t.Run("total is rounded only for display", func(t *testing.T) {
		s := testSummary()
		u := models.BillingUser{Username: "Mona", Total: 10.0 / 3.0}
		msg := ComposeMessage(s, u, language.English)
		assert.Contains(t, msg.Body, "3.33 EGP")
		assert.Equal(t, 10.0/3.0, msg.Total)
	})
}
