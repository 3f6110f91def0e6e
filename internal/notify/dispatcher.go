package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/mmynk/mealsplit/internal/models"
)

// DefaultTimeout bounds a single user's delivery when none is configured.
const DefaultTimeout = 10 * time.Second

// Delivery is the outcome of notifying one user. It is informational only.
type Delivery struct {
	Username string

	// Channels lists the channel kinds a send was attempted on.
	Channels []string

	// Err joins every failed send for the user; nil when all succeeded.
	Err error
}

// Dispatcher fans billing notices out to users.
type Dispatcher struct {
	senders   map[string]Sender
	fallback  string
	directory Directory
	lang      language.Tag
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithSender registers an extra sender under its Name.
func WithSender(s Sender) Option {
	return func(d *Dispatcher) { d.senders[s.Name()] = s }
}

// WithDirectory makes the dispatcher honor users' registered channels.
func WithDirectory(dir Directory) Option {
	return func(d *Dispatcher) { d.directory = dir }
}

// WithLang sets the language of composed messages.
func WithLang(lang language.Tag) Option {
	return func(d *Dispatcher) { d.lang = lang }
}

// WithTimeout bounds each user's delivery.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// NewDispatcher creates a Dispatcher. fallback serves users with no
// registered channel, or none that has a sender.
func NewDispatcher(fallback Sender, logger *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		senders:  map[string]Sender{fallback.Name(): fallback},
		fallback: fallback.Name(),
		lang:     language.English,
		timeout:  DefaultTimeout,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch notifies every user in summary concurrently and waits for all of
// them. The returned deliveries follow summary.Users order. Failures are
// logged and reported per user, never returned as an error.
func (d *Dispatcher) Dispatch(ctx context.Context, summary *models.BillingSummary) []Delivery {
	deliveries := make([]Delivery, len(summary.Users))

	var wg sync.WaitGroup
	for i, user := range summary.Users {
		wg.Add(1)
		go func(i int, user models.BillingUser) {
			defer wg.Done()
			deliveries[i] = d.deliver(ctx, summary, user)
		}(i, user)
	}
	wg.Wait()

	failed := 0
	for _, dl := range deliveries {
		if dl.Err != nil {
			failed++
		}
	}
	d.logger.InfoContext(ctx, "billing notifications dispatched",
		slog.String("restaurant_id", summary.RestaurantID),
		slog.String("meal_type", string(summary.MealType)),
		slog.String("date", summary.Date),
		slog.Int("users", len(deliveries)),
		slog.Int("failed", failed),
	)

	return deliveries
}

func (d *Dispatcher) deliver(ctx context.Context, summary *models.BillingSummary, user models.BillingUser) Delivery {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	msg := ComposeMessage(summary, user, d.lang)
	delivery := Delivery{Username: user.Username}

	var errs []error
	for _, ch := range d.channels(ctx, user.Username) {
		delivery.Channels = append(delivery.Channels, ch.Kind)

		out := msg
		out.Address = ch.Address
		if err := d.senders[ch.Kind].Send(ctx, out); err != nil {
			d.logger.WarnContext(ctx, "notification failed",
				slog.String("username", user.Username),
				slog.String("channel", ch.Kind),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Errorf("%s: %w", ch.Kind, err))
		}
	}

	delivery.Err = errors.Join(errs...)
	return delivery
}

// channels resolves the user's registered channels that have a sender.
func (d *Dispatcher) channels(ctx context.Context, username string) []models.NotificationChannel {
	var usable []models.NotificationChannel

	if d.directory != nil {
		registered, err := d.directory.UserChannels(ctx, username)
		if err != nil {
			d.logger.WarnContext(ctx, "channel lookup failed, using fallback",
				slog.String("username", username),
				slog.String("error", err.Error()),
			)
		}
		for _, ch := range registered {
			if _, ok := d.senders[ch.Kind]; ok {
				usable = append(usable, ch)
			}
		}
	}

	if len(usable) == 0 {
		usable = []models.NotificationChannel{{Kind: d.fallback}}
	}
	return usable
}
