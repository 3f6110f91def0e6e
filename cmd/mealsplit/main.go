package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/text/language"

	"github.com/mmynk/mealsplit/internal/apperrors"
	"github.com/mmynk/mealsplit/internal/config"
	"github.com/mmynk/mealsplit/internal/format"
	"github.com/mmynk/mealsplit/internal/metrics"
	"github.com/mmynk/mealsplit/internal/middleware"
	"github.com/mmynk/mealsplit/internal/models"
	"github.com/mmynk/mealsplit/internal/notify"
	"github.com/mmynk/mealsplit/internal/notify/kafka"
	"github.com/mmynk/mealsplit/internal/notify/logsender"
	"github.com/mmynk/mealsplit/internal/notify/nats"
	"github.com/mmynk/mealsplit/internal/render"
	"github.com/mmynk/mealsplit/internal/service"
	"github.com/mmynk/mealsplit/internal/storage/sqlite"
	"github.com/mmynk/mealsplit/pkg/logging"
)

const usage = `usage:
  mealsplit bill -restaurant <id> [-meal lunch] [-date YYYY-MM-DD] [-notify] [-xlsx out.xlsx]
  mealsplit seed [-date YYYY-MM-DD]
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	logging.Setup(logger)
	lang := format.ParseLang(cfg.Lang)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		fmt.Fprintln(stderr, apperrors.Localize(err, lang))
		return 1
	}
	defer store.Close()
	logger.Debug("Storage initialized", "database", cfg.DBPath)

	switch args[0] {
	case "bill":
		err = bill(ctx, args[1:], cfg, store, logger, lang, stdout)
	case "seed":
		err = seed(ctx, args[1:], store, stdout)
	default:
		fmt.Fprint(stderr, usage)
		return 2
	}
	if err != nil {
		fmt.Fprintln(stderr, apperrors.Localize(err, lang))
		return 1
	}
	return 0
}

func bill(ctx context.Context, args []string, cfg *config.Config, store *sqlite.SQLiteStore, logger *slog.Logger, lang language.Tag, stdout io.Writer) error {
	fs := flag.NewFlagSet("bill", flag.ContinueOnError)
	restaurantID := fs.String("restaurant", "", "restaurant ID")
	meal := fs.String("meal", string(models.MealLunch), "meal type: breakfast, lunch, dinner or dessert")
	date := fs.String("date", time.Now().Format(format.DateLayout), "billing date (YYYY-MM-DD)")
	doNotify := fs.Bool("notify", false, "send each user their total")
	xlsxPath := fs.String("xlsx", "", "also export the bill to this .xlsx file")
	if err := fs.Parse(args); err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	m := metrics.New()
	if cfg.MetricsFile != "" {
		defer func() {
			if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
				logger.Warn("Failed to write metrics", "error", err)
			}
		}()
	}

	opts := []service.Option{service.WithMetrics(m), service.WithDefaultCurrency(cfg.Currency)}
	if *doNotify {
		dispatcher, closeSender, err := newDispatcher(cfg, store, m, logger, lang)
		if err != nil {
			return apperrors.Internal(err)
		}
		defer closeSender()
		opts = append(opts, service.WithDispatcher(dispatcher))
	}
	svc := service.NewBillingService(store, logger, opts...)

	summary, err := svc.RunBilling(ctx, service.BillingRequest{
		RestaurantID: *restaurantID,
		MealType:     models.MealType(*meal),
		Date:         *date,
	})
	if err != nil {
		return err
	}

	if err := render.Text(stdout, summary, lang); err != nil {
		return apperrors.Internal(err)
	}

	if *xlsxPath != "" {
		if err := writeXLSX(*xlsxPath, summary); err != nil {
			return apperrors.Internal(err)
		}
		logger.Info("Exported bill", "path", *xlsxPath)
	}

	if *doNotify {
		for _, d := range svc.Notify(ctx, summary) {
			status := "sent"
			if d.Err != nil {
				status = "failed: " + d.Err.Error()
			}
			fmt.Fprintf(stdout, "notify %s: %s\n", d.Username, status)
		}
	}
	return nil
}

func writeXLSX(path string, summary *models.BillingSummary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render.XLSX(f, summary); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// newDispatcher builds the configured sender, decorated with logging and
// metrics, and a log sender for users who registered the log channel.
func newDispatcher(cfg *config.Config, store *sqlite.SQLiteStore, m *metrics.Metrics, logger *slog.Logger, lang language.Tag) (*notify.Dispatcher, func(), error) {
	wrap := func(s notify.Sender) notify.Sender {
		return middleware.Metrics(middleware.Logging(s, logger), m)
	}

	var (
		primary notify.Sender
		closer  = func() {}
	)
	switch cfg.NotifyChannel {
	case models.ChannelKafka:
		s := kafka.NewSender(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		primary, closer = s, func() { s.Close() }
	case models.ChannelNATS:
		s, err := nats.NewSender(cfg.NATSURL, cfg.NATSSubject, logger)
		if err != nil {
			return nil, nil, err
		}
		primary, closer = s, func() { s.Close() }
	default:
		primary = logsender.New(logger)
	}

	opts := []notify.Option{
		notify.WithDirectory(store),
		notify.WithLang(lang),
		notify.WithTimeout(cfg.NotifyTimeout),
	}
	if primary.Name() != models.ChannelLog {
		opts = append(opts, notify.WithSender(wrap(logsender.New(logger))))
	}
	return notify.NewDispatcher(wrap(primary), logger, opts...), closer, nil
}

func seed(ctx context.Context, args []string, store *sqlite.SQLiteStore, stdout io.Writer) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	date := fs.String("date", time.Now().Format(format.DateLayout), "order date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return apperrors.InvalidInput(err.Error())
	}
	day, err := format.ParseDate(*date)
	if err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	restaurant := &models.Restaurant{Name: "Abou Tarek", DeliveryFee: 15, Currency: "EGP"}
	if err := store.CreateRestaurant(ctx, restaurant); err != nil {
		return err
	}
	koshari := &models.MenuItem{RestaurantID: restaurant.ID, Name: "Koshari", Price: 20}
	juice := &models.MenuItem{RestaurantID: restaurant.ID, Name: "Juice", Price: 5}
	for _, item := range []*models.MenuItem{koshari, juice} {
		if err := store.CreateMenuItem(ctx, item); err != nil {
			return err
		}
	}

	users := make(map[string]*models.User)
	for _, name := range []string{"Ahmed", "Sara"} {
		u, err := ensureUser(ctx, store, name)
		if err != nil {
			return err
		}
		users[name] = u
	}

	noon := day.Add(12 * time.Hour)
	orders := []*models.Order{
		{
			User: users["Ahmed"], Restaurant: restaurant, MealType: models.MealLunch, OrderedAt: noon,
			Items: []models.OrderLineItem{{MenuItem: *koshari, Quantity: 2}},
		},
		{
			User: users["Sara"], Restaurant: restaurant, MealType: models.MealLunch, OrderedAt: noon.Add(time.Minute),
			Items: []models.OrderLineItem{{MenuItem: *koshari, Quantity: 1}, {MenuItem: *juice, Quantity: 1}},
		},
	}
	for _, o := range orders {
		if err := store.PlaceOrder(ctx, o); err != nil {
			return err
		}
	}

	fmt.Fprintln(stdout, restaurant.ID)
	return nil
}

type userStore interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
}

// ensureUser returns the stored user, creating it only when it does not
// exist yet. Lookup failures other than not-found are returned as is.
func ensureUser(ctx context.Context, store userStore, username string) (*models.User, error) {
	u, err := store.GetUserByUsername(ctx, username)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	u = &models.User{Username: username}
	if err := store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
