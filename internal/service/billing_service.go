package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mmynk/mealsplit/internal/apperrors"
	"github.com/mmynk/mealsplit/internal/calculator"
	"github.com/mmynk/mealsplit/internal/format"
	"github.com/mmynk/mealsplit/internal/metrics"
	"github.com/mmynk/mealsplit/internal/models"
	"github.com/mmynk/mealsplit/internal/notify"
	"github.com/mmynk/mealsplit/internal/storage"
)

// BillingRequest selects one billing slot.
type BillingRequest struct {
	RestaurantID string          `validate:"required"`
	MealType     models.MealType `validate:"required,oneof=breakfast lunch dinner dessert"`
	Date         string          `validate:"required,datetime=2006-01-02"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// BillingService runs billing for a slot and notifies the billed users.
type BillingService struct {
	store      storage.OrderStore
	dispatcher *notify.Dispatcher
	metrics    *metrics.Metrics
	currency   string
	logger     *slog.Logger
}

// Option configures a BillingService.
type Option func(*BillingService)

// WithDispatcher enables Notify.
func WithDispatcher(d *notify.Dispatcher) Option {
	return func(s *BillingService) { s.dispatcher = d }
}

// WithMetrics records billing runs.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *BillingService) { s.metrics = m }
}

// WithDefaultCurrency is used for restaurants that have no currency set.
func WithDefaultCurrency(currency string) Option {
	return func(s *BillingService) { s.currency = currency }
}

// NewBillingService creates a BillingService with the given storage backend.
func NewBillingService(store storage.OrderStore, logger *slog.Logger, opts ...Option) *BillingService {
	s := &BillingService{store: store, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunBilling computes the summary for the slot selected by req.
//
// An empty slot is reported as apperrors.ErrNoOrders without invoking the
// calculator. Any panic while calculating becomes an internal error.
func (s *BillingService) RunBilling(ctx context.Context, req BillingRequest) (*models.BillingSummary, error) {
	summary, err := s.runBilling(ctx, req)
	if err != nil {
		code := apperrors.Code(err)
		if s.metrics != nil {
			s.metrics.RunFailed(code)
		}
		level := slog.LevelError
		if code != apperrors.CodeInternal {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "billing run failed",
			slog.String("restaurant_id", req.RestaurantID),
			slog.String("meal_type", string(req.MealType)),
			slog.String("date", req.Date),
			slog.String("code", code),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ObserveRun(summary)
	}
	s.logger.InfoContext(ctx, "billing run completed",
		slog.String("restaurant_id", summary.RestaurantID),
		slog.String("meal_type", string(summary.MealType)),
		slog.String("date", summary.Date),
		slog.Int("users", len(summary.Users)),
		slog.Float64("grand_total", summary.GrandTotal),
	)
	return summary, nil
}

func (s *BillingService) runBilling(ctx context.Context, req BillingRequest) (*models.BillingSummary, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	restaurant, err := s.store.GetRestaurant(ctx, req.RestaurantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, apperrors.Internal(apperrors.Wrap(err, "get restaurant"))
	}

	// validateRequest already checked the layout
	date, _ := format.ParseDate(req.Date)
	from, to := storage.DayWindow(date)

	orders, err := s.store.ListOrders(ctx, storage.OrderFilter{
		RestaurantID: restaurant.ID,
		MealType:     req.MealType,
		From:         from,
		To:           to,
	})
	if err != nil {
		return nil, apperrors.Internal(apperrors.Wrap(err, "list orders"))
	}
	if len(orders) == 0 {
		return nil, apperrors.NoOrders(req.RestaurantID, string(req.MealType), req.Date)
	}

	var summary *models.BillingSummary
	err = apperrors.Guard(func() error {
		summary = calculator.CalculateBilling(
			orders,
			restaurant.DeliveryFee,
			restaurant.Name,
			restaurant.ID,
			req.MealType,
			req.Date,
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary.Currency = restaurant.Currency
	if summary.Currency == "" {
		summary.Currency = s.currency
	}
	return summary, nil
}

// Notify sends every billed user their total. Delivery outcomes are
// informational; they never fail the billing run. Without a dispatcher it
// does nothing.
func (s *BillingService) Notify(ctx context.Context, summary *models.BillingSummary) []notify.Delivery {
	if s.dispatcher == nil || summary == nil {
		return nil
	}
	return s.dispatcher.Dispatch(ctx, summary)
}

func validateRequest(req BillingRequest) error {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
			}
			return apperrors.InvalidInput(strings.Join(msgs, "; "))
		}
		return apperrors.InvalidInput(err.Error())
	}
	return nil
}
