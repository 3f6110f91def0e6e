// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"time"

	"github.com/mmynk/mealsplit/internal/models"
)

// OrderFilter selects the orders of one billing slot.
type OrderFilter struct {
	RestaurantID string
	MealType     models.MealType

	// From and To bound OrderedAt as the half-open range [From, To).
	From time.Time
	To   time.Time
}

// OrderStore is the read side used by billing runs.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type OrderStore interface {
	// GetRestaurant retrieves a restaurant by its ID.
	// Returns an apperrors.NotFound error if it does not exist.
	GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error)

	// ListOrders returns every order matching f, oldest first, with User,
	// Restaurant and Items populated. Line item prices are the snapshots
	// taken when each order was placed.
	ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error)

	// Close releases any resources held by the store.
	Close() error
}

// DayWindow returns the calendar day containing date as [from, to), using
// date's location.
func DayWindow(date time.Time) (from, to time.Time) {
	from = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return from, from.AddDate(0, 0, 1)
}
