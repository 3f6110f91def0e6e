package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/mealsplit/internal/apperrors"
	"github.com/mmynk/mealsplit/internal/models"
	"github.com/mmynk/mealsplit/internal/storage"
)

// CreateOrder persists an order and its line items.
// Order.User and Order.Restaurant must reference stored rows, and every
// item's MenuItem.ID must exist. Each line item's Price is stored as given,
// including zero, as the snapshot billing will use.
func (s *SQLiteStore) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.createOrder(ctx, order, false)
}

// PlaceOrder is CreateOrder for a fresh order: every line item's Price is
// set to the menu item's current catalog price inside the same transaction.
func (s *SQLiteStore) PlaceOrder(ctx context.Context, order *models.Order) error {
	return s.createOrder(ctx, order, true)
}

func (s *SQLiteStore) createOrder(ctx context.Context, order *models.Order, fromCatalog bool) error {
	if order.User == nil || order.User.ID == "" {
		return apperrors.InvalidInput("order has no user")
	}
	if order.Restaurant == nil || order.Restaurant.ID == "" {
		return apperrors.InvalidInput("order has no restaurant")
	}
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.OrderedAt.IsZero() {
		order.OrderedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO orders (id, user_id, restaurant_id, meal_type, ordered_at) VALUES (?, ?, ?, ?, ?)",
		order.ID, order.User.ID, order.Restaurant.ID, string(order.MealType), order.OrderedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Items {
		li := &order.Items[i]

		// Resolve the catalog entry as it is right now
		var catalogPrice float64
		err := tx.QueryRowContext(ctx,
			"SELECT name, price FROM menu_items WHERE id = ?",
			li.MenuItem.ID,
		).Scan(&li.MenuItem.Name, &catalogPrice)
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("menu item", li.MenuItem.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to get menu item: %w", err)
		}
		li.MenuItem.Price = catalogPrice
		if fromCatalog {
			li.Price = catalogPrice
		}

		var option any
		if li.SelectedOption != nil {
			option = *li.SelectedOption
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, position, menu_item_id, unit_price, quantity, selected_option)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			order.ID, i, li.MenuItem.ID, li.Price, li.Quantity, option,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const slotWhere = `o.restaurant_id = ? AND o.meal_type = ? AND o.ordered_at >= ? AND o.ordered_at < ?`

// ListOrders returns the orders of one billing slot sorted by ordered_at.
// Orders placed at the same instant keep insertion order. Items keep the
// order they were added in.
func (s *SQLiteStore) ListOrders(ctx context.Context, f storage.OrderFilter) ([]models.Order, error) {
	args := []any{f.RestaurantID, string(f.MealType), f.From.UnixNano(), f.To.UnixNano()}

	rows, err := s.db.QueryContext(ctx, `
		SELECT o.id, o.meal_type, o.ordered_at,
		       u.id, u.username, u.created_at,
		       r.id, r.name, r.delivery_fee, r.currency, r.created_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		JOIN restaurants r ON r.id = o.restaurant_id
		WHERE `+slotWhere+`
		ORDER BY o.ordered_at, o.rowid`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	users := make(map[string]*models.User)
	var restaurant *models.Restaurant

	for rows.Next() {
		var (
			o         models.Order
			mealType  string
			orderedAt int64
			u         models.User
			r         models.Restaurant
		)
		if err := rows.Scan(
			&o.ID, &mealType, &orderedAt,
			&u.ID, &u.Username, &u.CreatedAt,
			&r.ID, &r.Name, &r.DeliveryFee, &r.Currency, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		o.MealType = models.MealType(mealType)
		o.OrderedAt = time.Unix(0, orderedAt)

		if existing, ok := users[u.ID]; ok {
			o.User = existing
		} else {
			users[u.ID] = &u
			o.User = &u
		}
		if restaurant == nil {
			restaurant = &r
		}
		o.Restaurant = restaurant

		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	rows.Close()

	if len(orders) == 0 {
		return nil, nil
	}
	if err := s.loadItems(ctx, orders, args); err != nil {
		return nil, err
	}
	return orders, nil
}

// loadItems fills Items for every order of the slot in one query.
func (s *SQLiteStore) loadItems(ctx context.Context, orders []models.Order, args []any) error {
	byID := make(map[string]int, len(orders))
	for i := range orders {
		byID[orders[i].ID] = i
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT oi.order_id, m.id, m.restaurant_id, m.name, m.price,
		       oi.unit_price, oi.quantity, oi.selected_option
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN menu_items m ON m.id = oi.menu_item_id
		WHERE `+slotWhere+`
		ORDER BY oi.order_id, oi.position`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			li      models.OrderLineItem
			option  sql.NullString
		)
		if err := rows.Scan(
			&orderID, &li.MenuItem.ID, &li.MenuItem.RestaurantID, &li.MenuItem.Name, &li.MenuItem.Price,
			&li.Price, &li.Quantity, &option,
		); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if option.Valid {
			v := option.String
			li.SelectedOption = &v
		}

		i, ok := byID[orderID]
		if !ok {
			continue
		}
		orders[i].Items = append(orders[i].Items, li)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating order items: %w", err)
	}
	return nil
}
