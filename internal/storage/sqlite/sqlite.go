// Package sqlite provides a SQLite-backed implementation of the storage.OrderStore interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/mealsplit/internal/apperrors"
	"github.com/mmynk/mealsplit/internal/models"
	"github.com/mmynk/mealsplit/internal/storage"
)

// Ensure SQLiteStore implements storage.OrderStore
var _ storage.OrderStore = (*SQLiteStore)(nil)

// SQLiteStore implements storage.OrderStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps the foreign_keys pragma in effect for every query.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateRestaurant persists a new restaurant. ID and CreatedAt are generated
// when unset.
func (s *SQLiteStore) CreateRestaurant(ctx context.Context, r *models.Restaurant) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt == 0 {
		r.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO restaurants (id, name, delivery_fee, currency, created_at) VALUES (?, ?, ?, ?, ?)",
		r.ID, r.Name, r.DeliveryFee, r.Currency, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert restaurant: %w", err)
	}
	return nil
}

// GetRestaurant retrieves a restaurant by ID.
func (s *SQLiteStore) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	r := &models.Restaurant{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, delivery_fee, currency, created_at FROM restaurants WHERE id = ?",
		id,
	).Scan(&r.ID, &r.Name, &r.DeliveryFee, &r.Currency, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("restaurant", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}
	return r, nil
}

// CreateMenuItem adds a catalog entry to a restaurant.
func (s *SQLiteStore) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO menu_items (id, restaurant_id, name, price) VALUES (?, ?, ?, ?)",
		item.ID, item.RestaurantID, item.Name, item.Price,
	)
	if err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}
	return nil
}

// UpdateMenuItemPrice changes the live catalog price. Orders already placed
// keep the price they were placed at.
func (s *SQLiteStore) UpdateMenuItemPrice(ctx context.Context, id string, price float64) error {
	res, err := s.db.ExecContext(ctx, "UPDATE menu_items SET price = ? WHERE id = ?", price, id)
	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	if n == 0 {
		return apperrors.NotFound("menu item", id)
	}
	return nil
}
