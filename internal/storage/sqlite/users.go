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
)

// CreateUser inserts a new user together with its notification channels.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO users (id, username, created_at) VALUES (?, ?, ?)",
		user.ID, user.Username, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	for _, ch := range user.Channels {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO user_channels (user_id, kind, address) VALUES (?, ?, ?)",
			user.ID, ch.Kind, ch.Address,
		)
		if err != nil {
			return fmt.Errorf("failed to insert user channel: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetUserByUsername retrieves a user and its channels by exact username.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, created_at FROM users WHERE username = ?",
		username,
	).Scan(&user.ID, &user.Username, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("user", username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	user.Channels, err = s.channels(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UserChannels returns the notification channels registered by username.
// An unknown username has no channels.
func (s *SQLiteStore) UserChannels(ctx context.Context, username string) ([]models.NotificationChannel, error) {
	var userID string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM users WHERE username = ?", username).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user channels: %w", err)
	}
	return s.channels(ctx, userID)
}

func (s *SQLiteStore) channels(ctx context.Context, userID string) ([]models.NotificationChannel, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT kind, address FROM user_channels WHERE user_id = ? ORDER BY kind, address",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user channels: %w", err)
	}
	defer rows.Close()

	var channels []models.NotificationChannel
	for rows.Next() {
		var ch models.NotificationChannel
		if err := rows.Scan(&ch.Kind, &ch.Address); err != nil {
			return nil, fmt.Errorf("failed to scan user channel: %w", err)
		}
		channels = append(channels, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user channels: %w", err)
	}
	return channels, nil
}
