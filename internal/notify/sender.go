package notify

import (
	"context"

	"github.com/mmynk/mealsplit/internal/models"
)

// Sender delivers messages through one channel kind.
type Sender interface {
	// Name is the channel kind this sender serves (e.g. models.ChannelKafka).
	Name() string
	Send(ctx context.Context, msg Message) error
}

// Directory looks up where a user wants to be notified.
type Directory interface {
	UserChannels(ctx context.Context, username string) ([]models.NotificationChannel, error)
}
