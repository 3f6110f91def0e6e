package models

// Notification channel kinds a user can register.
const (
	ChannelKafka = "kafka"
	ChannelNATS  = "nats"
	ChannelLog   = "log"
)

// User represents a person who places group orders.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the unique display handle.
	// Billing groups orders by this exact string (case and whitespace sensitive).
	Username string

	// Channels are the destinations the user registered for billing notices.
	// Empty means the dispatcher's default channel is used.
	Channels []NotificationChannel

	// CreatedAt is the Unix timestamp when the user was created.
	CreatedAt int64
}

// NotificationChannel is one registered destination for a user.
type NotificationChannel struct {
	// Kind is one of ChannelKafka, ChannelNATS or ChannelLog.
	Kind string

	// Address is channel specific: a topic key, a subject suffix, or empty.
	Address string
}
