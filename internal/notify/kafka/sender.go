// Package kafka publishes billing notices to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/mmynk/mealsplit/internal/models"
	"github.com/mmynk/mealsplit/internal/notify"
)

// EventType is sent in the event_type header of every message.
const EventType = "billing.notice"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Sender writes one Kafka message per notice, keyed by recipient.
type Sender struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

// NewSender creates a Sender for topic on brokers.
func NewSender(brokers []string, topic string, logger *slog.Logger) *Sender {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	}
	return newSender(w, topic, logger)
}

func newSender(w messageWriter, topic string, logger *slog.Logger) *Sender {
	return &Sender{writer: w, topic: topic, logger: logger}
}

// Name returns models.ChannelKafka.
func (s *Sender) Name() string {
	return models.ChannelKafka
}

// Send publishes msg as JSON. The key is msg.Address, or the username when
// no address is registered, so one user's notices share a partition.
func (s *Sender) Send(ctx context.Context, msg notify.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}

	key := msg.Address
	if key == "" {
		key = msg.Username
	}

	km := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventType)},
			{Key: "meal_type", Value: []byte(msg.MealType)},
		},
	}

	if err := s.writer.WriteMessages(ctx, km); err != nil {
		return fmt.Errorf("publish notice to %s: %w", s.topic, err)
	}

	s.logger.DebugContext(ctx, "notice published",
		slog.String("topic", s.topic),
		slog.String("key", key),
	)
	return nil
}

// Close flushes pending messages and closes the writer.
func (s *Sender) Close() error {
	return s.writer.Close()
}
