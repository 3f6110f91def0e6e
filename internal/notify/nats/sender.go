// Package nats publishes billing notices on NATS subjects.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/mmynk/mealsplit/internal/models"
	"github.com/mmynk/mealsplit/internal/notify"
)

type publisher interface {
	Publish(subject string, data []byte) error
}

// Sender publishes each notice on <subject>.<recipient>.
type Sender struct {
	pub     publisher
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
}

// NewSender connects to url and publishes under subject.
func NewSender(url, subject string, logger *slog.Logger) (*Sender, error) {
	conn, err := nats.Connect(url, nats.Name("mealsplit"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	s := newSender(conn, subject, logger)
	s.conn = conn
	return s, nil
}

func newSender(pub publisher, subject string, logger *slog.Logger) *Sender {
	return &Sender{pub: pub, subject: subject, logger: logger}
}

// Name returns models.ChannelNATS.
func (s *Sender) Name() string {
	return models.ChannelNATS
}

// Subject returns the subject a message for msg is published on.
func (s *Sender) Subject(msg notify.Message) string {
	token := msg.Address
	if token == "" {
		token = msg.Username
	}
	return s.subject + "." + token
}

// Send publishes msg as JSON.
func (s *Sender) Send(ctx context.Context, msg notify.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}

	subject := s.Subject(msg)
	if err := s.pub.Publish(subject, data); err != nil {
		return fmt.Errorf("publish notice to %s: %w", subject, err)
	}

	s.logger.DebugContext(ctx, "notice published", slog.String("subject", subject))
	return nil
}

// Close flushes and closes the connection.
func (s *Sender) Close() error {
	if s.conn == nil {
		return nil
	}
	if err := s.conn.Flush(); err != nil {
		s.conn.Close()
		return fmt.Errorf("flush nats: %w", err)
	}
	s.conn.Close()
	return nil
}
