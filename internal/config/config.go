// Package config loads mealsplit settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings.
type Config struct {
	DBPath    string `env:"DB_PATH" envDefault:"./data/orders.db" validate:"required"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`

	// Lang selects the language of invoices, notifications and error messages.
	Lang string `env:"MEALSPLIT_LANG" envDefault:"en" validate:"required"`

	// Currency overrides the restaurant currency when the restaurant has none.
	Currency string `env:"CURRENCY" envDefault:"EGP"`

	NotifyChannel string        `env:"NOTIFY_CHANNEL" envDefault:"log" validate:"oneof=log kafka nats"`
	NotifyTimeout time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"10s" validate:"gt=0"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:"," validate:"required_if=NotifyChannel kafka"`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"billing.notifications" validate:"required"`

	NATSURL     string `env:"NATS_URL" envDefault:"nats://localhost:4222" validate:"required_if=NotifyChannel nats"`
	NATSSubject string `env:"NATS_SUBJECT" envDefault:"billing.notifications" validate:"required"`

	// MetricsFile, when set, receives a Prometheus text dump after each run.
	MetricsFile string `env:"METRICS_FILE"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the given dotenv files (default ".env") if they exist, then
// parses and validates the environment. Variables already set in the
// environment win over dotenv values.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
