// Package logging configures structured logging with tint.
//
// Usage:
//
//	logger := logging.New("info", "text")   // colored output on stderr
//	logger := logging.New("debug", "json")  // machine-readable output
//	logging.Setup(logger)                   // also make it the slog default
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// New returns a logger writing to stderr at level ("debug", "info", "warn",
// "error"; default info). format "json" selects a JSON handler, anything else
// the colored tint handler.
func New(level, format string) *slog.Logger {
	return NewWithWriter(os.Stderr, level, format)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level, format string) *slog.Logger {
	lvl := ParseLevel(level)
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: time.Kitchen,
		AddSource:  lvl == slog.LevelDebug,
		NoColor:    w != os.Stderr,
	}))
}

// Setup makes logger the process-wide default.
func Setup(logger *slog.Logger) {
	slog.SetDefault(logger)
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
