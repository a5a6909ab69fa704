// Package logging builds the slog loggers used across inkdrop. The
// backend logs in "cups" format: single lines prefixed with the
// DEBUG:/INFO:/WARNING:/ERROR: markers the spooler's log channel
// understands. The CLI uses plain text or JSON.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"inkdrop/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	Writer io.Writer
}

// New constructs a slog logger using the provided options. A nil
// writer defaults to stderr, the spooler log channel.
func New(opts Options) (*slog.Logger, error) {
	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(opts.Level))

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "cups"
	}

	var handler slog.Handler
	switch format {
	case "cups":
		handler = newCUPSHandler(w, levelVar)
	case "text":
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelVar})
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: levelVar})
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	return slog.New(handler), nil
}

// NewFromConfig creates a logger using application config defaults.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{})
	}
	return New(Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info", "":
		return slog.LevelInfo
	default:
		return slog.LevelInfo
	}
}
