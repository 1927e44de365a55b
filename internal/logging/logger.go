// Package logging builds slog loggers and logging decorators for the scraper's collaborators.
package logging

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

const (
	FormatJSON = "json"
	FormatText = "text"
	FormatAuto = "auto"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	Format string     // "json", "text" or "auto"
	Level  slog.Level // Log level
	Output io.Writer  // defaults to stderr; stdout carries the slot table
}

// NewLogger creates a new slog.Logger
func NewLogger(config LoggerConfig) *slog.Logger {
	output := config.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level: config.Level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Rename timestamp key for better readability
			if a.Key == slog.TimeKey {
				a.Key = "timestamp"
			}
			return a
		},
	}

	var handler slog.Handler
	if ResolveFormat(config.Format, output) == FormatText {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}

	return slog.New(handler)
}

// NewDiscardLogger returns a logger that drops everything
func NewDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ResolveFormat turns "auto" (or empty) into text for terminals and json otherwise
func ResolveFormat(format string, output io.Writer) string {
	switch format {
	case FormatJSON, FormatText:
		return format
	}

	if f, ok := output.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return FormatText
	}
	return FormatJSON
}

// ParseLevel converts a string log level to slog.Level
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
