package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const serviceName = "faq-assistant"

// New constructs a JSON slog logger. Output goes to stderr so the ask command
// can print answers on stdout.
func New() *slog.Logger {
	return newWithWriter(os.Stderr, os.Getenv("LOG_LEVEL"))
}

func newWithWriter(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return slog.New(handler).With("service", serviceName)
}

func parseLevel(level string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
