package telemetry

import (
	"io"
	"log/slog"
	"strings"

	"github.com/af-corp/bfhl-gateway/internal/config"
)

// NewLogger builds the process logger from the telemetry settings. Unknown
// levels fall back to info and unknown formats to JSON. The level is read
// from level on every record so it can change on config reload.
func NewLogger(w io.Writer, cfg config.TelemetryConfig, level *slog.LevelVar) *slog.Logger {
	level.Set(ParseLevel(cfg.LogLevel))
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.LogFormat, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
