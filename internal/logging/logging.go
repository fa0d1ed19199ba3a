// Package logging builds the service logger.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/yukikurage/teamboard-api/internal/config"
)

// New creates the server logger writing to w: JSON in release mode, text
// otherwise, at the level named by cfg.LogLevel. It also becomes the slog
// default so library code logging through slog shares the handler.
func New(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps debug, info, warn and error to slog levels. Unknown
// values fall back to info.
func ParseLevel(value string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(value))); err != nil {
		return slog.LevelInfo
	}
	return level
}
