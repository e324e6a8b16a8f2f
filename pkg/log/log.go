// Package log configures the process-wide structured logger. Every component
// of the engine derives its own logger from the default one via WithModule,
// so log lines always carry the emitting module.
package log

import (
	"log/slog"
	"os"
)

// Setup installs a text slog handler at the given level as the default
// logger. Unknown level names fall back to info.
func Setup(logLevel string) {
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// WithModule returns a logger tagged with the component name.
func WithModule(module string) *slog.Logger {
	return slog.With("module", module)
}
