// Package log configures the process-wide structured logger.
package log

import (
	"log/slog"
	"os"
)

// Setup installs a text handler on stderr at the given level. Levels parse
// case-insensitively ("debug", "WARN", "error+2"); anything unrecognized
// falls back to info.
func Setup(logLevel string) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		level = slog.LevelInfo
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// WithModule returns the default logger tagged with a module field. Every
// long-lived component carries one so its lines are filterable.
func WithModule(module string) *slog.Logger {
	return slog.With("module", module)
}
