// Package logging sets up the process-wide slog logger.
package logging

import (
	"log/slog"
	"os"
)

// Init installs a text slog handler on stderr as the default logger.
func Init(level slog.Level) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
