package logger

import (
	"log/slog"
	"os"
)

// SetupPrettySlog returns the local-development logger: human-readable
// text output with debug level enabled.
func SetupPrettySlog() *slog.Logger {
	return slog.New(
		slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
}
