package logging

import (
	"io"
	"log/slog"
	"os"
)

// SetupJSON sets slog's default logger to use JSON output at the given level.
func SetupJSON(level slog.Level) *slog.Logger {
	return setup(os.Stdout, level)
}

func setup(w io.Writer, level slog.Level) *slog.Logger {
	logger := slog.New(
		slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}),
	).With("service", "smscoins")
	slog.SetDefault(logger)

	return logger
}
