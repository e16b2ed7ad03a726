package common

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// SetupLogger installs the process-wide slog default for the given level
// ("debug", "info", "warn", "error") and format ("console", "json").
// Unrecognized values are configuration errors, not silent fallbacks.
func SetupLogger(level, format string) error {
	return setupLogger(level, format, os.Stderr)
}

func setupLogger(level, format string, out io.Writer) error {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, level)
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
	}

	var handler slog.Handler
	switch format {
	case "console":
		handler = slog.NewTextHandler(out, opts)
	case "json":
		handler = slog.NewJSONHandler(out, opts)
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, format)
	}

	slog.SetDefault(slog.New(handler))

	return nil
}
