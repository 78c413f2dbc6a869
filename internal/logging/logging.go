// Package logging provides structured logging for Ground Control using stdlib slog.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogConfig controls logger creation.
type LogConfig struct {
	Level  string    // "debug", "info", "warn", "error"
	Format string    // "json" (default), "text"
	Output io.Writer // defaults to os.Stdout
}

// New creates a configured *slog.Logger.
func New(cfg LogConfig) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ValidateLevel returns an error if the level string is not recognized.
func ValidateLevel(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("invalid log level: %q (must be debug, info, warn, or error)", s)
	}
}

// DaemonLogger creates a logger for the daemon that writes to stdout and,
// when logfile is set, to that file as well.
// Returns the logger and a cleanup function to close the file (if opened).
func DaemonLogger(level, format, logfile string) (*slog.Logger, func(), error) {
	var out io.Writer = os.Stdout
	var cleanup func()

	if logfile != "" {
		f, err := os.OpenFile(logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %s: %w", logfile, err)
		}
		out = io.MultiWriter(os.Stdout, f)
		cleanup = func() { f.Close() }
	}

	logger := New(LogConfig{
		Level:  level,
		Format: format,
		Output: out,
	})

	return logger, cleanup, nil
}
