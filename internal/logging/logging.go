// Package logging builds the process-wide slog logger.
//
// Production writes JSON to stdout; every other environment gets colored
// output from tint on stderr.
//
//	logger := logging.Setup(cfg.Server.Env, cfg.Logging.Level)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup builds the logger for env and level and installs it as the default
func Setup(env, level string) *slog.Logger {
	var out io.Writer = os.Stderr
	if env == "production" {
		out = os.Stdout
	}
	logger := New(out, env, ParseLevel(level))
	slog.SetDefault(logger)
	return logger
}

// New builds a logger writing to w
func New(w io.Writer, env string, level slog.Level) *slog.Logger {
	if env == "production" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  level == slog.LevelDebug,
		NoColor:    env == "test",
	}))
}

// ParseLevel maps debug, warn and error to their slog level; anything else is info
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
