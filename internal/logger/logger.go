// Package logger configures the zerolog logger used across the CLI.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mmr-tortoise/devstack/internal/config"
)

// SetupLogger builds the application logger from the logging config.
// Output goes to stderr through a ConsoleWriter so stdout stays
// reserved for command output (tables, JSON). Unknown level strings
// fall back to info.
func SetupLogger(cfg *config.LoggingConfig) zerolog.Logger {
	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05",
	}

	levelStr := strings.ToLower(cfg.Level)
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	logger := zerolog.New(consoleWriter).
		With().
		Timestamp().
		Str("service", "devstack").
		Logger()

	return logger
}
