// Package logger builds the application's zerolog logger.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a logger at the given level. Development gets a
// human-friendly console writer, everything else structured JSON.
func New(level, environment string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if environment == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(lvl).With().Timestamp().Logger()
}
