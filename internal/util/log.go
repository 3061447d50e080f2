package util

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds a structured logger at the requested level, falling back
// to info when the level string is unknown.
func NewLogger(level string) zerolog.Logger {
	return newLogger(os.Stdout, level)
}

// NewConsoleLogger builds a human-readable logger for interactive runs.
func NewConsoleLogger(level string) zerolog.Logger {
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return newLogger(writer, level)
}

func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(lvl)
}
