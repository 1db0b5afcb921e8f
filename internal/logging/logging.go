// Package logging builds the structured loggers used by the commands and servers.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/starstrike/internal/config"
)

// New creates a timestamped logger writing to w at the given level.
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
}

// FromEnv creates a stderr logger whose level comes from LOG_LEVEL.
func FromEnv(prefix string) *log.Logger {
	l := New(os.Stderr, ParseLevel(config.GetEnv("LOG_LEVEL", "info")))
	l.SetPrefix(prefix)
	return l
}

// ParseLevel maps a level name to a log.Level, defaulting to info.
func ParseLevel(s string) log.Level {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *log.Logger {
	return New(io.Discard, log.FatalLevel)
}
