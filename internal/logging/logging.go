// Package logging builds the zerolog logger used by the rolloutform CLI.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// EnvLevel is consulted when no level is configured.
const EnvLevel = "ROLLOUTFORM_LOG_LEVEL"

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options configures New. Zero values give an info-level console logger on
// stderr.
type Options struct {
	Level  string
	Format string
	Out    io.Writer
}

// New creates a logger per opts. An empty level falls back to EnvLevel and
// then to info.
func New(opts Options) (zerolog.Logger, error) {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", FormatConsole:
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	case FormatJSON:
	default:
		return zerolog.Nop(), fmt.Errorf("logging: unknown format %q", opts.Format)
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}

// ParseLevel resolves raw, or the EnvLevel variable when raw is empty.
func ParseLevel(raw string) (zerolog.Level, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		value = strings.TrimSpace(os.Getenv(EnvLevel))
	}
	if value == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(value))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("logging: %w", err)
	}
	return level, nil
}
