// Package logging builds zerolog loggers from configuration.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/junioryono/injector/config"
)

// New creates a logger for cfg tagged with component. An unknown level
// falls back to info.
func New(cfg config.LogConfig, component string) zerolog.Logger {
	return NewWithWriter(cfg, component, outputWriter(cfg.Output))
}

// NewWithWriter is like New but writes to w regardless of cfg.Output.
func NewWithWriter(cfg config.LogConfig, component string, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if strings.ToLower(cfg.Format) == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}

func outputWriter(output string) io.Writer {
	switch strings.ToLower(output) {
	case "stdout":
		return os.Stdout
	default:
		return os.Stderr
	}
}
