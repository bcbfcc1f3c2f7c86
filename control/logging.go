// control/logging.go
// Author: momentics <momentics@gmail.com>
//
// zerolog logger construction from LogConfig.

package control

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// NewLogger builds the root logger. Console mode renders short human-readable
// lines, otherwise JSON is written. Both go to stderr.
func NewLogger(cfg LogConfig) zerolog.Logger {
	return newLogger(cfg, os.Stderr)
}

func newLogger(cfg LogConfig, out io.Writer) zerolog.Logger {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	zerolog.ErrorFieldName = "err"
	zerolog.TimeFieldFormat = consoleTimeFormat

	w := out
	if cfg.Console {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: consoleTimeFormat}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func parseLevel(s string) (zerolog.Level, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	if s == "warning" {
		s = "warn"
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
