// Package logging configures the process-wide zerolog output: a console
// writer for humans plus an optional JSON file sink.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "2006-01-02T15:04:05.000Z07:00"

type Config struct {
	Level string `yaml:"level"`
	// File receives JSON lines in addition to the console output.
	File string `yaml:"file"`
}

// New builds the root logger. The level is applied globally so a config
// reload can retune it without re-plumbing loggers (see SetLevel).
func New(cfg Config) (zerolog.Logger, error) {
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))
	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: consoleTimeFormat}}
	if strings.TrimSpace(cfg.File) != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), err
		}
		writers = append(writers, f)
	}
	return zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger(), nil
}

// SetLevel re-applies the global level, e.g. after a config hot reload.
func SetLevel(level string) {
	zerolog.SetGlobalLevel(ParseLevel(level))
}

func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "", "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
