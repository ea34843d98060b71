// Package logger builds the logrus logger shared by the game and the tools.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config selects level, format and destination. LOG_LEVEL and LOG_FORMAT
// in the environment override Level and Format.
type Config struct {
	Level  string
	Format string // "text" or "json"
	File   string // empty means Output
	Output io.Writer
}

// Init returns a configured logger and a function that closes its log
// file, if one was opened. A game must log to a file because the terminal
// belongs to the screen.
func Init(cfg Config) (*logrus.Logger, func() error, error) {
	log := logrus.New()
	noop := func() error { return nil }

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Format = v
	}

	level := logrus.InfoLevel
	if cfg.Level != "" {
		l, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, noop, fmt.Errorf("log level: %w", err)
		}
		level = l
	}
	log.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, noop, fmt.Errorf("log format %q: want text or json", cfg.Format)
	}

	if cfg.File == "" {
		out := cfg.Output
		if out == nil {
			out = os.Stderr
		}
		log.SetOutput(out)
		return log, noop, nil
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, noop, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	return log, f.Close, nil
}
