package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// newLogger builds the logrus logger handed to the engine and the HTTP
// server. *logrus.Logger already satisfies calculation.Logger.
//
// The level comes from ONCOSTS_LOG_LEVEL and defaults to warn; --debug
// overrides it.
func newLogger(out io.Writer, debug bool, format string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)

	switch format {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q (use text or json)", format)
	}

	level := logrus.WarnLevel
	if env := os.Getenv("ONCOSTS_LOG_LEVEL"); env != "" {
		parsed, err := logrus.ParseLevel(env)
		if err != nil {
			return nil, fmt.Errorf("ONCOSTS_LOG_LEVEL: %w", err)
		}
		level = parsed
	}
	if debug {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)
	return logger, nil
}
