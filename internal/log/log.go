// Package log builds the loggers shared by the toolkit components.
package log

import (
	"strings"

	"github.com/sirupsen/logrus"

	"gpcorr/domain/core"
)

// New builds a logger with the given level and format. Level accepts
// the logrus level names ("debug", "info", "warn", ...); format is
// "text" or "json", with "text" the default for an empty value.
func New(level, format string) (*logrus.Logger, error) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, core.ConfigurationError("unknown log level %q", level)
	}
	logger := logrus.New()
	logger.SetLevel(parsed)
	switch strings.ToLower(format) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, core.ConfigurationError("unknown log format %q", format)
	}
	return logger, nil
}

// Quiet returns a warn-level text logger, the default for library
// embedding: routine runs stay silent, problems still surface.
func Quiet() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}
