package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type Config struct {
	Service string
	Env     string
	Level   string // debug, info, warn, error
	Format  string // json, text
}

// New returns a configured logrus logger and installs it as the standard logger's settings.
func New(cfg Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(parseLevel(cfg.Level))

	switch strings.ToLower(cfg.Format) {
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	logrus.SetLevel(logger.GetLevel())
	logrus.SetFormatter(logger.Formatter)

	return logger
}

// Base returns the entry every request logger derives from.
func Base(logger *logrus.Logger, cfg Config) *logrus.Entry {
	return logger.WithFields(logrus.Fields{
		"service": cfg.Service,
		"env":     cfg.Env,
	})
}

func parseLevel(lvl string) logrus.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
