package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config controls the global logrus logger.
type Config struct {
	Level  string
	Format string // "json" or "text"
}

// Init configures the standard logrus logger. Unknown levels fall back to info.
func Init(cfg Config) {
	logrus.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if err != nil && cfg.Level != "" {
		logrus.Warnf("Unknown log level %q, using info", cfg.Level)
	}
}
