package tttplot

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// ParseLevel maps "info", "debug" and "trace" to logrus levels. Unknown
// values default to info.
func ParseLevel(s string) logrus.Level {
	switch strings.ToLower(s) {
	case "debug":
		return logrus.DebugLevel
	case "trace":
		return logrus.TraceLevel
	default:
		return logrus.InfoLevel
	}
}

func NewLogger(level string, w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(ParseLevel(level))
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors:    true,
		FullTimestamp:    true,
		QuoteEmptyFields: true,
	})
	return log
}
