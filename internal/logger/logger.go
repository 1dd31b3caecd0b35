// Package logger provides a configured zerolog logger.
package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a zerolog.Logger tagged with the service name. The level is
// read from BOARDGATE_LOG_LEVEL (debug, info, warn, error); anything else
// means info.
func New(serviceName string) zerolog.Logger {
	return zerolog.New(os.Stdout).Level(levelFromEnv()).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}

func levelFromEnv() zerolog.Level {
	switch strings.ToLower(os.Getenv("BOARDGATE_LOG_LEVEL")) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
