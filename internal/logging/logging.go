// If you are AI: This file sets up the zerolog logger for the CLI.
// Level defaults to info and can be overridden by flag or environment.

package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// EnvLogLevel overrides the configured log level when set.
const EnvLogLevel = "RTMPCALL_LOG_LEVEL"

// New returns a console logger for the named app at the given level.
func New(app, level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).With().Timestamp().Str("app", app).Logger()
	return logger.Level(parseLevel(level))
}

// parseLevel maps a level name to a zerolog level, preferring the
// environment override. Unknown names fall back to info.
func parseLevel(raw string) zerolog.Level {
	if env := os.Getenv(EnvLogLevel); env != "" {
		raw = env
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off", "none":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
