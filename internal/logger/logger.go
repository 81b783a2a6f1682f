// Package logger provides structured logging using zerolog.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	logLevelTrace = "trace"
	logLevelDebug = "debug"
	logLevelInfo  = "info"
	logLevelWarn  = "warn"
	logLevelError = "error"
)

// Log is the global logger instance
var Log zerolog.Logger

// Init initializes the global logger with the specified level and output format
func Init(level string, pretty bool) {
	InitWithWriter(level, pretty, os.Stdout)
}

// InitWithWriter is Init with an explicit destination
func InitWithWriter(level string, pretty bool, out io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339

	output := out
	if pretty {
		output = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	zerolog.SetGlobalLevel(parseLogLevel(level))

	Log = zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Logger()
}

// Component returns a child of the global logger tagged with a component name
func Component(name string) zerolog.Logger {
	return Log.With().Str("component", name).Logger()
}

// ValidLevel reports whether level is one Init understands
func ValidLevel(level string) bool {
	switch strings.ToLower(level) {
	case logLevelTrace, logLevelDebug, logLevelInfo, logLevelWarn, logLevelError:
		return true
	}
	return false
}

// parseLogLevel converts a string log level to zerolog.Level
func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case logLevelTrace:
		return zerolog.TraceLevel
	case logLevelDebug:
		return zerolog.DebugLevel
	case logLevelInfo:
		return zerolog.InfoLevel
	case logLevelWarn:
		return zerolog.WarnLevel
	case logLevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
