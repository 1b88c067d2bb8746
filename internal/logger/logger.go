// Package logger provides leveled logging with support for debug, info, warn, and error levels.
// It keeps a printf-style package API over a logrus logger. Output goes to stderr so
// that stdout carries only the report tables.
package logger

import (
	"io"
	"log"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

var (
	// Global logger instance
	defaultLogger *logrus.Entry
)

// Init initializes the default logger with the specified level and format.
// Unknown levels fall back to info; format is "json" or "text".
func Init(level string, format string) {
	InitWithOutput(level, format, os.Stderr)
}

// InitWithOutput is Init writing to out.
func InitWithOutput(level string, format string, out io.Writer) {
	l, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		l = logrus.InfoLevel
	}

	base := logrus.New()
	base.SetOutput(out)
	base.SetLevel(l)

	if strings.ToLower(format) == "json" {
		base.SetFormatter(&logrus.JSONFormatter{})
	} else {
		base.SetFormatter(&prefixed.TextFormatter{
			ForceFormatting: true,
			FullTimestamp:   true,
		})
	}

	defaultLogger = logrus.NewEntry(base)
}

// WithField attaches a field to every subsequent log line, e.g. a run id.
func WithField(key string, value interface{}) {
	if defaultLogger != nil {
		defaultLogger = defaultLogger.WithField(key, value)
	}
}

// Debug logs a message at DebugLevel
func Debug(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Debugf(format, args...)
	}
}

// Info logs a message at InfoLevel
func Info(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Infof(format, args...)
	}
}

// Warn logs a message at WarnLevel
func Warn(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Warnf(format, args...)
	}
}

// Error logs a message at ErrorLevel
func Error(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Errorf(format, args...)
	}
}

// Fatal logs a message at FatalLevel and exits
func Fatal(format string, args ...interface{}) {
	if defaultLogger == nil {
		log.Fatalf(format, args...)
	}
	defaultLogger.Fatalf(format, args...)
}
