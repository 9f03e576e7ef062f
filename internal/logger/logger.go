// Package logger provides the process-wide structured logger. The library
// only ever logs non-fatal diagnostics (e.g. display decoding degradation);
// hard failures are returned as errors instead.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Fields is a type alias for log fields to make the API cleaner.
type Fields map[string]interface{}

var (
	mu     sync.Mutex
	output io.Writer = os.Stderr
	logger *slog.Logger
)

// SetOutput redirects log output, primarily so tests can capture it.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	logger = nil
}

// Init configures the global logger with the given level name. Unknown
// levels fall back to info.
func Init(logLevel string) {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	mu.Lock()
	defer mu.Unlock()
	logger = slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: level}))
}

// Get returns the configured logger, initializing defaults on first use.
func Get() *slog.Logger {
	mu.Lock()
	l := logger
	mu.Unlock()
	if l == nil {
		Init("info")
		mu.Lock()
		l = logger
		mu.Unlock()
	}
	return l
}

// Debug logs a debug message.
func Debug(msg string, fields ...Fields) {
	Get().Debug(msg, mergeFields(fields...)...)
}

// Debugf logs a formatted debug message.
func Debugf(format string, args ...interface{}) {
	Get().Debug(fmt.Sprintf(format, args...))
}

// Info logs an info message.
func Info(msg string, fields ...Fields) {
	Get().Info(msg, mergeFields(fields...)...)
}

// Warn logs a warning message.
func Warn(msg string, fields ...Fields) {
	Get().Warn(msg, mergeFields(fields...)...)
}

// Error logs an error message.
func Error(msg string, fields ...Fields) {
	Get().Error(msg, mergeFields(fields...)...)
}

// mergeFields merges field maps into one slice of key-value pairs for slog.
func mergeFields(fields ...Fields) []interface{} {
	result := []interface{}{}
	for _, field := range fields {
		for k, v := range field {
			result = append(result, k, v)
		}
	}
	return result
}
