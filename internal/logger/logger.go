// Package logger provides structured logging for chronofmv
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger wraps zerolog with chronofmv-specific functionality
type Logger struct {
	zlog zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level      string // debug, info, warn, error
	Pretty     bool   // pretty-print for development
	Output     io.Writer
	WithCaller bool
}

// NewLogger creates a new structured logger
func NewLogger(cfg Config) *Logger {
	// Set global log level
	level := zerolog.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)

	// Configure output
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	// Pretty printing for development
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	// Create logger
	zlog := zerolog.New(output).
		With().
		Timestamp().
		Str("service", "chronofmv").
		Logger()

	// Add caller information if requested
	if cfg.WithCaller {
		zlog = zlog.With().Caller().Logger()
	}

	return &Logger{zlog: zlog}
}

// GetZerolog returns the underlying zerolog logger
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zlog
}

// Info logs an info message
func (l *Logger) Info(msg string) *zerolog.Event {
	return l.zlog.Info().Str("msg", msg)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) *zerolog.Event {
	return l.zlog.Debug().Str("msg", msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) *zerolog.Event {
	return l.zlog.Warn().Str("msg", msg)
}

// Error logs an error message
func (l *Logger) Error(msg string) *zerolog.Event {
	return l.zlog.Error().Str("msg", msg)
}

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(msg string) *zerolog.Event {
	return l.zlog.Fatal().Str("msg", msg)
}

// WithFields returns a logger with additional fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.zlog.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{zlog: ctx.Logger()}
}

// FmvLogger returns a logger scoped to file-mapped-vector events for
// the named backing file.
func (l *Logger) FmvLogger(path string) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "fmv").
			Str("path", path).
			Logger(),
	}
}

// TableLogger returns a logger scoped to a single named table.
func (l *Logger) TableLogger(name string) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "table").
			Str("table", name).
			Logger(),
	}
}

// LogAppendRejected logs a silently-dropped, non-monotonic append.
func (l *Logger) LogAppendRejected(ts uint64) {
	l.zlog.Warn().
		Str("event", "append_rejected").
		Uint64("timestamp", ts).
		Msg("append rejected: timestamp is not monotonic")
}

// LogGrowth logs a capacity-doubling event.
func (l *Logger) LogGrowth(oldCapacity, newCapacity uint64) {
	l.zlog.Debug().
		Str("event", "growth").
		Uint64("old_capacity", oldCapacity).
		Uint64("new_capacity", newCapacity).
		Msg("file-mapped vector grew")
}

// LogTableOperation logs a table-level operation (Append/Locate/Reduce)
// with its duration and item counts.
func (l *Logger) LogTableOperation(operation string, duration time.Duration, recordCount int, err error) {
	event := l.zlog.Debug().
		Str("component", "table").
		Str("operation", operation).
		Dur("duration_ms", duration).
		Int("record_count", recordCount)

	if err != nil {
		event = l.zlog.Error().
			Str("component", "table").
			Str("operation", operation).
			Dur("duration_ms", duration).
			Err(err)
	}

	event.Msg("table operation completed")
}

// LogDatabaseOpen logs a database directory being opened.
func (l *Logger) LogDatabaseOpen(dir string) {
	l.zlog.Info().
		Str("event", "database_open").
		Str("dir", dir).
		Msg("chronofmv database opened")
}

// LogDatabaseClose logs a database being closed.
func (l *Logger) LogDatabaseClose(dir string) {
	l.zlog.Info().
		Str("event", "database_close").
		Str("dir", dir).
		Msg("chronofmv database closed")
}

// Global logger instance
var globalLogger *Logger

// InitGlobalLogger initializes the global logger
func InitGlobalLogger(cfg Config) {
	globalLogger = NewLogger(cfg)
	log.Logger = *globalLogger.GetZerolog()
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *Logger {
	if globalLogger == nil {
		// Initialize with defaults if not set
		InitGlobalLogger(Config{
			Level:  "info",
			Pretty: true,
		})
	}
	return globalLogger
}
