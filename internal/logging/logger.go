package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the logging interface used across the application.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, err error, fields ...Field)
	Printf(format string, args ...any)
	Println(args ...any)
}

// Field is a structured key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// String creates a string field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int creates an int field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Uint64 creates a uint64 field.
func Uint64(key string, value uint64) Field { return Field{Key: key, Value: value} }

// Float64 creates a float64 field.
func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }

// Err creates an error field under the "error" key.
func Err(err error) Field { return Field{Key: "error", Value: err} }

// ZerologAdapter implements Logger on top of zerolog.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter wraps an existing zerolog logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// NewLogger returns a zerolog-backed Logger writing JSON lines to w, tagged
// with the given component.
func NewLogger(w io.Writer, component string) *ZerologAdapter {
	zl := zerolog.New(w).With().Timestamp().Str("component", component).Logger()
	return NewZerologAdapter(zl)
}

// NewConsoleLogger returns a human-readable logger for terminal output.
// Colors are disabled when noColor is set.
func NewConsoleLogger(w io.Writer, component string, level zerolog.Level, noColor bool) *ZerologAdapter {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: noColor}
	zl := zerolog.New(cw).Level(level).With().Timestamp().Str("component", component).Logger()
	return NewZerologAdapter(zl)
}

// NewDefaultLogger returns a console logger on stderr at info level.
func NewDefaultLogger() *ZerologAdapter {
	return NewConsoleLogger(os.Stderr, "gctrace", zerolog.InfoLevel, false)
}

// Debug logs a message at debug level.
func (z *ZerologAdapter) Debug(msg string, fields ...Field) {
	applyFields(z.logger.Debug(), fields).Msg(msg)
}

// Info logs a message at info level.
func (z *ZerologAdapter) Info(msg string, fields ...Field) {
	applyFields(z.logger.Info(), fields).Msg(msg)
}

// Warn logs a message at warn level.
func (z *ZerologAdapter) Warn(msg string, fields ...Field) {
	applyFields(z.logger.Warn(), fields).Msg(msg)
}

// Error logs a message at error level with the given error attached.
func (z *ZerologAdapter) Error(msg string, err error, fields ...Field) {
	applyFields(z.logger.Error().Err(err), fields).Msg(msg)
}

// Printf logs a formatted message at info level.
func (z *ZerologAdapter) Printf(format string, args ...any) {
	z.logger.Info().Msgf(format, args...)
}

// Println logs its arguments, space separated, at info level.
func (z *ZerologAdapter) Println(args ...any) {
	z.logger.Info().Msg(strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
}

func applyFields(e *zerolog.Event, fields []Field) *zerolog.Event {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			e = e.Str(f.Key, v)
		case int:
			e = e.Int(f.Key, v)
		case int64:
			e = e.Int64(f.Key, v)
		case uint64:
			e = e.Uint64(f.Key, v)
		case float64:
			e = e.Float64(f.Key, v)
		case bool:
			e = e.Bool(f.Key, v)
		case error:
			e = e.AnErr(f.Key, v)
		default:
			e = e.Interface(f.Key, v)
		}
	}
	return e
}

// StdLoggerAdapter implements Logger on top of the standard library logger,
// writing one plain "[LEVEL] message key=value" line per entry. It is used
// when diagnostics go to a file or pipe rather than a terminal.
type StdLoggerAdapter struct {
	logger *log.Logger
	level  zerolog.Level
}

// NewStdLoggerAdapter wraps a *log.Logger. Entries below level are dropped;
// Printf and Println count as info.
func NewStdLoggerAdapter(logger *log.Logger, level zerolog.Level) *StdLoggerAdapter {
	return &StdLoggerAdapter{logger: logger, level: level}
}

func (s *StdLoggerAdapter) enabled(l zerolog.Level) bool {
	return l >= s.level && s.level != zerolog.Disabled
}

func (s *StdLoggerAdapter) emit(l zerolog.Level, tag, msg string, fields []Field) {
	if s.enabled(l) {
		s.logger.Printf("[%s] %s%s", tag, msg, formatFields(fields))
	}
}

// Debug logs a message with a [DEBUG] prefix.
func (s *StdLoggerAdapter) Debug(msg string, fields ...Field) {
	s.emit(zerolog.DebugLevel, "DEBUG", msg, fields)
}

// Info logs a message with an [INFO] prefix.
func (s *StdLoggerAdapter) Info(msg string, fields ...Field) {
	s.emit(zerolog.InfoLevel, "INFO", msg, fields)
}

// Warn logs a message with a [WARN] prefix.
func (s *StdLoggerAdapter) Warn(msg string, fields ...Field) {
	s.emit(zerolog.WarnLevel, "WARN", msg, fields)
}

// Error logs a message with an [ERROR] prefix and the error text.
func (s *StdLoggerAdapter) Error(msg string, err error, fields ...Field) {
	s.emit(zerolog.ErrorLevel, "ERROR", fmt.Sprintf("%s: %v", msg, err), fields)
}

// Printf logs a formatted message at info level.
func (s *StdLoggerAdapter) Printf(format string, args ...any) {
	if s.enabled(zerolog.InfoLevel) {
		s.logger.Printf(format, args...)
	}
}

// Println logs its arguments at info level.
func (s *StdLoggerAdapter) Println(args ...any) {
	if s.enabled(zerolog.InfoLevel) {
		s.logger.Println(args...)
	}
}

func formatFields(fields []Field) string {
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	return b.String()
}
