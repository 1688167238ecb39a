// Package log provides structured logging for vidconv.
// By default, logging is disabled (null logger). The entry point enables it
// from configuration via Setup.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents the logging level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a config value such as "debug" or "WARN" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "off", "none", "":
		return LevelOff, nil
	default:
		return LevelOff, fmt.Errorf("unknown log level %q", s)
	}
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an integer field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Float64 creates a float64 field.
func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a boolean field.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Strings creates a field from a string slice, e.g. process arguments.
func Strings(key string, values []string) Field {
	return Field{Key: key, Value: strings.Join(values, " ")}
}

// Err creates an error field.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Duration creates a duration field.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

// Logger is the interface for structured logging.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	WithFields(fields ...Field) Logger
}

type nullLogger struct{}

func (n *nullLogger) Debug(msg string, fields ...Field) {}
func (n *nullLogger) Info(msg string, fields ...Field)  {}
func (n *nullLogger) Warn(msg string, fields ...Field)  {}
func (n *nullLogger) Error(msg string, fields ...Field) {}
func (n *nullLogger) WithFields(fields ...Field) Logger { return n }

// writerLogger writes one line per record to an io.Writer.
// Loggers derived with WithFields share the parent's mutex.
type writerLogger struct {
	mu     *sync.Mutex
	out    io.Writer
	level  Level
	fields []Field
}

// NewWriterLogger creates a logger that writes to the given writer.
func NewWriterLogger(out io.Writer, level Level) Logger {
	return &writerLogger{mu: &sync.Mutex{}, out: out, level: level}
}

func (w *writerLogger) log(level Level, msg string, fields ...Field) {
	if level < w.level {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	// Format: timestamp level message key=value ...
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	fmt.Fprintf(w.out, "%s %s %s", timestamp, level.String(), msg)
	for _, f := range w.fields {
		writeField(w.out, f)
	}
	for _, f := range fields {
		writeField(w.out, f)
	}
	fmt.Fprintln(w.out)
}

func writeField(out io.Writer, f Field) {
	if s, ok := f.Value.(string); ok && strings.ContainsAny(s, " \t\n\"") {
		fmt.Fprintf(out, " %s=%q", f.Key, s)
		return
	}
	fmt.Fprintf(out, " %s=%v", f.Key, f.Value)
}

func (w *writerLogger) Debug(msg string, fields ...Field) { w.log(LevelDebug, msg, fields...) }
func (w *writerLogger) Info(msg string, fields ...Field)  { w.log(LevelInfo, msg, fields...) }
func (w *writerLogger) Warn(msg string, fields ...Field)  { w.log(LevelWarn, msg, fields...) }
func (w *writerLogger) Error(msg string, fields ...Field) { w.log(LevelError, msg, fields...) }

func (w *writerLogger) WithFields(fields ...Field) Logger {
	newFields := make([]Field, len(w.fields)+len(fields))
	copy(newFields, w.fields)
	copy(newFields[len(w.fields):], fields)
	return &writerLogger{
		mu:     w.mu,
		out:    w.out,
		level:  w.level,
		fields: newFields,
	}
}

var (
	defaultLogger Logger = &nullLogger{}
	loggerMu      sync.RWMutex
)

// SetLogger sets the package-level logger.
// Call with nil to disable logging.
func SetLogger(l Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if l == nil {
		defaultLogger = &nullLogger{}
	} else {
		defaultLogger = l
	}
}

// GetLogger returns the current package-level logger.
func GetLogger() Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return defaultLogger
}

// Setup installs the package-level logger for the given level and file.
// An empty path logs to stderr. The returned function closes the log file.
func Setup(level string, path string) (func() error, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if lvl == LevelOff {
		SetLogger(nil)
		return func() error { return nil }, nil
	}
	if path == "" {
		SetLogger(NewWriterLogger(os.Stderr, lvl))
		return func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	SetLogger(NewWriterLogger(f, lvl))
	return func() error {
		SetLogger(nil)
		return f.Close()
	}, nil
}

// Debug logs a debug message.
func Debug(msg string, fields ...Field) {
	GetLogger().Debug(msg, fields...)
}

// Info logs an info message.
func Info(msg string, fields ...Field) {
	GetLogger().Info(msg, fields...)
}

// Warn logs a warning message.
func Warn(msg string, fields ...Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message.
func Error(msg string, fields ...Field) {
	GetLogger().Error(msg, fields...)
}
