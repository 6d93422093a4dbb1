// Package logger provides a small logging interface for claude-statusline
// components, with stderr and rotating-file implementations.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// DebugEnv enables debug output when set to any non-empty value.
const DebugEnv = "CLAUDE_STATUSLINE_DEBUG"

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// envLogger logs to stderr. Debug messages are only printed when debug
// is forced or DebugEnv is set.
type envLogger struct {
	prefix string
	debug  bool
}

// NewEnvLogger creates a stderr logger. The prefix is prepended to all messages.
func NewEnvLogger(prefix string, debug bool) Logger {
	return &envLogger{prefix: prefix, debug: debug}
}

func (l *envLogger) debugEnabled() bool {
	return l.debug || os.Getenv(DebugEnv) != ""
}

func (l *envLogger) Debug(format string, args ...interface{}) {
	if l.debugEnabled() {
		log.Printf(l.prefix+" "+format, args...)
	}
}

func (l *envLogger) Info(format string, args ...interface{}) {
	log.Printf(l.prefix+" "+format, args...)
}

func (l *envLogger) Warn(format string, args ...interface{}) {
	log.Printf(l.prefix+" WARN: "+format, args...)
}

func (l *envLogger) Error(format string, args ...interface{}) {
	log.Printf(l.prefix+" ERROR: "+format, args...)
}

// FileLogger writes every level, debug included, to a size-rotated file.
type FileLogger struct {
	mu  sync.Mutex
	out io.WriteCloser
	now func() time.Time
}

// NewFileLogger opens a rotating log at path (10 MB per file, 5 backups).
func NewFileLogger(path string) *FileLogger {
	return &FileLogger{
		out: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // MB
			MaxBackups: 5,
		},
		now: time.Now,
	}
}

func (l *FileLogger) write(level, format string, args ...interface{}) {
	entry := fmt.Sprintf("[%s] [PID=%d] [%s] %s\n",
		l.now().Format(time.RFC3339), os.Getpid(), level, fmt.Sprintf(format, args...))
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, entry)
}

func (l *FileLogger) Debug(format string, args ...interface{}) { l.write("DEBUG", format, args...) }
func (l *FileLogger) Info(format string, args ...interface{})  { l.write("INFO", format, args...) }
func (l *FileLogger) Warn(format string, args ...interface{})  { l.write("WARN", format, args...) }
func (l *FileLogger) Error(format string, args ...interface{}) { l.write("ERROR", format, args...) }

// Close flushes and closes the underlying file.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out.Close()
}

// teeLogger fans each message out to several loggers.
type teeLogger []Logger

// Tee returns a logger that writes to every given logger.
func Tee(loggers ...Logger) Logger {
	return teeLogger(loggers)
}

func (t teeLogger) Debug(format string, args ...interface{}) {
	for _, l := range t {
		l.Debug(format, args...)
	}
}

func (t teeLogger) Info(format string, args ...interface{}) {
	for _, l := range t {
		l.Info(format, args...)
	}
}

func (t teeLogger) Warn(format string, args ...interface{}) {
	for _, l := range t {
		l.Warn(format, args...)
	}
}

func (t teeLogger) Error(format string, args ...interface{}) {
	for _, l := range t {
		l.Error(format, args...)
	}
}

// noopLogger discards all messages.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return &noopLogger{}
}

func (l *noopLogger) Debug(format string, args ...interface{}) {}
func (l *noopLogger) Info(format string, args ...interface{})  {}
func (l *noopLogger) Warn(format string, args ...interface{})  {}
func (l *noopLogger) Error(format string, args ...interface{}) {}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// BufferLogger captures log messages for testing.
type BufferLogger struct {
	Messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		Messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) Debug(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "debug", Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Info(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "info", Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Warn(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "warn", Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Error(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "error", Message: fmt.Sprintf(format, args...)})
}

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	for _, m := range l.Messages {
		if m.Level == level {
			return true
		}
	}
	return false
}
