// Package logging provides the application logger and the log-event
// boundary consumed by the plugin system.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level represents the severity level of a log message.
type Level int

const (
	// LevelDebug is for detailed debugging information.
	LevelDebug Level = iota
	// LevelNote is for general informational messages.
	LevelNote
	// LevelWarning is for warning messages.
	LevelWarning
	// LevelError is for error messages.
	LevelError
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelNote:
		return "NOTE"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a string into a Level.
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "note", "NOTE", "info", "INFO":
		return LevelNote
	case "warn", "WARN", "warning", "WARNING":
		return LevelWarning
	case "error", "ERROR":
		return LevelError
	default:
		return LevelNote
	}
}

// Event is one diagnostic message produced by a plugin: text, severity and
// the identity of the script that produced it. Events are ephemeral and
// consumed exactly once by a Sink.
type Event struct {
	Text   string
	Level  Level
	Source string
}

// Sink consumes an ordered stream of events. Implementations must be safe
// for use from multiple goroutines.
type Sink interface {
	Log(ev Event)
}

// Logger provides leveled logging for the host.
type Logger struct {
	mu       sync.Mutex
	level    Level
	output   io.Writer
	prefix   string
	disabled bool
}

// Config configures a Logger.
type Config struct {
	// Level is the minimum level to output.
	Level Level
	// Output is where logs are written. Defaults to os.Stderr.
	Output io.Writer
	// Prefix is prepended to all log messages.
	Prefix string
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelNote,
		Output: os.Stderr,
		Prefix: "copyq",
	}
}

// NewLogger creates a new logger with the given configuration.
func NewLogger(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	return &Logger{
		level:  cfg.Level,
		output: cfg.Output,
		prefix: cfg.Prefix,
	}
}

// SetLevel sets the minimum level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetOutput sets the output writer.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
}

// Disable disables all logging.
func (l *Logger) Disable() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.disabled = true
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(LevelDebug, msg, args...)
}

// Note logs an informational message.
func (l *Logger) Note(msg string, args ...any) {
	l.log(LevelNote, msg, args...)
}

// Warning logs a warning message.
func (l *Logger) Warning(msg string, args ...any) {
	l.log(LevelWarning, msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.log(LevelError, msg, args...)
}

// Log implements Sink so a Logger can be used directly as the plugin
// system's event sink.
func (l *Logger) Log(ev Event) {
	l.log(ev.Level, "%s", ev.Text)
}

// log writes a log message if the level is enabled.
func (l *Logger) log(level Level, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.disabled || level < l.level {
		return
	}

	timestamp := time.Now().Format("2006-01-02T15:04:05.000")

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	var line string
	if l.prefix != "" {
		line = fmt.Sprintf("%s [%s] %s: %s\n", timestamp, level.String(), l.prefix, msg)
	} else {
		line = fmt.Sprintf("%s [%s] %s\n", timestamp, level.String(), msg)
	}

	_, _ = l.output.Write([]byte(line))
}

// NullLogger is a logger that discards all output.
var NullLogger = &Logger{disabled: true}
