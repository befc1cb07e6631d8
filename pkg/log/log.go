// Package log provides leveled logging with pluggable sinks: colored console
// output on stderr, an append-only log file, and connection transcripts.
package log

import (
	"fmt"
	"os"
	"strings"
)

// Level orders log messages by severity. Messages below a Logger's minimum
// level are dropped before they are formatted.
type Level int

// Log levels, from most to least verbose.
const (
	LevelAll Level = iota
	LevelTrace
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
	LevelNone
)

var levelNames = [...]string{"all", "trace", "debug", "info", "warn", "error", "fatal", "none"}

func (l Level) String() string {
	if l < LevelAll || l > LevelNone {
		return ""
	}
	return levelNames[l]
}

// ParseLevel parses a level name such as "debug" or "error".
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelNone, fmt.Errorf("unknown log level %q (want one of %s)", s, strings.Join(levelNames[:], "|"))
}

// Sink receives formatted log lines. Implementations must be safe for
// concurrent use.
type Sink interface {
	Write(level Level, msg string)
}

// Logger filters messages by level and forwards them to a Sink.
// A nil *Logger discards everything.
type Logger struct {
	sink Sink
	min  Level
}

// New creates a logger writing messages at or above min to sink.
func New(sink Sink, min Level) *Logger {
	return &Logger{sink: sink, min: min}
}

// NewLogger creates a console logger on stderr. Verbose loggers also
// print debug messages.
func NewLogger(verbose bool) *Logger {
	min := LevelInfo
	if verbose {
		min = LevelDebug
	}
	return New(NewConsoleSink(os.Stderr), min)
}

// Discard returns a logger that drops all messages.
func Discard() *Logger {
	return New(NopSink{}, LevelNone)
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return l != nil && l.sink != nil && level >= l.min && level < LevelNone
}

func (l *Logger) log(level Level, format string, a ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	l.sink.Write(level, strings.TrimRight(fmt.Sprintf(format, a...), "\n"))
}

// FatalMsg logs an unrecoverable condition. It does not exit.
func (l *Logger) FatalMsg(format string, a ...interface{}) {
	l.log(LevelFatal, format, a...)
}

// ErrorMsg logs an error.
func (l *Logger) ErrorMsg(format string, a ...interface{}) {
	l.log(LevelError, format, a...)
}

// WarnMsg logs a warning.
func (l *Logger) WarnMsg(format string, a ...interface{}) {
	l.log(LevelWarn, format, a...)
}

// InfoMsg logs an informational message.
func (l *Logger) InfoMsg(format string, a ...interface{}) {
	l.log(LevelInfo, format, a...)
}

// VerboseMsg logs a debug message, shown only with verbose output.
func (l *Logger) VerboseMsg(format string, a ...interface{}) {
	l.log(LevelDebug, format, a...)
}

// TraceMsg logs per-operation detail such as byte counts.
func (l *Logger) TraceMsg(format string, a ...interface{}) {
	l.log(LevelTrace, format, a...)
}

var std = NewLogger(false)

// ErrorMsg prints an error message to stderr in red color.
func ErrorMsg(format string, a ...interface{}) {
	std.ErrorMsg(format, a...)
}

// InfoMsg prints an informational message to stderr in blue color.
func InfoMsg(format string, a ...interface{}) {
	std.InfoMsg(format, a...)
}
