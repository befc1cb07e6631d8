package log

import (
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	red    = color.New(color.FgRed).FprintfFunc()
	yellow = color.New(color.FgYellow).FprintfFunc()
	blue   = color.New(color.FgBlue).FprintfFunc()
	cyan   = color.New(color.FgCyan).FprintfFunc()
)

// ConsoleSink writes colored, prefixed lines for interactive use.
type ConsoleSink struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleSink creates a console sink writing to w.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{out: w}
}

// Write implements Sink.
func (s *ConsoleSink) Write(level Level, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch level {
	case LevelFatal:
		red(s.out, "[!] Fatal: %s\n", msg)
	case LevelError:
		red(s.out, "[!] Error: %s\n", msg)
	case LevelWarn:
		yellow(s.out, "[!] Warning: %s\n", msg)
	case LevelInfo:
		blue(s.out, "[+] %s\n", msg)
	default:
		cyan(s.out, "[*] %s: %s\n", level, msg)
	}
}

// NopSink drops every message.
type NopSink struct{}

// Write implements Sink.
func (NopSink) Write(Level, string) {}

// zap has no levels below debug; trace and all are mapped to custom levels
// so the encoder can still print their names.
var zapLevels = map[Level]zapcore.Level{
	LevelAll:   zapcore.DebugLevel - 2,
	LevelTrace: zapcore.DebugLevel - 1,
	LevelDebug: zapcore.DebugLevel,
	LevelInfo:  zapcore.InfoLevel,
	LevelWarn:  zapcore.WarnLevel,
	LevelError: zapcore.ErrorLevel,
	LevelFatal: zapcore.FatalLevel,
}

func encodeLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	for level, zl := range zapLevels {
		if zl == l {
			enc.AppendString(level.String())
			return
		}
	}
	enc.AppendString(l.String())
}

// FileSink appends timestamped lines to a file through a zap core.
type FileSink struct {
	core zapcore.Core
	file *os.File
}

// OpenFileSink opens (or creates) path in append mode.
func OpenFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout("06-01-02 15:04:05"),
		EncodeLevel:      encodeLevel,
		ConsoleSeparator: " ",
	}
	enabler := zap.LevelEnablerFunc(func(zapcore.Level) bool { return true })
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(f), enabler)

	return &FileSink{core: core, file: f}, nil
}

// Write implements Sink. Entries go straight to the core so that fatal
// messages never trigger zap's exit hook.
func (s *FileSink) Write(level Level, msg string) {
	zl, ok := zapLevels[level]
	if !ok {
		return
	}
	_ = s.core.Write(zapcore.Entry{Level: zl, Time: now(), Message: msg}, nil)
}

// Close flushes and closes the underlying file.
func (s *FileSink) Close() error {
	_ = s.core.Sync()
	return s.file.Close()
}
