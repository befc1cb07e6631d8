package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *recordingSink) Write(level Level, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, level.String()+" "+msg)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "all", want: LevelAll},
		{in: "trace", want: LevelTrace},
		{in: "DEBUG", want: LevelDebug},
		{in: "info", want: LevelInfo},
		{in: "warn", want: LevelWarn},
		{in: "error", want: LevelError},
		{in: "fatal", want: LevelFatal},
		{in: "none", want: LevelNone},
		{in: "loud", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLevel(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestLogger_FiltersByLevel(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	logger := New(sink, LevelInfo)

	logger.TraceMsg("trace %d", 1)
	logger.VerboseMsg("debug %d", 2)
	logger.InfoMsg("info %d\n", 3)
	logger.WarnMsg("warn %d", 4)
	logger.ErrorMsg("error %d", 5)

	assert.Equal(t, []string{"info info 3", "warn warn 4", "error error 5"}, sink.lines)
}

func TestLogger_NilAndDiscard(t *testing.T) {
	t.Parallel()

	var nilLogger *Logger
	nilLogger.ErrorMsg("ignored")
	assert.False(t, nilLogger.Enabled(LevelFatal))

	d := Discard()
	d.FatalMsg("ignored")
	assert.False(t, d.Enabled(LevelFatal))
}

func TestConsoleSink(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(NewConsoleSink(&buf), LevelAll)

	logger.ErrorMsg("test error: %s", "something")
	logger.InfoMsg("test info: %s", "something")
	logger.TraceMsg("read %dB", 12)

	out := buf.String()
	assert.Contains(t, out, "[!] Error: test error: something")
	assert.Contains(t, out, "[+] test info: something")
	assert.Contains(t, out, "trace: read 12B")
	assert.Equal(t, 3, strings.Count(out, "\n"))
}

func TestStart_File(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping file system test in short mode")
	}

	path := filepath.Join(t.TempDir(), "netsock.log")

	logger, teardown, err := Start(path, LevelTrace)
	require.NoError(t, err)

	logger.InfoMsg("Listening on %s", ":5000")
	logger.TraceMsg("write 3: 12B")
	logger.VerboseMsg("dropped? no, debug is above trace")
	logger.FatalMsg("still running")
	require.NoError(t, teardown())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], " info Listening on :5000")
	assert.Contains(t, lines[1], " trace write 3: 12B")
	assert.Contains(t, lines[2], " debug ")
	assert.Contains(t, lines[3], " fatal still running")
}

func TestStart_FileAppends(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping file system test in short mode")
	}

	path := filepath.Join(t.TempDir(), "netsock.log")

	for i := 0; i < 2; i++ {
		logger, teardown, err := Start(path, LevelInfo)
		require.NoError(t, err)
		logger.InfoMsg("run %d", i)
		require.NoError(t, teardown())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "run 0")
	assert.Contains(t, string(data), "run 1")
}

func TestStart_BadPath(t *testing.T) {
	t.Parallel()

	_, _, err := Start(filepath.Join(t.TempDir(), "missing", "dir", "x.log"), LevelInfo)
	assert.Error(t, err)
}

func TestStart_Console(t *testing.T) {
	t.Parallel()

	logger, teardown, err := Start("", LevelError)
	require.NoError(t, err)
	assert.True(t, logger.Enabled(LevelError))
	assert.False(t, logger.Enabled(LevelInfo))
	assert.NoError(t, teardown())
}

func TestErrorMsg(t *testing.T) {
	// Capture stderr
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	saved := std
	std = NewLogger(false)

	ErrorMsg("test error: %s", "something")

	w.Close()
	os.Stderr = old
	std = saved

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	if !strings.Contains(output, "test error") {
		t.Errorf("ErrorMsg() output does not contain expected text: %q", output)
	}
}
