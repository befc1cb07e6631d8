// Package mocks provides test doubles shared by the netsock packages.
package mocks

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// MockStdio stands in for a terminal. Stdin is a pipe the test writes into;
// everything written to stdout is collected and can be waited for.
type MockStdio struct {
	stdinReader *io.PipeReader
	stdinWriter *io.PipeWriter

	mu      sync.Mutex
	output  bytes.Buffer
	changed chan struct{} // closed on every stdout write, then replaced
}

// NewMockStdio creates a mock terminal with empty input and output.
func NewMockStdio() *MockStdio {
	r, w := io.Pipe()
	return &MockStdio{
		stdinReader: r,
		stdinWriter: w,
		changed:     make(chan struct{}),
	}
}

// WriteToStdin feeds data to the program's stdin. It blocks until the
// program has read all of it or stdin is closed.
func (m *MockStdio) WriteToStdin(data []byte) (int, error) {
	return m.stdinWriter.Write(data)
}

// CloseStdin ends the program's input.
func (m *MockStdio) CloseStdin() error {
	return m.stdinWriter.Close()
}

// ReadFromStdout returns everything written to stdout so far.
func (m *MockStdio) ReadFromStdout() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.output.String()
}

// GetStdin returns the reader handed to the program as stdin.
func (m *MockStdio) GetStdin() io.Reader {
	return m.stdinReader
}

// GetStdout returns the writer handed to the program as stdout.
func (m *MockStdio) GetStdout() io.Writer {
	return stdout{m}
}

type stdout struct {
	m *MockStdio
}

func (s stdout) Write(p []byte) (int, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	n, err := s.m.output.Write(p)
	close(s.m.changed)
	s.m.changed = make(chan struct{})
	return n, err
}

// WaitForOutput waits up to timeoutMs milliseconds for expected to appear
// on stdout.
func (m *MockStdio) WaitForOutput(expected string, timeoutMs int) error {
	timer := time.NewTimer(time.Duration(timeoutMs) * time.Millisecond)
	defer timer.Stop()

	for {
		m.mu.Lock()
		out, changed := m.output.String(), m.changed
		m.mu.Unlock()

		if strings.Contains(out, expected) {
			return nil
		}

		select {
		case <-changed:
		case <-timer.C:
			return fmt.Errorf("timeout waiting for output %q, got: %q", expected, m.ReadFromStdout())
		}
	}
}

// Close ends the program's input. Output stays readable.
func (m *MockStdio) Close() error {
	return m.CloseStdin()
}
