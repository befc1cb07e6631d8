package pipeio

import (
	"io"
	"os"

	"github.com/muesli/cancelreader"
)

// Stdio provides a ReadWriteCloser interface for standard I/O streams.
// It uses cancelable reading from stdin when supported, allowing reads
// to be interrupted via Close.
type Stdio struct {
	stdin            io.Reader
	cancellableStdin cancelreader.CancelReader

	stdout io.Writer
}

// NewStdio creates a Stdio reading from in and writing to out. Nil streams
// default to os.Stdin and os.Stdout.
func NewStdio(in io.Reader, out io.Writer) *Stdio {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	s := &Stdio{stdin: in, stdout: out}

	cancellableStdin, err := cancelreader.NewReader(in)
	if err != nil {
		return s
	}

	s.cancellableStdin = cancellableStdin
	return s
}

// Read reads from stdin, using the cancelable reader if available.
func (s *Stdio) Read(p []byte) (n int, err error) {
	if s.cancellableStdin != nil {
		return s.cancellableStdin.Read(p)
	}

	return s.stdin.Read(p)
}

// Write writes to stdout.
func (s *Stdio) Write(p []byte) (n int, err error) {
	return s.stdout.Write(p)
}

// Close cancels any pending reads from stdin if using a cancelable reader.
func (s *Stdio) Close() error {
	if s.cancellableStdin != nil {
		s.cancellableStdin.Cancel()
	}
	return nil
}
