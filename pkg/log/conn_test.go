package log

import (
	"bytes"
	"errors"
	"io"
	"os"
	"testing"
)

// mockConn implements io.ReadWriteCloser for testing
type mockConn struct {
	readBuf  *bytes.Buffer
	writeBuf *bytes.Buffer
	closed   bool
}

func newMockConn() *mockConn {
	return &mockConn{
		readBuf:  new(bytes.Buffer),
		writeBuf: new(bytes.Buffer),
	}
}

func (m *mockConn) Read(b []byte) (int, error) {
	return m.readBuf.Read(b)
}

func (m *mockConn) Write(b []byte) (int, error) {
	return m.writeBuf.Write(b)
}

func (m *mockConn) Close() error {
	m.closed = true
	return nil
}

func TestNewLoggedConn(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping file system test in short mode")
	}

	tmpFile := t.TempDir() + "/test.log"
	conn := newMockConn()

	loggedConn, err := NewLoggedConn(conn, tmpFile)
	if err != nil {
		t.Fatalf("NewLoggedConn() error = %v", err)
	}
	if loggedConn == nil {
		t.Fatal("NewLoggedConn() returned nil")
	}
	defer loggedConn.Close()

	// Verify log file was created
	if _, err := os.Stat(tmpFile); os.IsNotExist(err) {
		t.Error("NewLoggedConn() did not create log file")
	}
}

func TestLoggedConn_ReadWrite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping file system test in short mode")
	}

	tmpFile := t.TempDir() + "/test.log"
	conn := newMockConn()
	conn.readBuf.WriteString("read test data")

	loggedConn, err := NewLoggedConn(conn, tmpFile)
	if err != nil {
		t.Fatalf("NewLoggedConn() error = %v", err)
	}

	if n, err := loggedConn.Write([]byte("test data|")); err != nil || n != 10 {
		t.Fatalf("Write() = %d, %v; want 10, nil", n, err)
	}

	buf := make([]byte, 14)
	if n, err := loggedConn.Read(buf); err != nil || n != 14 {
		t.Fatalf("Read() = %d, %v; want 14, nil", n, err)
	}

	if err := loggedConn.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !conn.closed {
		t.Error("Close() did not close the wrapped connection")
	}

	logData, err := os.ReadFile(tmpFile)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if want := "test data|read test data"; string(logData) != want {
		t.Errorf("Log file contains %q, want %q", logData, want)
	}
}

func TestLoggedConn_Read_EOF(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping file system test in short mode")
	}

	tmpFile := t.TempDir() + "/test.log"
	conn := newMockConn()
	// Empty buffer will return EOF

	loggedConn, err := NewLoggedConn(conn, tmpFile)
	if err != nil {
		t.Fatalf("NewLoggedConn() error = %v", err)
	}
	defer loggedConn.Close()

	buf := make([]byte, 10)
	_, err = loggedConn.Read(buf)
	if err != io.EOF {
		t.Errorf("Read() error = %v, want EOF", err)
	}
}

type halfMockConn struct {
	*mockConn
	halfClosed bool
}

func (m *halfMockConn) CloseWrite() error {
	m.halfClosed = true
	return nil
}

func TestLoggedConn_CloseWrite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping file system test in short mode")
	}

	dir := t.TempDir()

	plain, err := NewLoggedConn(newMockConn(), dir+"/plain.log")
	if err != nil {
		t.Fatalf("NewLoggedConn() error = %v", err)
	}
	defer plain.Close()
	if err := plain.(interface{ CloseWrite() error }).CloseWrite(); !errors.Is(err, errors.ErrUnsupported) {
		t.Errorf("CloseWrite() on plain conn = %v, want ErrUnsupported", err)
	}

	conn := &halfMockConn{mockConn: newMockConn()}
	half, err := NewLoggedConn(conn, dir+"/half.log")
	if err != nil {
		t.Fatalf("NewLoggedConn() error = %v", err)
	}
	defer half.Close()
	if err := half.(interface{ CloseWrite() error }).CloseWrite(); err != nil {
		t.Fatalf("CloseWrite() error = %v", err)
	}
	if !conn.halfClosed {
		t.Error("CloseWrite() was not passed through")
	}
}
