package log

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// loggedConn wraps a connection and copies all bytes read from and written to
// it into a transcript file.
type loggedConn struct {
	conn    io.ReadWriteCloser
	logFile *os.File
}

func (lc *loggedConn) Read(b []byte) (int, error) {
	n, err := lc.conn.Read(b)
	if n > 0 {
		if _, werr := lc.logFile.Write(b[:n]); werr != nil {
			return n, fmt.Errorf("writing transcript: %w", werr)
		}
	}
	return n, err
}

func (lc *loggedConn) Write(b []byte) (int, error) {
	n, err := lc.conn.Write(b)
	if n > 0 {
		if _, werr := lc.logFile.Write(b[:n]); werr != nil {
			return n, fmt.Errorf("writing transcript: %w", werr)
		}
	}
	return n, err
}

// CloseWrite half-closes the wrapped connection if it supports that.
func (lc *loggedConn) CloseWrite() error {
	hc, ok := lc.conn.(interface{ CloseWrite() error })
	if !ok {
		return errors.ErrUnsupported
	}
	return hc.CloseWrite()
}

// Close closes the connection first, then the transcript file.
func (lc *loggedConn) Close() error {
	err := lc.conn.Close()
	if ferr := lc.logFile.Close(); err == nil {
		err = ferr
	}
	return err
}

// NewLoggedConn wraps a connection to log all data read from and written to it.
// The transcript file is created or appended to at the specified path.
func NewLoggedConn(conn io.ReadWriteCloser, logFilePath string) (io.ReadWriteCloser, error) {
	logFile, err := OpenTranscript(logFilePath)
	if err != nil {
		return nil, err
	}

	return &loggedConn{conn: conn, logFile: logFile}, nil
}

// OpenTranscript creates or appends to the transcript file at path.
func OpenTranscript(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
}
