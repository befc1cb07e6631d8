package socket

import (
	"errors"
	"fmt"
	"io"
)

// Error kinds. Every *Error matches exactly one of them with errors.Is.
var (
	ErrResolution      = errors.New("resolution error")
	ErrBind            = errors.New("bind error")
	ErrConnect         = errors.New("connect error")
	ErrAccept          = errors.New("accept error")
	ErrOption          = errors.New("option error")
	ErrTransfer        = errors.New("transfer error")
	ErrSend            = errors.New("send error")
	ErrReceive         = errors.New("receive error")
	ErrShutdown        = errors.New("shutdown error")
	ErrInvalidArgument = errors.New("invalid argument")
)

// ErrPeerClosed is returned by ReadAll and WriteAll together with the byte
// count transferred so far when the peer shut the connection down before the
// buffer was complete. It is not an ErrTransfer.
var ErrPeerClosed = fmt.Errorf("peer closed the connection: %w", io.EOF)

// Error describes a failed socket operation.
type Error struct {
	// Kind is one of the Err* kinds above.
	Kind error
	// Op names the failing step, e.g. "getaddrinfo" or "connect".
	Op string
	// Err is the underlying cause, typically a platform error.
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.Error() + ": " + e.Op
	}
	return e.Kind.Error() + ": " + e.Op + ": " + e.Err.Error()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func invalidArgument(op, format string, a ...interface{}) *Error {
	return newError(ErrInvalidArgument, op, fmt.Errorf(format, a...))
}
