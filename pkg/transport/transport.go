// Package transport adapts socket handles to the io interfaces the rest of
// netsock works with.
//
// The tcp subpackage connects and serves stream connections:
//   - tcp.Dial connects to a remote endpoint and returns a *Conn
//   - tcp.ListenAndServe accepts connections and runs a Handler for each,
//     bounded by a connection limit, until the context is cancelled
//
// The udp subpackage exchanges datagrams:
//   - udp.Serve receives datagrams on a bound socket
//   - udp.Sender sends datagrams from an ephemeral local port
//
// Socket timeouts are the only way to unblock a pending call, so the accept
// and receive loops poll with a short receive timeout to notice cancellation.
package transport

import (
	"io"
	"sync"

	"netsock/pkg/socket"
)

// Handler is a function that processes an incoming connection.
// It should handle the connection and return when done.
// The connection will be closed after the handler returns.
type Handler func(*Conn) error

// Conn is a connected socket handle exposed as an io.ReadWriteCloser.
// Reads and writes may run on different goroutines; Shutdown unblocks them
// without releasing the handle.
type Conn struct {
	stack *socket.Stack
	h     socket.Handle

	mu     sync.Mutex
	closed bool
}

var _ io.ReadWriteCloser = (*Conn)(nil)

// NewConn takes ownership of h.
func NewConn(stack *socket.Stack, h socket.Handle) *Conn {
	return &Conn{stack: stack, h: h}
}

// Handle returns the underlying socket handle.
func (c *Conn) Handle() socket.Handle {
	return c.h
}

// Read returns what a single receive delivers. An orderly shutdown by the
// peer is reported as io.EOF.
func (c *Conn) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := c.stack.Recv(c.h, p)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Write sends all of p.
func (c *Conn) Write(p []byte) (int, error) {
	return c.stack.WriteAll(c.h, p)
}

// CloseWrite signals the peer that no more data follows.
func (c *Conn) CloseWrite() error {
	return c.stack.Shutdown(c.h, socket.ShutWrite)
}

// Shutdown disables both directions, which unblocks pending reads and
// writes. After Close it does nothing, so it never touches a handle number
// that has been released and reused.
func (c *Conn) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	return c.stack.Shutdown(c.h, socket.ShutBoth)
}

// Close releases the handle. Only the first call has an effect.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		c.stack.Close(c.h)
	}
	return nil
}
