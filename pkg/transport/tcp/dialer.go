// Package tcp dials and serves stream connections over the socket layer.
package tcp

import (
	"context"
	"fmt"
	"time"

	"netsock/pkg/format"
	"netsock/pkg/socket"
	"netsock/pkg/transport"
)

// Dialer connects to a fixed remote endpoint.
type Dialer struct {
	stack   *socket.Stack
	ep      socket.Endpoint
	timeout time.Duration
}

// NewDialer creates a dialer for ep. A non-zero timeout bounds every
// receive and send on the resulting connections.
func NewDialer(stack *socket.Stack, ep socket.Endpoint, timeout time.Duration) *Dialer {
	return &Dialer{stack: stack, ep: ep, timeout: timeout}
}

// Dial connects to the configured endpoint.
func (d *Dialer) Dial(ctx context.Context) (*transport.Conn, error) {
	h, err := d.stack.Connect(ctx, d.ep)
	if err != nil {
		return nil, fmt.Errorf("connect(%s): %w", format.Addr(d.ep.Host, d.ep.Service), err)
	}

	if err := setTimeouts(d.stack, h, d.timeout); err != nil {
		d.stack.Close(h)
		return nil, err
	}

	return transport.NewConn(d.stack, h), nil
}

// Dial connects a stream socket to (host, port).
func Dial(ctx context.Context, stack *socket.Stack, host, port string, family socket.Family, timeout time.Duration) (*transport.Conn, error) {
	ep := socket.Endpoint{
		Host:    host,
		Service: port,
		Family:  family,
		Type:    socket.TypeTCP,
	}
	return NewDialer(stack, ep, timeout).Dial(ctx)
}

func setTimeouts(stack *socket.Stack, h socket.Handle, timeout time.Duration) error {
	ms := int(timeout / time.Millisecond)
	for _, dir := range []socket.Direction{socket.Receive, socket.Send} {
		if err := stack.SetTimeout(h, dir, ms); err != nil {
			return fmt.Errorf("setting timeout: %w", err)
		}
	}
	return nil
}
