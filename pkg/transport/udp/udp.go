// Package udp exchanges datagrams over the socket layer.
package udp

import (
	"context"
	"fmt"
	"time"

	"netsock/pkg/format"
	"netsock/pkg/socket"
)

// MaxDatagram is the largest payload a UDP datagram can carry.
const MaxDatagram = 65535

const pollInterval = 250 * time.Millisecond

// DatagramHandler processes one received datagram. payload is only valid
// until the handler returns.
type DatagramHandler func(payload []byte, host, service string) error

// Serve binds ep and calls handle for every datagram received until ctx is
// done or handle returns an error.
func Serve(ctx context.Context, stack *socket.Stack, ep socket.Endpoint, handle DatagramHandler) error {
	ep.Type = socket.TypeUDP

	h, err := stack.Listen(ctx, ep)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer stack.Close(h)

	if host, port, err := stack.LocalAddr(h); err == nil {
		stack.Logger().InfoMsg("Receiving datagrams on %s", format.Addr(host, port))
	}

	return ServeHandle(ctx, stack, h, handle)
}

// ServeHandle runs the receive loop of Serve on an already bound socket.
// It changes the socket's receive timeout.
func ServeHandle(ctx context.Context, stack *socket.Stack, h socket.Handle, handle DatagramHandler) error {
	if err := stack.SetTimeout(h, socket.Receive, int(pollInterval/time.Millisecond)); err != nil {
		return err
	}

	buf := make([]byte, MaxDatagram)
	for {
		if ctx.Err() != nil {
			return nil
		}

		n, host, service, err := stack.RecvFrom(h, buf)
		if err != nil {
			if stack.IsTimeout(err) {
				continue
			}
			return fmt.Errorf("RecvFrom(): %w", err)
		}

		if err := handle(buf[:n], host, service); err != nil {
			return err
		}
	}
}

// Sender sends datagrams to a fixed destination from an ephemeral local
// port in the destination's address family.
type Sender struct {
	stack   *socket.Stack
	h       socket.Handle
	host    string
	service string
}

// NewSender resolves (host, service) to pick the local address family and
// binds a socket for sending.
func NewSender(ctx context.Context, stack *socket.Stack, host, service string, family socket.Family) (*Sender, error) {
	cands, err := stack.Resolve(ctx, socket.Endpoint{
		Host:    host,
		Service: service,
		Family:  family,
		Type:    socket.TypeUDP,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}

	h, err := stack.Bind(ctx, socket.Endpoint{
		Service: "0",
		Family:  cands[0].Family,
		Type:    socket.TypeUDP,
	})
	if err != nil {
		return nil, fmt.Errorf("bind: %w", err)
	}

	return &Sender{stack: stack, h: h, host: host, service: service}, nil
}

// Send sends p as one datagram.
func (s *Sender) Send(ctx context.Context, p []byte) (int, error) {
	return s.stack.SendTo(ctx, s.h, p, s.host, s.service)
}

// Handle returns the sending socket, for example to receive replies.
func (s *Sender) Handle() socket.Handle {
	return s.h
}

// Close releases the sending socket.
func (s *Sender) Close() error {
	s.stack.Close(s.h)
	return nil
}
