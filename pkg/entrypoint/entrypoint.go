// Package entrypoint implements the netsock commands: connect, listen, send
// and recv. Each exported function runs one command until it completes or
// its context is cancelled.
package entrypoint

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"netsock/pkg/config"
	"netsock/pkg/log"
	"netsock/pkg/socket"
	"netsock/pkg/transport"
	"netsock/pkg/transport/tcp"
)

// newStack builds the socket stack for a command: the command's logger and
// the configured resolver.
func newStack(cfg *config.Shared) *socket.Stack {
	return socket.New(
		socket.WithLogger(cfg.Logger),
		socket.WithResolver(socket.NewResolver(cfg.ResolveConfig())),
	)
}

// dialFunc opens the connection used by connect.
type dialFunc func(ctx context.Context, stack *socket.Stack, cfg *config.Shared) (io.ReadWriteCloser, error)

// realDial connects a stream socket, or a datagram socket with a default
// peer for UDP.
func realDial(ctx context.Context, stack *socket.Stack, cfg *config.Shared) (io.ReadWriteCloser, error) {
	if cfg.Protocol == config.ProtoUDP {
		h, err := stack.Connect(ctx, cfg.Endpoint())
		if err != nil {
			return nil, err
		}
		ms := int(cfg.Timeout / time.Millisecond)
		for _, dir := range []socket.Direction{socket.Receive, socket.Send} {
			if err := stack.SetTimeout(h, dir, ms); err != nil {
				stack.Close(h)
				return nil, err
			}
		}
		return transport.NewConn(stack, h), nil
	}

	conn, err := tcp.Dial(ctx, stack, cfg.Host, cfg.Service(), cfg.Family(), cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// withTranscript tees conn into the session transcript if one is configured.
func withTranscript(cfg *config.Shared, conn io.ReadWriteCloser) (io.ReadWriteCloser, error) {
	if cfg.Transcript == "" {
		return conn, nil
	}
	return log.NewLoggedConn(conn, cfg.Transcript)
}

// isInteractive reports whether r is a terminal.
func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// lockedWriter serializes writes from concurrent connection handlers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
