package tcp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"netsock/pkg/format"
	"netsock/pkg/log"
	"netsock/pkg/semaphore"
	"netsock/pkg/socket"
	"netsock/pkg/transport"
)

// pollInterval is how long a blocked accept waits before the loop checks
// for cancellation.
const pollInterval = 250 * time.Millisecond

// Options control how a listener serves connections.
type Options struct {
	// MaxConns limits concurrently handled connections. Zero means one.
	MaxConns int
	// Wait is how long a connection beyond MaxConns waits for a free slot
	// before it is closed. Zero closes it right away. While a connection
	// waits, no further connections are accepted.
	Wait time.Duration
	// Timeout bounds receives and sends on accepted connections.
	Timeout time.Duration
}

// Listener accepts stream connections on a listening socket.
type Listener struct {
	stack   *socket.Stack
	h       socket.Handle
	slots   *semaphore.Slots
	wait    time.Duration
	timeout time.Duration
	logger  *log.Logger
}

// NewListener binds and listens on ep.
func NewListener(ctx context.Context, stack *socket.Stack, ep socket.Endpoint, opts Options) (*Listener, error) {
	ep.Type = socket.TypeTCP

	h, err := stack.Listen(ctx, ep)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	if err := stack.SetTimeout(h, socket.Receive, int(pollInterval/time.Millisecond)); err != nil {
		stack.Close(h)
		return nil, fmt.Errorf("listen: %w", err)
	}

	maxConns := opts.MaxConns
	if maxConns <= 0 {
		maxConns = 1
	}

	return &Listener{
		stack:   stack,
		h:       h,
		slots:   semaphore.New(maxConns, opts.Wait),
		wait:    opts.Wait,
		timeout: opts.Timeout,
		logger:  stack.Logger(),
	}, nil
}

// Addr returns the numeric local host and port.
func (l *Listener) Addr() (host, port string, err error) {
	return l.stack.LocalAddr(l.h)
}

// Serve accepts connections until ctx is done and runs handle for each one
// in its own goroutine. On cancellation, running connections are shut down
// and Serve waits for their handlers to return.
func (l *Listener) Serve(ctx context.Context, handle transport.Handler) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		if ctx.Err() != nil {
			return nil
		}

		h, err := l.stack.Accept(l.h)
		if err != nil {
			if l.stack.IsTimeout(err) {
				continue
			}
			return fmt.Errorf("Accept(): %w", err)
		}

		if err := l.acquire(ctx); err != nil {
			l.stack.Close(h)
			if errors.Is(err, semaphore.ErrExhausted) {
				l.logger.WarnMsg("Closing new connection, %d connections active", l.slots.InUse())
				continue
			}
			return nil
		}

		// Accepted sockets inherit the listener's polling timeout.
		if err := setTimeouts(l.stack, h, l.timeout); err != nil {
			l.logger.ErrorMsg("New connection: %s", err)
			l.stack.Close(h)
			l.slots.Release()
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer l.slots.Release()

			conn := transport.NewConn(l.stack, h)
			defer conn.Close()

			stop := context.AfterFunc(ctx, func() {
				conn.Shutdown()
			})
			defer stop()

			l.logger.InfoMsg("New TCP connection (socket: %s)", h)
			if err := handle(conn); err != nil {
				l.logger.ErrorMsg("Handling connection: %s", err)
			}
		}()
	}
}

// acquire takes a connection slot. Without a wait it fails at once when all
// slots are taken.
func (l *Listener) acquire(ctx context.Context) error {
	if l.wait <= 0 {
		if !l.slots.TryAcquire() {
			return semaphore.ErrExhausted
		}
		return nil
	}
	return l.slots.Acquire(ctx)
}

// Close releases the listening socket.
func (l *Listener) Close() error {
	l.stack.Close(l.h)
	return nil
}

// ListenAndServe listens on ep and serves connections with handle until
// ctx is cancelled.
func ListenAndServe(ctx context.Context, stack *socket.Stack, ep socket.Endpoint, opts Options, handle transport.Handler) error {
	l, err := NewListener(ctx, stack, ep, opts)
	if err != nil {
		return err
	}
	defer l.Close()

	if host, port, err := l.Addr(); err == nil {
		l.logger.InfoMsg("Listening on %s", format.Addr(host, port))
	}

	return l.Serve(ctx, handle)
}
