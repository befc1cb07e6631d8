package socket

import (
	"context"
	"fmt"
)

// Startup initializes the platform socket library. It is required before
// any other call on Windows and does nothing elsewhere.
func (s *Stack) Startup() error {
	if err := s.sys.startup(); err != nil {
		return fmt.Errorf("socket startup: %w", err)
	}
	return nil
}

// Cleanup releases the platform socket library once all handles are closed.
func (s *Stack) Cleanup() error {
	if err := s.sys.cleanup(); err != nil {
		return fmt.Errorf("socket cleanup: %w", err)
	}
	return nil
}

// Shutdown disables receiving, sending or both on h without releasing it.
func (s *Stack) Shutdown(h Handle, how How) error {
	if how != ShutRead && how != ShutWrite && how != ShutBoth {
		return invalidArgument("shutdown", "unknown mode %d", int(how))
	}
	if err := s.sys.shutdown(h, how); err != nil {
		return newError(ErrShutdown, "shutdown", err)
	}
	return nil
}

// Close shuts h down in both directions and releases it. Failures are only
// logged. Closing Invalid does nothing; closing a handle twice is undefined.
func (s *Stack) Close(h Handle) {
	if !h.Valid() {
		return
	}

	// Unconnected and listening sockets cannot be shut down.
	if err := s.sys.shutdown(h, ShutBoth); err != nil {
		s.logger.VerboseMsg("shutdown %s: %s", h, err)
	}
	if err := s.sys.close(h); err != nil {
		s.logger.ErrorMsg("close %s: %s", h, err)
		return
	}
	s.logger.TraceMsg("close %s", h)
}

// Startup initializes the platform socket library. See Stack.Startup.
func Startup() error {
	return defaultStack.Startup()
}

// Cleanup releases the platform socket library. See Stack.Cleanup.
func Cleanup() error {
	return defaultStack.Cleanup()
}

// Shutdown disables one or both directions of h. See Stack.Shutdown.
func Shutdown(h Handle, how How) error {
	return defaultStack.Shutdown(h, how)
}

// Recv performs one receive on a connected socket. See Stack.Recv.
func Recv(h Handle, buf []byte) (int, error) {
	return defaultStack.Recv(h, buf)
}

// Bind binds a socket without listening. See Stack.Bind.
func Bind(ctx context.Context, ep Endpoint) (Handle, error) {
	return defaultStack.Bind(ctx, ep)
}
