// Package pipeio copies data between the local terminal and a connection.
package pipeio

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// halfCloser is implemented by connections that can signal the end of their
// outgoing data while still receiving, such as TCP connections.
type halfCloser interface {
	CloseWrite() error
}

// Pipe copies data in both directions between rwc1 and rwc2 until either
// side fails or ctx is done, then closes both. When one direction reaches a
// clean end of input and its destination supports CloseWrite, only the write
// half is closed and the other direction keeps running.
// Copy errors are reported to logfunc unless the pipe is already closing.
func Pipe(ctx context.Context, rwc1 io.ReadWriteCloser, rwc2 io.ReadWriteCloser, logfunc func(error)) {
	var (
		once      sync.Once
		closed    = make(chan struct{})
		remaining atomic.Int32
	)
	remaining.Store(2)

	closeBoth := func() {
		once.Do(func() {
			rwc1.Close()
			rwc2.Close()
			close(closed)
		})
	}

	forward := func(dst, src io.ReadWriteCloser, name string) {
		_, err := io.Copy(dst, src)
		if err != nil {
			select {
			case <-closed:
			default:
				logfunc(fmt.Errorf("%s: %w", name, err))
			}
		}

		if remaining.Add(-1) > 0 && err == nil {
			if hc, ok := dst.(halfCloser); ok && hc.CloseWrite() == nil {
				return
			}
		}
		closeBoth()
	}

	go forward(rwc1, rwc2, "io.Copy(rwc1, rwc2)")
	go forward(rwc2, rwc1, "io.Copy(rwc2, rwc1)")

	select {
	case <-closed:
	case <-ctx.Done():
		closeBoth()
	}
}
