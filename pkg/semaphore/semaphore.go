// Package semaphore bounds the number of connections handled at once.
package semaphore

import (
	"context"
	"errors"
	"time"
)

// ErrExhausted is returned by Acquire when no slot became free within the
// configured wait.
var ErrExhausted = errors.New("no free connection slot")

// Slots hands out a fixed number of slots. A nil *Slots is unbounded.
type Slots struct {
	free chan struct{}
	wait time.Duration
}

// New creates n free slots. Acquire gives up after wait; a wait of zero
// makes it block until the context is done.
func New(n int, wait time.Duration) *Slots {
	free := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		free <- struct{}{}
	}
	return &Slots{free: free, wait: wait}
}

// Acquire takes a slot, waiting for one to be released if necessary.
func (s *Slots) Acquire(ctx context.Context) error {
	if s == nil {
		return nil
	}

	if s.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.wait)
		defer cancel()
	}

	select {
	case <-s.free:
		return nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && s.wait > 0 {
			return ErrExhausted
		}
		return ctx.Err()
	}
}

// TryAcquire takes a slot if one is free right now.
func (s *Slots) TryAcquire() bool {
	if s == nil {
		return true
	}
	select {
	case <-s.free:
		return true
	default:
		return false
	}
}

// Release returns a slot taken by Acquire or TryAcquire.
func (s *Slots) Release() {
	if s == nil {
		return
	}
	s.free <- struct{}{}
}

// InUse reports how many slots are taken.
func (s *Slots) InUse() int {
	if s == nil {
		return 0
	}
	return cap(s.free) - len(s.free)
}
