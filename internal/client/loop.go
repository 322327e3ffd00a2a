package client

import (
	"context"
	"errors"
)

// ErrLoopStopped is returned when posting to a loop that is no longer running.
var ErrLoopStopped = errors.New("event loop stopped")

// Loop runs callbacks one at a time, in the order they were posted.
// Everything that touches the page tree runs on it.
type Loop struct {
	tasks   chan func()
	stopped chan struct{}
}

// NewLoop creates a loop; call Run to start processing.
func NewLoop() *Loop {
	return &Loop{
		tasks:   make(chan func(), 64),
		stopped: make(chan struct{}),
	}
}

// Run processes callbacks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.stopped)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Post queues fn without waiting for it to run.
func (l *Loop) Post(ctx context.Context, fn func()) error {
	select {
	case <-l.stopped:
		return ErrLoopStopped
	default:
	}
	select {
	case l.tasks <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopped:
		return ErrLoopStopped
	}
}

// Do queues fn and waits until it has run. Must not be called from the loop itself.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if err := l.Post(ctx, func() {
		defer close(done)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopped:
		return ErrLoopStopped
	}
}
