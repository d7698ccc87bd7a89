package wire

import (
	"context"
	"errors"
	"sync"
)

// Outcome is a single-assignment result cell.
// Several concurrent waiters (the read loop, the deadline watcher) may try to settle it,
// only the first one wins. The cleanup function runs exactly once, on the winning path.
type Outcome[T any] struct {
	value   T
	err     error
	cleanup func()
	done    chan struct{}
	once    sync.Once
}

// NewOutcome returns a pending Outcome. cleanup may be nil.
func NewOutcome[T any](cleanup func()) *Outcome[T] {
	return &Outcome[T]{
		cleanup: cleanup,
		done:    make(chan struct{}),
	}
}

// Settle commits value and err if the outcome is still pending.
// It reports whether this call performed the terminal transition.
func (o *Outcome[T]) Settle(value T, err error) bool {
	settled := false
	o.once.Do(func() {
		o.value = value
		o.err = err
		settled = true
		if o.cleanup != nil {
			o.cleanup()
		}
		close(o.done)
	})

	return settled
}

// Fail settles the outcome with err and the zero value.
func (o *Outcome[T]) Fail(err error) bool {
	var zero T
	return o.Settle(zero, err)
}

// Done is closed once the outcome is settled.
func (o *Outcome[T]) Done() <-chan struct{} {
	return o.done
}

// Wait blocks until the outcome is settled and returns it.
func (o *Outcome[T]) Wait() (T, error) {
	<-o.done
	return o.value, o.err
}

// Expire starts a watcher that fails the outcome when ctx is done before it settles.
// A deadline is reported as ErrTimeout, any other cancellation as the context error.
func (o *Outcome[T]) Expire(ctx context.Context) {
	go func() {
		select {
		case <-o.done:
		case <-ctx.Done():
			err := ctx.Err()
			if errors.Is(err, context.DeadlineExceeded) {
				err = ErrTimeout
			}
			o.Fail(err)
		}
	}()
}
