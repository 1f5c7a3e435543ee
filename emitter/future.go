package emitter

import (
	"context"
	"sync"
)

// Future is a value that becomes available once. It settles either with a value
// or with an error, and never changes afterwards.
type Future[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved returns a Future already settled with v.
func Resolved[T any](v T) *Future[T] {
	f := newFuture[T]()
	f.settle(v, nil)

	return f
}

// Rejected returns a Future already settled with err.
func Rejected[T any](err error) *Future[T] {
	var zero T

	f := newFuture[T]()
	f.settle(zero, err)

	return f
}

// settle reports whether this call was the one that settled the Future.
func (f *Future[T]) settle(v T, err error) bool {
	settled := false

	f.once.Do(func() {
		f.value = v
		f.err = err
		settled = true
		close(f.done)
	})

	return settled
}

// Done is closed when the Future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the Future settles or ctx is done.
// Giving up on ctx does not settle the Future.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

