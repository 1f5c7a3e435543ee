/*
Package emitter is a publish/subscribe primitive keyed by opaque strings.

Besides persistent subscriptions it offers a one-shot subscription bounded by a timeout,
which is how the bridge waits for the answer to a single request.
*/
package emitter

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shortlink-org/smartapp-bridge/logger"
)

type onceListener[T any] struct {
	future *Future[T]
	timer  *time.Timer
}

// Emitter fans values out to subscribers of a key.
type Emitter[T any] struct {
	log      logger.Logger
	onExpire func(key string)

	mu         sync.Mutex
	persistent map[string][]func(T)
	once       map[string][]*onceListener[T]
}

// New creates an Emitter; log receives recovered subscriber panics.
func New[T any](log logger.Logger, opts ...Option) *Emitter[T] {
	if log == nil {
		log = logger.NewNop()
	}

	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	return &Emitter[T]{
		log:        log,
		onExpire:   s.onExpire,
		persistent: map[string][]func(T){},
		once:       map[string][]*onceListener[T]{},
	}
}

// On subscribes fn to every future emission of key.
func (e *Emitter[T]) On(key string, fn func(T)) {
	if fn == nil {
		return
	}

	e.mu.Lock()
	e.persistent[key] = append(e.persistent[key], fn)
	e.mu.Unlock()
}

// OnceWithTimeout returns a Future settled by the next emission of key,
// or rejected with ErrTimeout when nothing is emitted within timeout.
// Whichever happens first wins, the other one is a no-op.
func (e *Emitter[T]) OnceWithTimeout(key string, timeout time.Duration) *Future[T] {
	listener := &onceListener[T]{future: newFuture[T]()}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.once[key] = append(e.once[key], listener)
	listener.timer = time.AfterFunc(timeout, func() {
		e.expire(key, listener)
	})

	return listener.future
}

func (e *Emitter[T]) expire(key string, listener *onceListener[T]) {
	e.mu.Lock()
	removed := e.removeOnce(key, listener)
	e.mu.Unlock()

	// the listener is gone when an emission won the race
	if !removed {
		return
	}

	if e.onExpire != nil {
		e.onExpire(key)
	}

	var zero T
	listener.future.settle(zero, ErrTimeout)
}

// removeOnce must be called with mu held.
func (e *Emitter[T]) removeOnce(key string, listener *onceListener[T]) bool {
	listeners := e.once[key]

	for i, l := range listeners {
		if l != listener {
			continue
		}

		listeners = append(listeners[:i], listeners[i+1:]...)
		if len(listeners) == 0 {
			delete(e.once, key)
		} else {
			e.once[key] = listeners
		}

		return true
	}

	return false
}

// Pending reports how many one-shot listeners wait for key.
func (e *Emitter[T]) Pending(key string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.once[key])
}

// Emit delivers v to every subscriber of key and returns how many were reached.
// One-shot listeners are detached and their timers stopped before any callback runs.
// A panicking subscriber is logged and does not stop the others.
func (e *Emitter[T]) Emit(key string, v T) int {
	e.mu.Lock()
	listeners := e.once[key]
	delete(e.once, key)

	for _, l := range listeners {
		l.timer.Stop()
	}

	subscribers := append([]func(T){}, e.persistent[key]...)
	e.mu.Unlock()

	for _, l := range listeners {
		l.future.settle(v, nil)
	}

	for _, fn := range subscribers {
		e.call(key, fn, v)
	}

	return len(listeners) + len(subscribers)
}

func (e *Emitter[T]) call(key string, fn func(T), v T) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("emitter: subscriber panicked",
				slog.String("key", key),
				slog.String("panic", fmt.Sprint(r)),
			)
		}
	}()

	fn(v)
}
