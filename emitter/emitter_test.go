package emitter_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"github.com/shortlink-org/smartapp-bridge/emitter"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func wait[T any](t *testing.T, f *emitter.Future[T]) (T, error) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	return f.Wait(ctx)
}

func TestOnceWithTimeoutResolves(t *testing.T) {
	e := emitter.New[string](nil)

	f := e.OnceWithTimeout("ref-1", time.Second)
	require.Equal(t, 1, e.Pending("ref-1"))

	assert.Equal(t, 1, e.Emit("ref-1", "pong"))

	got, err := wait(t, f)
	require.NoError(t, err)
	assert.Equal(t, "pong", got)
	assert.Zero(t, e.Pending("ref-1"))
}

func TestOnceWithTimeoutIsExclusive(t *testing.T) {
	e := emitter.New[string](nil)

	f := e.OnceWithTimeout("ref-1", time.Second)
	e.Emit("ref-1", "first")

	// nobody listens any more
	assert.Zero(t, e.Emit("ref-1", "second"))

	got, err := wait(t, f)
	require.NoError(t, err)
	assert.Equal(t, "first", got)
}

func TestOnceWithTimeoutRejects(t *testing.T) {
	e := emitter.New[string](nil)

	start := time.Now()
	f := e.OnceWithTimeout("ref-1", 50*time.Millisecond)

	_, err := wait(t, f)
	require.ErrorIs(t, err, emitter.ErrTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.Zero(t, e.Pending("ref-1"))
}

func TestEmitAfterTimeoutIsNoop(t *testing.T) {
	e := emitter.New[string](nil)

	f := e.OnceWithTimeout("ref-1", 10*time.Millisecond)

	_, err := wait(t, f)
	require.ErrorIs(t, err, emitter.ErrTimeout)

	require.NotPanics(t, func() {
		assert.Zero(t, e.Emit("ref-1", "late"))
	})

	_, err = f.Wait(context.Background())
	require.ErrorIs(t, err, emitter.ErrTimeout)
}

func TestEmitBeforeTimeoutStopsTimer(t *testing.T) {
	e := emitter.New[int](nil)

	f := e.OnceWithTimeout("ref-1", 30*time.Millisecond)
	e.Emit("ref-1", 7)

	time.Sleep(60 * time.Millisecond)

	got, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestOnIsPersistent(t *testing.T) {
	e := emitter.New[string](nil)

	var received []string

	e.On("recv", func(v string) { received = append(received, v) })

	e.Emit("recv", "a")
	e.Emit("recv", "b")

	assert.Equal(t, []string{"a", "b"}, received)
}

func TestPanickingSubscriberDoesNotStopFanOut(t *testing.T) {
	e := emitter.New[string](nil)

	calls := 0

	e.On("recv", func(string) { panic("boom") })
	e.On("recv", func(string) { calls++ })

	require.NotPanics(t, func() {
		assert.Equal(t, 2, e.Emit("recv", "x"))
	})
	assert.Equal(t, 1, calls)
}

func TestWaitHonoursContext(t *testing.T) {
	e := emitter.New[string](nil)

	f := e.OnceWithTimeout("ref-1", time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Wait(ctx)
	require.ErrorIs(t, err, context.Canceled)

	// abandoning the wait leaves the listener in place
	assert.Equal(t, 1, e.Pending("ref-1"))
	e.Emit("ref-1", "still delivered")

	got, err := wait(t, f)
	require.NoError(t, err)
	assert.Equal(t, "still delivered", got)
}

func TestSettledFutures(t *testing.T) {
	got, err := emitter.Resolved(3).Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	boom := errors.New("boom")
	_, err = emitter.Rejected[int](boom).Wait(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestConcurrentKeys(t *testing.T) {
	e := emitter.New[int](nil)

	const n = 64

	futures := make([]*emitter.Future[int], n)
	for i := range n {
		futures[i] = e.OnceWithTimeout(key(i), time.Second)
	}

	var g errgroup.Group

	// answers arrive out of order
	for i := n - 1; i >= 0; i-- {
		g.Go(func() error {
			e.Emit(key(i), i)
			return nil
		})
	}

	require.NoError(t, g.Wait())

	for i, f := range futures {
		got, err := wait(t, f)
		require.NoError(t, err)
		assert.Equal(t, i, got)
	}
}

func TestRaceEmitAgainstTimer(t *testing.T) {
	e := emitter.New[int](nil)

	var wg sync.WaitGroup

	for i := range 200 {
		f := e.OnceWithTimeout(key(i), time.Millisecond)

		wg.Add(1)

		go func() {
			defer wg.Done()

			time.Sleep(time.Millisecond)
			e.Emit(key(i), i)
		}()

		got, err := wait(t, f)
		if err != nil {
			require.ErrorIs(t, err, emitter.ErrTimeout)
			continue
		}

		assert.Equal(t, i, got)
	}

	wg.Wait()
}

func key(i int) string {
	return "ref-" + strconv.Itoa(i)
}

func TestOnExpire(t *testing.T) {
	expired := make(chan string, 1)

	e := emitter.New[string](nil, emitter.OnExpire(func(key string) { expired <- key }))

	f := e.OnceWithTimeout("ref-1", 10*time.Millisecond)

	_, err := wait(t, f)
	require.ErrorIs(t, err, emitter.ErrTimeout)

	select {
	case key := <-expired:
		assert.Equal(t, "ref-1", key)
	case <-time.After(time.Second):
		t.Fatal("expire hook was not called")
	}

	// answered listeners never expire
	e.OnceWithTimeout("ref-2", 10*time.Millisecond)
	e.Emit("ref-2", "ok")
	time.Sleep(30 * time.Millisecond)

	assert.Empty(t, expired)
}
