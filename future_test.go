package asyncrt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPromiseSettlesOnce(t *testing.T) {
	p := NewPromise[int]()
	require.NoError(t, p.SetValue(42))
	require.ErrorIs(t, p.SetValue(7), ErrFutureAlreadySettled)
	require.ErrorIs(t, p.SetError(errBoom), ErrFutureAlreadySettled)

	v, err, ready := p.Future().Poll()
	require.True(t, ready)
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestFutureGetBlocksUntilSettledFromAnotherGoroutine(t *testing.T) {
	p := NewPromise[string]()
	go func() {
		time.Sleep(10 * time.Millisecond)
		require.NoError(t, p.SetValue("done"))
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	v, err := p.Future().Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "done", v)
}

func TestFutureGetRespectsContextCancellation(t *testing.T) {
	p := NewPromise[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Future().Get(ctx)
	require.ErrorIs(t, err, context.Canceled)
	_ = p
}

// futureWaiter parks on a Future via WaitAction, re-checking Poll on each
// resumption, exactly as the doc comment on Future.WaitAction prescribes.
type futureWaiter struct {
	fut Future[int]
	got int
	err error
}

func (w *futureWaiter) Act() Action {
	if v, err, ready := w.fut.Poll(); ready {
		if err != nil {
			return Error(err)
		}
		w.got = v
		return Finish()
	}
	return w.fut.WaitAction()
}

func TestFutureWaitActionResumesOnSettle(t *testing.T) {
	promise := NewPromise[int]()
	waiter := &futureWaiter{fut: promise.Future()}
	p := newProcessor(0, nil, 1)
	h := newHandle(1, p, waiter)

	action := h.runStep()
	require.Equal(t, ActionWaitList, action.Kind())
	p.route(h, action)
	require.Equal(t, 1, action.wl.Len())

	require.NoError(t, promise.SetValue(99))
	require.Equal(t, 0, action.wl.Len())

	popped, ok := p.ready.Pop()
	require.True(t, ok)
	require.Same(t, h, popped)

	action = h.runStep()
	require.Equal(t, ActionFinish, action.Kind())
	require.True(t, h.Done())
	require.Equal(t, 99, waiter.got)
}

// futureErrRoot intercepts the Error Action a futureWaiter produces once
// its future settles with an error.
type futureErrRoot struct {
	waiter      *futureWaiter
	intercepted error
}

func (r *futureErrRoot) Act() Action { return StartChild(r.waiter) }

func (r *futureErrRoot) HandleError(err error) Action {
	r.intercepted = err
	return Finish()
}

func TestFutureWaitActionPropagatesError(t *testing.T) {
	promise := NewPromise[int]()
	waiter := &futureWaiter{fut: promise.Future()}
	root := &futureErrRoot{waiter: waiter}
	p := newProcessor(0, nil, 1)
	h := newHandle(1, p, root)

	require.Equal(t, ActionRepeat, h.runStep().Kind()) // links child

	action := h.runStep() // child's Act parks
	require.Equal(t, ActionWaitList, action.Kind())
	p.route(h, action)

	wantErr := errors.New("upstream failed")
	require.NoError(t, promise.SetError(wantErr))

	popped, ok := p.ready.Pop()
	require.True(t, ok)
	require.Same(t, h, popped)

	action = h.runStep() // child observes the error and returns Error; parent intercepts
	require.Equal(t, ActionFinish, action.Kind())
	require.True(t, h.Done())
	require.NoError(t, h.Err())
	require.ErrorIs(t, root.intercepted, wantErr)
}

func TestFutureWaitActionSkipsParkIfAlreadySettled(t *testing.T) {
	promise := NewPromise[int]()
	require.NoError(t, promise.SetValue(5))
	require.Equal(t, ActionRepeat, promise.Future().WaitAction().Kind())
	require.Equal(t, 0, promise.s.wl.Len())
	waiter := &futureWaiter{fut: promise.Future()}
	h := newHandle(1, nil, waiter)

	action := h.runStep()
	require.Equal(t, ActionFinish, action.Kind())
	require.Equal(t, 5, waiter.got)
}
