package asyncrt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// delayedFinish waits at least d before finishing, recording the wall
// time elapsed since it first ran.
type delayedFinish struct {
	d       time.Duration
	start   time.Time
	elapsed time.Duration
	waited  bool
	done    chan struct{}
}

func (c *delayedFinish) Act() Action {
	if !c.waited {
		c.start = time.Now()
		c.waited = true
		return WaitRepeat(c.d)
	}
	c.elapsed = time.Since(c.start)
	close(c.done)
	return Finish()
}

func TestExecutorWaitRepeatHonorsDuration(t *testing.T) {
	exec := NewExecutor(WithProcessors(1))
	defer exec.Stop()

	const d = 50 * time.Millisecond
	c := &delayedFinish{d: d, done: make(chan struct{})}
	_, err := exec.Submit(c)
	require.NoError(t, err)

	select {
	case <-c.done:
	case <-time.After(5 * time.Second):
		t.Fatal("coroutine did not resume after its timer fired")
	}
	require.GreaterOrEqual(t, c.elapsed, d)
}

func TestTimerWorkerSchedulesInDeadlineOrder(t *testing.T) {
	w := newTimerWorker()
	go w.run()
	defer w.stop()

	p := newProcessor(0, nil, 1)
	hLate := newHandle(1, p, &finishCoroutine{})
	hEarly := newHandle(2, p, &finishCoroutine{})

	now := time.Now()
	w.schedule(hLate, p, now.Add(100*time.Millisecond))
	w.schedule(hEarly, p, now.Add(20*time.Millisecond))

	first := popWithin(t, p, time.Second)
	require.Same(t, hEarly, first)
	second := popWithin(t, p, time.Second)
	require.Same(t, hLate, second)
}

func popWithin(t *testing.T, p *Processor, timeout time.Duration) *handle {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		p.mu.Lock()
		h, ok := p.ready.Pop()
		p.mu.Unlock()
		if ok {
			return h
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for a handle to be requeued")
	return nil
}
