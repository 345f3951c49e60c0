package asyncrt

import (
	"sync"
	"sync/atomic"

	"github.com/oatppgo/asyncrt/internal/ratelimit"
)

// Executor owns a fixed pool of Processors, the shared TimerWorker, and
// a pool of I/O Foremen (ioForeman), and is the entry point for submitting top-level
// coroutines. One Executor corresponds to one oatpp AsyncExecutor: sizing
// and lifecycle live here, the actual step execution lives on Processor.
type Executor struct {
	cfg *executorConfig

	processors []*Processor
	workers    []*ProcessorWorker
	timer      *TimerWorker
	ioWorkers  []*ioForeman
	limiter    *ratelimit.Limiter
	logger     *Logger

	nextID   atomic.Uint64
	next     atomic.Uint64 // round-robin cursor over processors
	finished atomic.Uint64

	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewExecutor constructs and starts an Executor: every Processor,
// ProcessorWorker, the TimerWorker, and both sub-workers of every I/O
// Foreman are running goroutines by the time this returns.
func NewExecutor(opts ...Option) *Executor {
	cfg := resolveOptions(opts)
	exec := &Executor{
		cfg:     cfg,
		logger:  cfg.logger,
		limiter: ratelimit.New(5, 60),
	}

	exec.processors = make([]*Processor, cfg.processors)
	exec.workers = make([]*ProcessorWorker, cfg.processors)
	for i := range exec.processors {
		p := newProcessor(i, exec, cfg.stepsPerTurn)
		w := newProcessorWorker(p)
		exec.processors[i] = p
		exec.workers[i] = w
	}

	exec.timer = newTimerWorker()

	ioWorkerCount := cfg.ioWorkers
	if ioWorkerCount <= 0 {
		ioWorkerCount = cfg.processors / 2
		if ioWorkerCount < 1 {
			ioWorkerCount = 1
		}
	}
	exec.ioWorkers = make([]*ioForeman, ioWorkerCount)
	for i := range exec.ioWorkers {
		exec.ioWorkers[i] = newIOForeman(exec)
	}

	exec.wg.Add(len(exec.workers) + 1)
	for _, w := range exec.workers {
		w := w
		go func() {
			defer exec.wg.Done()
			w.run()
		}()
	}
	go func() {
		defer exec.wg.Done()
		exec.timer.run()
	}()
	for _, f := range exec.ioWorkers {
		exec.startIOWorkerGoroutine(f.read)
		exec.startIOWorkerGoroutine(f.write)
	}

	exec.logger.Info().
		Int(`processors`, cfg.processors).
		Int(`io_workers`, len(exec.ioWorkers)).
		Log(`executor started`)
	return exec
}

// startIOWorkerGoroutine starts w's run loop if it has one (pollerIOWorker
// and naiveIOWorker both do); the wg.Add happens here so callers don't
// have to know which concrete type they're holding.
func (exec *Executor) startIOWorkerGoroutine(w ioEventWorker) {
	switch w := w.(type) {
	case *pollerIOWorker:
		exec.wg.Add(1)
		go func() {
			defer exec.wg.Done()
			w.run()
		}()
	case *naiveIOWorker:
		exec.wg.Add(1)
		go func() {
			defer exec.wg.Done()
			w.run()
		}()
	}
}

// newIOWorkerInstance constructs one sub-worker for an ioForeman, per
// cfg.ioWorkerType: IOWorkerNaive always returns the portable fallback;
// IOWorkerEventDriven requires the platform poller and panics if it
// can't be constructed; IOWorkerAuto (default) tries the poller and
// falls back to naive on failure (always true on the stub platform; see
// poller_stub.go).
func (exec *Executor) newIOWorkerInstance() ioEventWorker {
	if exec.cfg.ioWorkerType == IOWorkerNaive {
		return newNaiveIOWorker(exec.cfg.naiveIOInterval)
	}
	w, err := newPollerIOWorker(exec)
	if err != nil {
		if exec.cfg.ioWorkerType == IOWorkerEventDriven {
			panicInvariantf("asyncrt: IOWorkerEventDriven requested but the platform poller could not be constructed: %v", err)
		}
		if exec.limiter.Allow(`io_worker_fallback`) {
			exec.logger.Warning().
				Err(err).
				Log(`native poller unavailable, falling back to naive IO worker`)
		}
		return newNaiveIOWorker(exec.cfg.naiveIOInterval)
	}
	return w
}

func (exec *Executor) nextHandleID() uint64 {
	return exec.nextID.Add(1)
}

func (exec *Executor) timerWorker() *TimerWorker { return exec.timer }

// ioWorkerFor shards fd across the Executor's ioForeman pool: every
// registration/abort for the same fd always lands on the same Foreman,
// regardless of direction, so a read waiter and a write waiter on one fd
// still end up routed (by the Foreman, by direction) to two distinct
// sub-workers rather than two distinct Foremen racing each other.
func (exec *Executor) ioWorkerFor(fd int) *ioForeman {
	n := len(exec.ioWorkers)
	if n == 0 {
		panicInvariant("asyncrt: Executor has no IO workers")
	}
	idx := fd % n
	if idx < 0 {
		idx += n
	}
	return exec.ioWorkers[idx]
}

// onHandleFinished is called by Processor.route on ActionFinish reaching
// the root frame. Its only runtime duty is bookkeeping (the finished
// count exposed via Stats); a coroutine that needs to report its result
// to the outside world does so itself, via a Promise it holds and
// settles from its own final step.
func (exec *Executor) onHandleFinished(h *handle) {
	exec.finished.Add(1)
	if err := h.Err(); err != nil {
		exec.logger.Debug().
			Uint64(`handle`, uint64(h.id)).
			Err(err).
			Log(`coroutine finished with error`)
	}
}

// Submit starts coro on whichever Processor the Executor assigns next
// (simple round-robin; the original has no affinity requirement beyond
// "every handle is pinned to the Processor it started on"). Returns the
// new handle's id.
func (exec *Executor) Submit(coro Coroutine) (uint64, error) {
	n := uint64(len(exec.processors))
	if n == 0 {
		panicInvariant("asyncrt: Executor has no processors")
	}
	idx := exec.next.Add(1) % n
	return exec.processors[idx].Submit(coro)
}

// SubmitTo starts coro on a specific Processor, identified by index
// (0-based, < the WithProcessors count). Use this when a caller needs
// affinity between related coroutines (e.g. all steps of one connection
// pinned to the same Processor for lock-free access to connection state).
func (exec *Executor) SubmitTo(idx int, coro Coroutine) (uint64, error) {
	if idx < 0 || idx >= len(exec.processors) {
		panicInvariantf("asyncrt: SubmitTo index %d out of range [0,%d)", idx, len(exec.processors))
	}
	return exec.processors[idx].Submit(coro)
}

// Abort makes a best-effort attempt to drop a handle parked in the naive
// I/O worker's wait set without resuming it. It has no effect when the
// Executor is using a native poller (epoll/kqueue), since there is no
// safe way to cancel a one-shot registration from outside the worker
// goroutine without risking a use-after-free on a concurrently-firing
// event; this mirrors the original's restriction of Abort to the naive
// worker. Tries both the read and write sub-workers of fd's Foreman,
// since the caller doesn't know which direction (if either) fd was
// parked on.
func (exec *Executor) Abort(fd int) {
	exec.ioWorkerFor(fd).abort(fd)
}

// ExecutorStats is a point-in-time read of an Executor's metrics.
type ExecutorStats struct {
	Finished   uint64
	Processors []ProcessorStats
}

// Stats reports current Executor-wide metrics.
func (exec *Executor) Stats() ExecutorStats {
	stats := ExecutorStats{
		Finished:   exec.finished.Load(),
		Processors: make([]ProcessorStats, len(exec.processors)),
	}
	for i, p := range exec.processors {
		stats.Processors[i] = p.Stats()
	}
	return stats
}

// Stop requests every Processor, the TimerWorker, and every I/O Foreman to
// shut down, and blocks until all of their goroutines have exited.
// Idempotent; safe to call more than once.
func (exec *Executor) Stop() {
	exec.stopOnce.Do(func() {
		for _, p := range exec.processors {
			p.stop()
		}
		exec.timer.stop()
		for _, f := range exec.ioWorkers {
			f.stop()
		}
		exec.wg.Wait()
		exec.logger.Info().Log(`executor stopped`)
	})
}
