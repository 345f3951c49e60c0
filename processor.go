package asyncrt

import "sync"

// Processor owns one ready queue of handles and is driven by exactly one
// ProcessorWorker goroutine: every handle submitted to a given Processor
// runs its steps on that one goroutine, giving callers predictable
// single-threaded execution per task stream. Submission and requeueing
// are safe from any goroutine; only the worker goroutine itself pops from
// the ready queue and calls into coroutine code.
type Processor struct {
	id    int
	exec  *Executor
	state *fastState

	mu    sync.Mutex
	cond  *sync.Cond
	ready handleQueue

	stepsPerTurn int

	latency *StepLatencyMetrics
	depth   QueueDepthMetrics
}

func newProcessor(id int, exec *Executor, stepsPerTurn int) *Processor {
	p := &Processor{
		id:           id,
		exec:         exec,
		state:        newFastState(),
		stepsPerTurn: stepsPerTurn,
		latency:      newStepLatencyMetrics(),
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Submit starts coro as a new handle owned by this Processor, returning
// the handle's id (stable for the life of the handle; used in log
// lines). Returns ErrProcessorStopped if
// the Processor is no longer accepting work.
func (p *Processor) Submit(coro Coroutine) (uint64, error) {
	if !p.state.CanAcceptWork() {
		return 0, ErrProcessorStopped
	}
	id := p.exec.nextHandleID()
	h := newHandle(handleID(id), p, coro)
	p.mu.Lock()
	p.ready.Push(h)
	depth := p.ready.Len()
	p.cond.Signal()
	p.mu.Unlock()
	p.depth.update(depth)
	return id, nil
}

// requeue puts an already-running handle back on the ready queue — used
// by sub-workers (timer, I/O, WaitList notify) to resume a parked handle,
// and by the worker loop itself for cooperative REPEAT/YIELD_TO
// rescheduling. Safe from any goroutine.
func (p *Processor) requeue(h *handle) {
	p.mu.Lock()
	p.ready.Push(h)
	depth := p.ready.Len()
	p.cond.Signal()
	p.mu.Unlock()
	p.depth.update(depth)
}

// Len reports the current ready-queue depth.
func (p *Processor) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready.Len()
}

// State reports the Processor's lifecycle state.
func (p *Processor) State() WorkerState {
	return p.state.Load()
}

// ProcessorStats is a point-in-time read of one Processor's metrics.
type ProcessorStats struct {
	ID      int
	State   WorkerState
	Queue   QueueDepthSnapshot
	Latency StepLatencySnapshot
}

// Stats reports the Processor's current metrics.
func (p *Processor) Stats() ProcessorStats {
	return ProcessorStats{
		ID:      p.id,
		State:   p.State(),
		Queue:   p.depth.Snapshot(),
		Latency: p.latency.Snapshot(),
	}
}

// stop requests shutdown: new Submits are refused, and the worker loop
// keeps running handles until the ready queue is empty, then exits.
// Idempotent.
func (p *Processor) stop() {
	p.mu.Lock()
	p.state.TransitionAny([]WorkerState{StateAwake, StateRunning, StateSleeping}, StateTerminating)
	p.cond.Broadcast()
	p.mu.Unlock()
}
