package asyncrt

import (
	"sync/atomic"
)

// WorkerState represents the current lifecycle state of a Processor (and
// of the ProcessorWorker goroutine driving it).
//
// State Machine:
//
//	StateAwake (0) → StateRunning (3)        [Run()]
//	StateRunning (3) → StateSleeping (2)     [blocking wait via CAS]
//	StateRunning (3) → StateTerminating (4)  [Stop()]
//	StateSleeping (2) → StateRunning (3)     [wake via CAS]
//	StateSleeping (2) → StateTerminating (4) [Stop()]
//	StateTerminating (4) → StateTerminated (1) [shutdown complete]
//	StateTerminated (1) → (terminal)
//
// State Transition Rules:
//   - Use TryTransition() (CAS) for temporary states (Running, Sleeping)
//   - Use Store() for irreversible states (Terminated)
//   - Storing Running or Sleeping directly (bypassing CAS) is a bug: it
//     breaks the guarantee that only one goroutine observes a given
//     transition succeed.
type WorkerState uint64

const (
	// StateAwake indicates the worker has been constructed but not started.
	StateAwake WorkerState = 0
	// StateTerminated indicates the worker has stopped and fully shut down.
	StateTerminated WorkerState = 1
	// StateSleeping indicates the worker is parked waiting for work (blocked
	// on its ready-queue condition variable).
	StateSleeping WorkerState = 2
	// StateRunning indicates the worker is actively iterating handles.
	StateRunning WorkerState = 3
	// StateTerminating indicates Stop has been requested but not completed.
	StateTerminating WorkerState = 4
)

// String returns a human-readable representation of the state.
func (s WorkerState) String() string {
	switch s {
	case StateAwake:
		return "Awake"
	case StateRunning:
		return "Running"
	case StateSleeping:
		return "Sleeping"
	case StateTerminating:
		return "Terminating"
	case StateTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// fastState is a lock-free state machine with cache-line padding, used by
// every Processor to publish its lifecycle state without a mutex: readers
// (Executor.Stats, shutdown coordination) take no lock. The TimerWorker
// and the I/O sub-workers do not use it; they track shutdown with a
// mutex-guarded stopped flag.
type fastState struct { // betteralign:ignore
	_ [64]byte      // cache line padding (before value) //nolint:unused
	v atomic.Uint64 // state value
	_ [56]byte      // pad to complete cache line (64 - 8 = 56) //nolint:unused
}

// newFastState creates a new state machine in the Awake state.
func newFastState() *fastState {
	s := &fastState{}
	s.v.Store(uint64(StateAwake))
	return s
}

// Load returns the current state atomically.
func (s *fastState) Load() WorkerState {
	return WorkerState(s.v.Load())
}

// Store atomically stores a new state, bypassing transition validation.
// Only used for the final Terminated transition, which is irreversible.
func (s *fastState) Store(state WorkerState) {
	s.v.Store(uint64(state))
}

// TryTransition attempts to atomically transition from one state to
// another. Returns true if the transition was successful.
func (s *fastState) TryTransition(from, to WorkerState) bool {
	return s.v.CompareAndSwap(uint64(from), uint64(to))
}

// TransitionAny attempts to transition from any valid source state to the
// target. Returns true if the transition was successful.
func (s *fastState) TransitionAny(validFrom []WorkerState, to WorkerState) bool {
	for _, from := range validFrom {
		if s.v.CompareAndSwap(uint64(from), uint64(to)) {
			return true
		}
	}
	return false
}

// IsTerminal returns true if the current state is terminal (Terminated).
func (s *fastState) IsTerminal() bool {
	return s.Load() == StateTerminated
}

// IsRunning returns true if the worker is currently running or sleeping
// (i.e. it has been started and not yet fully shut down).
func (s *fastState) IsRunning() bool {
	state := s.Load()
	return state == StateRunning || state == StateSleeping
}

// CanAcceptWork returns true if the worker can accept new handles.
func (s *fastState) CanAcceptWork() bool {
	state := s.Load()
	return state == StateAwake || state == StateRunning || state == StateSleeping
}
