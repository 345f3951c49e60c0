package asyncrt

import (
	"sync"
	"sync/atomic"
)

// WaitList is a set of parked handles, woken by Notify* calls that can
// come from any goroutine: another coroutine's step, a plain application
// goroutine feeding an external event in, or a sub-worker. Lock,
// ConditionVariable, and Future are all built on top of one.
//
// Parking and notifying are separated from the TOCTOU-prone "check a
// condition, then wait" pattern by Listener: register one with Listen
// before evaluating the condition, then pass it to WaitOnListChecked. A
// Notify that lands in the gap between the check and the actual park
// flips the listener instead of being silently missed.
type WaitList struct {
	mu        sync.Mutex
	waiters   []waitEntry
	listeners []*Listener
}

type waitEntry struct {
	h *handle
	p *Processor
}

// NewWaitList constructs an empty WaitList.
func NewWaitList() *WaitList {
	return &WaitList{}
}

// Listener observes WaitList notifications that occur before the holder
// has finished parking, closing the check-then-wait race.
type Listener struct {
	fired atomic.Bool
}

// Fired reports whether a Notify has happened since this Listener was
// created.
func (l *Listener) Fired() bool { return l.fired.Load() }

// Listen registers a new Listener against wl. Call this before evaluating
// whatever condition decides if the coroutine should park.
func (wl *WaitList) Listen() *Listener {
	l := &Listener{}
	wl.mu.Lock()
	wl.listeners = append(wl.listeners, l)
	wl.mu.Unlock()
	return l
}

// park registers h (running on p) as waiting; called by the Processor
// when a step returns WAIT_LIST/WAIT_LIST_TIMED. lst, if non-nil, is the
// Listener obtained before the coroutine's condition check: the check
// (lst.Fired()) and the insertion into wl.waiters happen atomically under
// wl.mu here, mirroring flipListenersLocked, so a Notify landing between
// the coroutine's check and this call can no longer be missed. Returns
// false (without registering) if lst had already fired, meaning the
// caller must requeue h itself instead of leaving it parked.
func (wl *WaitList) park(h *handle, p *Processor, lst *Listener) bool {
	wl.mu.Lock()
	defer wl.mu.Unlock()
	if lst != nil && lst.Fired() {
		return false
	}
	wl.waiters = append(wl.waiters, waitEntry{h: h, p: p})
	return true
}

// unpark removes h if it is still parked (used by a timed wait's deadline
// callback to cancel the park once the deadline passes). Returns the
// owning Processor and true if h was found.
func (wl *WaitList) unpark(h *handle) (*Processor, bool) {
	wl.mu.Lock()
	defer wl.mu.Unlock()
	for i, e := range wl.waiters {
		if e.h == h {
			wl.waiters = append(wl.waiters[:i], wl.waiters[i+1:]...)
			return e.p, true
		}
	}
	return nil, false
}

func (wl *WaitList) flipListenersLocked() {
	for _, l := range wl.listeners {
		l.fired.Store(true)
	}
	wl.listeners = nil
}

// NotifyOne wakes the longest-parked waiter, if any, and flips all
// pending Listeners.
func (wl *WaitList) NotifyOne() {
	wl.mu.Lock()
	var woken *waitEntry
	if len(wl.waiters) > 0 {
		e := wl.waiters[0]
		wl.waiters = wl.waiters[1:]
		woken = &e
	}
	wl.flipListenersLocked()
	wl.mu.Unlock()
	if woken != nil {
		woken.p.requeue(woken.h)
	}
}

// NotifyAll wakes every parked waiter and flips all pending Listeners.
func (wl *WaitList) NotifyAll() {
	wl.mu.Lock()
	woken := wl.waiters
	wl.waiters = nil
	wl.flipListenersLocked()
	wl.mu.Unlock()
	for _, e := range woken {
		e.p.requeue(e.h)
	}
}

// Len reports the current number of parked waiters, for diagnostics and
// tests.
func (wl *WaitList) Len() int {
	wl.mu.Lock()
	defer wl.mu.Unlock()
	return len(wl.waiters)
}
