package asyncrt

import "sync"

// Lock is a cooperative mutex for coroutines: it never blocks an OS
// thread, it parks the handle that can't acquire it on a WaitList until
// the holder releases. It is not reentrant and carries no notion of a
// owning goroutine, since coroutines don't have one.
//
// Usage follows a try/park-on-failure shape rather than an RAII guard:
// Go's defer doesn't span a coroutine's suspension points, so a scoped
// LockGuard wouldn't actually protect anything across a park. Callers
// call Release explicitly once their critical section step finishes:
//
//	func (c *critSection) checkLock() Action {
//	    ok, wait := c.lock.Acquire()
//	    if !ok {
//	        return wait
//	    }
//	    defer c.lock.Release()  // fine: no suspension between here and return
//	    ... critical section, no Action that parks ...
//	    return c.onDone()
//	}
type Lock struct {
	mu   sync.Mutex
	held bool
	wl   *WaitList
}

// NewLock constructs an unheld Lock.
func NewLock() *Lock {
	return &Lock{wl: NewWaitList()}
}

func (l *Lock) tryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return false
	}
	l.held = true
	return true
}

// Acquire attempts to take the lock without parking. If it succeeds,
// acquired is true and the caller holds the lock. If it fails, acquired
// is false and wait is the Action the step should return: it parks the
// coroutine, closing the check-then-wait race against a concurrent
// Release, and resumes the coroutine's current step once the lock might
// be available again (the step is expected to call Acquire again, since
// a resumed waiter races every other waiter for the lock, not a
// guaranteed hand-off).
func (l *Lock) Acquire() (acquired bool, wait Action) {
	lst := l.wl.Listen()
	if l.tryAcquire() {
		return true, Action{}
	}
	return false, WaitOnListChecked(l.wl, lst)
}

// TryAcquire attempts to take the lock without parking or registering a
// Listener; it is for callers that have no fallback wait path (e.g. a
// plain goroutine polling opportunistically).
func (l *Lock) TryAcquire() bool {
	return l.tryAcquire()
}

// Release gives up the lock and wakes the longest-parked waiter, if any.
// Panics if the lock is not currently held: releasing an unheld Lock is a
// programmer error, the cooperative analogue of unlocking an unlocked
// mutex.
func (l *Lock) Release() {
	l.mu.Lock()
	if !l.held {
		l.mu.Unlock()
		panicInvariant("asyncrt: Release of a Lock that is not held")
	}
	l.held = false
	l.mu.Unlock()
	l.wl.NotifyOne()
}
