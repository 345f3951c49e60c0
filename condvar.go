package asyncrt

import "time"

// ConditionVariable is the cooperative analogue of sync.Cond, built on a
// WaitList exactly like Lock. Callers follow the classic protocol: hold
// the associated Lock, check a condition, and if it isn't satisfied, Wait
// (which releases the lock and parks) — re-checking the condition once
// resumed, since a wake is not a guarantee the condition now holds (other
// waiters may have raced ahead, or the wake may be a timeout).
//
//	func (c *consumer) checkCond() Action {
//	    ok, wait := c.lock.Acquire()
//	    if !ok {
//	        return wait
//	    }
//	    if c.queue.Empty() {
//	        return c.cv.Wait(c.lock) // releases c.lock, re-enters checkCond on wake
//	    }
//	    item := c.queue.Pop()
//	    c.lock.Release()
//	    return c.onItem(item)
//	}
type ConditionVariable struct {
	wl *WaitList
}

// NewConditionVariable constructs an empty ConditionVariable.
func NewConditionVariable() *ConditionVariable {
	return &ConditionVariable{wl: NewWaitList()}
}

// Wait releases lock (which the caller must currently hold) and parks
// the coroutine until Notify* is called. The caller's current step is
// re-run on wake; it is expected to re-acquire the lock and re-check its
// condition from scratch.
func (cv *ConditionVariable) Wait(lock *Lock) Action {
	lst := cv.wl.Listen()
	lock.Release()
	return WaitOnListChecked(cv.wl, lst)
}

// WaitFor is Wait bounded by a duration: if neither Notify fires first,
// the coroutine resumes once d has elapsed regardless. Same re-check
// obligation as Wait — WaitFor does not itself signal whether the wake
// was a notify or a timeout; the step distinguishes by re-evaluating its
// condition and, if still false, deciding the wait has timed out.
func (cv *ConditionVariable) WaitFor(lock *Lock, d time.Duration) Action {
	lst := cv.wl.Listen()
	lock.Release()
	return WaitOnListTimedChecked(cv.wl, time.Now().Add(d), lst)
}

// NotifyOne wakes the longest-waiting parked coroutine, if any.
func (cv *ConditionVariable) NotifyOne() { cv.wl.NotifyOne() }

// NotifyAll wakes every parked coroutine.
func (cv *ConditionVariable) NotifyAll() { cv.wl.NotifyAll() }
