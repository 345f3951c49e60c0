package asyncrt

// Coroutine is the entry point of a coroutine: a type with an Act step
// plus, typically, additional unexported step methods of the same
// signature. A coroutine progresses by returning Actions from Act and
// from whichever step YieldTo last pointed at.
//
//	type fetchPage struct {
//	    url string
//	}
//
//	func (c *fetchPage) Act() Action           { return connect... }
//	func (c *fetchPage) onConnected() Action   { return IOWait(c.fd, DirWrite) }
type Coroutine interface {
	Act() Action
}

// ErrorHandler is an optional interface a Coroutine may implement to
// intercept errors unwinding through its frame. The default behaviour
// (when a Coroutine does not implement ErrorHandler) re-raises the error
// unchanged, continuing the unwind into the parent frame.
type ErrorHandler interface {
	HandleError(err error) Action
}

// stepFunc is a single synchronous slice of a coroutine's work. In
// practice this is almost always a bound method value on the concrete
// Coroutine type (e.g. c.onConnected), which is why it takes no
// arguments: the receiver already carries whatever state the step needs.
type stepFunc func() Action

// frame is one instance of a coroutine's local state plus its current
// step. Frames form a tree via parent back-links (never a cycle): a
// frame owns nothing of its children beyond the non-owning pointer it
// holds while a child is alive.
type frame struct {
	coro               Coroutine
	currentStep        stepFunc
	parent             *frame
	parentReturnAction Action
	parentReturnStep   stepFunc
}

func newFrame(coro Coroutine) *frame {
	if coro == nil {
		panicInvariant("asyncrt: cannot start a nil Coroutine")
	}
	f := &frame{coro: coro}
	f.currentStep = coro.Act
	return f
}

// handleError dispatches to the frame's ErrorHandler if the coroutine
// implements one, otherwise re-raises err unchanged (the default
// oatpp::async::AbstractCoroutine::handleError behaviour).
func (f *frame) handleError(err error) Action {
	if eh, ok := f.coro.(ErrorHandler); ok {
		return eh.HandleError(err)
	}
	return errorAction(err)
}

// callStep invokes step, trapping panics into an ERROR Action carrying a
// diagnostic: a step that panics unwinds the coroutine instead of the
// whole worker goroutine.
func callStep(step stepFunc) (action Action) {
	defer func() {
		if r := recover(); r != nil {
			action = errorAction(newStepPanicError(r))
		}
	}()
	return step()
}
