// Error types for the runtime, following a sum-type style (kind +
// message + cause) rather than a class hierarchy.
package asyncrt

import (
	"errors"
	"fmt"
)

// Sentinel errors for runtime-level conditions. Coroutine-propagated
// errors and step panics both travel as plain error values; these are the
// ones the runtime itself raises.
var (
	// ErrExecutorStopped names a stopped Executor. Executor.Submit does
	// not return it: submitting after Stop reports ErrProcessorStopped
	// from the chosen Processor.
	ErrExecutorStopped = errors.New("asyncrt: executor is stopped")
	// ErrProcessorStopped is returned when submitting to a stopped
	// Processor.
	ErrProcessorStopped = errors.New("asyncrt: processor is stopped")
	// ErrFutureAlreadySettled is returned by SetValue/SetError on a
	// Promise that has already settled.
	ErrFutureAlreadySettled = errors.New("asyncrt: future already settled")
)

// TimeoutError represents a deadline expiring before an operation
// completed. No function in this package returns it:
// ConditionVariable.WaitFor resumes the step without an error, and
// Future.Get reports ctx.Err() when its context ends.
type TimeoutError struct {
	Cause   error
	Message string
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return "operation timed out"
	}
	return e.Message
}

// Unwrap returns the underlying cause for use with [errors.Is] and [errors.As].
func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// WrapError wraps an error with a message and optional cause chain.
//
// The original error is passed as cause and stays reachable through
// errors.Is/errors.As:
//
//	WrapError("context failed", originalErr)
func WrapError(message string, cause error) error {
	return fmt.Errorf("%s: %w", message, cause)
}

// CoroutineError is the sum-type error most often carried by an ERROR
// Action: a kind tag, a message, and an optional wrapped cause. Step
// code can return Error(err) with any plain error; CoroutineError is
// for cases where a HandleError implementation wants to switch on a
// tag rather than do string matching.
type CoroutineError struct {
	Kind    string
	Message string
	Cause   error
}

func (e *CoroutineError) Error() string {
	if e.Message == "" {
		return e.Kind
	}
	return e.Kind + ": " + e.Message
}

// Unwrap enables errors.Is/errors.As through the cause chain.
func (e *CoroutineError) Unwrap() error { return e.Cause }

// NewCoroutineError constructs a CoroutineError with the given kind tag
// and message, optionally wrapping cause.
func NewCoroutineError(kind, message string, cause error) *CoroutineError {
	return &CoroutineError{Kind: kind, Message: message, Cause: cause}
}

// newStepPanicError converts a recovered panic value into an error,
// preserving it as the Cause when it already is one: any failure thrown
// by a step is trapped at the iteration boundary and converted into an
// ERROR Action carrying a diagnostic.
func newStepPanicError(recovered any) error {
	if err, ok := recovered.(error); ok {
		return &CoroutineError{Kind: "panic", Message: err.Error(), Cause: err}
	}
	return &CoroutineError{Kind: "panic", Message: fmt.Sprint(recovered)}
}

// invariantError marks conditions that are programmer errors: submitting
// a handle to the wrong Processor, returning an unknown Action kind to an
// I/O worker, a Lock counter going negative. These represent invariants
// of the runtime and are not user-recoverable; Go's analogue of "abort"
// is panic.
type invariantError struct {
	msg string
}

func (e *invariantError) Error() string { return e.msg }

func panicInvariant(msg string) {
	panic(&invariantError{msg: msg})
}

func panicInvariantf(format string, args ...any) {
	panic(&invariantError{msg: fmt.Sprintf(format, args...)})
}

// osFatalError wraps an unrecoverable OS-facility failure (epoll_ctl,
// kevent, ...): the runtime cannot recover readiness tracking in a
// partial state. The poller-backed I/O worker neither exits its loop
// nor panics on one: a failed Wait is logged through the configured
// Logger (rate-limited) and retried, and a failed Add during register
// requeues the handle on its Processor.
type osFatalError struct {
	op  string
	err error
}

func (e *osFatalError) Error() string {
	return fmt.Sprintf("asyncrt: fatal OS facility error during %s: %v", e.op, e.err)
}

func (e *osFatalError) Unwrap() error { return e.err }

func newOSFatalError(op string, err error) error {
	return &osFatalError{op: op, err: err}
}
