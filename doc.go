// Package asyncrt is a cooperative, stackless-style coroutine runtime:
// a coroutine is a plain heap-allocated value, not a goroutine, and it
// progresses one synchronous Action at a time, driven by a Processor
// pinned to a single goroutine.
//
// # Architecture
//
// A [Coroutine] is a type with an Act method returning an [Action]. An
// [Executor] owns a fixed pool of [Processor]s, each driven by exactly
// one goroutine; [Executor.Submit] assigns a coroutine to one of them.
// Parking primitives ([WaitList], [Lock], [ConditionVariable],
// [Future]) suspend a coroutine without blocking its Processor's
// goroutine, so one Processor can be driving thousands of coroutines
// concurrently.
//
// # Platform Support
//
// I/O readiness ([IOWait]) is backed by epoll on Linux and kqueue on
// Darwin; elsewhere (the BSDs included) the runtime falls back to a
// naive polling worker automatically.
//
// # Usage
//
//	type greeter struct{ name string }
//
//	func (g *greeter) Act() asyncrt.Action {
//	    fmt.Println("hello", g.name)
//	    return asyncrt.Finish()
//	}
//
//	exec := asyncrt.NewExecutor(asyncrt.WithProcessors(4))
//	defer exec.Stop()
//	exec.Submit(&greeter{name: "world"})
package asyncrt
