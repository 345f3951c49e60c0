package asyncrt

// Starter is a fluent composer for running several coroutines back to back
// within a single handle, grounded on oatpp's CoroutineStarter chaining:
// each stage's Act runs, and once it finishes the next stage's Act runs,
// all before control returns to whatever started the chain.
//
//	return asyncrt.Start(&dialStep{addr: addr}).
//		Then(&handshakeStep{}).
//		Then(&requestStep{path: path}).
//		Action()
type Starter struct {
	first Coroutine
	rest  []Coroutine
}

// Start begins a chain with coro as its first stage.
func Start(coro Coroutine) Starter {
	return Starter{first: coro}
}

// Then appends coro as the next stage, run once the previous stage's
// frame chain finishes.
func (s Starter) Then(coro Coroutine) Starter {
	rest := make([]Coroutine, 0, len(s.rest)+1)
	rest = append(rest, s.rest...)
	rest = append(rest, coro)
	return Starter{first: s.first, rest: rest}
}

// Action composes the chain into a single Action, suitable for returning
// directly from a step.
func (s Starter) Action() Action {
	if len(s.rest) == 0 {
		return StartChild(s.first)
	}
	next := Starter{first: s.rest[0], rest: s.rest[1:]}
	return StartChildThen(s.first, func() Action { return next.Action() })
}
