package asyncrt

// Result is embedded in a Coroutine that computes a value of type T, per
// oatpp's AbstractCoroutineWithResult/_return pattern. Unlike the C++
// original — which needs a dedicated StarterForResult to read the value
// out of a coroutine object before it is deleted — Go's garbage collector
// keeps the child alive for as long as the parent's closure references it,
// so the result is just a field read after the child frame finishes:
//
//	type fetchPage struct {
//	    asyncrt.Result[string]
//	    url string
//	}
//
//	func (c *fetchPage) Act() Action { return c.Return(fetchBody(c.url)) }
//
//	// in the caller:
//	child := &fetchPage{url: url}
//	return asyncrt.StartChildThen(child, func() Action {
//	    return c.onFetched(child.Value)
//	})
//
// An error produced anywhere in child's own frame chain propagates as a
// normal ERROR Action into the enclosing coroutine, so Result carries only
// the success value — no (T, error) pair is needed.
type Result[T any] struct {
	Value T
}

// Return stores v as the coroutine's result and finishes its frame.
func (r *Result[T]) Return(v T) Action {
	r.Value = v
	return Finish()
}
