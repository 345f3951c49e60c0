package asyncrt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandleQueueFIFOOrder(t *testing.T) {
	var q handleQueue
	h1 := &handle{id: 1}
	h2 := &handle{id: 2}
	h3 := &handle{id: 3}
	q.Push(h1)
	q.Push(h2)
	q.Push(h3)
	require.Equal(t, 3, q.Len())

	got, ok := q.Pop()
	require.True(t, ok)
	require.Same(t, h1, got)
	got, ok = q.Pop()
	require.True(t, ok)
	require.Same(t, h2, got)
	got, ok = q.Pop()
	require.True(t, ok)
	require.Same(t, h3, got)
	require.Equal(t, 0, q.Len())

	_, ok = q.Pop()
	require.False(t, ok)
}

func TestHandleQueueAcrossChunkBoundary(t *testing.T) {
	var q handleQueue
	const n = handleChunkSize*2 + 7
	want := make([]*handle, n)
	for i := 0; i < n; i++ {
		want[i] = &handle{id: handleID(i)}
		q.Push(want[i])
	}
	require.Equal(t, n, q.Len())
	for i := 0; i < n; i++ {
		got, ok := q.Pop()
		require.True(t, ok)
		require.Same(t, want[i], got)
	}
	require.Equal(t, 0, q.Len())
	_, ok := q.Pop()
	require.False(t, ok)
}

func TestHandleQueueInterleavedPushPop(t *testing.T) {
	var q handleQueue
	h1, h2 := &handle{id: 1}, &handle{id: 2}
	q.Push(h1)
	got, ok := q.Pop()
	require.True(t, ok)
	require.Same(t, h1, got)

	q.Push(h2)
	require.Equal(t, 1, q.Len())
	got, ok = q.Pop()
	require.True(t, ok)
	require.Same(t, h2, got)
}
