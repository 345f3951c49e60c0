package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLimiterAllowsUpToPerSecondCap(t *testing.T) {
	l := New(2, 100)
	require.True(t, l.Allow("io_worker_fallback"))
	require.True(t, l.Allow("io_worker_fallback"))
	require.False(t, l.Allow("io_worker_fallback"))
}

func TestLimiterCategoriesAreIndependent(t *testing.T) {
	l := New(1, 100)
	require.True(t, l.Allow("a"))
	require.False(t, l.Allow("a"))
	require.True(t, l.Allow("b"))
}
