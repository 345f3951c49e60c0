package asyncrt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestActionKindString(t *testing.T) {
	cases := map[ActionKind]string{
		ActionNone:          "NONE",
		ActionStartChild:    "START_CHILD",
		ActionYieldTo:       "YIELD_TO",
		ActionRepeat:        "REPEAT",
		ActionWaitRepeat:    "WAIT_REPEAT",
		ActionIOWait:        "IO_WAIT",
		ActionIORepeat:      "IO_REPEAT",
		ActionFinish:        "FINISH",
		ActionError:         "ERROR",
		ActionWaitList:      "WAIT_LIST",
		ActionWaitListTimed: "WAIT_LIST_TIMED",
		ActionKind(255):     "UNKNOWN",
	}
	for kind, want := range cases {
		require.Equal(t, want, kind.String())
	}
}

func TestIODirectionString(t *testing.T) {
	require.Equal(t, "READ", DirRead.String())
	require.Equal(t, "WRITE", DirWrite.String())
	require.Equal(t, "?", IODirection(0).String())
}

func TestActionConstructorsPanicOnNil(t *testing.T) {
	require.Panics(t, func() { YieldTo(nil) })
	require.Panics(t, func() { StartChildThen(&trivialCoroutine{}, nil) })
	require.Panics(t, func() { Error(nil) })
}

func TestRepeatKind(t *testing.T) {
	require.Equal(t, ActionRepeat, Repeat().Kind())
}

func TestWaitRepeatCarriesDeadline(t *testing.T) {
	before := time.Now()
	a := WaitRepeat(10 * time.Millisecond)
	require.Equal(t, ActionWaitRepeat, a.Kind())
	require.True(t, a.when.After(before))
}

func TestDebugAssertionsOffDoesNotMarkActions(t *testing.T) {
	require.False(t, DebugAssertions)
	a := Repeat()
	require.Nil(t, a.used)
}

func TestDebugAssertionsCatchesActionReuse(t *testing.T) {
	old := DebugAssertions
	DebugAssertions = true
	defer func() { DebugAssertions = old }()

	original := Repeat()

	first := original
	require.NotPanics(t, func() { markConsumed(&first) })

	second := original // a second copy of the same already-consumed Action
	require.Panics(t, func() { markConsumed(&second) })
}

// trivialCoroutine finishes immediately; used across this package's tests
// as a minimal Coroutine.
type trivialCoroutine struct{}

func (c *trivialCoroutine) Act() Action { return Finish() }
