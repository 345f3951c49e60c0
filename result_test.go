package asyncrt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type doubler struct {
	Result[int]
	in int
}

func (d *doubler) Act() Action { return d.Return(d.in * 2) }

func TestResultReturnSetsValueAndFinishes(t *testing.T) {
	d := &doubler{in: 21}
	h := newHandle(1, nil, d)
	action := h.runStep()
	require.Equal(t, ActionFinish, action.Kind())
	require.True(t, h.Done())
	require.Equal(t, 42, d.Value)
}

// resultParent demonstrates the documented pattern: a parent reads a
// child's Result field from the continuation passed to StartChildThen.
type resultParent struct {
	child  *doubler
	result int
}

func (p *resultParent) Act() Action {
	p.child = &doubler{in: 10}
	return StartChildThen(p.child, p.onDoubled)
}

func (p *resultParent) onDoubled() Action {
	p.result = p.child.Value
	return Finish()
}

func TestResultReadByParentContinuation(t *testing.T) {
	parent := &resultParent{}
	h := newHandle(1, nil, parent)

	require.Equal(t, ActionRepeat, h.runStep().Kind())
	require.Equal(t, ActionYieldTo, h.runStep().Kind())
	require.Equal(t, 0, parent.result) // continuation not yet invoked
	require.Equal(t, ActionFinish, h.runStep().Kind())
	require.Equal(t, 20, parent.result)
}
