package scope_test

import (
	"testing"

	"github.com/bluebat-lang/bluebat/lang/heap"
	"github.com/bluebat-lang/bluebat/lang/scope"
	"github.com/stretchr/testify/require"
)

func TestRootScopeExists(t *testing.T) {
	a := scope.New()
	_, ok := a.Frame(scope.Root)
	require.True(t, ok)
}

func TestAssignLocalCreatesBinding(t *testing.T) {
	a := scope.New()
	hp := heap.New()
	a.AssignLocal("x", scope.Root, hp, heap.Number(1))

	h, ok := a.LookupBinding("x", scope.Root)
	require.True(t, ok)
	v, _ := hp.Get(h)
	require.Equal(t, 1.0, v.Num)
}

func TestLookupClimbsParentNotCaller(t *testing.T) {
	a := scope.New()
	hp := heap.New()
	a.AssignLocal("x", scope.Root, hp, heap.Number(7))

	child := a.Derive(scope.Root, false, 0)
	h, ok := a.LookupBinding("x", child)
	require.True(t, ok)
	v, _ := hp.Get(h)
	require.Equal(t, 7.0, v.Num)

	// a scope whose caller binds y, but whose parent chain does not, must
	// not see y.
	caller := a.Derive(scope.Root, false, 0)
	a.AssignLocal("y", caller, hp, heap.Number(9))
	callerOnly := a.Derive(scope.Root, true, caller)
	_, ok = a.LookupBinding("y", callerOnly)
	require.False(t, ok)
}

func TestAssignOverwritesNearestExisting(t *testing.T) {
	a := scope.New()
	hp := heap.New()
	a.AssignLocal("x", scope.Root, hp, heap.Number(1))
	child := a.Derive(scope.Root, false, 0)

	a.Assign("x", child, hp, heap.Number(2))

	h, _ := a.LookupBinding("x", scope.Root)
	v, _ := hp.Get(h)
	require.Equal(t, 2.0, v.Num)
}

func TestAssignCreatesInCurrentFrameWhenUnbound(t *testing.T) {
	a := scope.New()
	hp := heap.New()
	child := a.Derive(scope.Root, false, 0)

	a.Assign("z", child, hp, heap.Number(5))

	_, okRoot := a.LookupBinding("z", scope.Root)
	require.False(t, okRoot)
	h, okChild := a.LookupBinding("z", child)
	require.True(t, okChild)
	v, _ := hp.Get(h)
	require.Equal(t, 5.0, v.Num)
}

func TestAssignLocalAlwaysFreshHandle(t *testing.T) {
	a := scope.New()
	hp := heap.New()
	h1 := a.AssignLocal("x", scope.Root, hp, heap.Number(1))
	h2 := a.AssignLocal("x", scope.Root, hp, heap.Number(2))
	require.NotEqual(t, h1, h2)
}
