package heap_test

import (
	"testing"

	"github.com/bluebat-lang/bluebat/lang/heap"
	"github.com/stretchr/testify/require"
)

func TestAllocateGetSet(t *testing.T) {
	hp := heap.New()
	h := hp.Allocate(heap.Number(3))
	v, ok := hp.Get(h)
	require.True(t, ok)
	require.Equal(t, 3.0, v.Num)

	hp.Set(h, heap.Number(4))
	v, ok = hp.Get(h)
	require.True(t, ok)
	require.Equal(t, 4.0, v.Num)
}

func TestGetMissingHandle(t *testing.T) {
	hp := heap.New()
	_, ok := hp.Get(heap.Handle(999))
	require.False(t, ok)
}

func TestProtectedFrames(t *testing.T) {
	hp := heap.New()
	hp.PushProtectedFrame()
	a := hp.AllocateProtected(heap.Number(1))
	b := hp.AllocateProtected(heap.String("x"))
	require.ElementsMatch(t, []heap.Handle{a, b}, hp.ProtectedHandles())
	hp.PopProtectedFrame()
	require.Empty(t, hp.ProtectedHandles())
}

func TestDeleteRemovesHandle(t *testing.T) {
	hp := heap.New()
	h := hp.Allocate(heap.Bool(true))
	hp.Delete(h)
	_, ok := hp.Get(h)
	require.False(t, ok)
}

func TestArrayAliasing(t *testing.T) {
	hp := heap.New()
	elem := hp.Allocate(heap.Number(1))
	arr1 := heap.Array([]heap.Handle{elem})
	arr2 := heap.Array([]heap.Handle{elem})

	hp.Set(elem, heap.Number(2))
	v1, _ := hp.Get(arr1.Arr[0])
	v2, _ := hp.Get(arr2.Arr[0])
	require.Equal(t, 2.0, v1.Num)
	require.Equal(t, v1.Num, v2.Num)
}

func TestToStrCycleTerminates(t *testing.T) {
	hp := heap.New()
	h := hp.Allocate(heap.Null())
	self := heap.Array([]heap.Handle{h})
	hp.Set(h, self)

	out := heap.ToStr(hp, self, nil)
	require.Contains(t, out, "[...]")
}

func TestEqualArraysByContent(t *testing.T) {
	hp := heap.New()
	h1 := hp.Allocate(heap.Number(1))
	h2 := hp.Allocate(heap.Number(1))

	a := heap.Array([]heap.Handle{h1})
	b := heap.Array([]heap.Handle{h2})
	eq, ok := heap.Equal(hp, a, b)
	require.True(t, ok)
	require.True(t, eq)
}

func TestEqualNaN(t *testing.T) {
	nan := heap.Number(nan())
	eq, ok := heap.Equal(heap.New(), nan, nan)
	require.True(t, ok)
	require.False(t, eq)
}

func nan() float64 {
	var zero float64
	return zero / zero
}
