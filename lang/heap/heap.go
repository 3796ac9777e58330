package heap

import (
	"github.com/dolthub/swiss"
)

// Heap is the handle-addressed value arena (spec.md §4.2, component B):
// allocate hands out a fresh Handle, set/get mutate and read the slot it
// names, and a stack of "protected frames" pins handles against the mark
// phase of the collector (lang/machine's GC) while the evaluator is still
// working on the AST node that produced them.
//
// Grounded on original_source/src/interpreter.rs's Memory/RegIndex and on
// the teacher's lang/machine/map.go, which reaches for the same
// github.com/dolthub/swiss open-addressing map instead of a built-in Go map
// for its own Value-keyed Map type; here it backs the single hottest data
// structure in the whole evaluator instead.
type Heap struct {
	values    *swiss.Map[Handle, Value]
	counter   uint64
	protected [][]Handle
}

// New returns an empty Heap with no protected frames pushed.
func New() *Heap {
	return &Heap{values: swiss.NewMap[Handle, Value](64)}
}

// Len reports the heap's current population, used by lang/machine's GC
// threshold check (spec.md §4.4).
func (h *Heap) Len() int { return h.values.Count() }

// Allocate stores v under a fresh handle and returns it.
func (h *Heap) Allocate(v Value) Handle {
	h.counter++
	handle := Handle(h.counter)
	h.values.Put(handle, v)
	return handle
}

// Set overwrites the value stored at an existing handle. Calling Set on a
// handle that was never allocated is a caller bug (it would resurrect a
// handle the GC may have already swept); it silently becomes an insert,
// matching swiss.Map.Put's own semantics, rather than panicking.
func (h *Heap) Set(handle Handle, v Value) {
	h.values.Put(handle, v)
}

// Get reads the value at handle. ok is false if the handle was never
// allocated or has been swept by the collector.
func (h *Heap) Get(handle Handle) (Value, bool) {
	return h.values.Get(handle)
}

// Delete removes handle from the heap. Used only by the collector's sweep
// phase.
func (h *Heap) Delete(handle Handle) {
	h.values.Delete(handle)
}

// Each calls fn once per live (handle, value) pair, in unspecified order.
// Used by the collector to build its "all handles" working set.
func (h *Heap) Each(fn func(Handle, Value)) {
	h.values.Iter(func(handle Handle, v Value) (stop bool) {
		fn(handle, v)
		return false
	})
}

// PushProtectedFrame opens a new protected-handle frame. The evaluator
// pushes one on entry to every node evaluation and pops it when that
// evaluation returns, so intermediates pinned in it survive a GC triggered
// by a nested evaluation (spec.md §4.4's "protected root-set stack").
func (h *Heap) PushProtectedFrame() {
	h.protected = append(h.protected, nil)
}

// PopProtectedFrame discards the top protected-handle frame.
func (h *Heap) PopProtectedFrame() {
	if len(h.protected) == 0 {
		return
	}
	h.protected = h.protected[:len(h.protected)-1]
}

// Protect records handle as a GC root until its frame is popped, and
// returns handle unchanged (so Protect can wrap an allocation expression).
func (h *Heap) Protect(handle Handle) Handle {
	if len(h.protected) == 0 {
		h.PushProtectedFrame()
	}
	top := len(h.protected) - 1
	h.protected[top] = append(h.protected[top], handle)
	return handle
}

// AllocateProtected allocates v and protects the resulting handle in the
// current top frame in one step.
func (h *Heap) AllocateProtected(v Value) Handle {
	return h.Protect(h.Allocate(v))
}

// ProtectedHandles returns every handle currently pinned by the protected
// stack, across all open frames. Used by the collector's mark phase to
// seed its root set alongside the current scope chain.
func (h *Heap) ProtectedHandles() []Handle {
	var out []Handle
	for _, frame := range h.protected {
		out = append(out, frame...)
	}
	return out
}
