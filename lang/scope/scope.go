// Package scope implements the scope arena (spec.md §4.3, component C):
// handle-addressed lexical frames with both a parent chain (used for name
// lookup) and a caller chain (a GC root only, never consulted by lookup,
// kept so a closure invoked deep inside another call still keeps its
// caller's frame alive for the collector).
//
// Grounded on spec.md §4.3 and original_source/src/interpreter.rs's
// Scope/ScopeList. Uses the same github.com/dolthub/swiss map lang/heap
// uses, for the same reason: this is the second hottest data structure in
// the evaluator (every variable lookup and every GC mark walks it).
package scope

import (
	"github.com/bluebat-lang/bluebat/lang/heap"
	"github.com/dolthub/swiss"
)

// Handle is an opaque, stable identifier into an Arena. Scope handles and
// lang/heap.Handle value handles are two non-aliasing spaces (spec.md §3).
type Handle uint64

// Root is the handle of the arena's root scope frame, always present.
const Root Handle = 0

// Frame is one lexical scope: a set of name bindings plus the parent
// (lexical enclosing scope, used for lookup) and caller (dynamic call
// site, a GC root only) scope it was derived from. The root frame has
// neither.
type Frame struct {
	Parent   *Handle
	Caller   *Handle
	Bindings *swiss.Map[string, heap.Handle]
}

// Arena is the handle-addressed table of live Frames.
type Arena struct {
	frames  *swiss.Map[Handle, *Frame]
	counter uint64
}

// New returns an Arena containing only the root scope, at Root (handle 0),
// matching original_source's ScopeList::new inserting its first frame at
// index 0 before any derive call increments the counter.
func New() *Arena {
	a := &Arena{frames: swiss.NewMap[Handle, *Frame](16)}
	a.frames.Put(Root, &Frame{Bindings: swiss.NewMap[string, heap.Handle](8)})
	return a
}

// Frame returns the frame stored at handle, if still live.
func (a *Arena) Frame(handle Handle) (*Frame, bool) {
	return a.frames.Get(handle)
}

// Derive allocates a fresh child frame with the given lexical parent and
// dynamic caller, and returns its handle. Used for block/if/while bodies
// (parent = caller = enclosing scope) and for function calls
// (parent = the function's captured scope, caller = the calling scope).
func (a *Arena) Derive(parent Handle, hasCaller bool, caller Handle) Handle {
	a.counter++
	h := Handle(a.counter)
	f := &Frame{Parent: &parent, Bindings: swiss.NewMap[string, heap.Handle](4)}
	if hasCaller {
		f.Caller = &caller
	}
	a.frames.Put(h, f)
	return h
}

// Delete removes a frame. Used only by the collector's sweep phase.
func (a *Arena) Delete(handle Handle) {
	if handle == Root {
		return
	}
	a.frames.Delete(handle)
}

// Each calls fn once per live (handle, frame) pair, in unspecified order.
// Used by the collector to build its "all handles" working set.
func (a *Arena) Each(fn func(Handle, *Frame)) {
	a.frames.Iter(func(handle Handle, f *Frame) (stop bool) {
		fn(handle, f)
		return false
	})
}

// Len reports the arena's current frame population.
func (a *Arena) Len() int { return a.frames.Count() }

// LookupBinding walks the parent chain starting at scope (never the caller
// chain) looking for name, and returns the value handle it is bound to
// (spec.md §4.3, component C operation).
func (a *Arena) LookupBinding(name string, start Handle) (heap.Handle, bool) {
	cur := start
	for {
		f, ok := a.frames.Get(cur)
		if !ok {
			return 0, false
		}
		if h, ok := f.Bindings.Get(name); ok {
			return h, true
		}
		if f.Parent == nil {
			return 0, false
		}
		cur = *f.Parent
	}
}

// Assign climbs the parent chain from scope looking for an existing
// binding of name to overwrite; if none exists anywhere in the chain, it
// creates the binding in scope itself (the frame the call started at, not
// the one recursion bottomed out at), matching
// original_source/interpreter.rs's set_var first_call bookkeeping.
func (a *Arena) Assign(name string, scope Handle, hp *heap.Heap, v heap.Value) {
	if a.assignExisting(name, scope, hp, v) {
		return
	}
	a.AssignLocal(name, scope, hp, v)
}

func (a *Arena) assignExisting(name string, scope Handle, hp *heap.Heap, v heap.Value) bool {
	f, ok := a.frames.Get(scope)
	if !ok {
		return false
	}
	if h, ok := f.Bindings.Get(name); ok {
		hp.Set(h, v)
		return true
	}
	if f.Parent == nil {
		return false
	}
	return a.assignExisting(name, *f.Parent, hp, v)
}

// AssignLocal always allocates a fresh value handle and (re)binds name to
// it in scope directly, never climbing the parent chain — the semantics of
// `:=`, as opposed to `=`'s Assign (spec.md §4.5).
func (a *Arena) AssignLocal(name string, scope Handle, hp *heap.Heap, v heap.Value) heap.Handle {
	h := hp.Allocate(v)
	f, ok := a.frames.Get(scope)
	if !ok {
		return h
	}
	f.Bindings.Put(name, h)
	return h
}
