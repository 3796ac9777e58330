package machine

import (
	"github.com/bluebat-lang/bluebat/lang/heap"
	"github.com/bluebat-lang/bluebat/lang/scope"
)

// DefaultGCThreshold is THRESHOLD from spec.md §4.4: the collector runs
// once heap population exceeds lastSweepCount+DefaultGCThreshold, in
// addition to running on an explicit `collect` call.
const DefaultGCThreshold = 50_000

// maybeCollect implements the GC's size-triggered policy (spec.md §4.4(ii)).
func (m *Machine) maybeCollect(current scope.Handle) {
	if m.Heap.Len() > m.lastSweepCount+m.GCThreshold {
		m.Collect(current)
	}
}

// gcState is the scratch working set for one mark-and-sweep pass:
// everything starts "unreachable" and mark removes what the roots prove
// live.
type gcState struct {
	m                 *Machine
	unreachableValues map[heap.Handle]bool
	unreachableScopes map[scope.Handle]bool
}

// Collect runs one mark-and-sweep pass rooted at current (spec.md §4.4):
// roots are the current scope handle and every handle pinned by the
// protected-frame stack.
func (m *Machine) Collect(current scope.Handle) {
	g := &gcState{
		m:                 m,
		unreachableValues: make(map[heap.Handle]bool),
		unreachableScopes: make(map[scope.Handle]bool),
	}
	m.Heap.Each(func(h heap.Handle, _ heap.Value) { g.unreachableValues[h] = true })
	m.Scopes.Each(func(h scope.Handle, _ *scope.Frame) { g.unreachableScopes[h] = true })

	g.markScope(current)
	for _, h := range m.Heap.ProtectedHandles() {
		g.markValue(h)
	}

	for h := range g.unreachableScopes {
		m.Scopes.Delete(h)
	}
	for h := range g.unreachableValues {
		m.Heap.Delete(h)
	}
	m.lastSweepCount = m.Heap.Len()
}

// markScope removes s, and everything it transitively reaches through its
// bindings, parent chain and caller chain, from the unreachable sets
// (spec.md §4.4 mark algorithm step 2). It is safe to call on an
// already-reachable scope; it becomes a no-op.
func (g *gcState) markScope(s scope.Handle) {
	if !g.unreachableScopes[s] {
		return
	}
	delete(g.unreachableScopes, s)
	f, ok := g.m.Scopes.Frame(s)
	if !ok {
		return
	}
	f.Bindings.Iter(func(_ string, h heap.Handle) (stop bool) {
		g.markValue(h)
		return false
	})
	if f.Parent != nil {
		g.markScope(*f.Parent)
	}
	if f.Caller != nil {
		g.markScope(*f.Caller)
	}
}

// markValue removes h from unreachableValues (if present) and enumerates
// the value stored there for further references (spec.md §4.4's "value
// reference enumeration"): a Function yields its captured scope, an Array
// yields its element handles.
func (g *gcState) markValue(h heap.Handle) {
	if !g.unreachableValues[h] {
		return
	}
	delete(g.unreachableValues, h)
	v, ok := g.m.Heap.Get(h)
	if !ok {
		return
	}
	switch v.Kind {
	case heap.KFunction:
		g.markScope(scope.Handle(v.Func.CapturedScope))
	case heap.KArray:
		for _, eh := range v.Arr {
			g.markValue(eh)
		}
	}
}
