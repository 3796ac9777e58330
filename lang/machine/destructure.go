package machine

import (
	"github.com/bluebat-lang/bluebat/lang/ast"
	"github.com/bluebat-lang/bluebat/lang/heap"
	"github.com/bluebat-lang/bluebat/lang/scope"
	"github.com/bluebat-lang/bluebat/lang/token"
)

// destructureAssign implements spec.md §4.5's destructuring assignment
// algorithm: left is an Array pattern of n subpatterns, k of which are
// spreads (Unary{DOTDOT, ...}); right must evaluate to an Array of m
// handles.
func (m *Machine) destructureAssign(left *ast.Array, right heap.Value, sc scope.Handle) error {
	if right.Kind != heap.KArray {
		return m.errf(left.Pos(), "cannot destructure non-array")
	}
	// the handles in `right` were produced by a sub-evaluation whose own
	// protected frame has already popped by the time we get here; pin them
	// in this node's still-open frame for the remainder of the assignment
	// (spec.md §4.2's allocation contract).
	for _, h := range right.Arr {
		m.Heap.Protect(h)
	}

	n := len(left.Values)
	spreadAt := make(map[int]bool)
	for i, sub := range left.Values {
		if u, ok := sub.(*ast.Unary); ok && u.Op == token.DOTDOT {
			spreadAt[i] = true
		}
	}
	k := len(spreadAt)
	mm := len(right.Arr)

	if k == 0 {
		if n != mm {
			return m.errf(left.Pos(), "destructuring pattern has %d slots, right side has %d elements", n, mm)
		}
		for i, sub := range left.Values {
			if err := m.assignPatternSlot(sub, right.Arr[i], sc); err != nil {
				return err
			}
		}
		return nil
	}

	if mm < n-k {
		return m.errf(left.Pos(), "destructuring pattern needs at least %d elements, right side has %d", n-k, mm)
	}
	s := mm - (n - k)

	pos := 0
	spreadOrdinal := 0
	for i, sub := range left.Values {
		if spreadAt[i] {
			count := s / k
			if spreadOrdinal < s%k {
				count++
			}
			slice := append([]heap.Handle(nil), right.Arr[pos:pos+count]...)
			pos += count
			spreadOrdinal++

			u := sub.(*ast.Unary)
			varNode, ok := u.Operand.(*ast.Var)
			if !ok {
				return m.errf(sub.Pos(), "spread target must be a variable")
			}
			if err := m.assignName(varNode.Name, heap.Array(slice), sc); err != nil {
				return err
			}
			continue
		}
		h := right.Arr[pos]
		pos++
		if err := m.assignPatternSlot(sub, h, sc); err != nil {
			return err
		}
	}
	return nil
}

// assignPatternSlot assigns the value at h into a single non-spread
// subpattern: a nested Array recurses (nested destructuring), anything
// else resolves as an ordinary L-value and is written through
// (spec.md §4.5 step 3).
func (m *Machine) assignPatternSlot(pattern ast.Node, h heap.Handle, sc scope.Handle) error {
	if nested, ok := pattern.(*ast.Array); ok {
		v, ok := m.Heap.Get(h)
		if !ok {
			return m.errf(pattern.Pos(), "dangling value handle")
		}
		return m.destructureAssign(nested, v, sc)
	}
	v, ok := m.Heap.Get(h)
	if !ok {
		v = heap.Null()
	}
	lv, err := m.resolveLValue(pattern, sc)
	if err != nil {
		return err
	}
	return m.writeLValue(lv, sc, v)
}

// assignName is the Var-target special case of writeLValue, used to bind
// a spread's collected array without constructing a synthetic AST node.
func (m *Machine) assignName(name string, v heap.Value, sc scope.Handle) error {
	if h, ok := m.Scopes.LookupBinding(name, sc); ok {
		m.Heap.Set(h, v)
		return nil
	}
	m.Scopes.AssignLocal(name, sc, m.Heap, v)
	return nil
}
