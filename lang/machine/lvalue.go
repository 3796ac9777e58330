package machine

import (
	"math"

	"github.com/bluebat-lang/bluebat/lang/ast"
	"github.com/bluebat-lang/bluebat/lang/heap"
	"github.com/bluebat-lang/bluebat/lang/scope"
	"github.com/bluebat-lang/bluebat/lang/token"
)

// lvalueKind distinguishes the three shapes get_value_id can resolve to
// (spec.md §4.5, the "VarExistence" discriminated result): an unbound
// name that will be created on write, a bound value handle that can be
// read and overwritten in place, or a location whose write is always an
// error (a string index).
type lvalueKind int

const (
	lvName lvalueKind = iota
	lvHandle
	lvDeferredError
)

// lvalue unifies Var, Index(array) and Index(string) as a single
// resolvable location (spec.md §4.5 and §9's "L-value vs R-value
// unification").
type lvalue struct {
	kind lvalueKind

	name   string      // lvName: the name to bind on write
	handle heap.Handle // lvHandle: the existing value handle to overwrite

	readValue heap.Value // lvDeferredError: the materialized value read-access yields
	writeErr  error       // lvDeferredError: the error a write attempt raises
}

// resolveLValue implements get_value_id (spec.md §4.5).
func (m *Machine) resolveLValue(node ast.Node, sc scope.Handle) (lvalue, error) {
	switch n := node.(type) {
	case *ast.Var:
		if h, ok := m.Scopes.LookupBinding(n.Name, sc); ok {
			return lvalue{kind: lvHandle, handle: h}, nil
		}
		return lvalue{kind: lvName, name: n.Name}, nil

	case *ast.Index:
		idxVal, err := m.Eval(n.IdxExpr, sc)
		if err != nil {
			return lvalue{}, err
		}
		if idxVal.Kind != heap.KNumber {
			return lvalue{}, m.errf(n.Pos(), "index must be a number, got %s", idxVal.Kind)
		}
		idx := int(math.Floor(idxVal.Num))

		baseLV, err := m.resolveLValue(n.Base, sc)
		if err != nil {
			return lvalue{}, err
		}
		baseVal, err := m.readLValue(baseLV, n.Pos())
		if err != nil {
			return lvalue{}, err
		}

		switch baseVal.Kind {
		case heap.KArray:
			if idx < 0 || idx >= len(baseVal.Arr) {
				return lvalue{}, m.errf(n.Pos(), "array index out of bounds: %d", idx)
			}
			return lvalue{kind: lvHandle, handle: baseVal.Arr[idx]}, nil
		case heap.KString:
			runes := []rune(baseVal.Str)
			if idx < 0 || idx >= len(runes) {
				return lvalue{}, m.errf(n.Pos(), "string index out of bounds: %d", idx)
			}
			return lvalue{
				kind:      lvDeferredError,
				readValue: heap.String(string(runes[idx])),
				writeErr:  m.errf(n.Pos(), "cannot assign to string index"),
			}, nil
		default:
			return lvalue{}, m.errf(n.Pos(), "cannot index into %s", baseVal.Kind)
		}

	default:
		return lvalue{}, m.errf(node.Pos(), "invalid assignment target")
	}
}

// readLValue dereferences an lvalue to the Value it currently denotes.
func (m *Machine) readLValue(lv lvalue, pos token.Pos) (heap.Value, error) {
	switch lv.kind {
	case lvHandle:
		v, ok := m.Heap.Get(lv.handle)
		if !ok {
			return heap.Value{}, m.errf(pos, "dangling value handle")
		}
		return v, nil
	case lvDeferredError:
		return lv.readValue, nil
	default:
		return heap.Value{}, m.errf(pos, "undefined name %q", lv.name)
	}
}

// writeLValue implements the write side of `=`/compound-assign/
// destructuring: overwrite an existing handle in place, create a new
// binding in sc for an unbound name, or raise the deferred error of an
// unwritable location.
func (m *Machine) writeLValue(lv lvalue, sc scope.Handle, v heap.Value) error {
	switch lv.kind {
	case lvHandle:
		m.Heap.Set(lv.handle, v)
		return nil
	case lvName:
		m.Scopes.AssignLocal(lv.name, sc, m.Heap, v)
		return nil
	case lvDeferredError:
		return lv.writeErr
	default:
		return &InterpreterError{HasPos: false, Msg: "invalid assignment target"}
	}
}
