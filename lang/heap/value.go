// Package heap implements the BlueBat value model (spec.md §3) and the
// handle-addressed value arena (component B, spec.md §4.2): every BlueBat
// value lives in a Heap under an opaque Handle, so arrays can alias element
// storage and the evaluator can hand out stable references without Go
// pointers leaking into the language semantics.
package heap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bluebat-lang/bluebat/lang/ast"
)

// Handle is an opaque, stable identifier into a Heap. It is one of two
// non-aliasing handle spaces in the evaluator; the other is lang/scope's
// Handle (spec.md §3 invariant: "two handle spaces exist and do not
// alias").
type Handle uint64

// ScopeRef is a scope handle as seen from a Heap-held Function value. It is
// a plain numeric alias, not lang/scope.Handle: lang/heap has no business
// importing lang/scope (that would cycle back, since scope bindings hold
// heap.Handle values), so the conversion lang/scope.Handle <-> ScopeRef is
// done at the one place that imports both, lang/machine.
type ScopeRef uint64

// Kind tags the variant a Value holds.
type Kind uint8

const (
	KNull Kind = iota
	KNumber
	KBool
	KString
	KBuiltin
	KFunction
	KArray
	KTypeName
)

func (k Kind) String() string {
	switch k {
	case KNull:
		return "null"
	case KNumber:
		return "number"
	case KBool:
		return "bool"
	case KString:
		return "string"
	case KBuiltin:
		return "builtin"
	case KFunction:
		return "function"
	case KArray:
		return "array"
	case KTypeName:
		return "type"
	default:
		return "invalid"
	}
}

// Function is the payload of a KFunction value: a closure over the scope it
// was defined in.
type Function struct {
	ArgNames      []string
	Code          ast.Node
	CapturedScope ScopeRef
}

// Value is the tagged union of every runtime value BlueBat manipulates
// (spec.md §3). A Value is a small struct, cheap to copy; a Heap gives a
// value its identity via a Handle, not the Go value itself.
type Value struct {
	Kind Kind
	Num  float64
	Bool bool
	// Str holds the String text, the Builtin name, or the TypeName name,
	// depending on Kind.
	Str  string
	Func *Function
	// Arr holds element handles, not inline values, so two arrays may share
	// element storage (spec.md §3).
	Arr []Handle
}

func Null() Value               { return Value{Kind: KNull} }
func Number(n float64) Value    { return Value{Kind: KNumber, Num: n} }
func Bool(b bool) Value         { return Value{Kind: KBool, Bool: b} }
func String(s string) Value     { return Value{Kind: KString, Str: s} }
func Builtin(name string) Value { return Value{Kind: KBuiltin, Str: name} }
func TypeName(name string) Value { return Value{Kind: KTypeName, Str: name} }

func Array(elems []Handle) Value { return Value{Kind: KArray, Arr: elems} }

func Func(argNames []string, code ast.Node, captured ScopeRef) Value {
	return Value{Kind: KFunction, Func: &Function{ArgNames: argNames, Code: code, CapturedScope: captured}}
}

// RuneLen returns the Unicode scalar value count of a String value (spec.md
// §4.1: string length and indexing operate on scalar values, not bytes).
func (v Value) RuneLen() int { return len([]rune(v.Str)) }

// Truthy implements `to_bool` (spec.md §4.1): Bool is itself, everything
// else is an interpreter error to branch on — callers are expected to
// reject non-Bool conditions before calling Truthy.
func (v Value) Truthy() bool { return v.Kind == KBool && v.Bool }

// Getter is the subset of *Heap that value formatting and equality need:
// Get. *Heap satisfies it.
type Getter interface {
	Get(Handle) (Value, bool)
}

// ToStr renders v's print-form (spec.md §4.1), used by print/println and by
// `as #string`. visited guards against cyclic arrays the way
// original_source/src/value.rs's to_str does: it is a stack of the array
// Values currently being rendered by an enclosing call, and an array is
// checked for structural equality (heap.Equal, not handle identity)
// against that stack before it is pushed and descended into — a distinct
// handle holding an equal value is still a repeat, and prints "[...]"
// immediately instead of recursing.
func ToStr(hp Getter, v Value, visited []Value) string {
	switch v.Kind {
	case KNull:
		return "Null"
	case KNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KBool:
		if v.Bool {
			return "True"
		}
		return "False"
	case KString:
		return v.Str
	case KBuiltin:
		return fmt.Sprintf("<builtin: %s>", v.Str)
	case KFunction:
		return "|...| {...}"
	case KTypeName:
		return "#" + v.Str
	case KArray:
		return arrayToStr(hp, v, visited)
	default:
		return "<invalid value>"
	}
}

func arrayToStr(hp Getter, v Value, visited []Value) string {
	for _, seen := range visited {
		if eq, ok := Equal(hp, seen, v); ok && eq {
			return "[...]"
		}
	}
	visited = append(visited, v)

	parts := make([]string, 0, len(v.Arr))
	for _, h := range v.Arr {
		elem, ok := hp.Get(h)
		if !ok {
			parts = append(parts, "Null")
			continue
		}
		parts = append(parts, ToStr(hp, elem, visited))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Equal implements spec.md §4.1's `==`/`!=` structural equality. The second
// return value is false when the kind has no equality defined (Function,
// Builtin): callers treat that as an interpreter error, not as "unequal".
func Equal(hp Getter, a, b Value) (bool, bool) {
	if a.Kind != b.Kind {
		return false, true
	}
	switch a.Kind {
	case KNull:
		return true, true
	case KNumber:
		return a.Num == b.Num, true
	case KBool:
		return a.Bool == b.Bool, true
	case KString:
		return a.Str == b.Str, true
	case KTypeName:
		return a.Str == b.Str, true
	case KArray:
		return arraysEqual(hp, a.Arr, b.Arr), true
	default:
		return false, false
	}
}

func arraysEqual(hp Getter, a, b []Handle) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] == b[i] {
			continue
		}
		av, aok := hp.Get(a[i])
		bv, bok := hp.Get(b[i])
		if !aok || !bok {
			return false
		}
		eq, ok := Equal(hp, av, bv)
		if !ok || !eq {
			return false
		}
	}
	return true
}
