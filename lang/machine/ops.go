package machine

import (
	"math"
	"strconv"
	"strings"

	"github.com/bluebat-lang/bluebat/lang/heap"
	"github.com/bluebat-lang/bluebat/lang/token"
)

// unaryOp implements spec.md §4.1's unary operators: `+` and `-` on
// Number, `!` on Bool. `..` (spread) has no standalone meaning outside a
// destructuring pattern.
func (m *Machine) unaryOp(pos token.Pos, op token.Token, v heap.Value) (heap.Value, error) {
	switch op {
	case token.PLUS:
		if v.Kind != heap.KNumber {
			return heap.Value{}, m.errf(pos, "unary + requires a number, got %s", v.Kind)
		}
		return v, nil
	case token.MINUS:
		if v.Kind != heap.KNumber {
			return heap.Value{}, m.errf(pos, "unary - requires a number, got %s", v.Kind)
		}
		return heap.Number(-v.Num), nil
	case token.NOT:
		if v.Kind != heap.KBool {
			return heap.Value{}, m.errf(pos, "! requires a bool, got %s", v.Kind)
		}
		return heap.Bool(!v.Bool), nil
	case token.DOTDOT:
		return heap.Value{}, m.errf(pos, "spread (..) is only legal inside a destructuring pattern")
	default:
		return heap.Value{}, m.errf(pos, "unsupported unary operator %s", op.GoString())
	}
}

// binaryOp implements spec.md §4.1's binary operators other than `&&`/`||`
// (short-circuit, handled directly in eval.go); `as` is delegated to
// castOp.
func (m *Machine) binaryOp(pos token.Pos, op token.Token, left, right heap.Value) (heap.Value, error) {
	switch op {
	case token.PLUS:
		return m.opPlus(pos, left, right)
	case token.MINUS, token.SLASH, token.PERCENT, token.CARET:
		return m.numericOp(pos, op, left, right)
	case token.STAR:
		return m.opStar(pos, left, right)
	case token.EQ, token.NEQ:
		eq, ok := heap.Equal(m.Heap, left, right)
		if !ok {
			return heap.Value{}, m.errf(pos, "values of kind %s have no equality", left.Kind)
		}
		if op == token.NEQ {
			eq = !eq
		}
		return heap.Bool(eq), nil
	case token.LT, token.LE, token.GT, token.GE:
		return m.relationalOp(pos, op, left, right)
	case token.AS:
		return m.castOp(pos, left, right)
	default:
		return heap.Value{}, m.errf(pos, "unsupported operator %s", op.GoString())
	}
}

func (m *Machine) opPlus(pos token.Pos, left, right heap.Value) (heap.Value, error) {
	switch {
	case left.Kind == heap.KNumber && right.Kind == heap.KNumber:
		return heap.Number(left.Num + right.Num), nil
	case left.Kind == heap.KString && right.Kind == heap.KString:
		return heap.String(left.Str + right.Str), nil
	case left.Kind == heap.KArray && right.Kind == heap.KArray:
		// concatenation shares element handles; it is the caller who decides
		// whether the result gets its own fresh handle (spec.md §4.1 "Array
		// op Array -> concatenation of handle sequences").
		combined := make([]heap.Handle, 0, len(left.Arr)+len(right.Arr))
		combined = append(combined, left.Arr...)
		combined = append(combined, right.Arr...)
		return heap.Array(combined), nil
	default:
		return heap.Value{}, m.errf(pos, "+ requires matching Number/String/Array operands, got %s and %s", left.Kind, right.Kind)
	}
}

func (m *Machine) opStar(pos token.Pos, left, right heap.Value) (heap.Value, error) {
	if left.Kind == heap.KNumber && right.Kind == heap.KNumber {
		return heap.Number(left.Num * right.Num), nil
	}
	if left.Kind == heap.KString && right.Kind == heap.KNumber {
		return heap.String(strings.Repeat(left.Str, int(math.Floor(right.Num)))), nil
	}
	if left.Kind == heap.KNumber && right.Kind == heap.KString {
		return heap.String(strings.Repeat(right.Str, int(math.Floor(left.Num)))), nil
	}
	return heap.Value{}, m.errf(pos, "* requires Number*Number or String*Number, got %s and %s", left.Kind, right.Kind)
}

func (m *Machine) numericOp(pos token.Pos, op token.Token, left, right heap.Value) (heap.Value, error) {
	if left.Kind != heap.KNumber || right.Kind != heap.KNumber {
		return heap.Value{}, m.errf(pos, "%s requires two numbers, got %s and %s", op.GoString(), left.Kind, right.Kind)
	}
	switch op {
	case token.MINUS:
		return heap.Number(left.Num - right.Num), nil
	case token.SLASH:
		return heap.Number(left.Num / right.Num), nil
	case token.PERCENT:
		return heap.Number(math.Mod(left.Num, right.Num)), nil
	case token.CARET:
		return heap.Number(math.Pow(left.Num, right.Num)), nil
	}
	panic("unreachable")
}

func (m *Machine) relationalOp(pos token.Pos, op token.Token, left, right heap.Value) (heap.Value, error) {
	if left.Kind != heap.KNumber || right.Kind != heap.KNumber {
		return heap.Value{}, m.errf(pos, "%s requires two numbers, got %s and %s", op.GoString(), left.Kind, right.Kind)
	}
	var result bool
	switch op {
	case token.LT:
		result = left.Num < right.Num
	case token.LE:
		result = left.Num <= right.Num
	case token.GT:
		result = left.Num > right.Num
	case token.GE:
		result = left.Num >= right.Num
	}
	return heap.Bool(result), nil
}

// castOp implements `as` (spec.md §4.1): right must evaluate to a
// TypeName. "string" accepts any left operand (print-form); "number"
// accepts only a String left operand (parsed); any other target name, or
// a Number/Bool/etc. left operand cast to "number", is an error.
func (m *Machine) castOp(pos token.Pos, left, right heap.Value) (heap.Value, error) {
	if right.Kind != heap.KTypeName {
		return heap.Value{}, m.errf(pos, "as requires a type name on the right, got %s", right.Kind)
	}
	switch right.Str {
	case "string":
		return heap.String(heap.ToStr(m.Heap, left, nil)), nil
	case "number":
		if left.Kind != heap.KString {
			return heap.Value{}, m.errf(pos, "cannot cast %s as #number", left.Kind)
		}
		n, err := strconv.ParseFloat(left.Str, 64)
		if err != nil {
			return heap.Value{}, m.errf(pos, "cannot parse %q as #number", left.Str)
		}
		return heap.Number(n), nil
	default:
		return heap.Value{}, m.errf(pos, "unknown cast target #%s", right.Str)
	}
}
