package machine

import (
	"github.com/bluebat-lang/bluebat/lang/ast"
	"github.com/bluebat-lang/bluebat/lang/heap"
	"github.com/bluebat-lang/bluebat/lang/scope"
	"github.com/bluebat-lang/bluebat/lang/token"
)

// Eval evaluates node against (sc, m.Heap, m.Scopes), returning a Value or
// an error. Every call pushes a protected frame on entry and pops it on
// exit, including on error (spec.md §4.5), and checks the GC's
// size-triggered policy first (spec.md §4.4(ii)).
func (m *Machine) Eval(node ast.Node, sc scope.Handle) (heap.Value, error) {
	m.maybeCollect(sc)
	m.Heap.PushProtectedFrame()
	defer m.Heap.PopProtectedFrame()
	return m.evalNode(node, sc)
}

// protectLive pins the handles a just-computed Value embeds in the
// currently open protected frame, so they survive any GC triggered by
// evaluating further sibling expressions before this value is consumed
// (spec.md §4.2's allocation contract; §9's "protected root set").
func (m *Machine) protectLive(v heap.Value) {
	if v.Kind == heap.KArray {
		for _, h := range v.Arr {
			m.Heap.Protect(h)
		}
	}
}

func (m *Machine) evalNode(node ast.Node, sc scope.Handle) (heap.Value, error) {
	switch n := node.(type) {
	case *ast.Num:
		return heap.Number(n.Value), nil

	case *ast.ValueNode:
		return m.Eval(n.Inner, sc)

	case *ast.Constant:
		switch n.Lit.Kind {
		case ast.LitNull:
			return heap.Null(), nil
		case ast.LitBool:
			return heap.Bool(n.Lit.Bool), nil
		case ast.LitString:
			return heap.String(n.Lit.Str), nil
		case ast.LitTypeName:
			return heap.TypeName(n.Lit.Str), nil
		default:
			return heap.Value{}, m.errf(n.Pos(), "unrecognized literal")
		}

	case *ast.Var:
		h, ok := m.Scopes.LookupBinding(n.Name, sc)
		if !ok {
			return heap.Value{}, m.errf(n.Pos(), "undefined name %q", n.Name)
		}
		v, ok := m.Heap.Get(h)
		if !ok {
			return heap.Value{}, m.errf(n.Pos(), "dangling value handle for %q", n.Name)
		}
		return v, nil

	case *ast.Unary:
		if n.Op == token.DOTDOT {
			return heap.Value{}, m.errf(n.Pos(), "spread (..) is only legal inside a destructuring pattern")
		}
		operand, err := m.Eval(n.Operand, sc)
		if err != nil {
			return heap.Value{}, err
		}
		return m.unaryOp(n.Pos(), n.Op, operand)

	case *ast.Op:
		return m.evalOp(n, sc)

	case *ast.StatementList:
		return m.evalStatementList(n, sc)

	case *ast.Block:
		child := m.Scopes.Derive(sc, true, sc)
		return m.Eval(n.Code, child)

	case *ast.If:
		return m.evalIf(n, sc)

	case *ast.While:
		return m.evalWhile(n, sc)

	case *ast.Func:
		return heap.Func(n.ArgNames, n.Code, heap.ScopeRef(sc)), nil

	case *ast.Call:
		return m.evalCall(n, sc)

	case *ast.Array:
		return m.evalArray(n, sc)

	case *ast.Index:
		lv, err := m.resolveLValue(n, sc)
		if err != nil {
			return heap.Value{}, err
		}
		return m.readLValue(lv, n.Pos())

	default:
		return heap.Value{}, m.errf(node.Pos(), "unsupported node %T", node)
	}
}

func (m *Machine) evalStatementList(n *ast.StatementList, sc scope.Handle) (heap.Value, error) {
	result := heap.Null()
	for _, stmt := range n.Statements {
		v, err := m.Eval(stmt, sc)
		if err != nil {
			return heap.Value{}, err
		}
		m.protectLive(v)
		result = v
	}
	return result, nil
}

func (m *Machine) evalIf(n *ast.If, sc scope.Handle) (heap.Value, error) {
	for _, arm := range n.Conds {
		condVal, err := m.Eval(arm.Cond, sc)
		if err != nil {
			return heap.Value{}, err
		}
		if condVal.Kind != heap.KBool {
			return heap.Value{}, m.errf(arm.Cond.Pos(), "if condition must be a bool, got %s", condVal.Kind)
		}
		if condVal.Bool {
			child := m.Scopes.Derive(sc, true, sc)
			return m.Eval(arm.Body, child)
		}
	}
	if n.Else != nil {
		child := m.Scopes.Derive(sc, true, sc)
		return m.Eval(n.Else, child)
	}
	return heap.Null(), nil
}

func (m *Machine) evalWhile(n *ast.While, sc scope.Handle) (heap.Value, error) {
	result := heap.Null()
	for {
		condVal, err := m.Eval(n.Cond, sc)
		if err != nil {
			return heap.Value{}, err
		}
		if condVal.Kind != heap.KBool {
			return heap.Value{}, m.errf(n.Cond.Pos(), "while condition must be a bool, got %s", condVal.Kind)
		}
		if !condVal.Bool {
			return result, nil
		}
		child := m.Scopes.Derive(sc, true, sc)
		v, err := m.Eval(n.Body, child)
		if err != nil {
			return heap.Value{}, err
		}
		result = v
	}
}

func (m *Machine) evalArray(n *ast.Array, sc scope.Handle) (heap.Value, error) {
	handles := make([]heap.Handle, 0, len(n.Values))
	for _, elemNode := range n.Values {
		v, err := m.Eval(elemNode, sc)
		if err != nil {
			return heap.Value{}, err
		}
		handles = append(handles, m.Heap.AllocateProtected(v))
	}
	return heap.Array(handles), nil
}

func (m *Machine) evalOp(n *ast.Op, sc scope.Handle) (heap.Value, error) {
	switch n.OpTok {
	case token.AND, token.OR:
		return m.evalShortCircuit(n, sc)
	}
	if token.IsAssignOp(n.OpTok) {
		return m.evalAssign(n, sc)
	}
	left, err := m.Eval(n.Left, sc)
	if err != nil {
		return heap.Value{}, err
	}
	m.protectLive(left)
	right, err := m.Eval(n.Right, sc)
	if err != nil {
		return heap.Value{}, err
	}
	return m.binaryOp(n.Pos(), n.OpTok, left, right)
}

// evalShortCircuit implements `&&`/`||` (spec.md §4.5): both operands must
// be Bool, and the right operand is not evaluated once the left already
// determines the result.
func (m *Machine) evalShortCircuit(n *ast.Op, sc scope.Handle) (heap.Value, error) {
	left, err := m.Eval(n.Left, sc)
	if err != nil {
		return heap.Value{}, err
	}
	if left.Kind != heap.KBool {
		return heap.Value{}, m.errf(n.Pos(), "%s requires bool operands, got %s", n.OpTok.GoString(), left.Kind)
	}
	if n.OpTok == token.AND && !left.Bool {
		return heap.Bool(false), nil
	}
	if n.OpTok == token.OR && left.Bool {
		return heap.Bool(true), nil
	}
	right, err := m.Eval(n.Right, sc)
	if err != nil {
		return heap.Value{}, err
	}
	if right.Kind != heap.KBool {
		return heap.Value{}, m.errf(n.Pos(), "%s requires bool operands, got %s", n.OpTok.GoString(), right.Kind)
	}
	return right, nil
}

// evalAssign implements `=`, `:=`, destructuring assign and the compound
// assignment operators (spec.md §4.5).
func (m *Machine) evalAssign(n *ast.Op, sc scope.Handle) (heap.Value, error) {
	if arr, ok := n.Left.(*ast.Array); ok {
		rightVal, err := m.Eval(n.Right, sc)
		if err != nil {
			return heap.Value{}, err
		}
		m.protectLive(rightVal)
		if err := m.destructureAssign(arr, rightVal, sc); err != nil {
			return heap.Value{}, err
		}
		return rightVal, nil
	}

	if n.OpTok == token.WALRUS {
		varNode, ok := n.Left.(*ast.Var)
		if !ok {
			return heap.Value{}, m.errf(n.Pos(), "local assignment target must be a variable or destructuring pattern")
		}
		rightVal, err := m.Eval(n.Right, sc)
		if err != nil {
			return heap.Value{}, err
		}
		m.protectLive(rightVal)
		m.Scopes.AssignLocal(varNode.Name, sc, m.Heap, rightVal)
		return rightVal, nil
	}

	if n.OpTok == token.ASSIGN {
		// A bare `a = expr` is spec.md §4.3's named assign operation: climb
		// the parent chain for an existing binding of a, else create one in
		// sc. Scopes.Assign is the canonical implementation of that climb;
		// an Index target (a[i] = expr) has no scope binding to climb to,
		// so it still goes through the lvalue machinery below.
		if varNode, ok := n.Left.(*ast.Var); ok {
			rightVal, err := m.Eval(n.Right, sc)
			if err != nil {
				return heap.Value{}, err
			}
			m.protectLive(rightVal)
			m.Scopes.Assign(varNode.Name, sc, m.Heap, rightVal)
			return rightVal, nil
		}

		lv, err := m.resolveLValue(n.Left, sc)
		if err != nil {
			return heap.Value{}, err
		}
		rightVal, err := m.Eval(n.Right, sc)
		if err != nil {
			return heap.Value{}, err
		}
		m.protectLive(rightVal)
		if err := m.writeLValue(lv, sc, rightVal); err != nil {
			return heap.Value{}, err
		}
		return rightVal, nil
	}

	baseOp, ok := token.CompoundBinOp(n.OpTok)
	if !ok {
		return heap.Value{}, m.errf(n.Pos(), "unsupported assignment operator %s", n.OpTok.GoString())
	}
	lv, err := m.resolveLValue(n.Left, sc)
	if err != nil {
		return heap.Value{}, err
	}
	current, err := m.readLValue(lv, n.Pos())
	if err != nil {
		return heap.Value{}, err
	}
	m.protectLive(current)
	rightVal, err := m.Eval(n.Right, sc)
	if err != nil {
		return heap.Value{}, err
	}
	newVal, err := m.binaryOp(n.Pos(), baseOp, current, rightVal)
	if err != nil {
		return heap.Value{}, err
	}
	if err := m.writeLValue(lv, sc, newVal); err != nil {
		return heap.Value{}, err
	}
	return newVal, nil
}

func (m *Machine) evalCall(n *ast.Call, sc scope.Handle) (heap.Value, error) {
	baseVal, err := m.Eval(n.Base, sc)
	if err != nil {
		return heap.Value{}, err
	}
	m.protectLive(baseVal)

	args := make([]heap.Value, 0, len(n.Args))
	for _, argNode := range n.Args {
		v, err := m.Eval(argNode, sc)
		if err != nil {
			return heap.Value{}, err
		}
		m.protectLive(v)
		args = append(args, v)
	}

	switch baseVal.Kind {
	case heap.KBuiltin:
		return m.callBuiltin(n.Pos(), baseVal.Str, args, sc)
	case heap.KFunction:
		return m.callFunction(n.Pos(), baseVal.Func, args, sc)
	default:
		return heap.Value{}, m.errf(n.Pos(), "invalid base for call: %s", baseVal.Kind)
	}
}

// callFunction implements the Function arm of spec.md §4.5's Call rule:
// arity-checked, arguments evaluated in the caller's scope, executed in a
// fresh frame whose parent is the closure's captured scope (for lexical
// lookup) and whose caller is the calling scope (a GC root only).
func (m *Machine) callFunction(pos token.Pos, fn *heap.Function, args []heap.Value, callerScope scope.Handle) (heap.Value, error) {
	if len(args) != len(fn.ArgNames) {
		return heap.Value{}, m.errf(pos, "function expects %d argument(s), got %d", len(fn.ArgNames), len(args))
	}
	if m.MaxCallDepth > 0 && m.callDepth >= m.MaxCallDepth {
		return heap.Value{}, m.errf(pos, "maximum call depth (%d) exceeded", m.MaxCallDepth)
	}
	m.callDepth++
	defer func() { m.callDepth-- }()

	callee := m.Scopes.Derive(scope.Handle(fn.CapturedScope), true, callerScope)
	for i, name := range fn.ArgNames {
		m.Scopes.AssignLocal(name, callee, m.Heap, args[i])
	}
	return m.Eval(fn.Code, callee)
}
