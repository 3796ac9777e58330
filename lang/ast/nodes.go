package ast

import (
	"fmt"
	"strings"

	"github.com/bluebat-lang/bluebat/lang/token"
)

type (
	// Num is a numeric literal.
	Num struct {
		Position token.Pos
		Value    float64
	}

	// ValueNode wraps a sub-expression, acting as a pass-through (used for
	// parenthesized expressions). Named ValueNode, not Value, to avoid
	// colliding with the runtime value type in lang/heap.
	ValueNode struct {
		Position token.Pos
		Inner    Node
	}

	// Constant embeds a literal value the parser folded directly into the
	// tree (true, false, null, string literals).
	Constant struct {
		Position token.Pos
		Lit      Literal
	}

	// Unary is a prefix operator: + - ! (and .. when it marks a spread
	// pattern inside a destructuring left side).
	Unary struct {
		Position token.Pos
		Op       token.Token
		Operand  Node
	}

	// Op is a binary operator, including the assignment-family operators
	// (= := += -= *= /= %= ^=) and the short-circuit && / ||.
	Op struct {
		Position token.Pos
		Left     Node
		OpTok    token.Token
		Right    Node
	}

	// Var is a name reference.
	Var struct {
		Position token.Pos
		Name     string
	}

	// StatementList is a sequence of statements; its value is the last
	// statement's value.
	StatementList struct {
		Position   token.Pos
		Statements []Node
	}

	// Block evaluates Code in a fresh derived child scope.
	Block struct {
		Position token.Pos
		Code     Node
	}

	// If is an if/elif.../else chain.
	If struct {
		Position token.Pos
		Conds    []CondArm
		Else     Node // nil if there is no else clause
	}

	// While is a while loop.
	While struct {
		Position token.Pos
		Cond     Node
		Body     Node
	}

	// Func is a function literal.
	Func struct {
		Position token.Pos
		ArgNames []string
		Code     Node
	}

	// Call invokes Base (a Builtin or Function value) with Args.
	Call struct {
		Position token.Pos
		Base     Node
		Args     []Node
	}

	// Array is an array literal.
	Array struct {
		Position token.Pos
		Values   []Node
	}

	// Index is a base[index] expression.
	Index struct {
		Position token.Pos
		Base     Node
		IdxExpr  Node
	}
)

func (n *Num) Pos() token.Pos           { return n.Position }
func (n *ValueNode) Pos() token.Pos     { return n.Position }
func (n *Constant) Pos() token.Pos      { return n.Position }
func (n *Unary) Pos() token.Pos         { return n.Position }
func (n *Op) Pos() token.Pos            { return n.Position }
func (n *Var) Pos() token.Pos           { return n.Position }
func (n *StatementList) Pos() token.Pos { return n.Position }
func (n *Block) Pos() token.Pos         { return n.Position }
func (n *If) Pos() token.Pos            { return n.Position }
func (n *While) Pos() token.Pos         { return n.Position }
func (n *Func) Pos() token.Pos          { return n.Position }
func (n *Call) Pos() token.Pos          { return n.Position }
func (n *Array) Pos() token.Pos         { return n.Position }
func (n *Index) Pos() token.Pos         { return n.Position }

func (n *Num) String() string { return fmt.Sprintf("%g", n.Value) }
func (n *ValueNode) String() string {
	return fmt.Sprintf("(%s)", n.Inner)
}
func (n *Constant) String() string { return n.Lit.String() }
func (n *Unary) String() string    { return fmt.Sprintf("%s%s", n.Op.GoString(), n.Operand) }
func (n *Op) String() string       { return fmt.Sprintf("(%s %s %s)", n.Left, n.OpTok.GoString(), n.Right) }
func (n *Var) String() string      { return n.Name }
func (n *StatementList) String() string {
	parts := make([]string, len(n.Statements))
	for i, s := range n.Statements {
		parts[i] = s.String()
	}
	return strings.Join(parts, "; ")
}
func (n *Block) String() string { return fmt.Sprintf("{ %s }", n.Code) }
func (n *If) String() string {
	var b strings.Builder
	for i, arm := range n.Conds {
		if i == 0 {
			fmt.Fprintf(&b, "if %s %s", arm.Cond, arm.Body)
		} else {
			fmt.Fprintf(&b, " elif %s %s", arm.Cond, arm.Body)
		}
	}
	if n.Else != nil {
		fmt.Fprintf(&b, " else %s", n.Else)
	}
	return b.String()
}
func (n *While) String() string { return fmt.Sprintf("while %s %s", n.Cond, n.Body) }
func (n *Func) String() string  { return fmt.Sprintf("|%s| %s", strings.Join(n.ArgNames, ", "), n.Code) }
func (n *Call) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", n.Base, strings.Join(parts, ", "))
}
func (n *Array) String() string {
	parts := make([]string, len(n.Values))
	for i, v := range n.Values {
		parts[i] = v.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}
func (n *Index) String() string { return fmt.Sprintf("%s[%s]", n.Base, n.IdxExpr) }
