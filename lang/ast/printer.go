package ast

import (
	"fmt"
	"io"

	"github.com/bluebat-lang/bluebat/lang/token"
)

// Printer dumps a Node tree as indented, position-annotated text, in the
// style of the teacher's ast.Printer (one node label per line, fixed-width
// indentation by depth).
type Printer struct {
	Output io.Writer
	Pos    token.PosMode
	File   *token.File
}

// Print writes the tree rooted at n to p.Output.
func (p *Printer) Print(n Node) error {
	return p.print(n, 0)
}

func (p *Printer) print(n Node, depth int) error {
	if n == nil {
		return nil
	}
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	posStr := token.FormatPos(p.Pos, p.File, n.Pos(), true)
	if _, err := fmt.Fprintf(p.Output, "%s%s @%s: %s\n", indent, label(n), posStr, n.String()); err != nil {
		return err
	}
	for _, child := range children(n) {
		if err := p.print(child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func label(n Node) string {
	switch n.(type) {
	case *Num:
		return "Num"
	case *ValueNode:
		return "Value"
	case *Constant:
		return "Constant"
	case *Unary:
		return "Unary"
	case *Op:
		return "Op"
	case *Var:
		return "Var"
	case *StatementList:
		return "StatementList"
	case *Block:
		return "Block"
	case *If:
		return "If"
	case *While:
		return "While"
	case *Func:
		return "Func"
	case *Call:
		return "Call"
	case *Array:
		return "Array"
	case *Index:
		return "Index"
	default:
		return fmt.Sprintf("%T", n)
	}
}

// children returns the direct child nodes of n, for tree printing. It is a
// flat type switch rather than a Visitor interface: the node kind set is
// closed and small (spec.md §6), so a dedicated Walk machinery would be
// more machinery than the eleven cases it replaces.
func children(n Node) []Node {
	switch t := n.(type) {
	case *ValueNode:
		return []Node{t.Inner}
	case *Unary:
		return []Node{t.Operand}
	case *Op:
		return []Node{t.Left, t.Right}
	case *StatementList:
		return t.Statements
	case *Block:
		return []Node{t.Code}
	case *If:
		var out []Node
		for _, arm := range t.Conds {
			out = append(out, arm.Cond, arm.Body)
		}
		if t.Else != nil {
			out = append(out, t.Else)
		}
		return out
	case *While:
		return []Node{t.Cond, t.Body}
	case *Func:
		return []Node{t.Code}
	case *Call:
		out := []Node{t.Base}
		return append(out, t.Args...)
	case *Array:
		return t.Values
	case *Index:
		return []Node{t.Base, t.IdxExpr}
	default:
		return nil
	}
}
