// Package ast defines the abstract syntax tree nodes the evaluator consumes.
// The node kinds are exactly the ones spec'd as the parser/evaluator
// boundary: a tree-walking evaluator needs nothing more than these, and
// needs nothing AST-shaped beyond them (no bytecode lowering, no resolved
// binding indices — scope resolution is dynamic, see lang/machine).
package ast

import (
	"fmt"

	"github.com/bluebat-lang/bluebat/lang/token"
)

// Node represents any node in the AST.
type Node interface {
	// Pos returns the node's source position, or token.NoPos if the node
	// was synthesized rather than parsed. For most nodes this is the first
	// token; for Op it is the operator token, and for Call and Index the
	// opening '(' or '['.
	Pos() token.Pos

	// String renders a compact, single-line debug form of the node.
	String() string
}

// LitKind distinguishes the literal kinds a Constant node may embed.
type LitKind int

const (
	LitNull LitKind = iota
	LitBool
	LitString
	// LitTypeName is the payload of a `#number` / `#string` cast-target
	// literal, the right operand of an `as` Op node.
	LitTypeName
)

// Literal is the payload of a Constant node: a value the parser folded
// directly into the tree (true/false/null). Numbers use the dedicated Num
// node instead, matching spec.md's AST contract (Num(f64) is its own node
// kind, distinct from Constant).
type Literal struct {
	Kind LitKind
	Bool bool
	Str  string
}

func (l Literal) String() string {
	switch l.Kind {
	case LitNull:
		return "null"
	case LitBool:
		if l.Bool {
			return "true"
		}
		return "false"
	case LitString:
		return fmt.Sprintf("%q", l.Str)
	case LitTypeName:
		return "#" + l.Str
	default:
		return "<invalid literal>"
	}
}

// CondArm is one (condition, body) pair of an If node.
type CondArm struct {
	Cond Node
	Body Node
}
