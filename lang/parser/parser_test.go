package parser_test

import (
	"testing"

	"github.com/bluebat-lang/bluebat/lang/ast"
	"github.com/bluebat-lang/bluebat/lang/parser"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *ast.StatementList {
	t.Helper()
	prog, err := parser.Parse([]byte(src))
	require.NoError(t, err)
	return prog
}

func TestParseArithmeticPrecedence(t *testing.T) {
	prog := mustParse(t, "1 + 2 * 3")
	require.Len(t, prog.Statements, 1)
	op := prog.Statements[0].(*ast.Op)
	require.Equal(t, "+", op.OpTok.String())
	require.IsType(t, &ast.Num{}, op.Left)
	mul := op.Right.(*ast.Op)
	require.Equal(t, "*", mul.OpTok.String())
}

func TestParsePowerRightAssoc(t *testing.T) {
	prog := mustParse(t, "2 ^ 3 ^ 2")
	op := prog.Statements[0].(*ast.Op)
	require.Equal(t, "^", op.OpTok.String())
	require.IsType(t, &ast.Num{}, op.Left)
	inner := op.Right.(*ast.Op)
	require.Equal(t, "^", inner.OpTok.String())
}

func TestParseAsCastPrecedence(t *testing.T) {
	// a + 1 as #string parses as a + (1 as #string)
	prog := mustParse(t, "a + 1 as #string")
	plus := prog.Statements[0].(*ast.Op)
	require.Equal(t, "+", plus.OpTok.String())
	asOp := plus.Right.(*ast.Op)
	require.Equal(t, "as", asOp.OpTok.String())
	rightLit := asOp.Right.(*ast.Constant)
	require.Equal(t, ast.LitTypeName, rightLit.Lit.Kind)
	require.Equal(t, "string", rightLit.Lit.Str)
}

func TestParseAssignment(t *testing.T) {
	prog := mustParse(t, "a := 1; a += 2")
	require.Len(t, prog.Statements, 2)
	walrus := prog.Statements[0].(*ast.Op)
	require.Equal(t, ":=", walrus.OpTok.String())
	plusEq := prog.Statements[1].(*ast.Op)
	require.Equal(t, "+=", plusEq.OpTok.String())
}

func TestParseDestructuringSpread(t *testing.T) {
	prog := mustParse(t, "[a, ..b, c] = [1,2,3,4,5]")
	assign := prog.Statements[0].(*ast.Op)
	require.Equal(t, "=", assign.OpTok.String())
	arr := assign.Left.(*ast.Array)
	require.Len(t, arr.Values, 3)
	require.IsType(t, &ast.Var{}, arr.Values[0])
	spread := arr.Values[1].(*ast.Unary)
	require.Equal(t, "..", spread.Op.String())
}

func TestParseFuncAndCall(t *testing.T) {
	prog := mustParse(t, `f := |x, y| { x + y }; f(3, 4)`)
	require.Len(t, prog.Statements, 2)
	assign := prog.Statements[0].(*ast.Op)
	fn := assign.Right.(*ast.Func)
	require.Equal(t, []string{"x", "y"}, fn.ArgNames)

	call := prog.Statements[1].(*ast.Call)
	require.Len(t, call.Args, 2)
}

func TestParseIfElifElse(t *testing.T) {
	prog := mustParse(t, `if a < 1 { 1 } elif a < 2 { 2 } else { 3 }`)
	ifNode := prog.Statements[0].(*ast.If)
	require.Len(t, ifNode.Conds, 2)
	require.NotNil(t, ifNode.Else)
}

func TestParseWhile(t *testing.T) {
	prog := mustParse(t, `while a < 5 { a += 1 }`)
	require.IsType(t, &ast.While{}, prog.Statements[0])
}

func TestParseIndexAndCallChain(t *testing.T) {
	prog := mustParse(t, `v[0](1)`)
	call := prog.Statements[0].(*ast.Call)
	idx := call.Base.(*ast.Index)
	require.IsType(t, &ast.Var{}, idx.Base)
}

func TestParseErrorReported(t *testing.T) {
	_, err := parser.Parse([]byte(`1 +`))
	require.Error(t, err)
}
