// Package parser builds a lang/ast tree out of a lang/scanner token stream,
// using a hand-written recursive-descent, precedence-climbing parser, in
// the style of the teacher's own lang/parser (no parser-generator
// dependency).
package parser

import (
	"fmt"

	"github.com/bluebat-lang/bluebat/lang/ast"
	"github.com/bluebat-lang/bluebat/lang/scanner"
	"github.com/bluebat-lang/bluebat/lang/token"
)

// Error is a parse-time error (spec.md §7 ParseError).
type Error struct {
	Pos token.Pos
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", token.FormatPos(token.PosShort, nil, e.Pos, true), e.Msg)
}

// Parse scans and parses src into a top-level StatementList node.
func Parse(src []byte) (*ast.StatementList, error) {
	toks, err := scanner.Scan(src)
	if err != nil {
		return nil, &Error{Pos: posOf(err), Msg: err.Error()}
	}
	p := &parser{toks: toks}
	return p.parseProgram()
}

// ParseStatement parses a single statement and reports an error if any
// input follows it.
func ParseStatement(src []byte) (ast.Node, error) {
	toks, err := scanner.Scan(src)
	if err != nil {
		return nil, &Error{Pos: posOf(err), Msg: err.Error()}
	}
	p := &parser{toks: toks}
	stmt := p.parseStatement()
	if p.err != nil {
		return nil, p.err
	}
	if p.cur().Token != token.EOF {
		p.errorf("unexpected trailing input %s", p.cur().Token.GoString())
		return nil, p.err
	}
	return stmt, nil
}

func posOf(err error) token.Pos {
	if serr, ok := err.(*scanner.Error); ok {
		return serr.Pos
	}
	return token.NoPos
}

type parser struct {
	toks []scanner.Tok
	i    int
	err  *Error
}

func (p *parser) cur() scanner.Tok {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.i]
}

func (p *parser) advance() scanner.Tok {
	t := p.cur()
	if p.i < len(p.toks)-1 {
		p.i++
	}
	return t
}

func (p *parser) at(tok token.Token) bool { return p.cur().Token == tok }

func (p *parser) expect(tok token.Token) scanner.Tok {
	if p.err != nil {
		return p.cur()
	}
	if !p.at(tok) {
		p.errorf("expected %s, got %s", tok.GoString(), p.cur().Token.GoString())
		return p.cur()
	}
	return p.advance()
}

func (p *parser) errorf(format string, args ...interface{}) ast.Node {
	if p.err == nil {
		p.err = &Error{Pos: p.cur().Pos, Msg: fmt.Sprintf(format, args...)}
	}
	return nil
}

func (p *parser) parseProgram() (*ast.StatementList, error) {
	pos := p.cur().Pos
	var stmts []ast.Node
	for !p.at(token.EOF) && p.err == nil {
		stmts = append(stmts, p.parseStatement())
		for p.at(token.SEMI) {
			p.advance()
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return &ast.StatementList{Position: pos, Statements: stmts}, nil
}

// parseStatement parses one expression statement, including assignment
// forms, which sit at the bottom of the precedence ladder (spec.md §6).
func (p *parser) parseStatement() ast.Node {
	left := p.parseExpr()
	if p.err != nil {
		return left
	}
	if tok := p.cur().Token; token.IsAssignOp(tok) {
		pos := p.cur().Pos
		p.advance()
		right := p.parseStatement()
		return &ast.Op{Position: pos, Left: left, OpTok: tok, Right: right}
	}
	return left
}

// parseExpr parses a full non-assignment expression (the right side of an
// array literal or of an assignment's left/right when those are not
// themselves further assignments).
func (p *parser) parseExpr() ast.Node { return p.parseOr() }

func (p *parser) parseOr() ast.Node {
	left := p.parseAnd()
	for p.at(token.OR) {
		pos := p.advance().Pos
		right := p.parseAnd()
		left = &ast.Op{Position: pos, Left: left, OpTok: token.OR, Right: right}
	}
	return left
}

func (p *parser) parseAnd() ast.Node {
	left := p.parseEquality()
	for p.at(token.AND) {
		pos := p.advance().Pos
		right := p.parseEquality()
		left = &ast.Op{Position: pos, Left: left, OpTok: token.AND, Right: right}
	}
	return left
}

func (p *parser) parseEquality() ast.Node {
	left := p.parseRelational()
	for p.at(token.EQ) || p.at(token.NEQ) {
		tok := p.cur().Token
		pos := p.advance().Pos
		right := p.parseRelational()
		left = &ast.Op{Position: pos, Left: left, OpTok: tok, Right: right}
	}
	return left
}

func (p *parser) parseRelational() ast.Node {
	left := p.parseAdditive()
	for p.at(token.LT) || p.at(token.LE) || p.at(token.GT) || p.at(token.GE) {
		tok := p.cur().Token
		pos := p.advance().Pos
		right := p.parseAdditive()
		left = &ast.Op{Position: pos, Left: left, OpTok: tok, Right: right}
	}
	return left
}

// parseAsCast binds tighter than every binary operator (including `^`) and
// looser than unary/postfix, so `a + 1 as #string` parses as
// `a + (1 as #string)` (SPEC_FULL.md).
func (p *parser) parseAsCast() ast.Node {
	left := p.parseUnary()
	for p.at(token.AS) {
		pos := p.advance().Pos
		p.expect(token.HASH)
		nameTok := p.expect(token.IDENT)
		right := &ast.Constant{Position: nameTok.Pos, Lit: ast.Literal{Kind: ast.LitTypeName, Str: nameTok.Lit}}
		left = &ast.Op{Position: pos, Left: left, OpTok: token.AS, Right: right}
	}
	return left
}

func (p *parser) parseAdditive() ast.Node {
	left := p.parseMultiplicative()
	for p.at(token.PLUS) || p.at(token.MINUS) {
		tok := p.cur().Token
		pos := p.advance().Pos
		right := p.parseMultiplicative()
		left = &ast.Op{Position: pos, Left: left, OpTok: tok, Right: right}
	}
	return left
}

func (p *parser) parseMultiplicative() ast.Node {
	left := p.parsePower()
	for p.at(token.STAR) || p.at(token.SLASH) || p.at(token.PERCENT) {
		tok := p.cur().Token
		pos := p.advance().Pos
		right := p.parsePower()
		left = &ast.Op{Position: pos, Left: left, OpTok: tok, Right: right}
	}
	return left
}

// parsePower is right-associative: 2 ^ 3 ^ 2 == 2 ^ (3 ^ 2).
func (p *parser) parsePower() ast.Node {
	left := p.parseAsCast()
	if p.at(token.CARET) {
		pos := p.advance().Pos
		right := p.parsePower()
		return &ast.Op{Position: pos, Left: left, OpTok: token.CARET, Right: right}
	}
	return left
}

func (p *parser) parseUnary() ast.Node {
	switch p.cur().Token {
	case token.PLUS, token.MINUS, token.NOT, token.DOTDOT:
		tok := p.cur().Token
		pos := p.advance().Pos
		operand := p.parseUnary()
		return &ast.Unary{Position: pos, Op: tok, Operand: operand}
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() ast.Node {
	n := p.parsePrimary()
	for {
		switch p.cur().Token {
		case token.LPAREN:
			pos := p.advance().Pos
			var args []ast.Node
			for !p.at(token.RPAREN) && p.err == nil {
				args = append(args, p.parseExpr())
				if p.at(token.COMMA) {
					p.advance()
				} else {
					break
				}
			}
			p.expect(token.RPAREN)
			n = &ast.Call{Position: pos, Base: n, Args: args}
		case token.LBRACK:
			pos := p.advance().Pos
			idx := p.parseExpr()
			p.expect(token.RBRACK)
			n = &ast.Index{Position: pos, Base: n, IdxExpr: idx}
		default:
			return n
		}
		if p.err != nil {
			return n
		}
	}
}

func (p *parser) parsePrimary() ast.Node {
	tok := p.cur()
	switch tok.Token {
	case token.NUMBER:
		p.advance()
		var v float64
		fmt.Sscanf(tok.Lit, "%g", &v)
		return &ast.Num{Position: tok.Pos, Value: v}
	case token.STRING:
		p.advance()
		return &ast.Constant{Position: tok.Pos, Lit: ast.Literal{Kind: ast.LitString, Str: tok.Lit}}
	case token.TRUE:
		p.advance()
		return &ast.Constant{Position: tok.Pos, Lit: ast.Literal{Kind: ast.LitBool, Bool: true}}
	case token.FALSE:
		p.advance()
		return &ast.Constant{Position: tok.Pos, Lit: ast.Literal{Kind: ast.LitBool, Bool: false}}
	case token.NULL:
		p.advance()
		return &ast.Constant{Position: tok.Pos, Lit: ast.Literal{Kind: ast.LitNull}}
	case token.IDENT:
		p.advance()
		return &ast.Var{Position: tok.Pos, Name: tok.Lit}
	case token.LPAREN:
		p.advance()
		inner := p.parseExpr()
		p.expect(token.RPAREN)
		return &ast.ValueNode{Position: tok.Pos, Inner: inner}
	case token.LBRACK:
		return p.parseArray()
	case token.LBRACE:
		return p.parseBlock()
	case token.PIPE:
		return p.parseFunc()
	case token.OR:
		// `||` is scanned as one token; in primary position it is the empty
		// argument list of a function literal.
		p.advance()
		body := p.parseBlock()
		return &ast.Func{Position: tok.Pos, Code: body}
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	default:
		p.errorf("unexpected token %s", tok.Token.GoString())
		return &ast.Constant{Position: tok.Pos, Lit: ast.Literal{Kind: ast.LitNull}}
	}
}

func (p *parser) parseArray() ast.Node {
	pos := p.expect(token.LBRACK).Pos
	var vals []ast.Node
	for !p.at(token.RBRACK) && p.err == nil {
		vals = append(vals, p.parseExpr())
		if p.at(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RBRACK)
	return &ast.Array{Position: pos, Values: vals}
}

func (p *parser) parseBlock() ast.Node {
	pos := p.expect(token.LBRACE).Pos
	slPos := p.cur().Pos
	var stmts []ast.Node
	for !p.at(token.RBRACE) && p.err == nil {
		stmts = append(stmts, p.parseStatement())
		for p.at(token.SEMI) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return &ast.Block{Position: pos, Code: &ast.StatementList{Position: slPos, Statements: stmts}}
}

func (p *parser) parseFunc() ast.Node {
	pos := p.expect(token.PIPE).Pos
	var names []string
	for !p.at(token.PIPE) && p.err == nil {
		nameTok := p.expect(token.IDENT)
		names = append(names, nameTok.Lit)
		if p.at(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.PIPE)
	body := p.parseBlock()
	return &ast.Func{Position: pos, ArgNames: names, Code: body}
}

func (p *parser) parseIf() ast.Node {
	pos := p.expect(token.IF).Pos
	var conds []ast.CondArm
	cond := p.parseExpr()
	body := p.parseBlock()
	conds = append(conds, ast.CondArm{Cond: cond, Body: body})
	for p.at(token.ELIF) {
		p.advance()
		c := p.parseExpr()
		b := p.parseBlock()
		conds = append(conds, ast.CondArm{Cond: c, Body: b})
	}
	var elseBody ast.Node
	if p.at(token.ELSE) {
		p.advance()
		elseBody = p.parseBlock()
	}
	return &ast.If{Position: pos, Conds: conds, Else: elseBody}
}

func (p *parser) parseWhile() ast.Node {
	pos := p.expect(token.WHILE).Pos
	cond := p.parseExpr()
	body := p.parseBlock()
	return &ast.While{Position: pos, Cond: cond, Body: body}
}
