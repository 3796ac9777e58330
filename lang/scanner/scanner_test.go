package scanner_test

import (
	"testing"

	"github.com/bluebat-lang/bluebat/lang/scanner"
	"github.com/bluebat-lang/bluebat/lang/token"
	"github.com/stretchr/testify/require"
)

func kinds(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, err := scanner.Scan([]byte(src))
	require.NoError(t, err)
	out := make([]token.Token, len(toks))
	for i, tk := range toks {
		out[i] = tk.Token
	}
	return out
}

func TestScanBasics(t *testing.T) {
	got := kinds(t, `a := 1 + 2 * 3; println(a)`)
	require.Equal(t, []token.Token{
		token.IDENT, token.WALRUS, token.NUMBER, token.PLUS, token.NUMBER,
		token.STAR, token.NUMBER, token.SEMI, token.IDENT, token.LPAREN,
		token.IDENT, token.RPAREN, token.EOF,
	}, got)
}

func TestScanOperators(t *testing.T) {
	got := kinds(t, `+= -= *= /= %= ^= == != <= >= && || := ..`)
	require.Equal(t, []token.Token{
		token.PLUS_EQ, token.MINUS_EQ, token.STAR_EQ, token.SLASH_EQ,
		token.PCT_EQ, token.CARET_EQ, token.EQ, token.NEQ, token.LE, token.GE,
		token.AND, token.OR, token.WALRUS, token.DOTDOT, token.EOF,
	}, got)
}

func TestScanString(t *testing.T) {
	toks, err := scanner.Scan([]byte(`"hello\nworld"`))
	require.NoError(t, err)
	require.Equal(t, token.STRING, toks[0].Token)
	require.Equal(t, "hello\nworld", toks[0].Lit)
}

func TestScanCastHash(t *testing.T) {
	got := kinds(t, `x as #number`)
	require.Equal(t, []token.Token{token.IDENT, token.AS, token.HASH, token.IDENT, token.EOF}, got)
}

func TestScanUnterminatedString(t *testing.T) {
	_, err := scanner.Scan([]byte(`"abc`))
	require.Error(t, err)
}

func TestScanLineComment(t *testing.T) {
	got := kinds(t, "a // this is a comment\nb")
	require.Equal(t, []token.Token{token.IDENT, token.IDENT, token.EOF}, got)
}
