package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melonlang/melon/lang/scanner"
	"github.com/melonlang/melon/lang/token"
)

func kinds(toks []scanner.Token) []token.Token {
	out := make([]token.Token, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanAllPunctuationAndOperators(t *testing.T) {
	toks, err := scanner.ScanAll("t.melon", []byte(`+ - * / % == != <= >= < > = && || ! . .. ( ) { } [ ] , ;`))
	require.NoError(t, err)
	assert.Equal(t, []token.Token{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.EQL, token.NEQ, token.LE, token.GE, token.LT, token.GT, token.EQ,
		token.AMPAMP, token.PIPEPIPE, token.BANG,
		token.DOT, token.RANGE,
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE,
		token.LBRACK, token.RBRACK, token.COMMA, token.SEMI,
		token.EOF,
	}, kinds(toks))
}

func TestScanKeywordsAndIdent(t *testing.T) {
	toks, err := scanner.ScanAll("t.melon", []byte(`if else while for in var func class static operator return true false counter`))
	require.NoError(t, err)
	got := kinds(toks)
	want := []token.Token{
		token.IF, token.ELSE, token.WHILE, token.FOR, token.IN, token.VAR,
		token.FUNC, token.CLASS, token.STATIC, token.OPERATOR, token.RETURN,
		token.TRUE, token.FALSE, token.IDENT, token.EOF,
	}
	assert.Equal(t, want, got)
	assert.Equal(t, "counter", toks[len(toks)-2].Lit)
}

func TestScanNumbers(t *testing.T) {
	toks, err := scanner.ScanAll("t.melon", []byte(`42 3.14 0`))
	require.NoError(t, err)
	require.Len(t, toks, 4) // 3 numbers + EOF
	assert.Equal(t, token.INT, toks[0].Kind)
	assert.EqualValues(t, 42, toks[0].Int)
	assert.Equal(t, token.FLOAT, toks[1].Kind)
	assert.InDelta(t, 3.14, toks[1].Float, 0.0001)
	assert.Equal(t, token.INT, toks[2].Kind)
	assert.EqualValues(t, 0, toks[2].Int)
}

func TestScanRangeNotConfusedWithFloat(t *testing.T) {
	toks, err := scanner.ScanAll("t.melon", []byte(`0..5`))
	require.NoError(t, err)
	require.Len(t, toks, 4) // INT, RANGE, INT, EOF
	assert.Equal(t, token.INT, toks[0].Kind)
	assert.Equal(t, token.RANGE, toks[1].Kind)
	assert.Equal(t, token.INT, toks[2].Kind)
}

func TestScanStrings(t *testing.T) {
	toks, err := scanner.ScanAll("t.melon", []byte(`"hello\nworld" 'it\'s'`))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(toks), 2)
	assert.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, "hello\nworld", toks[0].Str)
	assert.Equal(t, token.STRING, toks[1].Kind)
	assert.Equal(t, "it's", toks[1].Str)
}

func TestScanSkipsHashComments(t *testing.T) {
	toks, err := scanner.ScanAll("t.melon", []byte("var x = 1 # trailing comment\nx"))
	require.NoError(t, err)
	got := kinds(toks)
	assert.Equal(t, []token.Token{
		token.VAR, token.IDENT, token.EQ, token.INT, token.IDENT, token.EOF,
	}, got)
}

func TestScanUnterminatedStringReportsError(t *testing.T) {
	_, err := scanner.ScanAll("t.melon", []byte(`"oops`))
	require.Error(t, err)
	var el scanner.ErrorList
	require.ErrorAs(t, err, &el)
	require.Len(t, el, 1)
	assert.Contains(t, el[0].Msg, "not terminated")
}

func TestScanDoubleDotFloatIsAnError(t *testing.T) {
	_, err := scanner.ScanAll("t.melon", []byte(`1.2.3`))
	require.Error(t, err)
}

func TestScanPositionsTrackLineAndCol(t *testing.T) {
	toks, err := scanner.ScanAll("t.melon", []byte("var x\nvar y"))
	require.NoError(t, err)
	// first "var" at line 1 col 1
	assert.Equal(t, 1, toks[0].Pos.Line)
	assert.Equal(t, 1, toks[0].Pos.Col)
	// second "var" at line 2 col 1
	secondVarIdx := -1
	for i, tk := range toks {
		if tk.Kind == token.VAR && i > 0 {
			secondVarIdx = i
		}
	}
	require.NotEqual(t, -1, secondVarIdx)
	assert.Equal(t, 2, toks[secondVarIdx].Pos.Line)
}
