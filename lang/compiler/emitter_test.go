package compiler

import (
	"testing"

	"github.com/melonlang/melon/lang/parser"
	"github.com/melonlang/melon/lang/resolver"
	"github.com/melonlang/melon/lang/types"
	"github.com/stretchr/testify/require"
)

func compileSrc(t *testing.T, src string) *types.Function {
	t.Helper()
	block, err := parser.ParseSource("test.mln", []byte(src))
	require.NoError(t, err)
	globals := resolver.NewGlobals()
	fn, err := CompileProgram(globals, block)
	require.NoError(t, err)
	return fn
}

func countOp(code []byte, op Opcode) int {
	n := 0
	for i := 0; i < len(code); {
		if Opcode(code[i]) == op {
			n++
		}
		i += InstrLen(Opcode(code[i]))
	}
	return n
}

func hasOp(code []byte, op Opcode) bool { return countOp(code, op) > 0 }

func TestCompileArithmetic(t *testing.T) {
	fn := compileSrc(t, "var x = 1 + 2 * 3;")
	require.True(t, hasOp(fn.Code, ADD))
	require.True(t, hasOp(fn.Code, MUL))
	require.True(t, hasOp(fn.Code, STOREG))
	require.True(t, hasOp(fn.Code, HALT))
}

func TestCompileConstantDedup(t *testing.T) {
	fn := compileSrc(t, `var a = "hi"; var b = "hi"; var c = "bye";`)
	count := 0
	for _, c := range fn.Constants {
		if s, ok := c.(types.String); ok && s == "hi" {
			count++
		}
	}
	require.Equal(t, 1, count, "identical string literals should share one constant slot")
}

func TestCompileIfElse(t *testing.T) {
	fn := compileSrc(t, `
		var x = 1;
		if (x == 1) {
			x = 2;
		} else {
			x = 3;
		}
	`)
	require.True(t, hasOp(fn.Code, JIF))
	require.True(t, hasOp(fn.Code, JMP))
	require.True(t, hasOp(fn.Code, EQ))
}

func TestCompileWhile(t *testing.T) {
	fn := compileSrc(t, `
		var i = 0;
		while (i < 10) {
			i = i + 1;
		}
	`)
	require.True(t, hasOp(fn.Code, LOOP))
	require.True(t, hasOp(fn.Code, LT))
}

func TestCompileForIn(t *testing.T) {
	fn := compileSrc(t, `
		var total = 0;
		for (var v in 0..10) {
			total = total + v;
		}
	`)
	require.True(t, hasOp(fn.Code, LOOP))
	require.True(t, hasOp(fn.Code, NEWRNG))
	require.True(t, hasOp(fn.Code, LOADF))
	hasIterate := false
	for _, c := range fn.Constants {
		if s, ok := c.(types.String); ok && s == "iterate" {
			hasIterate = true
		}
	}
	require.True(t, hasIterate)
}

func TestCompileShortCircuitAnd(t *testing.T) {
	fn := compileSrc(t, `var x = true && false;`)
	require.True(t, hasOp(fn.Code, JIF))
	require.False(t, hasOp(fn.Code, AND), "&& lowers to jumps, never the AND opcode")
}

func TestCompileShortCircuitOr(t *testing.T) {
	fn := compileSrc(t, `var x = true || false;`)
	require.True(t, hasOp(fn.Code, JIF))
	require.False(t, hasOp(fn.Code, OR), "|| lowers to jumps, never the OR opcode")
}

func TestCompileFuncDeclAndCall(t *testing.T) {
	fn := compileSrc(t, `
		func add(a, b) {
			return a + b;
		}
		var x = add(1, 2);
	`)
	require.True(t, hasOp(fn.Code, CLOSURE))
	require.True(t, hasOp(fn.Code, CALL))

	var nested *types.Function
	for _, c := range fn.Constants {
		if f, ok := c.(*types.Function); ok {
			nested = f
		}
	}
	require.NotNil(t, nested, "nested function body should land in the constant pool")
	require.Equal(t, 2, nested.NumParams)
	require.True(t, hasOp(nested.Code, ADD))
	require.True(t, hasOp(nested.Code, RETURN))
}

func TestCompileClassDecl(t *testing.T) {
	fn := compileSrc(t, `
		class Point {
			var x = 0;
			var y = 0;

			func Point(px, py) {
				x = px;
				y = py;
			}

			func sum() {
				return x + y;
			}
		}
		var p = Point(1, 2);
	`)
	var class *types.Class
	for _, c := range fn.Constants {
		if cl, ok := c.(*types.Class); ok {
			class = cl
		}
	}
	require.NotNil(t, class, "class value should land in the constant pool")
	require.Equal(t, 2, class.NumInstVars)

	initVal, ok := class.Lookup("$init")
	require.True(t, ok)
	initClosure, ok := initVal.(*types.Closure)
	require.True(t, ok)
	require.True(t, hasOp(initClosure.Fn.Code, STOREF), "field initializers store through STOREF")
	require.True(t, hasOp(initClosure.Fn.Code, CALL), "$init forwards to $construct")

	sumVal, ok := class.Lookup("sum")
	require.True(t, ok)
	sumClosure, ok := sumVal.(*types.Closure)
	require.True(t, ok)
	require.True(t, hasOp(sumClosure.Fn.Code, LOADF))
	require.True(t, hasOp(sumClosure.Fn.Code, ADD))
}

func TestCompileOperatorOverload(t *testing.T) {
	fn := compileSrc(t, `
		class V {
			var x = 0;
			func V(n) { x = n; }
			operator +(o) { return V(x + o.x); }
		}
		var a = V(1) + V(2);
	`)
	var class *types.Class
	for _, c := range fn.Constants {
		if cl, ok := c.(*types.Class); ok {
			class = cl
		}
	}
	require.NotNil(t, class)
	_, ok := class.Lookup("$add")
	require.True(t, ok, "operator+ should bind under its core method name")
	require.True(t, hasOp(fn.Code, ADD), "a binary + still emits ADD; the VM falls back to $add at runtime")
}
