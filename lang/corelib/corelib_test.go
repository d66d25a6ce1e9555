package corelib_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/melonlang/melon/lang/compiler"
	"github.com/melonlang/melon/lang/corelib"
	"github.com/melonlang/melon/lang/machine"
	"github.com/melonlang/melon/lang/parser"
	"github.com/melonlang/melon/lang/resolver"
	"github.com/melonlang/melon/lang/types"
	"github.com/stretchr/testify/require"
)

// runWithCorelib mirrors corelib.Register's documented call order: predeclare
// before resolving, grow Globals to its final size after compiling.
func runWithCorelib(t *testing.T, src string, stdout *bytes.Buffer) types.Value {
	t.Helper()
	globals := resolver.NewGlobals()
	th := &machine.Thread{Stdout: stdout}
	corelib.Register(globals, th)

	block, err := parser.ParseSource("test.mln", []byte(src))
	require.NoError(t, err)
	fn, err := compiler.CompileProgram(globals, block)
	require.NoError(t, err)

	for len(th.Globals) < globals.Len() {
		th.Globals = append(th.Globals, types.NullValue)
	}

	v, err := th.Run(context.Background(), fn)
	require.NoError(t, err)
	return v
}

func TestLenOverArrayRangeString(t *testing.T) {
	v := runWithCorelib(t, `[len([1, 2, 3]), len(0..10), len("hello")]`, &bytes.Buffer{})
	arr := v.(*types.Array)
	require.Equal(t, types.Int(3), arr.Index(0))
	require.Equal(t, types.Int(10), arr.Index(1))
	require.Equal(t, types.Int(5), arr.Index(2))
}

func TestStrConversion(t *testing.T) {
	v := runWithCorelib(t, `str(7)`, &bytes.Buffer{})
	require.Equal(t, types.String("7"), v)
}

func TestPrintWritesToThreadStdout(t *testing.T) {
	var out bytes.Buffer
	runWithCorelib(t, `print("hi", 1, true);`, &out)
	require.Equal(t, "hi 1 true\n", out.String())
}

func TestArrayPushAndForIn(t *testing.T) {
	v := runWithCorelib(t, `
		var a = [1, 2];
		a.push(3);
		a.push(4);
		var total = 0;
		for (var x in a) {
			total = total + x;
		}
		total
	`, &bytes.Buffer{})
	require.Equal(t, types.Int(10), v)
}

func TestForInOverRangeUsesCorelibIteration(t *testing.T) {
	v := runWithCorelib(t, `
		var total = 0;
		for (var x in 0..5) {
			total = total + x;
		}
		total
	`, &bytes.Buffer{})
	require.Equal(t, types.Int(10), v)
}
