package machine

import (
	"context"
	"sync"
	"testing"

	"github.com/melonlang/melon/lang/compiler"
	"github.com/melonlang/melon/lang/parser"
	"github.com/melonlang/melon/lang/resolver"
	"github.com/melonlang/melon/lang/types"
	"github.com/stretchr/testify/require"
)

// run compiles src as a whole program and executes it on a fresh Thread,
// mirroring lang/compiler/emitter_test.go's compileSrc helper one layer up.
func run(t *testing.T, src string) (types.Value, *Thread) {
	t.Helper()
	block, err := parser.ParseSource("test.mln", []byte(src))
	require.NoError(t, err)
	globals := resolver.NewGlobals()
	fn, err := compiler.CompileProgram(globals, block)
	require.NoError(t, err)

	th := &Thread{Globals: make([]types.Value, globals.Len())}
	for i := range th.Globals {
		th.Globals[i] = types.NullValue
	}
	v, err := th.Run(context.Background(), fn)
	require.NoError(t, err)
	return v, th
}

func TestArithmeticTopLevelResult(t *testing.T) {
	v, _ := run(t, `var x = 1 + 2 * 3; x`)
	require.Equal(t, types.Int(7), v)
}

func TestImplicitReturnOnlyAppliesToTrailingExprStmt(t *testing.T) {
	// A trailing var decl, not a bare expression, falls back to RET0: the
	// program's result is Null, not the declaration's initializer value.
	v, _ := run(t, `var x = 1 + 2;`)
	require.Equal(t, types.NullValue, v)
}

func TestClosuresCaptureIndependentUpvalues(t *testing.T) {
	v, _ := run(t, `
		func make() {
			var n = 0;
			func inc() {
				n = n + 1;
				return n;
			}
			return inc;
		}
		var c1 = make();
		var c2 = make();
		c1();
		c1();
		c2();
		[c1(), c2()]
	`)
	arr, ok := v.(*types.Array)
	require.True(t, ok)
	require.Equal(t, 2, arr.Len())
	require.Equal(t, types.Int(3), arr.Index(0))
	require.Equal(t, types.Int(2), arr.Index(1))
}

func TestClassConstructorAndFieldAccess(t *testing.T) {
	v, _ := run(t, `
		class Point {
			var x;
			var y;
			func Point(xv, yv) {
				x = xv;
				y = yv;
			}
			func sum() {
				return x + y;
			}
		}
		var p = Point(3, 4);
		p.sum()
	`)
	require.Equal(t, types.Int(7), v)
}

func TestOperatorOverloadFallback(t *testing.T) {
	v, _ := run(t, `
		class Vec {
			var x;
			func Vec(xv) {
				x = xv;
			}
			operator +(other) {
				return x + other.x;
			}
		}
		var a = Vec(3);
		var b = Vec(4);
		a + b
	`)
	require.Equal(t, types.Int(7), v)
}

func TestArraySubscriptReadWrite(t *testing.T) {
	v, _ := run(t, `
		var a = [10, 20, 30];
		a[1] = 99;
		a[1]
	`)
	require.Equal(t, types.Int(99), v)
}

var registerRangeIterationOnce sync.Once

// registerRangeIteration stands in for lang/corelib's Register by
// binding the same iterate/iteratorValue protocol emitForIn compiles for-in
// loops against: iterate(prevState) advances a 0-based position counter,
// returning Null once it reaches the range's length; iteratorValue(state)
// maps that position back to the actual range value.
func registerRangeIteration() {
	registerRangeIterationOnce.Do(func() {
		types.RegisterRangeMethod("iterate", func(r types.Range) types.Value {
			return &types.Function{
				Kind: types.Native,
				Name: "iterate",
				NativeFn: func(_ types.Value, args []types.Value) (types.Value, error) {
					if _, isNull := args[0].(types.Null); isNull {
						if r.Len() == 0 {
							return types.NullValue, nil
						}
						return types.Int(0), nil
					}
					idx := int64(args[0].(types.Int)) + 1
					if idx >= int64(r.Len()) {
						return types.NullValue, nil
					}
					return types.Int(idx), nil
				},
			}
		})
		types.RegisterRangeMethod("iteratorValue", func(r types.Range) types.Value {
			return &types.Function{
				Kind: types.Native,
				Name: "iteratorValue",
				NativeFn: func(_ types.Value, args []types.Value) (types.Value, error) {
					idx := int64(args[0].(types.Int))
					return types.Int(r.Start + idx*r.Step), nil
				},
			}
		})
	})
}

func TestForInOverRange(t *testing.T) {
	registerRangeIteration()
	v, _ := run(t, `
		var total = 0;
		for (var v in 0..5) {
			total = total + v;
		}
		total
	`)
	require.Equal(t, types.Int(10), v)
}

func TestCaptureUpvalueDedupAndOrder(t *testing.T) {
	th := &Thread{stack: make([]types.Value, 10)}
	u5 := th.captureUpvalue(5)
	u2 := th.captureUpvalue(2)
	u5Again := th.captureUpvalue(5)

	require.Same(t, u5, u5Again, "capturing the same slot twice must return the same cell")
	require.Len(t, th.openUpvalues, 2)
	require.Equal(t, 2, th.openUpvalues[0].Slot, "open list stays sorted ascending by slot")
	require.Equal(t, 5, th.openUpvalues[1].Slot)
	require.Equal(t, u2, th.openUpvalues[0])
}

func TestCloseUpvaluesRespectsThreshold(t *testing.T) {
	th := &Thread{stack: []types.Value{types.Int(10), types.Int(20), types.Int(30)}}
	low := th.captureUpvalue(0)
	high := th.captureUpvalue(2)

	th.closeUpvalues(1)

	require.True(t, high.IsClosed(), "slot >= threshold must be closed")
	require.False(t, low.IsClosed(), "slot below threshold stays open")
	require.Len(t, th.openUpvalues, 1)
	require.Equal(t, 0, th.openUpvalues[0].Slot)
}
