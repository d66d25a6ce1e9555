package corelib

import "github.com/melonlang/melon/lang/types"

// registerArrayMethods binds Array's native methods, reachable from Melon
// code via LOADF (a.push(x), a.iterate(prev)). Grounded on value.c's
// array_t lifecycle functions (append/index) and vm.c's for-in lowering,
// which names the iterate/iteratorValue pair as the protocol every for-in
// loop target must answer to (see lang/compiler's emitForIn).
func registerArrayMethods() {
	types.RegisterArrayMethod("push", func(a *types.Array) types.Value {
		return nativeFn("push", func(_ types.Value, args []types.Value) (types.Value, error) {
			for _, v := range args {
				a.Push(v)
			}
			return types.NullValue, nil
		})
	})

	// iterate(state) walks a 0-based position through the array: Null
	// starts it at 0 (or ends immediately on an empty array), any other
	// state advances by one, returning Null once positions run out.
	types.RegisterArrayMethod("iterate", func(a *types.Array) types.Value {
		return nativeFn("iterate", func(_ types.Value, args []types.Value) (types.Value, error) {
			if _, isNull := args[0].(types.Null); isNull {
				if a.Len() == 0 {
					return types.NullValue, nil
				}
				return types.Int(0), nil
			}
			next := int64(args[0].(types.Int)) + 1
			if next >= int64(a.Len()) {
				return types.NullValue, nil
			}
			return types.Int(next), nil
		})
	})

	types.RegisterArrayMethod("iteratorValue", func(a *types.Array) types.Value {
		return nativeFn("iteratorValue", func(_ types.Value, args []types.Value) (types.Value, error) {
			return a.Index(int(args[0].(types.Int))), nil
		})
	})
}
