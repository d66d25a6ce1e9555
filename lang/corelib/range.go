package corelib

import "github.com/melonlang/melon/lang/types"

// registerRangeMethods binds Range's iterate/iteratorValue pair, the same
// position-then-value protocol array.go implements, grounded on value.c's
// range helpers and the half-open range semantics SPEC_FULL.md §1 resolves
// (iteration stops before yielding End).
func registerRangeMethods() {
	types.RegisterRangeMethod("iterate", func(r types.Range) types.Value {
		return nativeFn("iterate", func(_ types.Value, args []types.Value) (types.Value, error) {
			if _, isNull := args[0].(types.Null); isNull {
				if r.Len() == 0 {
					return types.NullValue, nil
				}
				return types.Int(0), nil
			}
			next := int64(args[0].(types.Int)) + 1
			if next >= int64(r.Len()) {
				return types.NullValue, nil
			}
			return types.Int(next), nil
		})
	})

	types.RegisterRangeMethod("iteratorValue", func(r types.Range) types.Value {
		return nativeFn("iteratorValue", func(_ types.Value, args []types.Value) (types.Value, error) {
			idx := int64(args[0].(types.Int))
			return types.Int(r.Start + idx*r.Step), nil
		})
	})
}
