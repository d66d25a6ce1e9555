package machine

import (
	"fmt"

	"github.com/melonlang/melon/lang/types"
)

// overload calls name on recv (an Instance only — built-in types carry no
// user-overridable class) with args, reporting whether recv's class bound
// that name at all. Grounded on vm.c's DO_OVERLOAD_OP/CLASS_LOOKUP, simplified
// since only *types.Instance has a user-visible class to look methods up on.
func overload(th *Thread, recv types.Value, name string, args []types.Value) (types.Value, bool, error) {
	inst, ok := recv.(*types.Instance)
	if !ok {
		return nil, false, nil
	}
	callee, ok := inst.Class.Lookup(name)
	if !ok {
		return nil, false, nil
	}
	v, err := callBound(th, inst, callee, args)
	return v, true, err
}

// arith implements ADD/SUB/MUL/DIV: an Int/Float fast path (Int op Int stays
// Int; either side Float promotes to Float), falling back to the matching
// overload name on a's class when the fast path doesn't apply, per spec.md
// §4.6 and vm.c's DO_FAST_BIN_MATH/DO_OVERLOAD_OP. intOp and floatOp apply
// the operator to already-typed operands; name is the overload method
// ($add, $sub, $mul, $div).
func arith(th *Thread, a, b types.Value, name string, intOp func(x, y types.Int) types.Value, floatOp func(x, y types.Float) types.Value) (types.Value, error) {
	switch x := a.(type) {
	case types.Int:
		switch y := b.(type) {
		case types.Int:
			return intOp(x, y), nil
		case types.Float:
			return floatOp(types.Float(x), y), nil
		}
	case types.Float:
		switch y := b.(type) {
		case types.Int:
			return floatOp(x, types.Float(y)), nil
		case types.Float:
			return floatOp(x, y), nil
		}
	}
	if v, ok, err := overload(th, a, name, []types.Value{b}); ok {
		return v, err
	}
	return nil, fmt.Errorf("unsupported operand types for %s: %s and %s", name, a.Type(), b.Type())
}

func opAdd(th *Thread, a, b types.Value) (types.Value, error) {
	return arith(th, a, b, "$add",
		func(x, y types.Int) types.Value { return x + y },
		func(x, y types.Float) types.Value { return x + y })
}

func opSub(th *Thread, a, b types.Value) (types.Value, error) {
	return arith(th, a, b, "$sub",
		func(x, y types.Int) types.Value { return x - y },
		func(x, y types.Float) types.Value { return x - y })
}

func opMul(th *Thread, a, b types.Value) (types.Value, error) {
	return arith(th, a, b, "$mul",
		func(x, y types.Int) types.Value { return x * y },
		func(x, y types.Float) types.Value { return x * y })
}

func opDiv(th *Thread, a, b types.Value) (types.Value, error) {
	if _, ok := a.(types.Int); ok {
		if y, ok := b.(types.Int); ok && y == 0 {
			return nil, fmt.Errorf("division by zero")
		}
	}
	return arith(th, a, b, "$div",
		func(x, y types.Int) types.Value { return x / y },
		func(x, y types.Float) types.Value { return x / y })
}

// opMod implements MOD: an Int/Int fast path only, per vm.c's
// DO_FAST_INT_MATH(%), which has no overload fallback at all. vm.c silently
// drops both operands with nothing pushed on a type mismatch, corrupting its
// own stack invariant; this reports a runtime error instead (see DESIGN.md).
func opMod(a, b types.Value) (types.Value, error) {
	x, xok := a.(types.Int)
	y, yok := b.(types.Int)
	if !xok || !yok {
		return nil, fmt.Errorf("unsupported operand types for %%: %s and %s", a.Type(), b.Type())
	}
	if y == 0 {
		return nil, fmt.Errorf("modulo by zero")
	}
	return x % y, nil
}

// cmp implements LT/GT/LTE/GTE: Int/Float (cross-promoted) and String
// compare via Cmp, no overload fallback (spec.md's fallback list names only
// $add/$sub/$mul/$div/$eq). A type mismatch is a runtime error rather than
// vm.c's silent stack-restoring no-op (see DESIGN.md).
func cmp(a, b types.Value, accept func(c int) bool) (types.Value, error) {
	switch x := a.(type) {
	case types.Int:
		switch y := b.(type) {
		case types.Int:
			return types.Bool(accept(x.Cmp(y))), nil
		case types.Float:
			return types.Bool(accept(types.Float(x).Cmp(y))), nil
		}
	case types.Float:
		switch y := b.(type) {
		case types.Int:
			return types.Bool(accept(x.Cmp(types.Float(y)))), nil
		case types.Float:
			return types.Bool(accept(x.Cmp(y))), nil
		}
	case types.String:
		if y, ok := b.(types.String); ok {
			return types.Bool(accept(x.Cmp(y))), nil
		}
	}
	return nil, fmt.Errorf("unsupported operand types for comparison: %s and %s", a.Type(), b.Type())
}

func opLt(a, b types.Value) (types.Value, error) { return cmp(a, b, func(c int) bool { return c < 0 }) }
func opGt(a, b types.Value) (types.Value, error) { return cmp(a, b, func(c int) bool { return c > 0 }) }
func opLte(a, b types.Value) (types.Value, error) {
	return cmp(a, b, func(c int) bool { return c <= 0 })
}
func opGte(a, b types.Value) (types.Value, error) {
	return cmp(a, b, func(c int) bool { return c >= 0 })
}

// opEq implements EQ: an Instance whose class binds $eq defers to it;
// everything else (and an Instance without $eq) falls back to types.Equal's
// structural/identity comparison, per value.go's own doc comment.
func opEq(th *Thread, a, b types.Value) (types.Value, error) {
	if v, ok, err := overload(th, a, "$eq", []types.Value{b}); ok {
		return v, err
	}
	return types.Bool(types.Equal(a, b)), nil
}

// opNeq implements NEQ: always types.Equal's negation, never an overload —
// for-in's loop-termination test (it != null) must never fail to produce a
// bool regardless of what the iterator value's type is.
func opNeq(a, b types.Value) (types.Value, error) {
	return types.Bool(!types.Equal(a, b)), nil
}

// opNot requires a literal Bool operand, mirroring JIF's "taken when TOS is
// literally false" strictness rather than a generic truthiness coercion —
// vm.c's OP_NOT is equally strict, but silently drops the value instead of
// erroring on a non-bool; we report an error to keep the stack balanced.
func opNot(v types.Value) (types.Value, error) {
	b, ok := v.(types.Bool)
	if !ok {
		return nil, fmt.Errorf("unsupported operand type for !: %s", v.Type())
	}
	return !b, nil
}

func opNeg(v types.Value) (types.Value, error) {
	switch x := v.(type) {
	case types.Int:
		return -x, nil
	case types.Float:
		return -x, nil
	default:
		return nil, fmt.Errorf("unsupported operand type for unary -: %s", v.Type())
	}
}

// opAnd/opOr implement the AND/OR opcodes for instruction-set completeness;
// the emitter never produces them (&& and || are lowered to short-circuiting
// jumps instead, see emitter.Emitter.emitBinary), so these only run if some
// other bytecode source emits them. Both operands must be Bool — there is no
// sensible Go analog to vm.c's raw a.i/b.i bit reinterpretation.
func opAnd(a, b types.Value) (types.Value, error) {
	x, xok := a.(types.Bool)
	y, yok := b.(types.Bool)
	if !xok || !yok {
		return nil, fmt.Errorf("unsupported operand types for &&: %s and %s", a.Type(), b.Type())
	}
	return x && y, nil
}

func opOr(a, b types.Value) (types.Value, error) {
	x, xok := a.(types.Bool)
	y, yok := b.(types.Bool)
	if !xok || !yok {
		return nil, fmt.Errorf("unsupported operand types for ||: %s and %s", a.Type(), b.Type())
	}
	return x || y, nil
}
