package machine

import (
	"fmt"

	"github.com/melonlang/melon/lang/types"
)

// Call invokes callee with args, dispatching on its dynamic kind, and
// returns the result the VM's CALL opcode leaves on the caller's stack.
// Grounded on original_source/src/vm.c's OP_CALL case (CALL_FUNC/
// CALL_FUNC_NOSTACK and the class-construction branch), adapted to Go
// recursion instead of vm_run's flat bp-swap loop: each nested Melon call is
// a nested Go call, sharing th's one value stack (see thread.go).
func Call(th *Thread, callee types.Value, args []types.Value) (types.Value, error) {
	switch c := callee.(type) {
	case *types.BoundMethod:
		return callBound(th, c.Recv, c.Callee, args)
	case *types.Closure:
		return callClosure(th, nil, c, args)
	case *types.Function:
		if c.Kind != types.Native {
			return nil, fmt.Errorf("cannot call user-defined function %s without a closure", c.Name)
		}
		return c.NativeFn(nil, args)
	case *types.Class:
		return construct(th, c, args)
	default:
		return nil, fmt.Errorf("%s is not callable", callee.Type())
	}
}

// callBound invokes callee with recv bound as its implicit receiver: a
// Closure gets recv as local slot 0, a native Function gets it as its own
// recv parameter.
func callBound(th *Thread, recv types.Value, callee types.Value, args []types.Value) (types.Value, error) {
	switch c := callee.(type) {
	case *types.Closure:
		return callClosure(th, recv, c, args)
	case *types.Function:
		if c.Kind != types.Native {
			return nil, fmt.Errorf("cannot call user-defined function %s without a closure", c.Name)
		}
		return c.NativeFn(recv, args)
	default:
		return nil, fmt.Errorf("%s is not callable", callee.Type())
	}
}

// construct implements spec.md's class-call semantics: a user-defined
// static factory literally named "$new" takes over entirely (no implicit
// instance is created); absent that, allocate a zeroed Instance and run its
// $init, which spec.md's emitted epilogue (see emitter.Emitter.finishInit)
// guarantees returns self, so that return value IS the constructed
// instance — vm.c's explicit post-call `stack[bp] = instance` overwrite has
// no separate step to perform here.
func construct(th *Thread, class *types.Class, args []types.Value) (types.Value, error) {
	if class.Metaclass != nil {
		if v, ok := class.Metaclass.Lookup("$new"); ok {
			return callBound(th, class, v, args)
		}
	}
	init, ok := class.Lookup("$init")
	if !ok {
		return nil, fmt.Errorf("class %s has no $init", class.Name)
	}
	instance := types.NewInstance(class)
	return callBound(th, instance, init, args)
}

// callClosure runs cl's bytecode to completion. recv, if non-nil, is bound
// as local slot 0 ahead of args (a method invocation); otherwise args alone
// fill the parameter slots starting at 0 (a plain function or closure call).
func callClosure(th *Thread, recv types.Value, cl *types.Closure, args []types.Value) (types.Value, error) {
	if th.MaxCallStackDepth > 0 && len(th.callStack) >= th.MaxCallStackDepth {
		return nil, fmt.Errorf("call stack exceeds maximum depth %d", th.MaxCallStackDepth)
	}

	bp := len(th.stack)
	if recv != nil {
		th.stack = append(th.stack, recv)
	}
	th.stack = append(th.stack, args...)
	for len(th.stack) < bp+cl.Fn.NumLocals {
		th.stack = append(th.stack, types.NullValue)
	}
	// A call site that supplied more arguments than the callee declares
	// locals for would otherwise leak its excess onto the callee's operand
	// stack; truncate back to the frame's declared size.
	if len(th.stack) > bp+cl.Fn.NumLocals {
		th.stack = th.stack[:bp+cl.Fn.NumLocals]
	}

	fr := &Frame{closure: cl, bp: bp}
	th.callStack = append(th.callStack, fr)

	result, err := run(th, fr)

	th.closeUpvalues(bp)
	th.stack = th.stack[:bp]
	th.callStack = th.callStack[:len(th.callStack)-1]

	if err != nil {
		return nil, err
	}
	return result, nil
}
