// Package machine implements the virtual machine that executes
// lang/compiler's bytecode and provides the runtime dispatch for Melon's
// class/instance model, operator overloading, and upvalue capture.
package machine

import (
	"context"
	"fmt"

	"github.com/melonlang/melon/lang/compiler"
	"github.com/melonlang/melon/lang/types"
)

// run executes fr's closure from its current pc to a RETURN/RET0 (or HALT,
// for the synthetic top-level function), reading and writing th.stack
// directly. Grounded on original_source/src/vm.c's vm_run switch, adapted
// from its flat bp-swap continuation loop to ordinary Go recursion: CALL
// below calls back into Call, which may push another Frame and invoke run
// again, unwinding naturally via Go's own call stack.
func run(th *Thread, fr *Frame) (types.Value, error) {
	fn := fr.closure.Fn
	code := fn.Code
	pc := fr.pc

	push := func(v types.Value) { th.stack = append(th.stack, v) }
	pop := func() types.Value {
		n := len(th.stack) - 1
		v := th.stack[n]
		th.stack = th.stack[:n]
		return v
	}
	peek := func() types.Value { return th.stack[len(th.stack)-1] }

	for {
		th.steps++
		if th.steps >= th.maxSteps {
			th.ctxCancel()
			return nil, fmt.Errorf("thread %s cancelled: %s", th.Name, context.Cause(th.ctx))
		}
		if th.cancelled.Load() {
			return nil, fmt.Errorf("thread %s cancelled: %s", th.Name, context.Cause(th.ctx))
		}

		op := compiler.Opcode(code[pc])
		var a0, a1 byte
		switch compiler.InstrLen(op) {
		case 3:
			a0, a1 = code[pc+1], code[pc+2]
		case 2:
			a0 = code[pc+1]
		}
		instrEnd := pc + compiler.InstrLen(op)
		fr.pc = pc

		switch op {
		case compiler.NOP:

		case compiler.LOADL:
			push(th.stack[fr.bp+int(a0)])
		case compiler.LOADI:
			push(types.Int(a0))
		case compiler.LOADK:
			k := fn.Constants[a0]
			if cl, ok := k.(*types.Class); ok && cl.Metaclass != nil && !cl.MetaInited {
				cl.MetaInited = true
				metaInit, ok := cl.Metaclass.Lookup("$init")
				if !ok {
					return nil, fmt.Errorf("class %s's metaclass has no $init", cl.Name)
				}
				if _, err := callBound(th, cl, metaInit, nil); err != nil {
					return nil, err
				}
			}
			push(k)
		case compiler.LOADG:
			push(th.Globals[a0])
		case compiler.LOADU:
			push(fr.closure.Upvalues[a0].Get(th.stack))
		case compiler.LOADF:
			name := pop()
			recv := pop()
			key, ok := name.(types.String)
			if !ok {
				return nil, fmt.Errorf("internal: LOADF key is %s, not string", name.Type())
			}
			v, err := loadField(recv, string(key))
			if err != nil {
				return nil, err
			}
			push(v)
		case compiler.LOADA:
			key := pop()
			recv := pop()
			v, err := loadIndex(recv, key)
			if err != nil {
				return nil, err
			}
			push(v)

		case compiler.STOREL:
			th.stack[fr.bp+int(a0)] = peek()
		case compiler.STOREG:
			th.Globals[a0] = peek()
		case compiler.STOREU:
			fr.closure.Upvalues[a0].Set(th.stack, peek())
		case compiler.STOREF:
			val := pop()
			name := pop()
			recv := pop()
			key, ok := name.(types.String)
			if !ok {
				return nil, fmt.Errorf("internal: STOREF key is %s, not string", name.Type())
			}
			if err := storeField(recv, string(key), val); err != nil {
				return nil, err
			}
			push(val)
		case compiler.STOREA:
			val := pop()
			key := pop()
			recv := pop()
			if err := storeIndex(recv, key, val); err != nil {
				return nil, err
			}
			push(val)

		case compiler.CLOSURE:
			raw, ok := pop().(*types.Function)
			if !ok {
				return nil, fmt.Errorf("internal: CLOSURE operand is not a function")
			}
			push(types.NewClosure(raw))
		case compiler.NEWUP:
			cl := peek().(*types.Closure)
			i := 0
			for cl.Upvalues[i] != nil {
				i++
			}
			if a0 != 0 {
				cl.Upvalues[i] = th.captureUpvalue(fr.bp + int(a1))
			} else {
				cl.Upvalues[i] = fr.closure.Upvalues[a1]
			}

		case compiler.CALL:
			n := int(a0)
			args := make([]types.Value, n)
			copy(args, th.stack[len(th.stack)-n:])
			th.stack = th.stack[:len(th.stack)-n]
			callee := pop()
			fr.pc = instrEnd
			result, err := Call(th, callee, args)
			if err != nil {
				return nil, err
			}
			push(result)

		case compiler.JMP:
			pc = instrEnd + int(a0)
			continue
		case compiler.LOOP:
			pc = instrEnd - int(a0)
			continue
		case compiler.JIF:
			v := pop()
			if b, ok := v.(types.Bool); ok && !bool(b) {
				pc = instrEnd + int(a0)
			} else {
				pc = instrEnd
			}
			continue

		case compiler.RETURN:
			return pop(), nil
		case compiler.RET0:
			return types.NullValue, nil

		case compiler.ADD:
			b, a := pop(), pop()
			v, err := opAdd(th, a, b)
			if err != nil {
				return nil, err
			}
			push(v)
		case compiler.SUB:
			b, a := pop(), pop()
			v, err := opSub(th, a, b)
			if err != nil {
				return nil, err
			}
			push(v)
		case compiler.MUL:
			b, a := pop(), pop()
			v, err := opMul(th, a, b)
			if err != nil {
				return nil, err
			}
			push(v)
		case compiler.DIV:
			b, a := pop(), pop()
			v, err := opDiv(th, a, b)
			if err != nil {
				return nil, err
			}
			push(v)
		case compiler.MOD:
			b, a := pop(), pop()
			v, err := opMod(a, b)
			if err != nil {
				return nil, err
			}
			push(v)
		case compiler.AND:
			b, a := pop(), pop()
			v, err := opAnd(a, b)
			if err != nil {
				return nil, err
			}
			push(v)
		case compiler.OR:
			b, a := pop(), pop()
			v, err := opOr(a, b)
			if err != nil {
				return nil, err
			}
			push(v)
		case compiler.LT:
			b, a := pop(), pop()
			v, err := opLt(a, b)
			if err != nil {
				return nil, err
			}
			push(v)
		case compiler.GT:
			b, a := pop(), pop()
			v, err := opGt(a, b)
			if err != nil {
				return nil, err
			}
			push(v)
		case compiler.LTE:
			b, a := pop(), pop()
			v, err := opLte(a, b)
			if err != nil {
				return nil, err
			}
			push(v)
		case compiler.GTE:
			b, a := pop(), pop()
			v, err := opGte(a, b)
			if err != nil {
				return nil, err
			}
			push(v)
		case compiler.EQ:
			b, a := pop(), pop()
			v, err := opEq(th, a, b)
			if err != nil {
				return nil, err
			}
			push(v)
		case compiler.NEQ:
			b, a := pop(), pop()
			v, err := opNeq(a, b)
			if err != nil {
				return nil, err
			}
			push(v)
		case compiler.NOT:
			v, err := opNot(pop())
			if err != nil {
				return nil, err
			}
			push(v)
		case compiler.NEG:
			v, err := opNeg(pop())
			if err != nil {
				return nil, err
			}
			push(v)

		case compiler.NEWARR:
			n := int(a0)
			elems := make([]types.Value, n)
			copy(elems, th.stack[len(th.stack)-n:])
			th.stack = th.stack[:len(th.stack)-n]
			push(types.NewArray(elems))
		case compiler.NEWRNG:
			end := pop()
			start := pop()
			s, ok1 := start.(types.Int)
			e, ok2 := end.(types.Int)
			if !ok1 || !ok2 {
				return nil, fmt.Errorf("range bounds must be int, got %s and %s", start.Type(), end.Type())
			}
			push(types.NewRange(int64(s), int64(e)))

		case compiler.HALT:
			return types.NullValue, nil

		default:
			return nil, fmt.Errorf("internal: unhandled opcode %s", op)
		}

		pc = instrEnd
	}
}
