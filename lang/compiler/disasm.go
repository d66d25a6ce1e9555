package compiler

import (
	"fmt"
	"strings"

	"github.com/melonlang/melon/lang/types"
)

// Disassemble renders fn's bytecode, constant pool, and (recursively) any
// nested function/class constants as human-readable text, grounded on
// original_source/src/value.c's internal_disassemble/internal_cpool_dump.
// Unlike the original's direct stdout printf calls, this builds a string so
// callers (internal/maincmd's disasm subcommand, tests) can inspect or print
// it as they see fit.
func Disassemble(fn *types.Function) string {
	var b strings.Builder
	disasmFunc(&b, fn, 0)
	return b.String()
}

func disasmFunc(b *strings.Builder, fn *types.Function, depth int) {
	tabs := strings.Repeat("\t", depth)
	if fn.Kind != types.UserDefined {
		fmt.Fprintf(b, "%sdisassembly of function %q: native\n\n", tabs, fn.Name)
		return
	}

	fmt.Fprintf(b, "%sdisassembly of function %q\n", tabs, fn.Name)
	fmt.Fprintf(b, "%sbytes: %d\n", tabs, len(fn.Code))

	ninsts := 0
	for pc := 0; pc < len(fn.Code); {
		op := Opcode(fn.Code[pc])
		ninsts++
		fmt.Fprintf(b, "%s\t%s", tabs, op)
		for i := 0; i < operandCount(op); i++ {
			fmt.Fprintf(b, " %d", fn.Code[pc+1+i])
		}
		if ninsts%8 == 0 {
			b.WriteString("\n\n")
		} else {
			b.WriteString("\n")
		}
		pc += InstrLen(op)
	}
	b.WriteString("\n")

	dumpConstants(b, fn, depth)
}

func dumpConstants(b *strings.Builder, fn *types.Function, depth int) {
	tabs := strings.Repeat("\t", depth)
	fmt.Fprintf(b, "%sfunction constants of %q\n", tabs, fn.Name)
	if len(fn.Constants) == 0 {
		fmt.Fprintf(b, "%s\tnone\n\n", tabs)
		return
	}
	for _, c := range fn.Constants {
		fmt.Fprintf(b, "%s\t", tabs)
		disasmValue(b, c, depth+1)
	}
	b.WriteString("\n")
}

func disasmValue(b *strings.Builder, v types.Value, depth int) {
	switch x := v.(type) {
	case types.Bool:
		fmt.Fprintf(b, "[bool] %v\n", bool(x))
	case types.Int:
		fmt.Fprintf(b, "[int] %d\n", int64(x))
	case types.Float:
		fmt.Fprintf(b, "[float] %v\n", float64(x))
	case types.String:
		fmt.Fprintf(b, "[string] %s\n", string(x))
	case *types.Function:
		fmt.Fprintf(b, "[function] %s\n", x.Name)
		disasmFunc(b, x, depth)
	case *types.Closure:
		fmt.Fprintf(b, "[function] %s\n", x.Fn.Name)
		disasmFunc(b, x.Fn, depth)
	case *types.Class:
		fmt.Fprintf(b, "[class] %s\n", x.Name)
		disasmClass(b, x, depth)
	default:
		fmt.Fprintf(b, "[%s] %s\n", v.Type(), v.String())
	}
}

func disasmClass(b *strings.Builder, c *types.Class, depth int) {
	tabs := strings.Repeat("\t", depth)
	fmt.Fprintf(b, "%snvars: %d\n", tabs, c.NumInstVars)
	c.Members.Iter(func(name string, val types.Value) (stop bool) {
		fmt.Fprintf(b, "%s\t%s: ", tabs, name)
		disasmValue(b, val, depth+1)
		return false
	})
}
