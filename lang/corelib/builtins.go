package corelib

import (
	"fmt"
	"io"
	"os"

	"github.com/melonlang/melon/lang/machine"
	"github.com/melonlang/melon/lang/types"
)

type builtin struct {
	name string
	fn   *types.Function
}

// builtins lists the plain global functions Register predeclares, grounded
// on vm.c's CORE_PRINT_STRING/CORE_LEN_STRING/CORE_STR_STRING constants
// (reconstructed, as no core.c survives — see corelib.go's package doc).
// print closes over th directly since NativeFunc carries no Thread
// parameter of its own; len/str need no thread state.
func builtins(th *machine.Thread) []builtin {
	return []builtin{
		{"print", nativeFn("print", corePrint(th))},
		{"len", nativeFn("len", coreLen)},
		{"str", nativeFn("str", coreStr)},
	}
}

func nativeFn(name string, fn types.NativeFunc) *types.Function {
	return &types.Function{Kind: types.Native, Name: name, NativeFn: fn}
}

// corePrint writes every argument's String() form, space-separated, followed
// by a newline, to th.Stdout (falling back to os.Stdout when th.Stdout is
// nil). It
// takes no receiver and returns Null, mirroring a statement-like built-in
// with no useful result.
func corePrint(th *machine.Thread) types.NativeFunc {
	return func(_ types.Value, args []types.Value) (types.Value, error) {
		var w io.Writer = th.Stdout
		if w == nil {
			w = os.Stdout
		}
		for i, a := range args {
			if i > 0 {
				fmt.Fprint(w, " ")
			}
			fmt.Fprint(w, a.String())
		}
		fmt.Fprintln(w)
		return types.NullValue, nil
	}
}

// coreLen reports the length of an Array, Range, or String, the one place
// spec.md's three "built-in" aggregate/text kinds share a uniform capability
// without each needing its own method (Array/Range already expose Len
// internally; String's length is its own byte count).
func coreLen(_ types.Value, args []types.Value) (types.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("len expects 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case *types.Array:
		return types.Int(v.Len()), nil
	case types.Range:
		return types.Int(v.Len()), nil
	case types.String:
		return types.Int(len(v)), nil
	default:
		return nil, fmt.Errorf("len: unsupported type %s", v.Type())
	}
}

// coreStr is spec.md §1's required "string conversion" capability: every
// Value already renders itself via String(), so str just exposes that as a
// callable, wrapping the result as a Melon String.
func coreStr(_ types.Value, args []types.Value) (types.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("str expects 1 argument, got %d", len(args))
	}
	return types.String(args[0].String()), nil
}
