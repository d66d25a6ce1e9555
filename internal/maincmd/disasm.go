package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/melonlang/melon/lang/compiler"
	"github.com/melonlang/melon/lang/corelib"
	"github.com/melonlang/melon/lang/machine"
	"github.com/melonlang/melon/lang/parser"
	"github.com/melonlang/melon/lang/resolver"
	"github.com/melonlang/melon/lang/scanner"
)

func (c *Cmd) Disasm(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return DisasmFiles(stdio, args)
}

// DisasmFiles compiles each file to bytecode and prints a disassembly of
// the top-level function and every function reachable through its constant
// pools (nested functions, and a class's instance methods and $init). A
// class's metaclass members (static methods and the metaclass $init) are
// not printed.
func DisasmFiles(stdio mainer.Stdio, files []string) error {
	var lastErr error
	for _, f := range files {
		block, err := parser.ParseFile(f)
		if err != nil {
			fmt.Fprint(stdio.Stderr, scanner.PrintError(err))
			lastErr = err
			continue
		}

		globals := resolver.NewGlobals()
		th := &machine.Thread{}
		corelib.Register(globals, th)

		fn, err := compiler.CompileProgram(globals, block)
		if err != nil {
			fmt.Fprint(stdio.Stderr, scanner.PrintError(err))
			lastErr = err
			continue
		}
		fmt.Fprintln(stdio.Stdout, compiler.Disassemble(fn))
	}
	return lastErr
}
