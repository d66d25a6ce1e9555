package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/melonlang/melon/lang/corelib"
	"github.com/melonlang/melon/lang/machine"
	"github.com/melonlang/melon/lang/parser"
	"github.com/melonlang/melon/lang/resolver"
	"github.com/melonlang/melon/lang/scanner"
)

func (c *Cmd) Resolve(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ResolveFiles(stdio, args)
}

// ResolveFiles parses and resolves each file independently, printing the
// resolved AST (every VarExpr/VarDecl/FuncDecl/ClassDecl now carries its
// Location and slot Idx). Each file gets its own fresh global table
// predeclared with the core library, matching run's resolution setup, so
// a reference to print/len/str resolves instead of reporting as undeclared.
func ResolveFiles(stdio mainer.Stdio, files []string) error {
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

		if err := resolver.Resolve(globals, block); err != nil {
			fmt.Fprint(stdio.Stderr, scanner.PrintError(err))
			lastErr = err
			continue
		}
		printTree(stdio.Stdout, block)
	}
	return lastErr
}
