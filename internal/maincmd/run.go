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
	"github.com/melonlang/melon/lang/types"
)

// Run parses, resolves, compiles and executes a single script, printing its
// result value to stdout. It is the only subcommand that runs the machine,
// so it is the only one that reads Config/the --max-steps and
// --max-call-stack-depth flags.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	cfg, err := LoadConfig(c.configPath())
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	if c.MaxSteps != 0 {
		cfg.MaxSteps = c.MaxSteps
	}
	if c.MaxCallStackDepth != 0 {
		cfg.MaxCallStackDepth = c.MaxCallStackDepth
	}
	return RunFile(ctx, stdio, cfg, args[0])
}

func (c *Cmd) configPath() string {
	if c.ConfigPath != "" {
		return c.ConfigPath
	}
	return defaultConfigPath
}

// RunFile runs a single script end to end: parse, predeclare the core
// library, resolve, compile, grow the thread's global vector to match the
// program's own globals, then execute.
func RunFile(ctx context.Context, stdio mainer.Stdio, cfg Config, file string) error {
	block, err := parser.ParseFile(file)
	if err != nil {
		fmt.Fprint(stdio.Stderr, scanner.PrintError(err))
		return err
	}

	globals := resolver.NewGlobals()
	th := &machine.Thread{
		Name:              file,
		Stdout:            stdio.Stdout,
		Stderr:            stdio.Stderr,
		Stdin:             stdio.Stdin,
		MaxSteps:          cfg.MaxSteps,
		MaxCallStackDepth: cfg.MaxCallStackDepth,
	}
	corelib.Register(globals, th)

	fn, err := compiler.CompileProgram(globals, block)
	if err != nil {
		fmt.Fprint(stdio.Stderr, scanner.PrintError(err))
		return err
	}

	for len(th.Globals) < globals.Len() {
		th.Globals = append(th.Globals, types.NullValue)
	}

	v, err := th.Run(ctx, fn)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	if _, isNull := v.(types.Null); !isNull {
		fmt.Fprintln(stdio.Stdout, v.String())
	}
	return nil
}
