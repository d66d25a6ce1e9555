package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/melonlang/melon/lang/scanner"
)

func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(stdio, args)
}

// TokenizeFiles scans each file and prints one line per token: its source
// position, kind, and literal text (when the token carries one).
func TokenizeFiles(stdio mainer.Stdio, files []string) error {
	var lastErr error
	for _, f := range files {
		src, err := os.ReadFile(f)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			lastErr = err
			continue
		}
		toks, err := scanner.ScanAll(f, src)
		for _, tok := range toks {
			fmt.Fprintf(stdio.Stdout, "%s: %s", tok.Pos, tok.Kind)
			if tok.Lit != "" {
				fmt.Fprintf(stdio.Stdout, " %q", tok.Lit)
			}
			fmt.Fprintln(stdio.Stdout)
		}
		if err != nil {
			fmt.Fprint(stdio.Stderr, scanner.PrintError(err))
			lastErr = err
		}
	}
	return lastErr
}
