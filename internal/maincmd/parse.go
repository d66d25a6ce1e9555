package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/melonlang/melon/lang/parser"
	"github.com/melonlang/melon/lang/scanner"
)

func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFiles(stdio, args)
}

// ParseFiles parses each file and prints its resulting AST as an indented
// tree, one node per line.
func ParseFiles(stdio mainer.Stdio, files []string) error {
	var lastErr error
	for _, f := range files {
		block, err := parser.ParseFile(f)
		if err != nil {
			fmt.Fprint(stdio.Stderr, scanner.PrintError(err))
			lastErr = err
			continue
		}
		printTree(stdio.Stdout, block)
	}
	return lastErr
}
