package maincmd

import (
	"fmt"
	"io"

	"github.com/melonlang/melon/lang/ast"
)

// printTree writes one indented line per node of the tree rooted at node,
// using each node's own Format method (every ast.Node is a fmt.Formatter)
// together with its source position. '#' requests the child-count suffix
// a handful of nodes support (e.g. "block {stmts=3}").
func printTree(w io.Writer, node ast.Node) {
	depth := 0
	var visit ast.VisitorFunc
	visit = func(n ast.Node, dir ast.VisitDirection) ast.Visitor {
		if dir == ast.VisitExit {
			depth--
			return nil
		}
		fmt.Fprintf(w, "%*s%#v  %s\n", depth*2, "", n, n.Pos())
		depth++
		return visit
	}
	ast.Walk(visit, node)
}
