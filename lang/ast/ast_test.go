package ast_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/melonlang/melon/lang/ast"
	"github.com/melonlang/melon/lang/token"
)

func TestWalkOrder(t *testing.T) {
	// s = a + 1
	bin := &ast.BinaryExpr{
		Left:  &ast.VarExpr{Name: "a"},
		Op:    token.PLUS,
		Right: &ast.LiteralExpr{Kind: ast.IntLit, Raw: "1", Value: int64(1)},
	}
	assign := &ast.AssignStmt{Target: &ast.VarExpr{Name: "s"}, Value: bin}
	block := &ast.Block{Stmts: []ast.Stmt{assign}}

	var visited []string
	ast.Walk(ast.VisitorFunc(func(n ast.Node, dir ast.VisitDirection) ast.Visitor {
		if dir != ast.VisitEnter {
			return nil
		}
		visited = append(visited, fmt.Sprintf("%T", n))
		return ast.VisitorFunc(func(n ast.Node, dir ast.VisitDirection) ast.Visitor {
			if dir != ast.VisitEnter {
				return nil
			}
			visited = append(visited, fmt.Sprintf("%T", n))
			return nil
		})
	}), block)

	assert.Equal(t, []string{"*ast.Block", "*ast.AssignStmt"}, visited)
}

func TestWalkDescendsWhenVisitorContinues(t *testing.T) {
	bin := &ast.BinaryExpr{
		Left:  &ast.VarExpr{Name: "a"},
		Op:    token.PLUS,
		Right: &ast.VarExpr{Name: "b"},
	}

	var names []string
	ast.Walk(ast.VisitorFunc(func(n ast.Node, dir ast.VisitDirection) ast.Visitor {
		if dir != ast.VisitEnter {
			return nil
		}
		if v, ok := n.(*ast.VarExpr); ok {
			names = append(names, v.Name)
		}
		return ast.VisitorFunc(func(n ast.Node, dir ast.VisitDirection) ast.Visitor {
			if dir != ast.VisitEnter {
				return nil
			}
			if v, ok := n.(*ast.VarExpr); ok {
				names = append(names, v.Name)
			}
			return nil
		})
	}), bin)

	assert.Equal(t, []string{"a", "b"}, names)
}

func TestPostfixExprWalksCallArgsAndSubscriptIndex(t *testing.T) {
	// a(x)[y]
	expr := &ast.PostfixExpr{
		Base: &ast.VarExpr{Name: "a"},
		Elems: []ast.PostfixElem{
			{Kind: ast.PostfixCall, Args: []ast.Expr{&ast.VarExpr{Name: "x"}}},
			{Kind: ast.PostfixSubscript, Index: &ast.VarExpr{Name: "y"}},
		},
	}

	var names []string
	var record ast.VisitorFunc
	record = func(n ast.Node, dir ast.VisitDirection) ast.Visitor {
		if dir != ast.VisitEnter {
			return nil
		}
		if v, ok := n.(*ast.VarExpr); ok {
			names = append(names, v.Name)
		}
		return record
	}
	ast.Walk(record, expr)

	assert.ElementsMatch(t, []string{"a", "x", "y"}, names)
}

func TestFormatVerb(t *testing.T) {
	v := &ast.VarExpr{Name: "count"}
	assert.Equal(t, "var count", fmt.Sprintf("%s", v))
	assert.Equal(t, fmt.Sprintf("%%!d(%T)", v), fmt.Sprintf("%d", v))
}

func TestLocationString(t *testing.T) {
	assert.Equal(t, "global", ast.Global.String())
	assert.Equal(t, "local", ast.Local.String())
	assert.Equal(t, "upvalue", ast.Upvalue.String())
	assert.Equal(t, "class member", ast.ClassMember.String())
	assert.Equal(t, "unresolved", ast.Unresolved.String())
}
