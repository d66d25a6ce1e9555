package ast

import (
	"fmt"

	"github.com/melonlang/melon/lang/token"
)

// LiteralKind classifies a LiteralExpr's value.
type LiteralKind int

//nolint:revive
const (
	NullLit LiteralKind = iota
	BoolLit
	IntLit
	FloatLit
	StringLit
)

type (
	// LiteralExpr is a null, bool, int, float or string literal.
	LiteralExpr struct {
		Start token.Position
		Kind  LiteralKind
		Raw   string      // uninterpreted source text
		Value interface{} // nil | bool | int64 | float64 | string
	}

	// VarExpr is a reference to a named variable. Location and Idx are zero
	// (Unresolved) until the resolver classifies the reference; Upvalues on
	// the enclosing FuncDecl is threaded by the same pass when Location ends
	// up Upvalue.
	VarExpr struct {
		Start    token.Position
		Name     string
		Location Location
		Idx      uint8
	}

	// UnaryExpr is a prefix unary operator expression: -x or !x.
	UnaryExpr struct {
		Op    token.Token
		OpPos token.Position
		Right Expr
	}

	// BinaryExpr is a binary operator expression, e.g. x + y. Op is one of
	// the tokens for which token.Token.IsOverloadable reports true, plus
	// AMPAMP/PIPEPIPE which the VM always handles natively (never overloaded,
	// since they short-circuit their right operand).
	BinaryExpr struct {
		Left  Expr
		Op    token.Token
		OpPos token.Position
		Right Expr
	}

	// ListExpr is an array literal: [a, b, c].
	ListExpr struct {
		Start token.Position
		Elems []Expr
	}

	// RangeExpr is a range literal: low..high. Per the resolved half-open
	// semantics, iterating a range never yields High.
	RangeExpr struct {
		Low  Expr
		High Expr
	}

	// PostfixExpr is a base expression followed by a chain of calls, field
	// accesses and subscripts, e.g. a.b[c](d).e. The emitter walks Elems left
	// to right, loading Base once and then threading each element's result
	// as the receiver of the next.
	PostfixExpr struct {
		Base  Expr
		Elems []PostfixElem
	}

	// FuncLitExpr is a function value used as an expression, e.g.
	// `var f = func(x) { return x }`. Decl's Location is always Unresolved:
	// an anonymous function literal has no name to bind, only the closure
	// value the emitter pushes at the point it appears.
	FuncLitExpr struct {
		Decl *FuncDecl
	}
)

// PostfixElemKind classifies one link of a PostfixExpr chain.
type PostfixElemKind int

//nolint:revive
const (
	PostfixCall PostfixElemKind = iota
	PostfixAccess
	PostfixSubscript
)

// PostfixElem is one link of a PostfixExpr chain.
type PostfixElem struct {
	Kind PostfixElemKind
	Pos  token.Position

	Name  string // PostfixAccess
	Args  []Expr // PostfixCall
	Index Expr   // PostfixSubscript
}

func (n *LiteralExpr) Format(f fmt.State, verb rune) { format(f, verb, n, n.literalLabel(), nil) }
func (n *LiteralExpr) literalLabel() string {
	switch n.Kind {
	case NullLit:
		return "null"
	case BoolLit:
		return "bool " + n.Raw
	case IntLit:
		return "int " + n.Raw
	case FloatLit:
		return "float " + n.Raw
	default:
		return "string " + n.Raw
	}
}
func (n *LiteralExpr) Pos() token.Position { return n.Start }
func (n *LiteralExpr) Walk(_ Visitor)      {}
func (n *LiteralExpr) expr()               {}

func (n *VarExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "var "+n.Name, nil) }
func (n *VarExpr) Pos() token.Position           { return n.Start }
func (n *VarExpr) Walk(_ Visitor)                {}
func (n *VarExpr) expr()                         {}

func (n *UnaryExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "unary "+n.Op.String(), nil)
}
func (n *UnaryExpr) Pos() token.Position { return n.OpPos }
func (n *UnaryExpr) Walk(v Visitor)      { Walk(v, n.Right) }
func (n *UnaryExpr) expr()               {}

func (n *BinaryExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "binary "+n.Op.String(), nil)
}
func (n *BinaryExpr) Pos() token.Position { return n.Left.Pos() }
func (n *BinaryExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}
func (n *BinaryExpr) expr() {}

func (n *ListExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "array", map[string]int{"elems": len(n.Elems)})
}
func (n *ListExpr) Pos() token.Position { return n.Start }
func (n *ListExpr) Walk(v Visitor) {
	for _, e := range n.Elems {
		Walk(v, e)
	}
}
func (n *ListExpr) expr() {}

func (n *RangeExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "range", nil) }
func (n *RangeExpr) Pos() token.Position           { return n.Low.Pos() }
func (n *RangeExpr) Walk(v Visitor) {
	Walk(v, n.Low)
	Walk(v, n.High)
}
func (n *RangeExpr) expr() {}

func (n *PostfixExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "postfix", map[string]int{"elems": len(n.Elems)})
}
func (n *PostfixExpr) Pos() token.Position { return n.Base.Pos() }
func (n *PostfixExpr) Walk(v Visitor) {
	Walk(v, n.Base)
	for _, e := range n.Elems {
		switch e.Kind {
		case PostfixCall:
			for _, a := range e.Args {
				Walk(v, a)
			}
		case PostfixSubscript:
			Walk(v, e.Index)
		}
	}
}
func (n *PostfixExpr) expr() {}

func (n *FuncLitExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "func lit", nil) }
func (n *FuncLitExpr) Pos() token.Position           { return n.Decl.Start }
func (n *FuncLitExpr) Walk(v Visitor)                { Walk(v, n.Decl) }
func (n *FuncLitExpr) expr()                         {}
