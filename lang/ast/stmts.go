package ast

import (
	"fmt"

	"github.com/melonlang/melon/lang/token"
)

type (
	// VarDecl declares a new variable: var name = expr. Init is nil for a
	// bare `var name` (the emitter then loads Null). IsStatic is only
	// meaningful when the declaration is a direct child of a ClassBody: it
	// selects a metaclass slot instead of an instance slot.
	VarDecl struct {
		Start    token.Position
		Name     string
		Init     Expr
		Location Location
		Idx      uint8
		IsStatic bool
	}

	// FuncDecl declares a named function: func name(params) { body }. It is
	// also used for class methods and the class's synthesized constructor
	// ($construct), in which case Location is ClassMember and IsStatic marks
	// a metaclass (static) method.
	FuncDecl struct {
		Start    token.Position
		Name     string
		Params   []*Param
		Body     *Block
		Location Location
		Idx      uint8
		IsStatic bool

		// NumLocals and Upvalues are filled by the resolver: NumLocals is the
		// frame size needed at call time (including params and any synthetic
		// for-in temporaries), Upvalues lists what CLOSURE/NEWUP must capture.
		NumLocals int
		Upvalues  []UpvalueSpec
	}

	// ClassDecl declares a class. Fields lists both instance and static
	// (IsStatic) member variable declarations; Methods lists both instance
	// and static (IsStatic) methods, including the constructor (renamed to
	// $construct by the resolver) and any `operator` overloads (renamed to
	// their core method name, e.g. $add).
	ClassDecl struct {
		Start    token.Position
		Name     string
		Fields   []*VarDecl
		Methods  []*FuncDecl
		Location Location
		Idx      uint8
	}

	// AssignStmt assigns Value to Target. Target is always a *VarExpr, or a
	// *PostfixExpr whose last element is PostfixAccess or PostfixSubscript
	// (assignment through a property or index). Compound assignment
	// (+=, -=, *=, /=) is desugared by the parser into a plain AssignStmt
	// whose Value is a BinaryExpr referencing a clone of Target.
	AssignStmt struct {
		Target Expr
		Value  Expr
	}

	// ExprStmt is an expression used as a statement. The parser accepts any
	// expression here; a trailing ExprStmt of the top-level program becomes
	// that program's result.
	ExprStmt struct {
		X Expr
	}

	// IfStmt is an if/else statement. Else is nil if there is no else
	// branch; an "else if" is represented as an Else block containing a
	// single IfStmt.
	IfStmt struct {
		Start token.Position
		Cond  Expr
		Then  *Block
		Else  *Block
	}

	// WhileStmt is a while loop.
	WhileStmt struct {
		Start token.Position
		Cond  Expr
		Body  *Block
	}

	// ForStmt is a C-style three-clause for loop. Init, Cond and Post may
	// each be nil.
	ForStmt struct {
		Start token.Position
		Init  Stmt // *VarDecl, *AssignStmt or *ExprStmt
		Cond  Expr
		Post  Stmt // *AssignStmt or *ExprStmt
		Body  *Block
	}

	// ForInStmt is a for-in loop: for (var Name in Iterable) Body. The
	// resolver allocates two synthetic locals not visible to user code, one
	// holding the iterable being walked and one holding the iterator's
	// current state; TargetIdx/IteratorIdx are their slots and TargetName/
	// IteratorName their (collision-avoided) synthetic names.
	ForInStmt struct {
		Start    token.Position
		Name     string
		Idx      uint8
		Location Location
		Iterable Expr
		Body     *Block

		TargetName   string
		TargetIdx    uint8
		IteratorName string
		IteratorIdx  uint8
	}

	// ReturnStmt returns from the enclosing function. Value is nil for a
	// bare `return`, in which case the emitter appends RET0 semantics
	// (implicit Null).
	ReturnStmt struct {
		Start token.Position
		Value Expr
	}
)

func (n *VarDecl) Format(f fmt.State, verb rune) { format(f, verb, n, "var decl "+n.Name, nil) }
func (n *VarDecl) Pos() token.Position           { return n.Start }
func (n *VarDecl) Walk(v Visitor) {
	if n.Init != nil {
		Walk(v, n.Init)
	}
}
func (n *VarDecl) BlockEnding() bool { return false }

func (n *FuncDecl) Format(f fmt.State, verb rune) {
	format(f, verb, n, "func decl "+n.Name, map[string]int{"params": len(n.Params)})
}
func (n *FuncDecl) Pos() token.Position { return n.Start }
func (n *FuncDecl) Walk(v Visitor) {
	Walk(v, n.Body)
}
func (n *FuncDecl) BlockEnding() bool { return false }

func (n *ClassDecl) Format(f fmt.State, verb rune) {
	format(f, verb, n, "class decl "+n.Name, map[string]int{
		"fields":  len(n.Fields),
		"methods": len(n.Methods),
	})
}
func (n *ClassDecl) Pos() token.Position { return n.Start }
func (n *ClassDecl) Walk(v Visitor) {
	for _, fd := range n.Fields {
		Walk(v, fd)
	}
	for _, m := range n.Methods {
		Walk(v, m)
	}
}
func (n *ClassDecl) BlockEnding() bool { return false }

func (n *AssignStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "assign", nil) }
func (n *AssignStmt) Pos() token.Position           { return n.Target.Pos() }
func (n *AssignStmt) Walk(v Visitor) {
	Walk(v, n.Target)
	Walk(v, n.Value)
}
func (n *AssignStmt) BlockEnding() bool { return false }

func (n *ExprStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "expr stmt", nil) }
func (n *ExprStmt) Pos() token.Position           { return n.X.Pos() }
func (n *ExprStmt) Walk(v Visitor)                { Walk(v, n.X) }
func (n *ExprStmt) BlockEnding() bool             { return false }

func (n *IfStmt) Format(f fmt.State, verb rune) {
	lbl := "if"
	if n.Else != nil {
		lbl = "if else"
	}
	format(f, verb, n, lbl, nil)
}
func (n *IfStmt) Pos() token.Position { return n.Start }
func (n *IfStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Then)
	if n.Else != nil {
		Walk(v, n.Else)
	}
}
func (n *IfStmt) BlockEnding() bool { return false }

func (n *WhileStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "while", nil) }
func (n *WhileStmt) Pos() token.Position           { return n.Start }
func (n *WhileStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Body)
}
func (n *WhileStmt) BlockEnding() bool { return false }

func (n *ForStmt) Format(f fmt.State, verb rune) {
	var clauses int
	if n.Init != nil {
		clauses++
	}
	if n.Cond != nil {
		clauses++
	}
	if n.Post != nil {
		clauses++
	}
	format(f, verb, n, "for", map[string]int{"clauses": clauses})
}
func (n *ForStmt) Pos() token.Position { return n.Start }
func (n *ForStmt) Walk(v Visitor) {
	if n.Init != nil {
		Walk(v, n.Init)
	}
	if n.Cond != nil {
		Walk(v, n.Cond)
	}
	if n.Post != nil {
		Walk(v, n.Post)
	}
	Walk(v, n.Body)
}
func (n *ForStmt) BlockEnding() bool { return false }

func (n *ForInStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "for in "+n.Name, nil) }
func (n *ForInStmt) Pos() token.Position           { return n.Start }
func (n *ForInStmt) Walk(v Visitor) {
	Walk(v, n.Iterable)
	Walk(v, n.Body)
}
func (n *ForInStmt) BlockEnding() bool { return false }

func (n *ReturnStmt) Format(f fmt.State, verb rune) {
	count := 0
	if n.Value != nil {
		count = 1
	}
	format(f, verb, n, "return", map[string]int{"expr": count})
}
func (n *ReturnStmt) Pos() token.Position { return n.Start }
func (n *ReturnStmt) Walk(v Visitor) {
	if n.Value != nil {
		Walk(v, n.Value)
	}
}
func (n *ReturnStmt) BlockEnding() bool { return true }
