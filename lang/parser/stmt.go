package parser

import (
	"github.com/melonlang/melon/lang/ast"
	"github.com/melonlang/melon/lang/token"
)

// opAssignToBinary maps a compound-assignment token to the binary operator
// it desugars into, per original_source/src/parser.c's token_op_assign_to_op.
var opAssignToBinary = map[token.Token]token.Token{
	token.PLUS_EQ:  token.PLUS,
	token.MINUS_EQ: token.MINUS,
	token.STAR_EQ:  token.STAR,
	token.SLASH_EQ: token.SLASH,
}

// parseDecl parses one top-level-or-block-level production: a `static`
// prefix, a var/func/class declaration, or a bare statement. Mirrors
// parser.c's parse_decl.
func (p *parser) parseDecl() ast.Stmt {
	isStatic := p.match(token.STATIC)

	switch {
	case p.at(token.VAR):
		return p.parseVarDecl(isStatic)
	case p.at(token.FUNC):
		return p.parseFuncDecl(isStatic, false)
	case p.at(token.OPERATOR):
		return p.parseFuncDecl(isStatic, true)
	case p.at(token.CLASS):
		return p.parseClassDecl()
	}

	return p.parseStmt()
}

// parseVarDecl parses `var name [= expr] [;]`.
func (p *parser) parseVarDecl(isStatic bool) *ast.VarDecl {
	start := p.expect(token.VAR)
	name := p.tok.Lit
	p.expect(token.IDENT)

	var init ast.Expr
	if p.match(token.EQ) {
		init = p.parseExpr()
	}
	p.match(token.SEMI)

	return &ast.VarDecl{Start: start, Name: name, Init: init, IsStatic: isStatic}
}

// parseFuncDecl parses `func name(params) { body }` or, when isOperator,
// `operator <op>(params) { body }`, whose name is rewritten to the
// overloaded operator's core method name (e.g. `$add`), per parser.c's
// parse_func_decl / op_to_core_str. The declaration is wrapped in a VarDecl
// the same way a plain `var` binds a name, since a function declaration
// also introduces a new binding in its enclosing scope.
func (p *parser) parseFuncDecl(isStatic, isOperator bool) *ast.VarDecl {
	start := p.tok.Pos
	var name string

	if isOperator {
		p.advance() // consume 'operator'
		op := p.tok.Kind
		opLit := p.tok.Lit
		if !op.IsOverloadable() {
			p.error(p.tok.Pos, "invalid operator overload: "+opLit)
			panic(errPanicMode{})
		}
		name = op.CoreMethodName()
		p.advance()
	} else {
		p.advance() // consume 'func'
		name = p.tok.Lit
		p.expect(token.IDENT)
	}

	fd := p.parseFuncTail(start, name)
	fd.IsStatic = isStatic
	return &ast.VarDecl{Start: start, Name: name, Init: &ast.FuncLitExpr{Decl: fd}, IsStatic: isStatic}
}

// parseFuncTail parses the `(params) { body }` shared by named function
// declarations, operator overloads and anonymous function expressions.
func (p *parser) parseFuncTail(start token.Position, name string) *ast.FuncDecl {
	p.expect(token.LPAREN)
	var params []*ast.Param
	if !p.at(token.RPAREN) {
		for {
			ppos := p.tok.Pos
			pname := p.tok.Lit
			p.expect(token.IDENT)
			params = append(params, &ast.Param{Start: ppos, Name: pname})
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.RPAREN)
	body := p.parseBlock()
	return &ast.FuncDecl{Start: start, Name: name, Params: params, Body: body}
}

// parseClassDecl parses `class Name { ...members... }`. Members are parsed
// with the same parseDecl used at block scope (parser.c's parse_class_decl
// reuses parse_block's statement list wholesale), then split into fields
// and methods. A method sharing its class's own name is left as-is here;
// lang/resolver.fixConstructorName renames it to `$construct` during
// resolution (semantic.c's fix_constructor_name runs at the same point, in
// the resolver's global symbol-table pass, not in the parser).
func (p *parser) parseClassDecl() *ast.ClassDecl {
	start := p.expect(token.CLASS)
	name := p.tok.Lit
	p.expect(token.IDENT)

	body := p.parseBlock()

	cd := &ast.ClassDecl{Start: start, Name: name}
	for _, stmt := range body.Stmts {
		switch decl := stmt.(type) {
		case *ast.VarDecl:
			if fn, ok := decl.Init.(*ast.FuncLitExpr); ok {
				fn.Decl.IsStatic = decl.IsStatic
				cd.Methods = append(cd.Methods, fn.Decl)
				continue
			}
			cd.Fields = append(cd.Fields, decl)
		case *ast.FuncDecl:
			cd.Methods = append(cd.Methods, decl)
		}
	}
	return cd
}

// parseBlock parses a brace-delimited sequence of declarations/statements,
// recovering from errors at the statement level so one bad statement
// doesn't abort the rest of the block.
func (p *parser) parseBlock() *ast.Block {
	start := p.expect(token.LBRACE)
	blk := &ast.Block{Start: start}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		blk.Stmts = append(blk.Stmts, p.parseDeclRecovered())
	}
	p.expect(token.RBRACE)
	return blk
}

// parseStmt parses a non-declaration statement: control flow, return, or an
// expression/assignment statement. Mirrors parser.c's parse_stmt.
func (p *parser) parseStmt() ast.Stmt {
	switch p.tok.Kind {
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.RETURN:
		return p.parseReturn()
	}
	return p.parseSimpleStmt()
}

// parseIf parses `if (cond) block [else (if ... | block)]`.
func (p *parser) parseIf() *ast.IfStmt {
	start := p.expect(token.IF)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	then := p.parseBlock()

	stmt := &ast.IfStmt{Start: start, Cond: cond, Then: then}
	if p.match(token.ELSE) {
		if p.at(token.IF) {
			// `else if` is represented as a single-statement block wrapping a
			// nested IfStmt, so Else is always a *Block.
			elseIf := p.parseIf()
			stmt.Else = &ast.Block{Start: elseIf.Start, Stmts: []ast.Stmt{elseIf}}
		} else {
			stmt.Else = p.parseBlock()
		}
	}
	return stmt
}

// parseWhile parses `while (cond) block`.
func (p *parser) parseWhile() *ast.WhileStmt {
	start := p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	body := p.parseBlock()
	return &ast.WhileStmt{Start: start, Cond: cond, Body: body}
}

// parseFor parses both loop forms that share the `for (var name ...` prefix:
// `for (var name in iterable) block` and the C-style
// `for (var name = init; cond; post) block`, distinguished by whether `in`
// follows the var declaration, per parser.c's parse_for.
func (p *parser) parseFor() ast.Stmt {
	start := p.expect(token.FOR)
	p.expect(token.LPAREN)
	p.expect(token.VAR)

	namePos := p.tok.Pos
	name := p.tok.Lit
	p.expect(token.IDENT)

	if p.match(token.IN) {
		iterable := p.parseExpr()
		p.expect(token.RPAREN)
		body := p.parseBlock()
		return &ast.ForInStmt{Start: start, Name: name, Iterable: iterable, Body: body}
	}

	var init ast.Stmt = &ast.VarDecl{Start: namePos, Name: name}
	if p.match(token.EQ) {
		init.(*ast.VarDecl).Init = p.parseExpr()
	}
	p.expect(token.SEMI)

	cond := p.parseExpr()
	p.expect(token.SEMI)
	post := p.parseSimpleStmtNoSemi()

	p.expect(token.RPAREN)
	body := p.parseBlock()
	return &ast.ForStmt{Start: start, Init: init, Cond: cond, Post: post, Body: body}
}

// parseReturn parses `return [expr] [;]`. A bare `return` (no expression)
// is valid: an expression is parsed unless the next token is ';' or '}'.
func (p *parser) parseReturn() *ast.ReturnStmt {
	start := p.expect(token.RETURN)
	var value ast.Expr
	if !p.at(token.SEMI) && !p.at(token.RBRACE) {
		value = p.parseExpr()
	}
	p.match(token.SEMI)
	return &ast.ReturnStmt{Start: start, Value: value}
}

// parseSimpleStmt parses an expression statement or an assignment
// (including compound assignment), consuming a trailing semicolon.
func (p *parser) parseSimpleStmt() ast.Stmt {
	stmt := p.parseSimpleStmtNoSemi()
	p.match(token.SEMI)
	return stmt
}

// parseSimpleStmtNoSemi is parseSimpleStmt without consuming the trailing
// semicolon, for use in a C-style for loop's init/post clauses where the
// semicolons are the loop's own delimiters.
func (p *parser) parseSimpleStmtNoSemi() ast.Stmt {
	expr := p.parseExpr()

	if _, isCompound := opAssignToBinary[p.tok.Kind]; isCompound || p.at(token.EQ) {
		// Only a variable, or a postfix chain ending in .name or [index], can
		// be assigned to.
		valid := false
		switch t := expr.(type) {
		case *ast.VarExpr:
			valid = true
		case *ast.PostfixExpr:
			valid = len(t.Elems) > 0 && t.Elems[len(t.Elems)-1].Kind != ast.PostfixCall
		}
		if !valid {
			p.error(p.tok.Pos, "invalid assignment target")
		}
	}

	switch p.tok.Kind {
	case token.EQ:
		p.advance()
		value := p.parseExpr()
		return &ast.AssignStmt{Target: expr, Value: value}

	case token.PLUS_EQ, token.MINUS_EQ, token.STAR_EQ, token.SLASH_EQ:
		// Compound assignment desugars to a plain assignment whose value is a
		// binary expression over a clone of the target, per parser.c's
		// parse_infix: convert the op-assign token to its underlying binary
		// op, clone the target for the binary expression's left operand, and
		// emit a plain '=' assignment of that binary expression.
		op := p.tok.Kind
		opPos := p.tok.Pos
		p.advance()
		rhs := p.parseExpr()
		binOp := opAssignToBinary[op]
		value := &ast.BinaryExpr{Left: cloneTarget(expr), Op: binOp, OpPos: opPos, Right: rhs}
		return &ast.AssignStmt{Target: expr, Value: value}
	}

	return &ast.ExprStmt{X: expr}
}
