package parser

import (
	"github.com/melonlang/melon/lang/ast"
	"github.com/melonlang/melon/lang/token"
)

// Binding powers, from original_source/src/parser.c's precedence_t enum.
// Higher binds tighter. Assignment isn't in this table: Melon only allows
// assignment as a statement (see stmt.go's parseSimpleStmt), so it never
// competes for precedence inside an expression the way parser.c's PREC_ASSIGN
// does.
const (
	precLowest = iota
	precOr
	precAnd
	precComparison
	precTerm
	precFactor
	precUnary
	precCall
)

var binaryPrec = map[token.Token]int{
	token.PIPEPIPE: precOr,
	token.AMPAMP:   precAnd,
	token.EQL:      precComparison,
	token.NEQ:      precComparison,
	token.LT:       precComparison,
	token.GT:       precComparison,
	token.LE:       precComparison,
	token.GE:       precComparison,
	token.PLUS:     precTerm,
	token.MINUS:    precTerm,
	token.STAR:     precFactor,
	token.SLASH:    precFactor,
	token.PERCENT:  precFactor,
	// the postfix chain (call/access/subscript) and range operator bind as
	// tightly as parser.c's PREC_CALL.
	token.DOT:    precCall,
	token.LPAREN: precCall,
	token.LBRACK: precCall,
	token.RANGE:  precCall,
}

// parseExpr parses a full expression (everything above assignment
// precedence; see stmt.go for where assignment itself is recognized).
func (p *parser) parseExpr() ast.Expr {
	return p.parsePrecedence(precLowest)
}

// parsePrecedence implements precedence climbing: it parses a prefix
// expression, then repeatedly folds in infix/postfix operators whose
// binding power exceeds minPrec, mirroring parser.c's parse_precedence.
func (p *parser) parsePrecedence(minPrec int) ast.Expr {
	left := p.parsePrefix()

	for {
		prec, ok := binaryPrec[p.tok.Kind]
		if !ok || prec <= minPrec {
			break
		}
		switch p.tok.Kind {
		case token.DOT, token.LPAREN, token.LBRACK:
			left = p.parsePostfixChain(left)
		case token.RANGE:
			left = p.parseRange(left)
		default:
			left = p.parseBinary(left, prec)
		}
	}

	return left
}

func (p *parser) parseBinary(left ast.Expr, prec int) ast.Expr {
	op := p.tok.Kind
	opPos := p.tok.Pos
	p.advance()
	right := p.parsePrecedence(prec)
	return &ast.BinaryExpr{Left: left, Op: op, OpPos: opPos, Right: right}
}

func (p *parser) parseRange(low ast.Expr) ast.Expr {
	p.advance() // consume '..'
	high := p.parsePrecedence(precCall)
	return &ast.RangeExpr{Low: low, High: high}
}

// parsePrefix parses a unary expression or a primary expression with its
// postfix chain, i.e. everything at precUnary and above.
func (p *parser) parsePrefix() ast.Expr {
	switch p.tok.Kind {
	case token.BANG, token.MINUS:
		op := p.tok.Kind
		opPos := p.tok.Pos
		p.advance()
		right := p.parsePrecedence(precUnary)
		return &ast.UnaryExpr{Op: op, OpPos: opPos, Right: right}
	}
	return p.parsePrimary()
}

// parsePrimary parses a literal, identifier, parenthesized expression, array
// literal or function expression, the set of tokens that can start an
// expression (parser.c's prefix rules).
func (p *parser) parsePrimary() ast.Expr {
	pos := p.tok.Pos
	switch p.tok.Kind {
	case token.INT:
		v := p.tok.Int
		lit := p.tok.Lit
		p.advance()
		return &ast.LiteralExpr{Start: pos, Kind: ast.IntLit, Raw: lit, Value: v}
	case token.FLOAT:
		v := p.tok.Float
		lit := p.tok.Lit
		p.advance()
		return &ast.LiteralExpr{Start: pos, Kind: ast.FloatLit, Raw: lit, Value: v}
	case token.STRING:
		v := p.tok.Str
		lit := p.tok.Lit
		p.advance()
		return &ast.LiteralExpr{Start: pos, Kind: ast.StringLit, Raw: lit, Value: v}
	case token.TRUE:
		p.advance()
		return &ast.LiteralExpr{Start: pos, Kind: ast.BoolLit, Raw: "true", Value: true}
	case token.FALSE:
		p.advance()
		return &ast.LiteralExpr{Start: pos, Kind: ast.BoolLit, Raw: "false", Value: false}
	case token.IDENT:
		name := p.tok.Lit
		p.advance()
		return &ast.VarExpr{Start: pos, Name: name}
	case token.LPAREN:
		p.advance()
		expr := p.parseExpr()
		p.expect(token.RPAREN)
		return expr
	case token.LBRACK:
		return p.parseArrayLit()
	case token.FUNC:
		return p.parseFuncExpr()
	}

	p.errorExpected(token.IDENT)
	panic(errPanicMode{})
}

// parseArrayLit parses `[` expr,* `]`.
func (p *parser) parseArrayLit() ast.Expr {
	start := p.expect(token.LBRACK)
	lit := &ast.ListExpr{Start: start}
	if p.match(token.RBRACK) {
		return lit
	}
	for {
		lit.Elems = append(lit.Elems, p.parseExpr())
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACK)
	return lit
}

// parseFuncExpr parses an anonymous `func(params) { body }` expression, with
// a synthetic name for diagnostics, per parser.c's parse_func_expr.
func (p *parser) parseFuncExpr() ast.Expr {
	start := p.tok.Pos
	p.advance() // consume 'func'
	fd := p.parseFuncTail(start, "{anonymous func}")
	return &ast.FuncLitExpr{Decl: fd}
}

// parsePostfixChain parses a run of `.name`, `(args)` and `[index]` links
// following base, collapsing them into a single flat *ast.PostfixExpr per
// parser.c's parse_postfix.
func (p *parser) parsePostfixChain(base ast.Expr) ast.Expr {
	pf := &ast.PostfixExpr{Base: base}
	for {
		switch p.tok.Kind {
		case token.DOT:
			pos := p.tok.Pos
			p.advance()
			name := p.tok.Lit
			p.expect(token.IDENT)
			pf.Elems = append(pf.Elems, ast.PostfixElem{Kind: ast.PostfixAccess, Pos: pos, Name: name})
		case token.LPAREN:
			pos := p.expect(token.LPAREN)
			var args []ast.Expr
			if !p.at(token.RPAREN) {
				for {
					args = append(args, p.parseExpr())
					if !p.match(token.COMMA) {
						break
					}
				}
			}
			p.expect(token.RPAREN)
			pf.Elems = append(pf.Elems, ast.PostfixElem{Kind: ast.PostfixCall, Pos: pos, Args: args})
		case token.LBRACK:
			pos := p.expect(token.LBRACK)
			idx := p.parseExpr()
			p.expect(token.RBRACK)
			pf.Elems = append(pf.Elems, ast.PostfixElem{Kind: ast.PostfixSubscript, Pos: pos, Index: idx})
		default:
			return pf
		}
	}
}

// cloneTarget produces a fresh copy of an assignment target for use as the
// left operand of a compound assignment's desugared binary expression (see
// stmt.go's parseSimpleStmt), matching parser.c's parse_infix: "node is
// always a node_var_t [so] clone it" rather than reusing the same node on
// both sides of the rewritten tree.
func cloneTarget(target ast.Expr) ast.Expr {
	switch t := target.(type) {
	case *ast.VarExpr:
		cp := *t
		return &cp
	case *ast.PostfixExpr:
		cp := *t
		cp.Elems = append([]ast.PostfixElem(nil), t.Elems...)
		return &cp
	}
	return target
}
