// Package parser implements a recursive-descent, precedence-climbing parser
// that turns Melon source into a lang/ast tree for lang/resolver and
// lang/compiler to consume.
package parser

import (
	"fmt"
	"os"

	"github.com/melonlang/melon/lang/ast"
	"github.com/melonlang/melon/lang/scanner"
	"github.com/melonlang/melon/lang/token"
)

// ParseFile reads and parses a single source file. The returned error, if
// non-nil, is a scanner.ErrorList (possibly holding both lexical and
// syntactic errors).
func ParseFile(filename string) (*ast.Block, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		var el scanner.ErrorList
		el.Add(token.Position{Filename: filename}, err.Error())
		return nil, el.Err()
	}
	return ParseSource(filename, src)
}

// ParseSource parses src (named filename for error positions) as a complete
// program: a sequence of top-level declarations and statements.
func ParseSource(filename string, src []byte) (*ast.Block, error) {
	var p parser
	p.init(filename, src)
	block := p.parseProgram()
	p.errors.Sort()
	return block, p.errors.Err()
}

// parser holds the mutable state of a single parse.
type parser struct {
	scanner scanner.Scanner
	errors  scanner.ErrorList

	tok scanner.Token // current token
}

func (p *parser) init(filename string, src []byte) {
	p.scanner.Init(filename, src, p.errors.Add)
	p.advance()
}

func (p *parser) advance() {
	p.tok = p.scanner.Scan()
}

func (p *parser) at(kind token.Token) bool { return p.tok.Kind == kind }

// match consumes and returns true if the current token is kind, otherwise
// leaves the token stream untouched and returns false.
func (p *parser) match(kind token.Token) bool {
	if p.at(kind) {
		p.advance()
		return true
	}
	return false
}

// errPanicMode is recovered at the statement level: a parse error inside a
// statement abandons the rest of that statement and resynchronizes at the
// next one, rather than cascading into a pile of follow-on errors.
type errPanicMode struct{}

// expect consumes the current token if it is kind, otherwise records an
// error and panics with errPanicMode for the nearest statement-level
// recover to catch.
func (p *parser) expect(kind token.Token) token.Position {
	pos := p.tok.Pos
	if !p.at(kind) {
		p.errorExpected(kind)
		panic(errPanicMode{})
	}
	p.advance()
	return pos
}

func (p *parser) error(pos token.Position, msg string) {
	p.errors.Add(pos, msg)
}

func (p *parser) errorExpected(kind token.Token) {
	lit := p.tok.Lit
	if lit == "" {
		lit = p.tok.Kind.String()
	}
	p.error(p.tok.Pos, "expected "+kind.String()+", found "+lit)
}

// parseProgram parses a whole file as a flat sequence of declarations and
// statements: original_source/src/parser.c's top-level parse() loop is
// parse_decl repeated to EOF, the same grammar parseBlock uses for a
// brace-delimited body minus the braces.
func (p *parser) parseProgram() *ast.Block {
	blk := &ast.Block{Start: p.tok.Pos}
	for !p.at(token.EOF) {
		blk.Stmts = append(blk.Stmts, p.parseDeclRecovered())
	}
	return blk
}

// parseDeclRecovered wraps parseDecl with panic-mode recovery: on a parse
// error, resynchronize at the next plausible statement boundary so later
// statements still get parsed and reported instead of aborting the parse
// of the whole remaining file.
func (p *parser) parseDeclRecovered() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(errPanicMode); !ok {
				panic(r)
			}
			stmt = p.synchronize()
		}
	}()
	return p.parseDecl()
}

// badStmt stands in for a statement that failed to parse, so the resolver
// and emitter never have to special-case a nil Stmt.
type badStmt struct {
	Start token.Position
}

func (b *badStmt) Format(f fmt.State, _ rune) { fmt.Fprintf(f, "<bad statement at %v>", b.Start) }
func (b *badStmt) Pos() token.Position        { return b.Start }
func (b *badStmt) Walk(ast.Visitor)           {}
func (b *badStmt) BlockEnding() bool          { return false }

// synchronize discards tokens until one that plausibly starts a fresh
// statement, so a single syntax error doesn't cascade into spurious
// "expected X" errors for the remainder of the file.
func (p *parser) synchronize() ast.Stmt {
	start := p.tok.Pos
	for !p.at(token.EOF) {
		if p.match(token.SEMI) {
			break
		}
		switch p.tok.Kind {
		case token.VAR, token.FUNC, token.CLASS, token.STATIC, token.OPERATOR,
			token.IF, token.WHILE, token.FOR, token.RETURN:
			return &badStmt{Start: start}
		}
		p.advance()
	}
	return &badStmt{Start: start}
}
