// Package scanner tokenizes Melon source for lang/parser. It is not part of
// the resolver/emitter/VM core, but the whole pipeline needs a real lexer to
// run end to end, so it is kept minimal but complete, grounded on
// original_source/src/lexer.c's exact token rules and on a rune-at-a-time,
// position-tracking scanner shape.
package scanner

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/melonlang/melon/lang/token"
)

// Token is one scanned lexeme: its kind, source position and literal text,
// plus a decoded value for INT/FLOAT/STRING tokens.
type Token struct {
	Kind  token.Token
	Pos   token.Position
	Lit   string // raw source text
	Int   int64
	Float float64
	Str   string // decoded string literal value
}

// ScanAll tokenizes the entirety of src (from file filename, used only for
// error positions) and returns every token up to and including EOF. The
// returned error, if non-nil, is an ErrorList.
func ScanAll(filename string, src []byte) ([]Token, error) {
	var (
		s   Scanner
		el  ErrorList
		out []Token
	)
	s.Init(filename, src, el.Add)
	for {
		tok := s.Scan()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	el.Sort()
	return out, el.Err()
}

// Scanner tokenizes a single source file.
type Scanner struct {
	filename string
	src      []byte
	err      func(pos token.Position, msg string)

	sb strings.Builder

	cur  rune // current character, -1 at EOF
	off  int  // byte offset of cur
	roff int  // byte offset just past cur
	line int  // 1-based line of cur
	col  int  // 1-based column of cur (in runes)
}

// Init (re)initializes the scanner to tokenize src, reporting lexical errors
// to errHandler.
func (s *Scanner) Init(filename string, src []byte, errHandler func(token.Position, string)) {
	s.filename = filename
	s.src = src
	s.err = errHandler
	s.sb.Reset()
	s.off, s.roff = 0, 0
	s.line, s.col = 1, 0
	s.cur = ' '
	s.advance()
}

func (s *Scanner) position() token.Position {
	return token.Position{Filename: s.filename, Line: s.line, Col: s.col, Offset: s.off}
}

func (s *Scanner) error(msg string) {
	if s.err != nil {
		s.err(s.position(), msg)
	}
}

func (s *Scanner) errorf(format string, args ...any) {
	s.error(fmt.Sprintf(format, args...))
}

func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

func (s *Scanner) advance() {
	if s.cur == '\n' {
		s.line++
		s.col = 0
	}
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		s.cur = -1
		return
	}
	s.off = s.roff
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
		if r == utf8.RuneError && w == 1 {
			s.error("illegal UTF-8 encoding")
		}
	}
	s.roff += w
	s.cur = r
	s.col++
}

// advanceIf advances past cur and returns true if cur equals b.
func (s *Scanner) advanceIf(b byte) bool {
	if s.cur == rune(b) {
		s.advance()
		return true
	}
	return false
}

// Scan returns the next token.
func (s *Scanner) Scan() Token {
	s.skipWhitespaceAndComments()

	pos := s.position()
	start := s.off

	switch cur := s.cur; {
	case isLetter(cur):
		lit := s.ident()
		kind, ok := token.Keywords[lit]
		if !ok {
			kind = token.IDENT
		}
		return Token{Kind: kind, Pos: pos, Lit: lit}

	case isDecimal(cur) || (cur == '.' && isDecimal(rune(s.peek()))):
		kind, lit := s.number()
		tok := Token{Kind: kind, Pos: pos, Lit: lit}
		if kind == token.INT {
			tok.Int = numberToInt(lit)
		} else if kind == token.FLOAT {
			tok.Float = numberToFloat(lit)
		}
		return tok

	case cur == '"' || cur == '\'':
		s.advance()
		lit, val := s.shortString(cur)
		return Token{Kind: token.STRING, Pos: pos, Lit: lit, Str: val}
	}

	s.advance() // single or double-char punctuation/operator, always progress
	cur := rune(s.src[start])

	switch cur {
	case '(':
		return Token{Kind: token.LPAREN, Pos: pos, Lit: "("}
	case ')':
		return Token{Kind: token.RPAREN, Pos: pos, Lit: ")"}
	case '{':
		return Token{Kind: token.LBRACE, Pos: pos, Lit: "{"}
	case '}':
		return Token{Kind: token.RBRACE, Pos: pos, Lit: "}"}
	case '[':
		return Token{Kind: token.LBRACK, Pos: pos, Lit: "["}
	case ']':
		return Token{Kind: token.RBRACK, Pos: pos, Lit: "]"}
	case ',':
		return Token{Kind: token.COMMA, Pos: pos, Lit: ","}
	case ';':
		return Token{Kind: token.SEMI, Pos: pos, Lit: ";"}

	case '.':
		if s.advanceIf('.') {
			return Token{Kind: token.RANGE, Pos: pos, Lit: ".."}
		}
		return Token{Kind: token.DOT, Pos: pos, Lit: "."}

	case '=':
		if s.advanceIf('=') {
			return Token{Kind: token.EQL, Pos: pos, Lit: "=="}
		}
		return Token{Kind: token.EQ, Pos: pos, Lit: "="}
	case '!':
		if s.advanceIf('=') {
			return Token{Kind: token.NEQ, Pos: pos, Lit: "!="}
		}
		return Token{Kind: token.BANG, Pos: pos, Lit: "!"}
	case '<':
		if s.advanceIf('=') {
			return Token{Kind: token.LE, Pos: pos, Lit: "<="}
		}
		return Token{Kind: token.LT, Pos: pos, Lit: "<"}
	case '>':
		if s.advanceIf('=') {
			return Token{Kind: token.GE, Pos: pos, Lit: ">="}
		}
		return Token{Kind: token.GT, Pos: pos, Lit: ">"}
	case '+':
		if s.advanceIf('=') {
			return Token{Kind: token.PLUS_EQ, Pos: pos, Lit: "+="}
		}
		return Token{Kind: token.PLUS, Pos: pos, Lit: "+"}
	case '-':
		if s.advanceIf('=') {
			return Token{Kind: token.MINUS_EQ, Pos: pos, Lit: "-="}
		}
		return Token{Kind: token.MINUS, Pos: pos, Lit: "-"}
	case '*':
		if s.advanceIf('=') {
			return Token{Kind: token.STAR_EQ, Pos: pos, Lit: "*="}
		}
		return Token{Kind: token.STAR, Pos: pos, Lit: "*"}
	case '/':
		if s.advanceIf('=') {
			return Token{Kind: token.SLASH_EQ, Pos: pos, Lit: "/="}
		}
		return Token{Kind: token.SLASH, Pos: pos, Lit: "/"}
	case '%':
		return Token{Kind: token.PERCENT, Pos: pos, Lit: "%"}
	case '&':
		if s.advanceIf('&') {
			return Token{Kind: token.AMPAMP, Pos: pos, Lit: "&&"}
		}
		s.errorf("illegal character %#U (did you mean '&&'?)", cur)
		return Token{Kind: token.ILLEGAL, Pos: pos, Lit: "&"}
	case '|':
		if s.advanceIf('|') {
			return Token{Kind: token.PIPEPIPE, Pos: pos, Lit: "||"}
		}
		s.errorf("illegal character %#U (did you mean '||'?)", cur)
		return Token{Kind: token.ILLEGAL, Pos: pos, Lit: "|"}

	case -1:
		return Token{Kind: token.EOF, Pos: pos}

	default:
		s.errorf("illegal character %#U", cur)
		return Token{Kind: token.ILLEGAL, Pos: pos, Lit: string(cur)}
	}
}

func (s *Scanner) ident() string {
	start := s.off
	for isLetter(s.cur) || isDigit(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

// skipWhitespaceAndComments skips spaces and '#'-to-end-of-line comments,
// the only comment form in original_source/src/lexer.c's is_comment.
func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch {
		case isWhitespace(s.cur):
			s.advance()
		case s.cur == '#':
			for s.cur != '\n' && s.cur != -1 {
				s.advance()
			}
		default:
			return
		}
	}
}

func isWhitespace(rn rune) bool { return rn == ' ' || rn == '\t' || rn == '\n' || rn == '\r' }

func isLetter(rn rune) bool {
	return 'a' <= rn && rn <= 'z' ||
		'A' <= rn && rn <= 'Z' ||
		rn == '_' ||
		rn >= utf8.RuneSelf && unicode.IsLetter(rn)
}

func isDigit(rn rune) bool { return isDecimal(rn) }
