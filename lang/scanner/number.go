package scanner

import (
	"strconv"

	"github.com/melonlang/melon/lang/token"
)

// number scans a decimal int or float literal: digits, optionally followed
// by a single '.' and more digits. A second '.' is reported as an error
// rather than silently producing a bad literal, matching
// original_source/src/lexer.c's scan_number dot_found check. Unlike the
// teacher scanner, there is no hex/octal/binary prefix or '_' digit
// separator in Melon's grammar.
func (s *Scanner) number() (tok token.Token, lit string) {
	start := s.off
	tok = token.INT

	for isDecimal(s.cur) {
		s.advance()
	}

	if s.cur == '.' && s.peek() != '.' {
		// a standalone '..' is the RANGE operator, not a decimal point; the
		// caller's isDecimal(peek) lookahead only gets us into number() when
		// cur=='.' is followed by a digit, but a trailing '.' after digits
		// (e.g. "1..5") must still be left for the range operator.
		tok = token.FLOAT
		s.advance()
		if !isDecimal(s.cur) {
			s.error("float literal has no digits after '.'")
		}
		for isDecimal(s.cur) {
			s.advance()
		}
		if s.cur == '.' {
			s.error("float literal cannot have more than one decimal point")
			for s.cur == '.' || isDecimal(s.cur) {
				s.advance()
			}
		}
	}

	return tok, string(s.src[start:s.off])
}

func isDecimal(rn rune) bool { return '0' <= rn && rn <= '9' }

func numberToInt(lit string) int64 {
	v, _ := strconv.ParseInt(lit, 10, 64)
	return v
}

func numberToFloat(lit string) float64 {
	v, _ := strconv.ParseFloat(lit, 64)
	return v
}
