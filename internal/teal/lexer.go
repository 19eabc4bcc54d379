package teal

import (
	"strings"
	"unicode/utf8"

	"github.com/pdesaulniers/vscode-teal/internal/syntax"
)

// lexer splits source into tokens. It never fails: bytes it cannot place
// become tokInvalid tokens and unterminated strings or comments run to the
// end of their line or of the input.
type lexer struct {
	src []byte
	off int
	row uint32
	col uint32
}

func newLexer(src []byte, off int, at syntax.Point) *lexer {
	lx := &lexer{src: src, off: off, row: at.Row, col: at.Column}
	if off == 0 && strings.HasPrefix(string(src[:min(len(src), 2)]), "#!") {
		for lx.off < len(lx.src) && lx.src[lx.off] != '\n' {
			lx.advance(1)
		}
	}
	return lx
}

// tokenize lexes everything left and appends a final EOF token.
func (lx *lexer) tokenize() []token {
	var toks []token
	for {
		t := lx.next()
		toks = append(toks, t)
		if t.kind == tokEOF {
			return toks
		}
	}
}

func (lx *lexer) point() syntax.Point {
	return syntax.Point{Row: lx.row, Column: lx.col}
}

func (lx *lexer) peek(k int) byte {
	if lx.off+k < len(lx.src) {
		return lx.src[lx.off+k]
	}
	return 0
}

func (lx *lexer) advance(n int) {
	for i := 0; i < n && lx.off < len(lx.src); i++ {
		if lx.src[lx.off] == '\n' {
			lx.row++
			lx.col = 0
		} else {
			lx.col++
		}
		lx.off++
	}
}

func (lx *lexer) next() token {
	lx.skipTrivia()
	start, startPt := lx.off, lx.point()
	kind := lx.scan()
	return token{
		kind:    kind,
		text:    string(lx.src[start:lx.off]),
		start:   uint32(start),
		end:     uint32(lx.off),
		startPt: startPt,
		endPt:   lx.point(),
	}
}

func (lx *lexer) scan() tokenKind {
	if lx.off >= len(lx.src) {
		return tokEOF
	}
	c := lx.src[lx.off]
	switch {
	case isNameStart(c):
		start := lx.off
		for lx.off < len(lx.src) && isNamePart(lx.src[lx.off]) {
			lx.advance(1)
		}
		if keywords[string(lx.src[start:lx.off])] {
			return tokKeyword
		}
		return tokName
	case isDigit(c) || (c == '.' && isDigit(lx.peek(1))):
		lx.number()
		return tokNumber
	case c == '"' || c == '\'':
		lx.shortString(c)
		return tokString
	case c == '[' && lx.longBracketLevel() >= 0:
		lx.longBracket(lx.longBracketLevel())
		return tokString
	}
	for _, s := range symbols {
		if strings.HasPrefix(string(lx.src[lx.off:min(len(lx.src), lx.off+len(s))]), s) {
			lx.advance(len(s))
			return tokSymbol
		}
	}
	_, w := utf8.DecodeRune(lx.src[lx.off:])
	lx.advance(w)
	return tokInvalid
}

func (lx *lexer) skipTrivia() {
	for lx.off < len(lx.src) {
		c := lx.src[lx.off]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == '\v':
			lx.advance(1)
		case c == '-' && lx.peek(1) == '-':
			lx.advance(2)
			if lx.peek(0) == '[' {
				if level := lx.longBracketLevel(); level >= 0 {
					lx.longBracket(level)
					continue
				}
			}
			for lx.off < len(lx.src) && lx.src[lx.off] != '\n' {
				lx.advance(1)
			}
		default:
			return
		}
	}
}

func (lx *lexer) number() {
	hex := lx.peek(0) == '0' && (lx.peek(1) == 'x' || lx.peek(1) == 'X')
	if hex {
		lx.advance(2)
	}
	for lx.off < len(lx.src) {
		c := lx.src[lx.off]
		exp := (!hex && (c == 'e' || c == 'E')) || (hex && (c == 'p' || c == 'P'))
		switch {
		case exp && (lx.peek(1) == '+' || lx.peek(1) == '-'):
			lx.advance(2)
		case isNamePart(c) || c == '.':
			if c == '.' && lx.peek(1) == '.' {
				return
			}
			lx.advance(1)
		default:
			return
		}
	}
}

func (lx *lexer) shortString(quote byte) {
	lx.advance(1)
	for lx.off < len(lx.src) {
		switch lx.src[lx.off] {
		case quote:
			lx.advance(1)
			return
		case '\\':
			lx.advance(2)
		case '\n':
			return
		default:
			lx.advance(1)
		}
	}
}

// longBracketLevel returns the number of '=' in an opening long bracket at
// the current offset, or -1 if there is none.
func (lx *lexer) longBracketLevel() int {
	if lx.peek(0) != '[' {
		return -1
	}
	level := 0
	for lx.peek(1+level) == '=' {
		level++
	}
	if lx.peek(1+level) != '[' {
		return -1
	}
	return level
}

func (lx *lexer) longBracket(level int) {
	lx.advance(level + 2)
	closing := "]" + strings.Repeat("=", level) + "]"
	rest := string(lx.src[lx.off:])
	if i := strings.Index(rest, closing); i >= 0 {
		lx.advance(i + len(closing))
		return
	}
	lx.advance(len(rest))
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNamePart(c byte) bool {
	return isNameStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
