package teal

import "github.com/pdesaulniers/vscode-teal/internal/syntax"

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokName
	tokKeyword
	tokNumber
	tokString
	tokSymbol
	tokInvalid
)

type token struct {
	kind    tokenKind
	text    string
	start   uint32
	end     uint32
	startPt syntax.Point
	endPt   syntax.Point
}

var keywords = map[string]bool{
	"and": true, "break": true, "do": true, "else": true, "elseif": true,
	"end": true, "false": true, "for": true, "function": true, "goto": true,
	"if": true, "in": true, "local": true, "nil": true, "not": true,
	"or": true, "repeat": true, "return": true, "then": true, "true": true,
	"until": true, "while": true,
}

// Symbols longest first; the lexer takes the first prefix match.
var symbols = []string{
	"...",
	"..", "==", "~=", "<=", ">=", "//", "::", "<<", ">>",
	"+", "-", "*", "/", "%", "^", "#", "&", "~", "|", "<", ">", "=",
	"(", ")", "{", "}", "[", "]", ";", ":", ",", ".",
}

// binary operator binding powers: left, right.
var binaryPrecedence = map[string][2]int{
	"or":  {1, 1},
	"and": {2, 2},
	"<":   {3, 3}, ">": {3, 3}, "<=": {3, 3}, ">=": {3, 3}, "~=": {3, 3}, "==": {3, 3},
	"|":  {4, 4},
	"~":  {5, 5},
	"&":  {6, 6},
	"<<": {7, 7}, ">>": {7, 7},
	"..": {9, 8},
	"+":  {10, 10}, "-": {10, 10},
	"*": {11, 11}, "/": {11, 11}, "//": {11, 11}, "%": {11, 11},
	"^": {14, 13},
}

const (
	unaryPrecedence = 12
	castPrecedence  = 15
)

func (t token) is(text string) bool {
	return (t.kind == tokSymbol || t.kind == tokKeyword) && t.text == text
}
