package syntax

import "strings"

// Sexp renders the named structure of n the way tree-sitter prints trees:
// "(chunk (function_call called_object: (identifier) arguments: (arguments)))".
func Sexp(n Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	writeSexp(&b, n)
	return b.String()
}

func writeSexp(b *strings.Builder, n Node) {
	b.WriteByte('(')
	if n.IsMissing() {
		b.WriteString("MISSING ")
	}
	b.WriteString(n.Type())
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if !c.IsNamed() {
			if c.IsMissing() {
				b.WriteString(" (MISSING \"")
				b.WriteString(c.Type())
				b.WriteString("\")")
			}
			continue
		}
		b.WriteByte(' ')
		if field := n.FieldNameForChild(i); field != "" {
			b.WriteString(field)
			b.WriteString(": ")
		}
		writeSexp(b, c)
	}
	b.WriteByte(')')
}

// Walk visits n and its descendants in document order until fn returns false.
func Walk(n Node, fn func(Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for i := 0; i < n.ChildCount(); i++ {
		if !Walk(n.Child(i), fn) {
			return false
		}
	}
	return true
}
