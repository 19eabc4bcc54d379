package teal

import "github.com/pdesaulniers/vscode-teal/internal/syntax"

var typeKinds = map[string]syntax.Kind{
	"chunk":                    syntax.KindChunk,
	"identifier":               syntax.KindIdentifier,
	"index":                    syntax.KindIndex,
	"method_index":             syntax.KindMethodIndex,
	"bracket_index":            syntax.KindBracketIndex,
	"function_call":            syntax.KindFunctionCall,
	"arguments":                syntax.KindArguments,
	"parenthesized_expression": syntax.KindParenthesized,
	"table_constructor":        syntax.KindTable,
	"ERROR":                    syntax.KindError,
}

// Node is a node of a Tree produced by Parser.
type Node struct {
	typ      string
	kind     syntax.Kind
	named    bool
	missing  bool
	hasError bool

	startB, endB uint32
	start, end   syntax.Point

	children  []*Node
	fields    []string
	namedKids []*Node
	parent    *Node
	index     int
	tree      *Tree
}

func (n *Node) add(field string, c *Node) {
	c.parent = n
	c.index = len(n.children)
	n.children = append(n.children, c)
	n.fields = append(n.fields, field)
	if c.named {
		n.namedKids = append(n.namedKids, c)
	}
}

func wrap(n *Node) syntax.Node {
	if n == nil {
		return nil
	}
	return n
}

func (n *Node) Type() string             { return n.typ }
func (n *Node) Kind() syntax.Kind        { return n.kind }
func (n *Node) IsNamed() bool            { return n.named }
func (n *Node) IsMissing() bool          { return n.missing }
func (n *Node) HasError() bool           { return n.hasError }
func (n *Node) StartByte() uint32        { return n.startB }
func (n *Node) EndByte() uint32          { return n.endB }
func (n *Node) StartPoint() syntax.Point { return n.start }
func (n *Node) EndPoint() syntax.Point   { return n.end }
func (n *Node) Parent() syntax.Node      { return wrap(n.parent) }
func (n *Node) ChildCount() int          { return len(n.children) }
func (n *Node) NamedChildCount() int     { return len(n.namedKids) }

func (n *Node) Child(i int) syntax.Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *Node) NamedChild(i int) syntax.Node {
	if i < 0 || i >= len(n.namedKids) {
		return nil
	}
	return n.namedKids[i]
}

func (n *Node) NextNamedSibling() syntax.Node {
	if n.parent == nil {
		return nil
	}
	for _, s := range n.parent.children[n.index+1:] {
		if s.named {
			return s
		}
	}
	return nil
}

func (n *Node) ChildByFieldName(name string) syntax.Node {
	for i, f := range n.fields {
		if f == name {
			return n.children[i]
		}
	}
	return nil
}

func (n *Node) FieldNameForChild(i int) string {
	if i < 0 || i >= len(n.fields) {
		return ""
	}
	return n.fields[i]
}

func (n *Node) Text() string {
	return string(n.tree.src[n.startB:n.endB])
}

// clone deep-copies n into t, detached from any parent.
func clone(n *Node, t *Tree) *Node {
	c := &Node{
		typ:      n.typ,
		kind:     n.kind,
		named:    n.named,
		missing:  n.missing,
		hasError: n.hasError,
		startB:   n.startB,
		endB:     n.endB,
		start:    n.start,
		end:      n.end,
		tree:     t,
	}
	for i, ch := range n.children {
		c.add(n.fields[i], clone(ch, t))
	}
	return c
}
