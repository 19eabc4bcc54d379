package query_test

import "github.com/pdesaulniers/vscode-teal/internal/syntax"

// fakeNode is a hand-built single-row tree. It lets tests shape spans the
// way broken error recovery can, which no real parser produces on demand.
type fakeNode struct {
	typ        string
	kind       syntax.Kind
	anon       bool
	start, end uint32
	children   []*fakeNode
	fields     []string
	parent     *fakeNode
	index      int
}

func fake(typ string, kind syntax.Kind, start, end uint32, children ...*fakeNode) *fakeNode {
	n := &fakeNode{typ: typ, kind: kind, start: start, end: end}
	for i, c := range children {
		c.parent = n
		c.index = i
		n.children = append(n.children, c)
		n.fields = append(n.fields, "")
	}
	return n
}

func punct(text string, start uint32) *fakeNode {
	n := fake(text, syntax.KindOther, start, start+uint32(len(text)))
	n.anon = true
	return n
}

func wrap(n *fakeNode) syntax.Node {
	if n == nil {
		return nil
	}
	return n
}

func (n *fakeNode) Type() string             { return n.typ }
func (n *fakeNode) Kind() syntax.Kind        { return n.kind }
func (n *fakeNode) IsNamed() bool            { return !n.anon }
func (n *fakeNode) IsMissing() bool          { return false }
func (n *fakeNode) HasError() bool           { return n.kind == syntax.KindError }
func (n *fakeNode) StartByte() uint32        { return n.start }
func (n *fakeNode) EndByte() uint32          { return n.end }
func (n *fakeNode) StartPoint() syntax.Point { return syntax.Point{Column: n.start} }
func (n *fakeNode) EndPoint() syntax.Point   { return syntax.Point{Column: n.end} }
func (n *fakeNode) Parent() syntax.Node      { return wrap(n.parent) }
func (n *fakeNode) ChildCount() int          { return len(n.children) }
func (n *fakeNode) Text() string             { return n.typ }

func (n *fakeNode) Child(i int) syntax.Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *fakeNode) named() []*fakeNode {
	var out []*fakeNode
	for _, c := range n.children {
		if !c.anon {
			out = append(out, c)
		}
	}
	return out
}

func (n *fakeNode) NamedChildCount() int { return len(n.named()) }

func (n *fakeNode) NamedChild(i int) syntax.Node {
	named := n.named()
	if i < 0 || i >= len(named) {
		return nil
	}
	return named[i]
}

func (n *fakeNode) NextNamedSibling() syntax.Node {
	if n.parent == nil {
		return nil
	}
	for _, s := range n.parent.children[n.index+1:] {
		if !s.anon {
			return s
		}
	}
	return nil
}

func (n *fakeNode) ChildByFieldName(name string) syntax.Node {
	for i, f := range n.fields {
		if f == name && name != "" {
			return n.children[i]
		}
	}
	return nil
}

func (n *fakeNode) FieldNameForChild(i int) string {
	if i < 0 || i >= len(n.fields) {
		return ""
	}
	return n.fields[i]
}

// fixedDoc resolves every point to the same node.
type fixedDoc struct {
	node syntax.Node
}

func (d fixedDoc) NodeAt(syntax.Point) syntax.Node { return d.node }
