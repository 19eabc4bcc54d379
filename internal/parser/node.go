package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/pdesaulniers/vscode-teal/internal/syntax"
)

var kinds = map[string]syntax.Kind{
	"program":                  syntax.KindChunk,
	"identifier":               syntax.KindIdentifier,
	"index":                    syntax.KindIndex,
	"method_index":             syntax.KindMethodIndex,
	"bracket_index":            syntax.KindBracketIndex,
	"function_call":            syntax.KindFunctionCall,
	"arguments":                syntax.KindArguments,
	"parenthesized_expression": syntax.KindParenthesized,
	"table":                    syntax.KindTable,
	"ERROR":                    syntax.KindError,
}

// Node is a node rebuilt from the tree-sitter tree. The Lua grammar spreads
// an access path like `a.b:c` over sibling tokens of its parent and splits a
// call's argument list over parens and a function_arguments node; the
// rebuilt tree nests paths into index, method_index and bracket_index nodes
// and gathers each argument list into one arguments node.
type Node struct {
	typ      string
	named    bool
	missing  bool
	hasError bool

	startB, endB uint32
	start, end   syntax.Point

	children []*Node
	fields   []string
	parent   *Node
	index    int
	tree     *Tree
}

type rawKey struct {
	start, end uint32
	typ        string
}

func wrap(n *Node) syntax.Node {
	if n == nil {
		return nil
	}
	return n
}

// build converts sn and its subtree bottom-up.
func (t *Tree) build(sn *sitter.Node) *Node {
	sp, ep := sn.StartPoint(), sn.EndPoint()
	n := &Node{
		typ:      sn.Type(),
		named:    sn.IsNamed(),
		missing:  sn.IsMissing(),
		hasError: sn.HasError(),
		startB:   sn.StartByte(),
		endB:     sn.EndByte(),
		start:    syntax.Point{Row: sp.Row, Column: sp.Column},
		end:      syntax.Point{Row: ep.Row, Column: ep.Column},
		tree:     t,
	}
	key := rawKey{n.startB, n.endB, n.typ}
	if _, ok := t.byRaw[key]; !ok {
		t.byRaw[key] = n
	}
	if n.typ == "self_call_colon" {
		n.typ, n.named = ":", false
	}

	count := int(sn.ChildCount())
	kids := make([]*Node, 0, count)
	fields := make([]string, 0, count)
	for i := 0; i < count; i++ {
		c := sn.Child(i)
		if c == nil {
			continue
		}
		kids = append(kids, t.build(c))
		fields = append(fields, sn.FieldNameForChild(i))
	}

	if n.typ == "function_call" {
		kids, fields = t.regroupCall(kids, fields)
	} else {
		kids, fields = t.regroupChains(kids, fields, n.typ == "ERROR")
	}
	n.setChildren(kids, fields)
	return n
}

func (n *Node) setChildren(kids []*Node, fields []string) {
	n.children, n.fields = kids, fields
	for i, c := range kids {
		c.parent = n
		c.index = i
		if c.hasError || c.missing {
			n.hasError = true
		}
	}
}

func (t *Tree) synthesize(typ string, kids []*Node, fields []string) *Node {
	first, last := kids[0], kids[len(kids)-1]
	n := &Node{
		typ:    typ,
		named:  true,
		startB: first.startB,
		endB:   last.endB,
		start:  first.start,
		end:    last.end,
		tree:   t,
	}
	n.setChildren(kids, fields)
	return n
}

// regroupChains nests every `head (sep key | [ key ])*` run of kids into
// chain nodes. A separator left without a key is wrapped with the run into
// an ERROR node, unless that run already is the whole of an ERROR parent.
func (t *Tree) regroupChains(kids []*Node, fields []string, inError bool) ([]*Node, []string) {
	out := make([]*Node, 0, len(kids))
	outFields := make([]string, 0, len(fields))
	for i := 0; i < len(kids); {
		if !isHead(kids[i]) {
			out = append(out, kids[i])
			outFields = append(outFields, fields[i])
			i++
			continue
		}
		head, field := kids[i], fields[i]
		j := i + 1
		for {
			next, used := t.extend(head, kids, j)
			if used == 0 {
				break
			}
			head, j = next, j+used
		}
		if j < len(kids) && isSep(kids[j]) {
			if !(inError && i == 0 && j == len(kids)-1) {
				head = t.synthesize("ERROR", []*Node{head, kids[j]}, []string{"", ""})
				j++
			}
		}
		out = append(out, head)
		outFields = append(outFields, field)
		i = j
	}
	return out, outFields
}

func (t *Tree) extend(head *Node, kids []*Node, j int) (*Node, int) {
	if j+1 >= len(kids) {
		return nil, 0
	}
	sep, key := kids[j], kids[j+1]
	if isSep(sep) && key.named && key.typ == "identifier" {
		typ := "index"
		if sep.typ == ":" {
			typ = "method_index"
		}
		return t.synthesize(typ, []*Node{head, sep, key}, []string{syntax.FieldObject, "", syntax.FieldKey}), 2
	}
	if sep.typ == "[" && !sep.named && key.named && j+2 < len(kids) && kids[j+2].typ == "]" {
		return t.synthesize("bracket_index",
			[]*Node{head, sep, key, kids[j+2]},
			[]string{syntax.FieldObject, "", syntax.FieldKey, ""}), 3
	}
	return nil, 0
}

// regroupCall splits a call's children into the called object, which comes
// first, and one arguments node holding the parens and argument list.
func (t *Tree) regroupCall(kids []*Node, fields []string) ([]*Node, []string) {
	split := len(kids)
	for i, k := range kids {
		if k.typ == "function_call_paren" || k.typ == "function_arguments" || fields[i] == "args" {
			split = i
			break
		}
	}

	out, outFields := t.regroupChains(kids[:split], fields[:split], false)
	if len(out) == 1 {
		outFields[0] = syntax.FieldCalledObject
	}
	if args := t.arguments(kids[split:]); args != nil {
		out = append(out, args)
		outFields = append(outFields, syntax.FieldArguments)
	}
	return out, outFields
}

func (t *Tree) arguments(rest []*Node) *Node {
	var kids []*Node
	for _, k := range rest {
		if k.typ == "function_arguments" {
			kids = append(kids, k.children...)
			continue
		}
		kids = append(kids, k)
	}
	opened := false
	for _, k := range kids {
		if k.typ != "function_call_paren" {
			continue
		}
		k.named = false
		if opened {
			k.typ = ")"
		} else {
			k.typ, opened = "(", true
		}
	}
	if len(kids) == 0 {
		return nil
	}
	return t.synthesize("arguments", kids, make([]string, len(kids)))
}

func isHead(n *Node) bool {
	if !n.named {
		return false
	}
	switch n.Kind() {
	case syntax.KindIdentifier, syntax.KindFunctionCall, syntax.KindIndex,
		syntax.KindMethodIndex, syntax.KindBracketIndex, syntax.KindParenthesized:
		return true
	}
	return false
}

func isSep(n *Node) bool {
	return !n.named && (n.typ == "." || n.typ == ":")
}

func (n *Node) Type() string { return n.typ }

func (n *Node) Kind() syntax.Kind {
	if k, ok := kinds[n.typ]; ok {
		return k
	}
	return syntax.KindOther
}

func (n *Node) IsNamed() bool            { return n.named }
func (n *Node) IsMissing() bool          { return n.missing }
func (n *Node) HasError() bool           { return n.hasError }
func (n *Node) StartByte() uint32        { return n.startB }
func (n *Node) EndByte() uint32          { return n.endB }
func (n *Node) StartPoint() syntax.Point { return n.start }
func (n *Node) EndPoint() syntax.Point   { return n.end }
func (n *Node) Parent() syntax.Node      { return wrap(n.parent) }
func (n *Node) ChildCount() int          { return len(n.children) }

func (n *Node) Child(i int) syntax.Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *Node) NamedChildCount() int {
	count := 0
	for _, c := range n.children {
		if c.named {
			count++
		}
	}
	return count
}

func (n *Node) NamedChild(i int) syntax.Node {
	for _, c := range n.children {
		if !c.named {
			continue
		}
		if i == 0 {
			return c
		}
		i--
	}
	return nil
}

func (n *Node) NextNamedSibling() syntax.Node {
	if n.parent == nil {
		return nil
	}
	for _, c := range n.parent.children[n.index+1:] {
		if c.named {
			return c
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
