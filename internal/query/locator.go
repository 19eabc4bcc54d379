// Package query answers cursor questions against a syntax tree: which node
// sits under a point, which index chain or call the point belongs to, and
// which identifiers make up that chain up to the point.
package query

import "github.com/pdesaulniers/vscode-teal/internal/syntax"

// Document is anything that can resolve a point to the smallest node there.
type Document interface {
	NodeAt(p syntax.Point) syntax.Node
}

// SmallestDescendant returns the shortest named node at or below root that
// contains p. Sibling subtrees are searched too because the tree-sitter
// error recovery can leave the node under the cursor next to, rather than
// inside, the node that spans it. Ties go to the first node found, so a
// child wins over its parent. When no candidate contains p, root itself is
// returned.
func SmallestDescendant(root syntax.Node, p syntax.Point) syntax.Node {
	if root == nil {
		return nil
	}
	l := &locator{point: p, memo: make(map[syntax.Node]syntax.Node)}
	return l.find(root)
}

type locator struct {
	point syntax.Point
	memo  map[syntax.Node]syntax.Node
}

func (l *locator) find(n syntax.Node) syntax.Node {
	if best, ok := l.memo[n]; ok {
		return best
	}
	best := l.search(n)
	l.memo[n] = best
	return best
}

func (l *locator) search(n syntax.Node) syntax.Node {
	count := n.NamedChildCount()
	if count == 0 {
		return n
	}

	var best syntax.Node
	consider := func(c syntax.Node) {
		if !syntax.Contains(c, l.point) {
			return
		}
		if found := l.find(c); best == nil || syntax.Length(found) < syntax.Length(best) {
			best = found
		}
	}

	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if syntax.StartsAfter(c, l.point) {
			break
		}
		consider(c)
	}
	for s := n.NextNamedSibling(); s != nil; s = s.NextNamedSibling() {
		if syntax.StartsAfter(s, l.point) {
			break
		}
		consider(s)
	}

	if best == nil {
		return n
	}
	if syntax.Contains(n, l.point) && syntax.Length(n) < syntax.Length(best) {
		return n
	}
	return best
}
