package query

import "github.com/pdesaulniers/vscode-teal/internal/syntax"

// NodeAbove returns the nearest strict ancestor of n whose kind is in kinds.
func NodeAbove(n syntax.Node, kinds syntax.KindSet) syntax.Node {
	if n == nil {
		return nil
	}
	for a := n.Parent(); a != nil; a = a.Parent() {
		if kinds.Has(a.Kind()) {
			return a
		}
	}
	return nil
}

// NodeBeforeOrBelow scans forward in document order from n, through n's
// subtree and then the subtrees that follow it, for the first node of one
// of the given kinds that contains p. The scan stops at the first node that
// starts after p.
func NodeBeforeOrBelow(n syntax.Node, p syntax.Point, kinds syntax.KindSet) syntax.Node {
	return scanForward(n, p, func(x syntax.Node) bool {
		return kinds.Has(x.Kind())
	})
}

func scanForward(n syntax.Node, p syntax.Point, match func(syntax.Node) bool) syntax.Node {
	var found syntax.Node
	for cur := n; cur != nil && found == nil; cur = following(cur) {
		if syntax.StartsAfter(cur, p) {
			break
		}
		syntax.Walk(cur, func(x syntax.Node) bool {
			if syntax.StartsAfter(x, p) {
				return false
			}
			if x.IsNamed() && match(x) && syntax.Contains(x, p) {
				found = x
				return false
			}
			return true
		})
	}
	return found
}

// following returns the next subtree in document order after n's own.
func following(n syntax.Node) syntax.Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		if s := cur.NextNamedSibling(); s != nil {
			return s
		}
	}
	return nil
}
