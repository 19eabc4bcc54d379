package query

import "github.com/pdesaulniers/vscode-teal/internal/syntax"

// Resolution says how a root was reached from the node under the cursor.
type Resolution uint8

const (
	Unresolved Resolution = iota
	// ViaAncestor: the root encloses the node under the cursor.
	ViaAncestor
	// ViaForwardScan: the cursor landed on a container whose link to the
	// chain is broken, and the root was found scanning forward from it.
	ViaForwardScan
)

func (r Resolution) String() string {
	switch r {
	case ViaAncestor:
		return "ancestor"
	case ViaForwardScan:
		return "forward-scan"
	}
	return "none"
}

// Match is the result of a root search. A zero Match means no root.
type Match struct {
	Node syntax.Node
	Via  Resolution
}

func (m Match) Found() bool {
	return m.Node != nil
}

var callKinds = syntax.Kinds(syntax.KindFunctionCall)

// FindIndexRoot finds the index chain the point is inside of or trailing,
// e.g. the whole of `abc.efg.` for a point after the last dot. Bare
// identifiers and calls with no index chain yield no root.
func FindIndexRoot(doc Document, p syntax.Point) Match {
	n := doc.NodeAt(p)
	if n == nil {
		return Match{}
	}
	if root := indexRootAbove(n); root != nil {
		return Match{Node: root, Via: ViaAncestor}
	}
	if !isContainer(n) {
		return Match{}
	}
	found := scanForward(n, p, isIndexRoot)
	if found == nil {
		return Match{}
	}
	if root := indexRootAbove(found); root != nil {
		found = root
	}
	return Match{Node: found, Via: ViaForwardScan}
}

// FindFunctionCallRoot finds the innermost call whose parenthesized
// argument list encloses the point.
func FindFunctionCallRoot(doc Document, p syntax.Point) Match {
	n := doc.NodeAt(p)
	if n == nil {
		return Match{}
	}
	call := n
	if call.Kind() != syntax.KindFunctionCall {
		call = NodeAbove(n, callKinds)
	}
	for ; call != nil; call = NodeAbove(call, callKinds) {
		if insideArguments(call, p) {
			return Match{Node: call, Via: ViaAncestor}
		}
	}
	return Match{}
}

// CalledObject is the expression being called.
func CalledObject(call syntax.Node) syntax.Node {
	if call == nil {
		return nil
	}
	return call.ChildByFieldName(syntax.FieldCalledObject)
}

// ActiveArgument is the zero-based index of the argument the point is in.
func ActiveArgument(call syntax.Node, p syntax.Point) int {
	args := call.ChildByFieldName(syntax.FieldArguments)
	if args == nil {
		return 0
	}
	active := 0
	for i := 0; i < args.ChildCount(); i++ {
		c := args.Child(i)
		if syntax.StartsAfter(c, p) {
			break
		}
		if c.Type() == "," && !c.IsMissing() && syntax.ComparePoints(c.EndPoint(), p) <= 0 {
			active++
		}
	}
	return active
}

func insideArguments(call syntax.Node, p syntax.Point) bool {
	callee := CalledObject(call)
	args := call.ChildByFieldName(syntax.FieldArguments)
	if callee == nil || args == nil || args.ChildCount() == 0 {
		return false
	}
	if !syntax.EndsBefore(callee, p) {
		return false
	}
	open := args.Child(0)
	if open.Type() != "(" || syntax.ComparePoints(p, open.EndPoint()) < 0 {
		return false
	}
	closing := args.Child(args.ChildCount() - 1)
	if closing.Type() != ")" || closing.IsMissing() {
		return true
	}
	return syntax.ComparePoints(p, closing.StartPoint()) <= 0
}

// indexRootAbove climbs from n to the outermost chain node it belongs to
// and returns it when it is an index root.
func indexRootAbove(n syntax.Node) syntax.Node {
	top := climb(n)
	for top != nil {
		switch top.Kind() {
		case syntax.KindFunctionCall:
			top = top.ChildByFieldName(syntax.FieldCalledObject)
			continue
		case syntax.KindBracketIndex:
			top = top.ChildByFieldName(syntax.FieldObject)
			continue
		}
		break
	}
	if top != nil && isIndexRoot(top) {
		return top
	}
	return nil
}

func climb(n syntax.Node) syntax.Node {
	cur := n
	for {
		parent := cur.Parent()
		if parent == nil || !linksChain(parent, cur) {
			return cur
		}
		cur = parent
	}
}

// linksChain reports whether child is part of the same access chain as
// parent. Argument lists and bracket keys start a new scope.
func linksChain(parent, child syntax.Node) bool {
	switch parent.Kind() {
	case syntax.KindIndex, syntax.KindMethodIndex:
		return true
	case syntax.KindBracketIndex:
		return syntax.Same(parent.ChildByFieldName(syntax.FieldObject), child)
	case syntax.KindFunctionCall:
		return syntax.Same(parent.ChildByFieldName(syntax.FieldCalledObject), child)
	case syntax.KindError:
		_, ok := errorChain(parent)
		return ok
	}
	return false
}

func isIndexRoot(n syntax.Node) bool {
	switch n.Kind() {
	case syntax.KindIndex, syntax.KindMethodIndex:
		return true
	case syntax.KindError:
		_, ok := errorChain(n)
		return ok
	}
	return false
}

func isContainer(n syntax.Node) bool {
	switch n.Kind() {
	case syntax.KindIdentifier, syntax.KindFunctionCall, syntax.KindArguments,
		syntax.KindIndex, syntax.KindMethodIndex, syntax.KindBracketIndex:
		return false
	case syntax.KindError:
		_, ok := errorChain(n)
		return !ok
	}
	return true
}

// errorChain reads an error node as `expr (sep ident)* sep?` with at least
// one separator and returns the leading expression.
func errorChain(n syntax.Node) (syntax.Node, bool) {
	if n.Kind() != syntax.KindError || n.ChildCount() < 2 {
		return nil, false
	}
	head := n.Child(0)
	if !head.IsNamed() {
		return nil, false
	}
	wantSep := true
	for i := 1; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if wantSep && !syntax.IsSeparator(c) {
			return nil, false
		}
		if !wantSep && c.Kind() != syntax.KindIdentifier {
			return nil, false
		}
		wantSep = !wantSep
	}
	return head, true
}

// SymbolParts returns the identifiers of the chain rooted at n that lie
// before the point: only segments followed by a separator the point has
// passed count, so the member being typed is left out. When the point is
// past the end of n the whole chain is returned.
func SymbolParts(n syntax.Node, p syntax.Point) []string {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case syntax.KindIdentifier:
		if syntax.EndsBefore(n, p) {
			return []string{n.Text()}
		}
		return nil
	case syntax.KindIndex, syntax.KindMethodIndex:
		object := n.ChildByFieldName(syntax.FieldObject)
		if object == nil {
			return nil
		}
		sep := separatorOf(n)
		if sep == nil || syntax.ComparePoints(p, sep.EndPoint()) < 0 {
			return SymbolParts(object, p)
		}
		if syntax.EndsBefore(n, p) {
			return Chain(n)
		}
		return Chain(object)
	case syntax.KindFunctionCall, syntax.KindBracketIndex, syntax.KindParenthesized:
		inner := innerOf(n)
		if inner == nil {
			return nil
		}
		if syntax.EndsBefore(n, p) {
			return Chain(n)
		}
		if !syntax.EndsBefore(inner, p) {
			return SymbolParts(inner, p)
		}
		return nil
	case syntax.KindError:
		parts, _ := errorParts(n, p)
		return parts
	}
	return nil
}

// Chain returns every identifier of the access path n denotes, with calls
// and bracket indexes skipped. It returns nil when n is not a path.
func Chain(n syntax.Node) []string {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case syntax.KindIdentifier:
		return []string{n.Text()}
	case syntax.KindIndex, syntax.KindMethodIndex:
		base := Chain(n.ChildByFieldName(syntax.FieldObject))
		if base == nil {
			return nil
		}
		key := n.ChildByFieldName(syntax.FieldKey)
		if key == nil || key.IsMissing() {
			return base
		}
		return append(base, key.Text())
	case syntax.KindFunctionCall, syntax.KindBracketIndex, syntax.KindParenthesized:
		return Chain(innerOf(n))
	case syntax.KindError:
		_, full := errorParts(n, n.EndPoint())
		return full
	}
	return nil
}

func innerOf(n syntax.Node) syntax.Node {
	switch n.Kind() {
	case syntax.KindFunctionCall:
		return n.ChildByFieldName(syntax.FieldCalledObject)
	case syntax.KindBracketIndex:
		return n.ChildByFieldName(syntax.FieldObject)
	case syntax.KindParenthesized:
		return n.NamedChild(0)
	}
	return nil
}

func separatorOf(n syntax.Node) syntax.Node {
	for i := 0; i < n.ChildCount(); i++ {
		if c := n.Child(i); syntax.IsSeparator(c) {
			return c
		}
	}
	return nil
}

// errorParts segments an error node read as a chain. committed holds the
// segments whose trailing separator lies before p; full holds the whole
// chain up to p.
func errorParts(n syntax.Node, p syntax.Point) (committed, full []string) {
	head, ok := errorChain(n)
	if !ok {
		return nil, nil
	}
	if !syntax.EndsBefore(head, p) && syntax.ComparePoints(head.EndPoint(), n.EndPoint()) < 0 {
		parts := SymbolParts(head, p)
		return parts, parts
	}
	full = Chain(head)
	for i := 1; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if syntax.ComparePoints(p, c.StartPoint()) < 0 {
			break
		}
		if syntax.IsSeparator(c) {
			if syntax.ComparePoints(p, c.EndPoint()) >= 0 {
				committed = append([]string(nil), full...)
			}
			continue
		}
		if full != nil {
			full = append(append([]string(nil), full...), c.Text())
		}
	}
	return committed, full
}
