// Package teal is a hand-written, error-tolerant parser for the Teal
// language. It emits trees in the same shape and vocabulary as a
// tree-sitter grammar, and reuses unchanged leading statements of the
// previous tree when re-parsing after an edit.
package teal

import (
	"context"

	"github.com/tliron/commonlog"

	"github.com/pdesaulniers/vscode-teal/internal/syntax"
)

// Tree is an immutable parse result.
type Tree struct {
	src    []byte
	root   *Node
	reused int
}

func (t *Tree) RootNode() syntax.Node { return wrap(t.root) }

func (t *Tree) Close() {}

// Source is the text the tree was parsed from.
func (t *Tree) Source() []byte { return t.src }

// Reused is the number of top-level statements carried over from the
// previous tree instead of being parsed again.
func (t *Tree) Reused() int { return t.reused }

// Parser implements syntax.Parser for Teal. It holds no per-parse state and
// is safe for concurrent use.
type Parser struct {
	log commonlog.Logger
}

func NewParser() *Parser {
	return &Parser{log: commonlog.GetLogger("teal.parser")}
}

func (p *Parser) Close() error { return nil }

func (p *Parser) Parse(ctx context.Context, old syntax.Tree, edits []syntax.Edit, src []byte) (syntax.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t := &Tree{src: src}
	ps := &parser{tree: t}
	root := ps.node("chunk")

	resume, resumeAt := 0, syntax.Point{}
	if prev, ok := old.(*Tree); ok && prev != nil && prev.root != nil && len(edits) > 0 {
		kept := reusablePrefix(prev.root, edits)
		for _, stmt := range kept {
			root.add("", clone(stmt, t))
		}
		if len(kept) > 0 {
			last := kept[len(kept)-1]
			resume, resumeAt = int(last.endB), last.end
		}
		t.reused = len(kept)
	}

	lx := newLexer(src, resume, resumeAt)
	ps.toks = lx.tokenize()
	ps.prevEnd, ps.prevEndPt = uint32(resume), resumeAt

	ps.chunk(root)

	ps.finish(root)
	eof := ps.toks[len(ps.toks)-1]
	root.startB, root.start = 0, syntax.Point{}
	root.endB, root.end = uint32(len(src)), eof.endPt
	t.root = root

	p.log.Debugf("parsed %d bytes, reused %d statements", len(src), t.reused)
	return t, nil
}

// reusablePrefix returns the leading top-level statements that cannot have
// been affected by any of the edits. A statement is only kept when the one
// after it also ends before the earliest edit, since the parser decided
// where the statement ended by looking at the next token.
func reusablePrefix(root *Node, edits []syntax.Edit) []*Node {
	first := edits[0].StartByte
	for _, e := range edits[1:] {
		first = min(first, e.StartByte)
	}
	stmts := root.children
	k := 0
	for k+1 < len(stmts) && stmts[k+1].endB < first {
		k++
	}
	return stmts[:k]
}
