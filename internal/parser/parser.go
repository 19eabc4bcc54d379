package parser

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/lua"

	"github.com/pdesaulniers/vscode-teal/internal/syntax"
)

var (
	lang = lua.GetLanguage()

	ErrParserClosed = errors.New("parser is closed")
)

// Parser adapts a tree-sitter parser for the Lua grammar to syntax.Parser.
type Parser struct {
	parser *sitter.Parser
	mu     sync.Mutex
}

func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(lang)
	return &Parser{parser: p}
}

// Parse parses src. A previous tree from this backend is copied, the edits
// are applied to the copy, and the copy is handed to tree-sitter for reuse;
// old itself is left as it was.
func (p *Parser) Parse(ctx context.Context, old syntax.Tree, edits []syntax.Edit, src []byte) (syntax.Tree, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.parser == nil {
		return nil, ErrParserClosed
	}

	var hint *sitter.Tree
	if prev, ok := old.(*Tree); ok && prev != nil && prev.raw != nil {
		hint = prev.raw.Copy()
		defer hint.Close()
		for _, e := range edits {
			hint.Edit(editInput(e))
		}
	}

	raw, err := p.parser.ParseCtx(ctx, hint, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	t := &Tree{raw: raw, src: src, byRaw: make(map[rawKey]*Node)}
	t.root = t.build(raw.RootNode())
	return t, nil
}

// Close frees the tree-sitter parser.
func (p *Parser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.parser != nil {
		p.parser.Close()
		p.parser = nil
	}
	return nil
}

func editInput(e syntax.Edit) sitter.EditInput {
	return sitter.EditInput{
		StartIndex:  e.StartByte,
		OldEndIndex: e.OldEndByte,
		NewEndIndex: e.NewEndByte,
		StartPoint:  sitter.Point{Row: e.StartPoint.Row, Column: e.StartPoint.Column},
		OldEndPoint: sitter.Point{Row: e.OldEndPoint.Row, Column: e.OldEndPoint.Column},
		NewEndPoint: sitter.Point{Row: e.NewEndPoint.Row, Column: e.NewEndPoint.Column},
	}
}

// Tree is a tree-sitter parse result together with the node tree rebuilt
// from it.
type Tree struct {
	raw   *sitter.Tree
	src   []byte
	root  *Node
	byRaw map[rawKey]*Node
}

func (t *Tree) RootNode() syntax.Node {
	return wrap(t.root)
}

func (t *Tree) Close() {
	if t.raw != nil {
		t.raw.Close()
		t.raw = nil
	}
	t.root, t.byRaw = nil, nil
}

// Capture is one node captured by a tree-sitter query.
type Capture struct {
	Name string
	Node syntax.Node
}

// Query runs a tree-sitter query pattern against a tree from this backend
// and returns its captures in match order, with predicates applied. Query
// patterns use the grammar's own node types and fields.
func Query(t syntax.Tree, pattern string) ([]Capture, error) {
	tree, ok := t.(*Tree)
	if !ok || tree.raw == nil {
		return nil, fmt.Errorf("queries need a tree-sitter tree, got %T", t)
	}
	q, err := sitter.NewQuery([]byte(pattern), lang)
	if err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, tree.raw.RootNode())

	var captures []Capture
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		m = qc.FilterPredicates(m, tree.src)
		for _, c := range m.Captures {
			n, ok := tree.byRaw[rawKey{c.Node.StartByte(), c.Node.EndByte(), c.Node.Type()}]
			if !ok {
				continue
			}
			captures = append(captures, Capture{Name: q.CaptureNameForId(c.Index), Node: n})
		}
	}
	return captures, nil
}
