// Package document keeps one open document's text and syntax tree in step
// as editor changes arrive, and answers position queries against them.
package document

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/pdesaulniers/vscode-teal/internal/query"
	"github.com/pdesaulniers/vscode-teal/internal/syntax"
)

// TextBuffer is one version of a document's text.
type TextBuffer struct {
	URI        protocol.DocumentUri
	LanguageID string
	Version    protocol.Integer
	Text       string
}

var wordPattern = regexp.MustCompile(`[A-Za-z0-9_]+`)

// Session owns a document's text buffer, its current syntax tree and the
// parser that produces it. A Session is not safe for concurrent use: the
// owner serializes edits, and queries must not overlap an edit.
type Session struct {
	parser syntax.Parser
	buffer *TextBuffer
	tree   syntax.Tree
	log    commonlog.Logger
}

func NewSession(parser syntax.Parser) *Session {
	return &Session{
		parser: parser,
		log:    commonlog.GetLogger("teal.document"),
	}
}

// Initialize sets the text at version 1 and parses it from scratch. Calling
// it again replaces all prior state.
func (s *Session) Initialize(ctx context.Context, uri protocol.DocumentUri, languageID string, text string) error {
	tree, err := s.parser.Parse(ctx, nil, nil, []byte(text))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", uri, err)
	}
	if s.tree != nil {
		s.tree.Close()
	}
	s.tree = tree
	s.buffer = &TextBuffer{URI: uri, LanguageID: languageID, Version: 1, Text: text}
	s.log.Debugf("opened %s (%d bytes)", uri, len(text))
	return nil
}

// ApplyEdits applies a batch of LSP content changes in order, each ranged
// change against the text left by the one before it, then re-parses with
// the previous tree as a reuse hint. A full replacement anywhere in the
// batch drops the hint. Unknown change types fail the whole batch before
// anything is applied.
func (s *Session) ApplyEdits(ctx context.Context, changes []any) error {
	if len(changes) == 0 || s.buffer == nil {
		return nil
	}

	text := s.buffer.Text
	edits := make([]syntax.Edit, 0, len(changes))
	full := false
	for _, change := range changes {
		next, edit, err := applyChange(text, change)
		if err != nil {
			return err
		}
		if edit == nil {
			full = true
		} else {
			edits = append(edits, *edit)
		}
		text = next
	}

	old := s.tree
	if full {
		old, edits = nil, nil
	}
	tree, err := s.parser.Parse(ctx, old, edits, []byte(text))
	if err != nil {
		return fmt.Errorf("failed to re-parse %s: %w", s.buffer.URI, err)
	}
	if s.tree != nil {
		s.tree.Close()
	}
	s.tree = tree

	next := *s.buffer
	next.Version++
	next.Text = text
	s.buffer = &next

	s.log.Debugf("updated %s to version %d (%d changes, %d tree edits)", next.URI, next.Version, len(changes), len(edits))
	return nil
}

// Text returns the whole text, or the part r spans. It is empty before
// Initialize.
func (s *Session) Text(r *protocol.Range) string {
	if s.buffer == nil {
		return ""
	}
	text := s.buffer.Text
	if r == nil {
		return text
	}
	start, _ := offsetAt(text, r.Start)
	end, _ := offsetAt(text, r.End)
	if end < start {
		start, end = end, start
	}
	return text[start:end]
}

// WordRangeAtPosition returns the run of identifier characters around pos.
// It reports false when the character at pos is not an identifier
// character. The lookup is purely lexical.
func (s *Session) WordRangeAtPosition(pos protocol.Position) (protocol.Range, bool) {
	if s.buffer == nil {
		return protocol.Range{}, false
	}
	text := s.buffer.Text
	offset, _ := offsetAt(text, pos)
	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1
	lineEnd := len(text)
	if i := strings.IndexByte(text[offset:], '\n'); i >= 0 {
		lineEnd = offset + i
	}

	col := offset - lineStart
	for _, m := range wordPattern.FindAllStringIndex(text[lineStart:lineEnd], -1) {
		if m[0] <= col && col < m[1] {
			return protocol.Range{
				Start: positionAt(text, lineStart+m[0]),
				End:   positionAt(text, lineStart+m[1]),
			}, true
		}
	}
	return protocol.Range{}, false
}

// PointAt converts an LSP position to a tree point.
func (s *Session) PointAt(pos protocol.Position) (syntax.Point, bool) {
	if s.buffer == nil {
		return syntax.Point{}, false
	}
	_, p := offsetAt(s.buffer.Text, pos)
	return p, true
}

// NodeAt returns the smallest named node containing p, or nil before
// Initialize.
func (s *Session) NodeAt(p syntax.Point) syntax.Node {
	if s.tree == nil {
		return nil
	}
	return query.SmallestDescendant(s.tree.RootNode(), p)
}

func (s *Session) NodeAtPosition(pos protocol.Position) syntax.Node {
	p, ok := s.PointAt(pos)
	if !ok {
		return nil
	}
	return s.NodeAt(p)
}

func (s *Session) Initialized() bool {
	return s.buffer != nil
}

func (s *Session) Version() protocol.Integer {
	if s.buffer == nil {
		return 0
	}
	return s.buffer.Version
}

func (s *Session) URI() protocol.DocumentUri {
	if s.buffer == nil {
		return ""
	}
	return s.buffer.URI
}

func (s *Session) LanguageID() string {
	if s.buffer == nil {
		return ""
	}
	return s.buffer.LanguageID
}

// Buffer returns a copy of the current text buffer.
func (s *Session) Buffer() (TextBuffer, bool) {
	if s.buffer == nil {
		return TextBuffer{}, false
	}
	return *s.buffer, true
}

// Tree is the current syntax tree, nil before Initialize.
func (s *Session) Tree() syntax.Tree {
	return s.tree
}

// Close releases the tree and the parser.
func (s *Session) Close() error {
	if s.tree != nil {
		s.tree.Close()
		s.tree = nil
	}
	s.buffer = nil
	return s.parser.Close()
}
