package document

import (
	"errors"
	"fmt"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/pdesaulniers/vscode-teal/internal/syntax"
)

var ErrUnsupportedChange = errors.New("unsupported content change")

// applyChange applies one LSP content change to text. Ranged changes also
// yield the tree edit that describes them; full replacements yield nil.
func applyChange(text string, change any) (string, *syntax.Edit, error) {
	switch c := change.(type) {
	case protocol.TextDocumentContentChangeEvent:
		if c.Range == nil {
			return c.Text, nil, nil
		}
		return applyRanged(text, *c.Range, c.Text)
	case *protocol.TextDocumentContentChangeEvent:
		if c == nil {
			break
		}
		return applyChange(text, *c)
	case protocol.TextDocumentContentChangeEventWhole:
		return c.Text, nil, nil
	case *protocol.TextDocumentContentChangeEventWhole:
		if c == nil {
			break
		}
		return c.Text, nil, nil
	}
	return text, nil, fmt.Errorf("%w: %T", ErrUnsupportedChange, change)
}

// applyRanged splices inserted into text over r. The edit's start and old
// end come from the text before the change; its new end is start plus the
// inserted length, so the new end point follows from the inserted text.
func applyRanged(text string, r protocol.Range, inserted string) (string, *syntax.Edit, error) {
	start, startPt := offsetAt(text, r.Start)
	end, endPt := offsetAt(text, r.End)
	if end < start {
		start, end = end, start
		startPt, endPt = endPt, startPt
	}

	next := text[:start] + inserted + text[end:]
	return next, &syntax.Edit{
		StartByte:   uint32(start),
		OldEndByte:  uint32(end),
		NewEndByte:  uint32(start + len(inserted)),
		StartPoint:  startPt,
		OldEndPoint: endPt,
		NewEndPoint: endPoint(startPt, inserted),
	}, nil
}
