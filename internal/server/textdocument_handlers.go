package server

import (
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/pdesaulniers/vscode-teal/internal/document"
	"github.com/pdesaulniers/vscode-teal/internal/query"
	"github.com/pdesaulniers/vscode-teal/internal/syntax"
)

func (s *Server) textDocumentDidOpen(
	_ *glsp.Context,
	params *protocol.DidOpenTextDocumentParams,
) error {
	doc := params.TextDocument
	return s.manager.Open(s.ctx, doc.URI, doc.LanguageID, doc.Text)
}

func (s *Server) textDocumentDidChange(
	_ *glsp.Context,
	params *protocol.DidChangeTextDocumentParams,
) error {
	return s.manager.Change(s.ctx, params.TextDocument.URI, params.ContentChanges)
}

func (s *Server) textDocumentDidClose(
	_ *glsp.Context,
	params *protocol.DidCloseTextDocumentParams,
) error {
	return s.manager.Close(params.TextDocument.URI)
}

// textDocumentHover shows the access path of the identifier under the
// cursor, e.g. `abc.def` when hovering `def` in `abc.def.ghi`.
func (s *Server) textDocumentHover(
	_ *glsp.Context,
	params *protocol.HoverParams,
) (*protocol.Hover, error) {
	if !s.config.Hover {
		return nil, nil
	}

	var hover *protocol.Hover
	err := s.manager.View(params.TextDocument.URI, func(doc *document.Session) error {
		word, ok := doc.WordRangeAtPosition(params.Position)
		if !ok {
			return nil
		}
		end, _ := doc.PointAt(word.End)
		path := hoverPath(doc, end, doc.Text(&word))
		if path == "" {
			return nil
		}
		hover = &protocol.Hover{
			Contents: protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: "```teal\n" + path + "\n```",
			},
			Range: &word,
		}
		return nil
	})
	return hover, err
}

func hoverPath(doc *document.Session, end syntax.Point, word string) string {
	if m := query.FindIndexRoot(doc, end); m.Found() && m.Via == query.ViaAncestor {
		parts := append(query.SymbolParts(m.Node, end), word)
		return strings.Join(parts, ".")
	}
	if n := doc.NodeAt(end); n != nil && n.Kind() == syntax.KindIdentifier {
		return word
	}
	return ""
}

// textDocumentSignatureHelp names the call whose argument list holds the
// cursor and the argument being written.
func (s *Server) textDocumentSignatureHelp(
	_ *glsp.Context,
	params *protocol.SignatureHelpParams,
) (*protocol.SignatureHelp, error) {
	if !s.config.SignatureHelp {
		return nil, nil
	}

	var help *protocol.SignatureHelp
	err := s.manager.View(params.TextDocument.URI, func(doc *document.Session) error {
		p, ok := doc.PointAt(params.Position)
		if !ok {
			return nil
		}
		m := query.FindFunctionCallRoot(doc, p)
		if !m.Found() {
			return nil
		}
		label := calleeLabel(query.CalledObject(m.Node))
		if label == "" {
			return nil
		}
		active := protocol.UInteger(query.ActiveArgument(m.Node, p))
		zero := protocol.UInteger(0)
		help = &protocol.SignatureHelp{
			Signatures: []protocol.SignatureInformation{{
				Label:           label + "(...)",
				ActiveParameter: &active,
			}},
			ActiveSignature: &zero,
			ActiveParameter: &active,
		}
		return nil
	})
	return help, err
}

// calleeLabel renders a called object as a path, keeping the colon of a
// method call. Callees that are not paths fall back to their source text.
func calleeLabel(n syntax.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind() == syntax.KindMethodIndex {
		object := query.Chain(n.ChildByFieldName(syntax.FieldObject))
		key := n.ChildByFieldName(syntax.FieldKey)
		if object != nil && key != nil && !key.IsMissing() {
			return strings.Join(object, ".") + ":" + key.Text()
		}
	}
	if parts := query.Chain(n); parts != nil {
		return strings.Join(parts, ".")
	}
	return n.Text()
}
