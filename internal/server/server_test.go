package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/pdesaulniers/vscode-teal/internal/config"
	"github.com/pdesaulniers/vscode-teal/internal/manager"
	"github.com/pdesaulniers/vscode-teal/internal/parser"
)

const uri = "file:///project/main.tl"

func newServer(t *testing.T, options any) (*Server, protocol.InitializeResult) {
	t.Helper()
	s, err := New(config.Default(), "test")
	require.NoError(t, err)
	res, err := s.initialize(nil, &protocol.InitializeParams{InitializationOptions: options})
	require.NoError(t, err)
	t.Cleanup(func() { s.shutdown(nil) })
	return s, res.(protocol.InitializeResult)
}

func open(t *testing.T, s *Server, text string) {
	t.Helper()
	require.NoError(t, s.textDocumentDidOpen(nil, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "teal", Version: 1, Text: text},
	}))
}

func hover(t *testing.T, s *Server, line, char uint32) *protocol.Hover {
	t.Helper()
	h, err := s.textDocumentHover(nil, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: line, Character: char},
		},
	})
	require.NoError(t, err)
	return h
}

func signature(t *testing.T, s *Server, line, char uint32) *protocol.SignatureHelp {
	t.Helper()
	h, err := s.textDocumentSignatureHelp(nil, &protocol.SignatureHelpParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: line, Character: char},
		},
	})
	require.NoError(t, err)
	return h
}

func TestInitializeCapabilities(t *testing.T) {
	_, res := newServer(t, nil)

	caps := res.Capabilities
	sync, ok := caps.TextDocumentSync.(*protocol.TextDocumentSyncOptions)
	require.True(t, ok)
	assert.Equal(t, protocol.TextDocumentSyncKindIncremental, *sync.Change)
	assert.Equal(t, true, caps.HoverProvider)
	require.NotNil(t, caps.SignatureHelpProvider)
	assert.Equal(t, []string{"(", ","}, caps.SignatureHelpProvider.TriggerCharacters)
	require.NotNil(t, res.ServerInfo)
	assert.Equal(t, Name, res.ServerInfo.Name)
}

func TestInitializeOptions(t *testing.T) {
	s, res := newServer(t, map[string]any{"hover": false, "parser": "lua"})

	assert.Nil(t, res.Capabilities.HoverProvider)
	assert.NotNil(t, res.Capabilities.SignatureHelpProvider)
	assert.False(t, s.Config().Hover)
	assert.Equal(t, parser.BackendLua, s.Documents().Backend())

	open(t, s, "print(abc.def)\n")
	assert.Nil(t, hover(t, s, 0, 11))
}

func TestInitializeRejectsBadOptions(t *testing.T) {
	s, err := New(config.Default(), "test")
	require.NoError(t, err)
	_, err = s.initialize(nil, &protocol.InitializeParams{
		InitializationOptions: map[string]any{"parser": "python"},
	})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestHover(t *testing.T) {
	s, _ := newServer(t, nil)
	open(t, s, "local x = abc.def.ghi\n")

	tests := []struct {
		name string
		char uint32
		want string
	}{
		{"root object", 11, "abc"},
		{"middle member", 15, "abc.def"},
		{"last member", 19, "abc.def.ghi"},
		{"plain identifier", 6, "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := hover(t, s, 0, tt.char)
			require.NotNil(t, h)
			content, ok := h.Contents.(protocol.MarkupContent)
			require.True(t, ok)
			assert.Equal(t, protocol.MarkupKindMarkdown, content.Kind)
			assert.Equal(t, "```teal\n"+tt.want+"\n```", content.Value)
		})
	}

	assert.Nil(t, hover(t, s, 0, 8), "no word under the cursor")
}

func TestHoverRange(t *testing.T) {
	s, _ := newServer(t, nil)
	open(t, s, "local x = abc.def\n")

	h := hover(t, s, 0, 15)
	require.NotNil(t, h)
	require.NotNil(t, h.Range)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 0, Character: 14},
		End:   protocol.Position{Line: 0, Character: 17},
	}, *h.Range)
}

func TestSignatureHelp(t *testing.T) {
	s, _ := newServer(t, nil)
	open(t, s, "print(abc, def:ghi(1, 2))\n")

	tests := []struct {
		name   string
		char   uint32
		label  string
		active protocol.UInteger
	}{
		{"first argument", 7, "print(...)", 0},
		{"second argument", 10, "print(...)", 1},
		{"inner method call", 21, "def:ghi(...)", 1},
		{"inner first argument", 19, "def:ghi(...)", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := signature(t, s, 0, tt.char)
			require.NotNil(t, h)
			require.Len(t, h.Signatures, 1)
			assert.Equal(t, tt.label, h.Signatures[0].Label)
			require.NotNil(t, h.ActiveParameter)
			assert.Equal(t, tt.active, *h.ActiveParameter)
		})
	}

	assert.Nil(t, signature(t, s, 0, 2), "on the callee")
}

func TestDidChangeUpdatesQueries(t *testing.T) {
	s, _ := newServer(t, nil)
	open(t, s, "local x = abc\n")

	pos := protocol.Position{Line: 0, Character: 13}
	err := s.textDocumentDidChange(nil, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEvent{
				Range: &protocol.Range{Start: pos, End: pos},
				Text:  ".def",
			},
		},
	})
	require.NoError(t, err)

	buf, ok := s.Documents().Get(uri)
	require.True(t, ok)
	assert.Equal(t, "local x = abc.def\n", buf.Text)

	h := hover(t, s, 0, 15)
	require.NotNil(t, h)
	assert.Equal(t, "```teal\nabc.def\n```", h.Contents.(protocol.MarkupContent).Value)
}

func TestDidClose(t *testing.T) {
	s, _ := newServer(t, nil)
	open(t, s, "x")

	require.NoError(t, s.textDocumentDidClose(nil, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	_, err := s.textDocumentHover(nil, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		},
	})
	assert.ErrorIs(t, err, manager.ErrDocumentNotOpen)
}

func TestCalleeLabelFallsBackToText(t *testing.T) {
	assert.Equal(t, "", calleeLabel(nil))
}
