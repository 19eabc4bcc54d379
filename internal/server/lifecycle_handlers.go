package server

import (
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/pdesaulniers/vscode-teal/internal/config"
)

var (
	signatureTriggers   = []string{"(", ","}
	signatureRetriggers = []string{")"}
)

func (s *Server) initialize(
	_ *glsp.Context,
	params *protocol.InitializeParams,
) (any, error) {
	cfg, err := config.Merge(s.config, params.InitializationOptions)
	if err != nil {
		return nil, fmt.Errorf("bad initialization options: %w", err)
	}
	if err := s.manager.SetBackend(cfg.Parser); err != nil {
		return nil, err
	}
	s.config = cfg
	s.log.Infof("config: %+v", cfg)

	syncKind := protocol.TextDocumentSyncKindIncremental
	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
	}
	capabilities.HoverProvider = nil
	capabilities.SignatureHelpProvider = nil
	if cfg.Hover {
		capabilities.HoverProvider = true
	}
	if cfg.SignatureHelp {
		capabilities.SignatureHelpProvider = &protocol.SignatureHelpOptions{
			TriggerCharacters:   signatureTriggers,
			RetriggerCharacters: signatureRetriggers,
		}
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    Name,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(
	_ *glsp.Context,
	_ *protocol.InitializedParams,
) error {
	s.log.Info("client initialized")
	return nil
}

func (s *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return s.manager.CloseAll()
}

func (s *Server) setTrace(
	_ *glsp.Context,
	params *protocol.SetTraceParams,
) error {
	protocol.SetTraceValue(params.Value)
	return nil
}
