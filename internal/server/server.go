// Package server exposes the document core over the Language Server Protocol.
package server

import (
	"context"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/pdesaulniers/vscode-teal/internal/config"
	"github.com/pdesaulniers/vscode-teal/internal/manager"
)

const Name = "teal-language-server"

type Server struct {
	handler protocol.Handler
	manager *manager.DocumentManager
	config  config.Config
	version string
	ctx     context.Context
	log     commonlog.Logger
}

// New builds a Server with cfg as the configuration that initialization
// options are merged into.
func New(cfg config.Config, version string) (*Server, error) {
	s := &Server{
		manager: manager.NewDocumentManager(),
		config:  cfg,
		version: version,
		ctx:     context.Background(),
		log:     commonlog.GetLogger("teal.server"),
	}
	if err := s.manager.SetBackend(cfg.Parser); err != nil {
		return nil, err
	}
	s.handler = protocol.Handler{
		Initialize:                s.initialize,
		Initialized:               s.initialized,
		Shutdown:                  s.shutdown,
		SetTrace:                  s.setTrace,
		TextDocumentDidOpen:       s.textDocumentDidOpen,
		TextDocumentDidChange:     s.textDocumentDidChange,
		TextDocumentDidClose:      s.textDocumentDidClose,
		TextDocumentHover:         s.textDocumentHover,
		TextDocumentSignatureHelp: s.textDocumentSignatureHelp,
	}
	return s, nil
}

// NewServer wraps a new Server in a glsp server ready to run over stdio.
func NewServer(cfg config.Config, version string) (*server.Server, error) {
	s, err := New(cfg, version)
	if err != nil {
		return nil, err
	}
	return server.NewServer(&s.handler, Name, cfg.LogLevel > 1), nil
}

// Config is the configuration in effect.
func (s *Server) Config() config.Config {
	return s.config
}

func (s *Server) Documents() *manager.DocumentManager {
	return s.manager
}
