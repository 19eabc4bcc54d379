package manager

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/pdesaulniers/vscode-teal/internal/document"
	"github.com/pdesaulniers/vscode-teal/internal/parser"
)

var ErrDocumentNotOpen = errors.New("document not open")

// DocumentManager owns one document.Session per open URI and serializes
// every access to them.
type DocumentManager struct {
	mu       sync.Mutex
	sessions map[protocol.DocumentUri]*document.Session
	backend  string
	log      commonlog.Logger
}

// NewDocumentManager creates a manager that parses with the Teal backend.
func NewDocumentManager() *DocumentManager {
	return &DocumentManager{
		sessions: make(map[protocol.DocumentUri]*document.Session),
		backend:  parser.BackendTeal,
		log:      commonlog.GetLogger("teal.manager"),
	}
}

// SetBackend selects the parser backend for documents opened afterwards.
func (dm *DocumentManager) SetBackend(name string) error {
	if err := parser.Validate(name); err != nil {
		return err
	}
	dm.mu.Lock()
	defer dm.mu.Unlock()
	if name == "" {
		name = parser.BackendTeal
	}
	dm.backend = name
	return nil
}

func (dm *DocumentManager) Backend() string {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return dm.backend
}

// Open starts tracking uri, or re-initializes it when already open.
func (dm *DocumentManager) Open(ctx context.Context, uri protocol.DocumentUri, languageID, text string) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if s, ok := dm.sessions[uri]; ok {
		return s.Initialize(ctx, uri, languageID, text)
	}

	p, err := parser.New(dm.backend)
	if err != nil {
		return fmt.Errorf("failed to create parser for %s: %w", uri, err)
	}
	s := document.NewSession(p)
	if err := s.Initialize(ctx, uri, languageID, text); err != nil {
		return errors.Join(err, s.Close())
	}
	dm.sessions[uri] = s
	dm.log.Debugf("tracking %s with the %s parser", uri, dm.backend)
	return nil
}

// Change applies a batch of content changes to an open document.
func (dm *DocumentManager) Change(ctx context.Context, uri protocol.DocumentUri, changes []any) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	s, ok := dm.sessions[uri]
	if !ok {
		return fmt.Errorf("%w: %s", ErrDocumentNotOpen, uri)
	}
	return s.ApplyEdits(ctx, changes)
}

// Get returns a copy of the document's current text buffer.
func (dm *DocumentManager) Get(uri protocol.DocumentUri) (document.TextBuffer, bool) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	s, ok := dm.sessions[uri]
	if !ok {
		return document.TextBuffer{}, false
	}
	return s.Buffer()
}

// View runs fn with the document's session while holding the lock. fn must
// not keep the session or any of its nodes after it returns.
func (dm *DocumentManager) View(uri protocol.DocumentUri, fn func(*document.Session) error) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	s, ok := dm.sessions[uri]
	if !ok {
		return fmt.Errorf("%w: %s", ErrDocumentNotOpen, uri)
	}
	return fn(s)
}

// Close stops tracking uri and releases its session.
func (dm *DocumentManager) Close(uri protocol.DocumentUri) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	s, ok := dm.sessions[uri]
	if !ok {
		return fmt.Errorf("%w: %s", ErrDocumentNotOpen, uri)
	}
	delete(dm.sessions, uri)
	if err := s.Close(); err != nil {
		return fmt.Errorf("error closing session for %s: %w", uri, err)
	}
	return nil
}

// URIs lists the open documents in sorted order.
func (dm *DocumentManager) URIs() []protocol.DocumentUri {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	uris := make([]protocol.DocumentUri, 0, len(dm.sessions))
	for uri := range dm.sessions {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}

// CloseAll releases every session, reporting all close errors together.
func (dm *DocumentManager) CloseAll() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	var errs []error
	for uri, s := range dm.sessions {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing session for %s: %w", uri, err))
		}
	}
	dm.sessions = make(map[protocol.DocumentUri]*document.Session)
	return errors.Join(errs...)
}
