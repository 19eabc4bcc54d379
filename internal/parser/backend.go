// Package parser provides the tree-sitter Lua backend and the registry that
// maps backend names to syntax.Parser constructors.
package parser

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pdesaulniers/vscode-teal/internal/syntax"
	"github.com/pdesaulniers/vscode-teal/internal/teal"
)

const (
	BackendTeal = "teal"
	BackendLua  = "lua"
)

var ErrUnknownBackend = errors.New("unknown parser backend")

var backends = map[string]func() syntax.Parser{
	BackendTeal: func() syntax.Parser { return teal.NewParser() },
	BackendLua:  func() syntax.Parser { return NewParser() },
}

// New returns a fresh parser for the named backend. An empty name selects
// the Teal parser.
func New(name string) (syntax.Parser, error) {
	if name == "" {
		name = BackendTeal
	}
	constructor, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	return constructor(), nil
}

// Validate reports whether name is a known backend.
func Validate(name string) error {
	if name == "" {
		return nil
	}
	if _, ok := backends[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	return nil
}

// Backends lists the registered backend names.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
