// Package syntax defines the contract between the document core and the
// parser that produces its syntax trees. Any grammar backend can sit behind
// Parser as long as it reports node types through the Kind vocabulary.
package syntax

import "context"

// Point is a zero-based row and byte column.
type Point struct {
	Row    uint32
	Column uint32
}

// Edit describes one incremental text change. Start and OldEnd refer to the
// text before the change, NewEnd to the text after it.
type Edit struct {
	StartByte   uint32
	OldEndByte  uint32
	NewEndByte  uint32
	StartPoint  Point
	OldEndPoint Point
	NewEndPoint Point
}

// Node is a single syntax node. Implementations must be comparable so nodes
// can be used as map keys, and must return a nil Node (not a typed nil) for
// absent children and siblings.
type Node interface {
	// Type is the raw grammar type, e.g. "function_call".
	Type() string
	// Kind is Type mapped onto the vocabulary the query layer understands.
	Kind() Kind
	IsNamed() bool
	IsMissing() bool
	HasError() bool

	StartByte() uint32
	EndByte() uint32
	StartPoint() Point
	EndPoint() Point

	Parent() Node
	ChildCount() int
	Child(i int) Node
	NamedChildCount() int
	NamedChild(i int) Node
	NextNamedSibling() Node
	ChildByFieldName(name string) Node
	FieldNameForChild(i int) string

	// Text is the slice of source the node spans.
	Text() string
}

// Tree is an immutable parse result.
type Tree interface {
	RootNode() Node
	Close()
}

// Parser turns source into a Tree. When old is non-nil it is the tree for
// the text before edits were applied, offered as a reuse hint; the parser
// must not modify it.
type Parser interface {
	Parse(ctx context.Context, old Tree, edits []Edit, src []byte) (Tree, error)
	Close() error
}
