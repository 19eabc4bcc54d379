package teal_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdesaulniers/vscode-teal/internal/syntax"
	"github.com/pdesaulniers/vscode-teal/internal/teal"
)

func parse(t *testing.T, src string) *teal.Tree {
	t.Helper()
	tree, err := teal.NewParser().Parse(context.Background(), nil, nil, []byte(src))
	require.NoError(t, err)
	return tree.(*teal.Tree)
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			"trailing colon",
			"abc:",
			"(chunk (ERROR (identifier)))",
		},
		{
			"trailing dot after index",
			"abc.efg.",
			"(chunk (ERROR (index object: (identifier) key: (identifier))))",
		},
		{
			"empty call",
			"abc()",
			"(chunk (function_call called_object: (identifier) arguments: (arguments)))",
		},
		{
			"method call",
			"a:b(c)",
			"(chunk (function_call called_object: (method_index object: (identifier) key: (identifier)) arguments: (arguments (identifier))))",
		},
		{
			"trailing dot in table",
			"local x = { abc. }",
			"(chunk (var_declaration name: (identifier) value: (table_constructor (field value: (ERROR (identifier))))))",
		},
		{
			"unclosed call",
			"f(a",
			`(chunk (function_call called_object: (identifier) arguments: (arguments (identifier) (MISSING ")"))))`,
		},
		{
			"bare expression",
			"abc",
			"(chunk (ERROR (identifier)))",
		},
		{
			"precedence",
			"x = a + b * c",
			"(chunk (var_assignment target: (identifier) value: (binary_expression left: (identifier) right: (binary_expression left: (identifier) right: (identifier)))))",
		},
		{
			"concat is right associative",
			"local s = a .. b .. c",
			"(chunk (var_declaration name: (identifier) value: (binary_expression left: (identifier) right: (binary_expression left: (identifier) right: (identifier)))))",
		},
		{
			"bracket then index",
			"t[1].x = 2",
			"(chunk (var_assignment target: (index object: (bracket_index object: (identifier) key: (number)) key: (identifier)) value: (number)))",
		},
		{
			"stray tokens",
			") x()",
			"(chunk (ERROR) (function_call called_object: (identifier) arguments: (arguments)))",
		},
		{
			"typed local function",
			"local function f(a: number): string return a end",
			"(chunk (function_statement name: (identifier) parameters: (parameters (parameter name: (identifier) type: (simple_type (identifier)))) return_type: (simple_type (identifier)) body: (block (return_statement value: (identifier)))))",
		},
		{
			"string and table call arguments",
			`require "x" f{1}`,
			"(chunk (function_call called_object: (identifier) arguments: (arguments (string))) (function_call called_object: (identifier) arguments: (arguments (table_constructor (field value: (number))))))",
		},
		{
			"if with else",
			"if a then b() else c() end",
			"(chunk (if_statement condition: (identifier) consequence: (block (function_call called_object: (identifier) arguments: (arguments))) alternative: (else_statement body: (block (function_call called_object: (identifier) arguments: (arguments))))))",
		},
		{
			"generic record type",
			"local m: {string:List<List<T>>} = {}",
			"(chunk (var_declaration name: (identifier) type: (table_type (simple_type (identifier)) (simple_type (identifier) type_arguments: (type_arguments (simple_type (identifier) type_arguments: (type_arguments (simple_type (identifier))))))) value: (table_constructor)))",
		},
		{
			"record",
			"local record P x: number end",
			"(chunk (record_declaration name: (identifier) body: (record_body (field_declaration name: (identifier) type: (simple_type (identifier))))))",
		},
		{
			"cast",
			"local n = x as integer",
			"(chunk (var_declaration name: (identifier) value: (cast_expression expression: (identifier) type: (simple_type (identifier)))))",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := parse(t, tt.src)
			assert.Equal(t, tt.want, syntax.Sexp(tree.RootNode()))
		})
	}
}

func TestParseSpans(t *testing.T) {
	tree := parse(t, "local a = 1\nfoo.bar(")
	root := tree.RootNode()
	require.Equal(t, 2, root.NamedChildCount())

	call := root.NamedChild(1)
	assert.Equal(t, syntax.KindFunctionCall, call.Kind())
	assert.Equal(t, syntax.Point{Row: 1, Column: 0}, call.StartPoint())
	assert.True(t, call.HasError())
	assert.Equal(t, "foo.bar(", call.Text())

	args := call.ChildByFieldName(syntax.FieldArguments)
	require.NotNil(t, args)
	closing := args.Child(args.ChildCount() - 1)
	assert.True(t, closing.IsMissing())
	assert.Equal(t, ")", closing.Type())
	assert.Equal(t, uint32(0), syntax.Length(closing))
	assert.Equal(t, args.EndPoint(), closing.StartPoint())

	assert.Equal(t, uint32(len("local a = 1\nfoo.bar(")), root.EndByte())
	assert.False(t, root.NamedChild(0).HasError())
}

func TestParseNavigation(t *testing.T) {
	tree := parse(t, "a.b(c, d)")
	call := tree.RootNode().NamedChild(0)
	index := call.ChildByFieldName(syntax.FieldCalledObject)
	require.NotNil(t, index)
	assert.Equal(t, syntax.KindIndex, index.Kind())
	assert.Equal(t, syntax.FieldCalledObject, call.FieldNameForChild(0))

	args := index.NextNamedSibling()
	require.NotNil(t, args)
	assert.Equal(t, syntax.KindArguments, args.Kind())
	assert.Nil(t, args.NextNamedSibling())
	assert.Equal(t, call, args.Parent())

	c := args.NamedChild(0)
	assert.Equal(t, "d", c.NextNamedSibling().Text())
	assert.Nil(t, args.NamedChild(5))
	assert.Nil(t, tree.RootNode().Parent())
}

// spans lists every node of the tree with its byte and point span.
func spans(root syntax.Node) []string {
	var out []string
	syntax.Walk(root, func(n syntax.Node) bool {
		s, e := n.StartPoint(), n.EndPoint()
		out = append(out, fmt.Sprintf("%s %d-%d %d:%d-%d:%d", n.Type(), n.StartByte(), n.EndByte(), s.Row, s.Column, e.Row, e.Column))
		return true
	})
	return out
}

func TestParseIncremental(t *testing.T) {
	p := teal.NewParser()
	before := "local a = 1\nlocal b = 2\nlocal c = 3\nprint(a)\n"
	old, err := p.Parse(context.Background(), nil, nil, []byte(before))
	require.NoError(t, err)
	oldSexp := syntax.Sexp(old.RootNode())
	oldSpans := spans(old.RootNode())

	start := strings.Index(before, "(a)") + 1
	after := before[:start] + "b.c" + before[start+1:]
	edit := syntax.Edit{
		StartByte:   uint32(start),
		OldEndByte:  uint32(start + 1),
		NewEndByte:  uint32(start + 3),
		StartPoint:  syntax.Point{Row: 3, Column: 6},
		OldEndPoint: syntax.Point{Row: 3, Column: 7},
		NewEndPoint: syntax.Point{Row: 3, Column: 9},
	}

	tree, err := p.Parse(context.Background(), old, []syntax.Edit{edit}, []byte(after))
	require.NoError(t, err)
	assert.Equal(t, 2, tree.(*teal.Tree).Reused())

	fresh, err := p.Parse(context.Background(), nil, nil, []byte(after))
	require.NoError(t, err)
	assert.Equal(t, syntax.Sexp(fresh.RootNode()), syntax.Sexp(tree.RootNode()))
	assert.Equal(t, spans(fresh.RootNode()), spans(tree.RootNode()))
	assert.Equal(t, "print(b.c)", tree.RootNode().NamedChild(3).Text())

	assert.Equal(t, oldSexp, syntax.Sexp(old.RootNode()))
	assert.Equal(t, oldSpans, spans(old.RootNode()))
	assert.Equal(t, "print(a)", old.RootNode().NamedChild(3).Text())
}

func TestParseIncrementalAtStart(t *testing.T) {
	p := teal.NewParser()
	old, err := p.Parse(context.Background(), nil, nil, []byte("x()\ny()\n"))
	require.NoError(t, err)

	edit := syntax.Edit{StartByte: 0, OldEndByte: 0, NewEndByte: 1, NewEndPoint: syntax.Point{Column: 1}}
	tree, err := p.Parse(context.Background(), old, []syntax.Edit{edit}, []byte("zx()\ny()\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, tree.(*teal.Tree).Reused())
	assert.Equal(t, "zx()", tree.RootNode().NamedChild(0).Text())
}

func TestParseCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := teal.NewParser().Parse(ctx, nil, nil, []byte("x()"))
	assert.ErrorIs(t, err, context.Canceled)
}

const program = `local record Point
  x: number
end

local function dist(a: Point, b: Point): number
  local dx, dy = a.x - b.x, a.y - b.y
  return math.sqrt(dx * dx + dy * dy)
end

for i = 1, 10 do
  if i % 2 == 0 then print(i) elseif i > 5 then break end
end

local t = { 1, 2, [3] = "x", name = dist(p, q), }
repeat t[#t] = nil until #t == 0
string.format("%d", #t):upper()
`

// Every prefix of a program is an incomplete edit state; the parser must
// produce a well-formed tree for each of them.
func TestParsePrefixesAreWellFormed(t *testing.T) {
	p := teal.NewParser()
	for i := 0; i <= len(program); i++ {
		src := program[:i]
		tree, err := p.Parse(context.Background(), nil, nil, []byte(src))
		require.NoError(t, err)
		root := tree.RootNode()
		assert.Equal(t, uint32(len(src)), root.EndByte())
		checkWellFormed(t, root, src)
	}
}

func checkWellFormed(t *testing.T, n syntax.Node, src string) {
	t.Helper()
	prevEnd := n.StartByte()
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c.StartByte() < prevEnd || c.EndByte() > n.EndByte() || c.StartByte() < n.StartByte() {
			t.Fatalf("child %s [%d,%d] out of place in %s [%d,%d] for %q",
				c.Type(), c.StartByte(), c.EndByte(), n.Type(), n.StartByte(), n.EndByte(), src)
		}
		if !syntax.Same(c.Parent(), n) {
			t.Fatalf("child %s has wrong parent for %q", c.Type(), src)
		}
		prevEnd = c.EndByte()
		checkWellFormed(t, c, src)
	}
}
