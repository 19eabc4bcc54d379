package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/pdesaulniers/vscode-teal/internal/document"
	"github.com/pdesaulniers/vscode-teal/internal/parser"
	"github.com/pdesaulniers/vscode-teal/internal/query"
	"github.com/pdesaulniers/vscode-teal/internal/syntax"
)

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Print the syntax tree of a file",
		Args:  cobra.ExactArgs(1),
		RunE:  runDump,
	}
	cmd.Flags().Bool("sexp", false, "print a single-line S-expression")
	return cmd
}

func newPartsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parts FILE LINE COLUMN",
		Short: "Print the index chain and enclosing call at a position",
		Long:  `LINE and COLUMN are one-based; COLUMN counts UTF-16 code units as editors do.`,
		Args:  cobra.ExactArgs(3),
		RunE:  runParts,
	}
}

var (
	typeColor    = color.New(color.FgCyan)
	fieldColor   = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
	textColor    = color.New(color.FgGreen)
	spanColor    = color.New(color.Faint)
	headingColor = color.New(color.Bold)
)

// openSession loads path into a fresh session using the configured backend.
func openSession(cmd *cobra.Command, path string) (*document.Session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if plain, _ := cmd.Flags().GetBool("plain"); plain {
		color.NoColor = true
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := parser.New(cfg.Parser)
	if err != nil {
		return nil, err
	}
	s := document.NewSession(p)
	uri := "file://" + filepath.ToSlash(path)
	if err := s.Initialize(context.Background(), uri, "teal", string(src)); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func runDump(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	root := s.Tree().RootNode()
	out := cmd.OutOrStdout()
	if sexp, _ := cmd.Flags().GetBool("sexp"); sexp {
		_, err := fmt.Fprintln(out, syntax.Sexp(root))
		return err
	}
	return writeTree(out, root)
}

// writeTree prints one named node per line, indented by depth, with its
// field name, span and, for leaves, its text.
func writeTree(w io.Writer, root syntax.Node) error {
	var b strings.Builder
	var visit func(n syntax.Node, field string, depth int)
	visit = func(n syntax.Node, field string, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		if field != "" {
			b.WriteString(fieldColor.Sprint(field + ": "))
		}
		switch {
		case n.IsMissing():
			b.WriteString(errorColor.Sprint("MISSING " + n.Type()))
		case n.Kind() == syntax.KindError:
			b.WriteString(errorColor.Sprint(n.Type()))
		default:
			b.WriteString(typeColor.Sprint(n.Type()))
		}
		start, end := n.StartPoint(), n.EndPoint()
		b.WriteString(spanColor.Sprintf(" [%d:%d - %d:%d]", start.Row, start.Column, end.Row, end.Column))
		if n.NamedChildCount() == 0 && n.EndByte() > n.StartByte() {
			b.WriteString(" " + textColor.Sprint(strconv.Quote(n.Text())))
		}
		b.WriteByte('\n')

		for i := 0; i < n.ChildCount(); i++ {
			c := n.Child(i)
			if c.IsNamed() || c.IsMissing() {
				visit(c, n.FieldNameForChild(i), depth+1)
			}
		}
	}
	if root != nil {
		visit(root, "", 0)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func runParts(cmd *cobra.Command, args []string) error {
	line, err := strconv.Atoi(args[1])
	if err != nil || line < 1 {
		return fmt.Errorf("invalid line %q", args[1])
	}
	col, err := strconv.Atoi(args[2])
	if err != nil || col < 1 {
		return fmt.Errorf("invalid column %q", args[2])
	}

	s, err := openSession(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	pos := protocol.Position{Line: protocol.UInteger(line - 1), Character: protocol.UInteger(col - 1)}
	p, _ := s.PointAt(pos)
	return writeParts(cmd.OutOrStdout(), s, p)
}

func writeParts(w io.Writer, doc query.Document, p syntax.Point) error {
	var b strings.Builder
	label := func(name string) {
		b.WriteString(headingColor.Sprintf("%-7s", name))
	}

	label("node")
	if n := doc.NodeAt(p); n != nil {
		b.WriteString(typeColor.Sprint(n.Type()))
	} else {
		b.WriteString("-")
	}
	b.WriteByte('\n')

	m := query.FindIndexRoot(doc, p)
	label("root")
	if m.Found() {
		fmt.Fprintf(&b, "%s %s", textColor.Sprint(strconv.Quote(m.Node.Text())), spanColor.Sprintf("(%s)", m.Via))
	} else {
		b.WriteString("-")
	}
	b.WriteByte('\n')
	label("parts")
	b.WriteString(strings.Join(query.SymbolParts(m.Node, p), "."))
	b.WriteByte('\n')

	call := query.FindFunctionCallRoot(doc, p)
	label("call")
	if call.Found() {
		callee := query.Chain(query.CalledObject(call.Node))
		fmt.Fprintf(&b, "%s argument %d", strings.Join(callee, "."), query.ActiveArgument(call.Node, p))
	} else {
		b.WriteString("-")
	}
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}
