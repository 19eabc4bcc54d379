package document

import (
	"strings"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/pdesaulniers/vscode-teal/internal/syntax"
)

// offsetAt converts an LSP position, whose character counts UTF-16 code
// units, to a byte offset and byte-column point. Lines past the end clamp
// to the last line and characters past the end of a line clamp to its end.
func offsetAt(text string, pos protocol.Position) (int, syntax.Point) {
	offset := 0
	row := uint32(0)
	for row < pos.Line {
		next := strings.IndexByte(text[offset:], '\n')
		if next < 0 {
			break
		}
		offset += next + 1
		row++
	}

	line := text[offset:]
	if end := strings.IndexByte(line, '\n'); end >= 0 {
		line = line[:end]
	}

	var units uint32
	col := 0
	for _, r := range line {
		n := uint32(1)
		if r > 0xFFFF {
			n = 2
		}
		if units+n > pos.Character {
			break
		}
		units += n
		col += utf8.RuneLen(r)
	}
	return offset + col, syntax.Point{Row: row, Column: uint32(col)}
}

// pointAt converts a byte offset to a row and byte column.
func pointAt(text string, offset int) syntax.Point {
	offset = min(max(offset, 0), len(text))
	prefix := text[:offset]
	row := strings.Count(prefix, "\n")
	col := offset - (strings.LastIndexByte(prefix, '\n') + 1)
	return syntax.Point{Row: uint32(row), Column: uint32(col)}
}

// endPoint is the point reached after writing inserted starting at start.
func endPoint(start syntax.Point, inserted string) syntax.Point {
	last := strings.LastIndexByte(inserted, '\n')
	if last < 0 {
		return syntax.Point{Row: start.Row, Column: start.Column + uint32(len(inserted))}
	}
	return syntax.Point{
		Row:    start.Row + uint32(strings.Count(inserted, "\n")),
		Column: uint32(len(inserted) - last - 1),
	}
}

// positionAt converts a byte offset back to an LSP position.
func positionAt(text string, offset int) protocol.Position {
	offset = min(max(offset, 0), len(text))
	p := pointAt(text, offset)
	var units uint32
	for _, r := range text[offset-int(p.Column) : offset] {
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
	}
	return protocol.Position{Line: p.Row, Character: units}
}
