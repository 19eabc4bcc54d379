package syntax

// ComparePoints orders two points in document order.
func ComparePoints(a, b Point) int {
	switch {
	case a.Row < b.Row:
		return -1
	case a.Row > b.Row:
		return 1
	case a.Column < b.Column:
		return -1
	case a.Column > b.Column:
		return 1
	}
	return 0
}

// Contains reports whether p lies within n. Both ends are inclusive, so the
// point right after a node's last character is still inside it.
func Contains(n Node, p Point) bool {
	start, end := n.StartPoint(), n.EndPoint()
	if p.Row < start.Row || p.Row > end.Row {
		return false
	}
	if p.Row == start.Row && p.Column < start.Column {
		return false
	}
	if p.Row == end.Row && p.Column > end.Column {
		return false
	}
	return true
}

// Length is the node's span in bytes.
func Length(n Node) uint32 {
	return n.EndByte() - n.StartByte()
}

// StartsAfter reports whether n begins strictly after p.
func StartsAfter(n Node, p Point) bool {
	return ComparePoints(n.StartPoint(), p) > 0
}

// EndsBefore reports whether n ends strictly before p.
func EndsBefore(n Node, p Point) bool {
	return ComparePoints(n.EndPoint(), p) < 0
}

// Same reports whether a and b denote the same node. Backends hand out
// fresh wrappers, so identity is decided by type and span.
func Same(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Type() == b.Type() &&
		a.StartByte() == b.StartByte() &&
		a.EndByte() == b.EndByte()
}
