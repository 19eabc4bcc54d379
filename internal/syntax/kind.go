package syntax

// Kind is the closed set of node categories the query layer reasons about.
// Everything else maps to KindOther.
type Kind uint8

const (
	KindOther Kind = iota
	KindChunk
	KindIdentifier
	KindIndex
	KindMethodIndex
	KindBracketIndex
	KindFunctionCall
	KindArguments
	KindParenthesized
	KindTable
	KindError
)

var kindNames = [...]string{
	KindOther:         "other",
	KindChunk:         "chunk",
	KindIdentifier:    "identifier",
	KindIndex:         "index",
	KindMethodIndex:   "method_index",
	KindBracketIndex:  "bracket_index",
	KindFunctionCall:  "function_call",
	KindArguments:     "arguments",
	KindParenthesized: "parenthesized_expression",
	KindTable:         "table_constructor",
	KindError:         "ERROR",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "other"
}

// Field names shared by every backend.
const (
	FieldCalledObject = "called_object"
	FieldArguments    = "arguments"
	FieldObject       = "object"
	FieldKey          = "key"
)

// KindSet is a small set of kinds.
type KindSet uint32

// Kinds builds a KindSet.
func Kinds(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s |= 1 << k
	}
	return s
}

func (s KindSet) Has(k Kind) bool {
	return s&(1<<k) != 0
}

// IsSeparator reports whether an anonymous token separates links of an
// index chain.
func IsSeparator(n Node) bool {
	if n == nil || n.IsNamed() || n.IsMissing() {
		return false
	}
	t := n.Type()
	return t == "." || t == ":"
}
