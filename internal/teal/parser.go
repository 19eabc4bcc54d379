package teal

import "github.com/pdesaulniers/vscode-teal/internal/syntax"

// parser is the state of a single parse. Every parse method consumes at
// least one token or returns a zero-width node, so recovery never loops.
type parser struct {
	tree      *Tree
	toks      []token
	pos       int
	prevEnd   uint32
	prevEndPt syntax.Point
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) peekAt(k int) token {
	if i := p.pos + k; i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) at(text string) bool {
	return p.peek().is(text)
}

func (p *parser) atAny(texts ...string) bool {
	for _, t := range texts {
		if p.at(t) {
			return true
		}
	}
	return false
}

func (p *parser) atKind(k tokenKind) bool {
	return p.peek().kind == k
}

// atContextual matches a plain name used as a keyword in some positions.
func (p *parser) atContextual(word string) bool {
	t := p.peek()
	return t.kind == tokName && t.text == word
}

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
		p.prevEnd, p.prevEndPt = t.end, t.endPt
	}
	return t
}

func (p *parser) node(typ string) *Node {
	kind, ok := typeKinds[typ]
	if !ok {
		kind = syntax.KindOther
	}
	return &Node{typ: typ, kind: kind, named: true, tree: p.tree}
}

func (p *parser) leaf(t token, typ string, named bool) *Node {
	n := p.node(typ)
	n.named = named
	n.startB, n.endB = t.start, t.end
	n.start, n.end = t.startPt, t.endPt
	return n
}

// consume turns the current token into a leaf of the matching type.
func (p *parser) consume() *Node {
	t := p.advance()
	switch t.kind {
	case tokName:
		return p.leaf(t, "identifier", true)
	case tokNumber:
		return p.leaf(t, "number", true)
	case tokString:
		return p.leaf(t, "string", true)
	case tokKeyword:
		switch t.text {
		case "nil":
			return p.leaf(t, "nil", true)
		case "true", "false":
			return p.leaf(t, "boolean", true)
		}
	case tokSymbol:
		if t.text == "..." {
			return p.leaf(t, "vararg_expression", true)
		}
	}
	return p.leaf(t, t.text, false)
}

// token consumes the current token as an anonymous leaf.
func (p *parser) token() *Node {
	t := p.advance()
	return p.leaf(t, t.text, false)
}

func (p *parser) zeroWidth(typ string, named bool) *Node {
	n := p.node(typ)
	n.named = named
	n.startB, n.endB = p.prevEnd, p.prevEnd
	n.start, n.end = p.prevEndPt, p.prevEndPt
	return n
}

func (p *parser) missing(typ string, named bool) *Node {
	n := p.zeroWidth(typ, named)
	n.missing = true
	n.hasError = true
	return n
}

// expect consumes text or, when it is absent, inserts a missing token.
func (p *parser) expect(text string) *Node {
	if p.at(text) {
		return p.token()
	}
	return p.missing(text, false)
}

func (p *parser) name() *Node {
	return p.leaf(p.advance(), "identifier", true)
}

func (p *parser) expectName() *Node {
	if p.atKind(tokName) {
		return p.name()
	}
	return p.missing("identifier", true)
}

// finish derives n's span and error flag from its children.
func (p *parser) finish(n *Node) *Node {
	if len(n.children) == 0 {
		n.startB, n.endB = p.prevEnd, p.prevEnd
		n.start, n.end = p.prevEndPt, p.prevEndPt
	} else {
		first, last := n.children[0], n.children[len(n.children)-1]
		n.startB, n.start = first.startB, first.start
		n.endB, n.end = last.endB, last.end
	}
	n.hasError = n.kind == syntax.KindError || n.missing
	for _, c := range n.children {
		if c.hasError {
			n.hasError = true
			break
		}
	}
	return n
}

// Statements.

func (p *parser) chunk(root *Node) {
	for !p.atKind(tokEOF) {
		root.add("", p.statement())
	}
}

var blockEnds = []string{"end", "else", "elseif", "until"}

func (p *parser) atBlockEnd() bool {
	return p.atKind(tokEOF) || p.atAny(blockEnds...)
}

func (p *parser) block(terms ...string) *Node {
	b := p.node("block")
	for !p.atKind(tokEOF) && !p.atAny(terms...) {
		b.add("", p.statement())
	}
	return p.finish(b)
}

func (p *parser) atGlobal() bool {
	if !p.atContextual("global") {
		return false
	}
	next := p.peekAt(1)
	return next.kind == tokName || next.is("function")
}

func (p *parser) atStatementStart() bool {
	switch {
	case p.atKind(tokName):
		return true
	case p.atAny("local", "function", "if", "while", "do", "for", "repeat",
		"return", "break", "goto", "::", ";", "("):
		return true
	}
	return false
}

func (p *parser) statement() *Node {
	switch {
	case p.at(";"):
		return p.token()
	case p.at("local"), p.atGlobal():
		return p.declaration()
	case p.at("function"):
		return p.functionStatement(nil)
	case p.at("if"):
		return p.ifStatement()
	case p.at("while"):
		return p.whileStatement()
	case p.at("repeat"):
		return p.repeatStatement()
	case p.at("do"):
		n := p.node("do_statement")
		n.add("", p.token())
		n.add("body", p.block("end"))
		n.add("", p.expect("end"))
		return p.finish(n)
	case p.at("for"):
		return p.forStatement()
	case p.at("return"):
		return p.returnStatement()
	case p.at("break"):
		n := p.node("break_statement")
		n.add("", p.token())
		return p.finish(n)
	case p.at("goto"):
		n := p.node("goto_statement")
		n.add("", p.token())
		n.add("label", p.expectName())
		return p.finish(n)
	case p.at("::"):
		n := p.node("label_statement")
		n.add("", p.token())
		n.add("name", p.expectName())
		n.add("", p.expect("::"))
		return p.finish(n)
	case p.atKind(tokName), p.at("("):
		return p.expressionStatement()
	}
	return p.stray()
}

// stray groups tokens that cannot start a statement into one ERROR node.
func (p *parser) stray() *Node {
	n := p.node("ERROR")
	n.add("", p.consume())
	for !p.atKind(tokEOF) && !p.atStatementStart() && !p.atAny(blockEnds...) {
		n.add("", p.consume())
	}
	return p.finish(n)
}

func (p *parser) declaration() *Node {
	scope := p.token()
	switch {
	case p.at("function"):
		return p.functionStatement(scope)
	case p.atTypeDeclaration("record"), p.atTypeDeclaration("enum"):
		return p.typeDeclaration(scope)
	case p.atTypeAlias():
		return p.typeAlias(scope)
	}
	n := p.node("var_declaration")
	n.add("", scope)
	for {
		n.add("name", p.expectName())
		if p.at("<") {
			n.add("attribute", p.attribute())
		}
		if !p.at(",") {
			break
		}
		n.add("", p.token())
	}
	if p.at(":") {
		n.add("", p.token())
		p.typeList(n, "type")
	}
	if p.at("=") {
		n.add("", p.token())
		p.expressionList(n, "value")
	}
	return p.finish(n)
}

func (p *parser) attribute() *Node {
	n := p.node("attribute")
	n.add("", p.token())
	n.add("", p.expectName())
	n.add("", p.expect(">"))
	return p.finish(n)
}

func (p *parser) functionStatement(scope *Node) *Node {
	n := p.node("function_statement")
	if scope != nil {
		n.add("", scope)
	}
	n.add("", p.token())
	if scope != nil {
		n.add("name", p.expectName())
	} else {
		n.add("name", p.functionName())
	}
	p.functionBody(n)
	return p.finish(n)
}

func (p *parser) functionName() *Node {
	n := p.node("function_name")
	n.add("", p.expectName())
	for p.at(".") {
		n.add("", p.token())
		n.add("", p.expectName())
	}
	if p.at(":") {
		n.add("", p.token())
		n.add("method", p.expectName())
	}
	return p.finish(n)
}

func (p *parser) functionBody(n *Node) {
	if p.at("<") {
		n.add("type_parameters", p.typeParameters())
	}
	n.add("parameters", p.parameters())
	if p.at(":") {
		n.add("", p.token())
		p.typeList(n, "return_type")
	}
	n.add("body", p.block("end"))
	n.add("", p.expect("end"))
}

func (p *parser) parameters() *Node {
	n := p.node("parameters")
	n.add("", p.expect("("))
	for !p.at(")") && (p.atKind(tokName) || p.at("...")) {
		param := p.node("parameter")
		if p.at("...") {
			param.add("name", p.consume())
		} else {
			param.add("name", p.name())
		}
		if p.at(":") {
			param.add("", p.token())
			param.add("type", p.typeExpression())
		}
		n.add("", p.finish(param))
		if !p.at(",") {
			break
		}
		n.add("", p.token())
	}
	n.add("", p.expect(")"))
	return p.finish(n)
}

func (p *parser) ifStatement() *Node {
	n := p.node("if_statement")
	n.add("", p.token())
	n.add("condition", p.expression())
	n.add("", p.expect("then"))
	n.add("consequence", p.block("elseif", "else", "end"))
	for p.at("elseif") {
		e := p.node("elseif_statement")
		e.add("", p.token())
		e.add("condition", p.expression())
		e.add("", p.expect("then"))
		e.add("consequence", p.block("elseif", "else", "end"))
		n.add("alternative", p.finish(e))
	}
	if p.at("else") {
		e := p.node("else_statement")
		e.add("", p.token())
		e.add("body", p.block("end"))
		n.add("alternative", p.finish(e))
	}
	n.add("", p.expect("end"))
	return p.finish(n)
}

func (p *parser) whileStatement() *Node {
	n := p.node("while_statement")
	n.add("", p.token())
	n.add("condition", p.expression())
	n.add("", p.expect("do"))
	n.add("body", p.block("end"))
	n.add("", p.expect("end"))
	return p.finish(n)
}

func (p *parser) repeatStatement() *Node {
	n := p.node("repeat_statement")
	n.add("", p.token())
	n.add("body", p.block("until"))
	n.add("", p.expect("until"))
	n.add("condition", p.expression())
	return p.finish(n)
}

func (p *parser) forStatement() *Node {
	forTok := p.token()
	first := p.expectName()
	if p.at("=") {
		n := p.node("for_numeric_statement")
		n.add("", forTok)
		n.add("name", first)
		n.add("", p.token())
		n.add("start", p.expression())
		n.add("", p.expect(","))
		n.add("end", p.expression())
		if p.at(",") {
			n.add("", p.token())
			n.add("step", p.expression())
		}
		p.loopBody(n)
		return p.finish(n)
	}
	n := p.node("for_generic_statement")
	n.add("", forTok)
	n.add("name", first)
	for p.at(",") {
		n.add("", p.token())
		n.add("name", p.expectName())
	}
	n.add("", p.expect("in"))
	p.expressionList(n, "value")
	p.loopBody(n)
	return p.finish(n)
}

func (p *parser) loopBody(n *Node) {
	n.add("", p.expect("do"))
	n.add("body", p.block("end"))
	n.add("", p.expect("end"))
}

func (p *parser) returnStatement() *Node {
	n := p.node("return_statement")
	n.add("", p.token())
	if !p.atBlockEnd() && !p.at(";") && p.atExpressionStart() {
		p.expressionList(n, "value")
	}
	if p.at(";") {
		n.add("", p.token())
	}
	return p.finish(n)
}

// expressionStatement parses a call or an assignment. Any other expression
// in statement position is wrapped in an ERROR node.
func (p *parser) expressionStatement() *Node {
	e := p.suffixedExpression()
	if p.at("=") || p.at(",") {
		n := p.node("var_assignment")
		n.add("target", e)
		for p.at(",") {
			n.add("", p.token())
			n.add("target", p.suffixedExpression())
		}
		n.add("", p.expect("="))
		p.expressionList(n, "value")
		return p.finish(n)
	}
	switch e.kind {
	case syntax.KindFunctionCall, syntax.KindError:
		return e
	}
	w := p.node("ERROR")
	w.add("", e)
	return p.finish(w)
}
