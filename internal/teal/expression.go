package teal

import "github.com/pdesaulniers/vscode-teal/internal/syntax"

func (p *parser) expressionList(n *Node, field string) {
	for {
		n.add(field, p.expression())
		if !p.at(",") {
			return
		}
		n.add("", p.token())
	}
}

func (p *parser) expression() *Node {
	return p.subexpression(0)
}

func (p *parser) atUnary() bool {
	return p.atAny("not", "-", "#", "~")
}

func (p *parser) binaryOperator() (string, bool) {
	t := p.peek()
	if t.kind != tokSymbol && t.kind != tokKeyword {
		return "", false
	}
	if _, ok := binaryPrecedence[t.text]; !ok {
		return "", false
	}
	return t.text, true
}

// subexpression parses operators whose left binding power exceeds limit.
func (p *parser) subexpression(limit int) *Node {
	var left *Node
	if p.atUnary() {
		n := p.node("unary_expression")
		n.add("operator", p.token())
		n.add("operand", p.subexpression(unaryPrecedence))
		left = p.finish(n)
	} else {
		left = p.simpleExpression()
	}
	for {
		if p.atContextual("as") && castPrecedence > limit {
			n := p.node("cast_expression")
			n.add("expression", left)
			n.add("", p.token())
			n.add("type", p.typeExpression())
			left = p.finish(n)
			continue
		}
		op, ok := p.binaryOperator()
		if !ok || binaryPrecedence[op][0] <= limit {
			return left
		}
		n := p.node("binary_expression")
		n.add("left", left)
		n.add("operator", p.token())
		n.add("right", p.subexpression(binaryPrecedence[op][1]))
		left = p.finish(n)
	}
}

func (p *parser) atExpressionStart() bool {
	switch p.peek().kind {
	case tokName, tokNumber, tokString:
		return true
	}
	return p.atUnary() || p.atAny("(", "{", "function", "...", "nil", "true", "false")
}

func (p *parser) simpleExpression() *Node {
	switch {
	case p.atKind(tokNumber), p.atKind(tokString), p.atAny("nil", "true", "false", "..."):
		return p.consume()
	case p.at("function"):
		n := p.node("function_definition")
		n.add("", p.token())
		p.functionBody(n)
		return p.finish(n)
	case p.at("{"):
		return p.tableConstructor()
	}
	return p.suffixedExpression()
}

// suffixedExpression parses a primary expression followed by any number of
// index, method index, bracket index and call suffixes. A separator with no
// name after it ends the chain as ERROR(chain, separator).
func (p *parser) suffixedExpression() *Node {
	n := p.primaryExpression()
	if n.kind == syntax.KindError {
		return n
	}
	for {
		switch {
		case p.at(".") || p.at(":"):
			if p.peekAt(1).kind != tokName {
				e := p.node("ERROR")
				e.add("", n)
				e.add("", p.token())
				return p.finish(e)
			}
			typ := "index"
			if p.at(":") {
				typ = "method_index"
			}
			x := p.node(typ)
			x.add("object", n)
			x.add("", p.token())
			x.add("key", p.name())
			n = p.finish(x)
		case p.at("["):
			x := p.node("bracket_index")
			x.add("object", n)
			x.add("", p.token())
			x.add("key", p.expression())
			x.add("", p.expect("]"))
			n = p.finish(x)
		case p.at("("), p.atKind(tokString), p.at("{"):
			c := p.node("function_call")
			c.add("called_object", n)
			c.add("arguments", p.arguments())
			n = p.finish(c)
		default:
			return n
		}
	}
}

func (p *parser) primaryExpression() *Node {
	switch {
	case p.atKind(tokName):
		return p.name()
	case p.at("("):
		n := p.node("parenthesized_expression")
		n.add("", p.token())
		n.add("expression", p.expression())
		n.add("", p.expect(")"))
		return p.finish(n)
	}
	return p.unexpected()
}

var expressionFollowers = []string{
	")", "]", "}", ",", ";", "=", "::",
	"end", "then", "do", "else", "elseif", "until", "in",
	"local", "function", "if", "while", "for", "repeat", "return", "break", "goto",
}

// unexpected stands in for a missing expression. Tokens that can follow an
// expression are left alone and a zero-width ERROR is returned; anything
// else is swallowed into the ERROR.
func (p *parser) unexpected() *Node {
	n := p.node("ERROR")
	if p.atKind(tokEOF) || p.atAny(expressionFollowers...) {
		return p.finish(n)
	}
	n.add("", p.consume())
	return p.finish(n)
}

func (p *parser) arguments() *Node {
	n := p.node("arguments")
	switch {
	case p.atKind(tokString):
		n.add("", p.consume())
	case p.at("{"):
		n.add("", p.tableConstructor())
	default:
		n.add("", p.token())
		if !p.at(")") && !p.atKind(tokEOF) {
			p.expressionList(n, "")
		}
		n.add("", p.expect(")"))
	}
	return p.finish(n)
}

func (p *parser) tableConstructor() *Node {
	n := p.node("table_constructor")
	n.add("", p.token())
	for !p.at("}") && !p.atKind(tokEOF) {
		n.add("", p.field())
		if !p.at(",") && !p.at(";") {
			break
		}
		n.add("", p.token())
	}
	n.add("", p.expect("}"))
	return p.finish(n)
}

func (p *parser) field() *Node {
	n := p.node("field")
	switch {
	case p.at("["):
		n.add("", p.token())
		n.add("key", p.expression())
		n.add("", p.expect("]"))
		n.add("", p.expect("="))
		n.add("value", p.expression())
	case p.atKind(tokName) && p.peekAt(1).is("="):
		n.add("name", p.name())
		n.add("", p.token())
		n.add("value", p.expression())
	default:
		n.add("value", p.expression())
	}
	return p.finish(n)
}
