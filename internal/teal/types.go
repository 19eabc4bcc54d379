package teal

func (p *parser) typeList(n *Node, field string) {
	for {
		n.add(field, p.typeExpression())
		if !p.at(",") {
			return
		}
		n.add("", p.token())
	}
}

func (p *parser) typeExpression() *Node {
	t := p.baseType()
	if !p.at("|") {
		return t
	}
	u := p.node("union_type")
	u.add("", t)
	for p.at("|") {
		u.add("", p.token())
		u.add("", p.baseType())
	}
	return p.finish(u)
}

func (p *parser) baseType() *Node {
	switch {
	case p.at("{"):
		n := p.node("table_type")
		n.add("", p.token())
		n.add("", p.typeExpression())
		if p.at(":") {
			n.add("", p.token())
			n.add("", p.typeExpression())
		}
		n.add("", p.expect("}"))
		return p.finish(n)
	case p.at("function"):
		n := p.node("function_type")
		n.add("", p.token())
		if p.at("(") {
			n.add("", p.token())
			if !p.at(")") {
				p.typeList(n, "")
			}
			n.add("", p.expect(")"))
		}
		if p.at(":") {
			n.add("", p.token())
			p.typeList(n, "return_type")
		}
		return p.finish(n)
	case p.at("nil"):
		n := p.node("simple_type")
		n.add("", p.consume())
		return p.finish(n)
	case p.atKind(tokName):
		n := p.node("simple_type")
		n.add("", p.name())
		for p.at(".") && p.peekAt(1).kind == tokName {
			n.add("", p.token())
			n.add("", p.name())
		}
		if p.at("<") {
			n.add("type_arguments", p.typeArguments())
		}
		return p.finish(n)
	}
	return p.unexpected()
}

func (p *parser) typeParameters() *Node {
	n := p.node("type_parameters")
	n.add("", p.token())
	for {
		n.add("", p.expectName())
		if !p.at(",") {
			break
		}
		n.add("", p.token())
	}
	n.add("", p.closeAngle())
	return p.finish(n)
}

func (p *parser) typeArguments() *Node {
	n := p.node("type_arguments")
	n.add("", p.token())
	p.typeList(n, "")
	n.add("", p.closeAngle())
	return p.finish(n)
}

// closeAngle expects ">" and splits a ">>" token so nested type arguments
// like {string:List<T>>} close one level at a time.
func (p *parser) closeAngle() *Node {
	t := p.peek()
	if t.is(">>") {
		first, second := t, t
		first.text, first.end = ">", t.start+1
		first.endPt.Column = t.startPt.Column + 1
		second.text, second.start = ">", t.start+1
		second.startPt.Column = t.startPt.Column + 1
		p.toks[p.pos] = second
		p.prevEnd, p.prevEndPt = first.end, first.endPt
		return p.leaf(first, ">", false)
	}
	return p.expect(">")
}

func (p *parser) atTypeDeclaration(word string) bool {
	return p.atContextual(word) && p.peekAt(1).kind == tokName
}

func (p *parser) atTypeAlias() bool {
	return p.atContextual("type") && p.peekAt(1).kind == tokName && p.peekAt(2).is("=")
}

// typeDeclaration parses a record or enum declaration. scope is the
// already consumed local or global keyword, nil inside a record body.
func (p *parser) typeDeclaration(scope *Node) *Node {
	word := p.peek().text
	n := p.node(word + "_declaration")
	if scope != nil {
		n.add("", scope)
	}
	n.add("", p.token())
	n.add("name", p.name())
	if word == "enum" {
		body := p.node("enum_body")
		for p.atKind(tokString) {
			body.add("", p.consume())
		}
		n.add("body", p.finish(body))
	} else {
		if p.at("<") {
			n.add("type_parameters", p.typeParameters())
		}
		n.add("body", p.recordBody())
	}
	n.add("", p.expect("end"))
	return p.finish(n)
}

func (p *parser) recordBody() *Node {
	b := p.node("record_body")
	for !p.atBlockEnd() {
		switch {
		case p.atTypeDeclaration("record"), p.atTypeDeclaration("enum"):
			b.add("", p.typeDeclaration(nil))
		case p.atTypeAlias():
			b.add("", p.typeAlias(nil))
		case p.at("{"):
			b.add("array_type", p.typeExpression())
		case p.atKind(tokName) && p.peekAt(1).is(":"):
			f := p.node("field_declaration")
			f.add("name", p.name())
			f.add("", p.token())
			f.add("type", p.typeExpression())
			b.add("", p.finish(f))
		default:
			b.add("", p.stray())
		}
	}
	return p.finish(b)
}

func (p *parser) typeAlias(scope *Node) *Node {
	n := p.node("type_declaration")
	if scope != nil {
		n.add("", scope)
	}
	n.add("", p.token())
	n.add("name", p.name())
	n.add("", p.token())
	n.add("value", p.typeExpression())
	return p.finish(n)
}
