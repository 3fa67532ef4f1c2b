package toolparse

// stepClosingTag implements the ClosingTag state: reading a closing tag's
// name after "</" until '>' resolves it against currentNode's name.
//
// This state is only ever entered with currentNode a tool or a parameter
// (never root — TagOpening rejects a stray "</" at root before reaching
// here), so a resolved close always has somewhere to ascend to.
func (p *Parser) stepClosingTag(c byte) {
	if c == '>' {
		p.resolveClose()
		return
	}
	p.closingTagBuffer.WriteByte(c)
}

// resolveClose decides what a completed closing-tag name means against
// the currently open node.
func (p *Parser) resolveClose() {
	name := p.closingTagBuffer.String()
	p.closingTagBuffer.Reset()

	if name == p.schema.Node(p.currentNode).Name {
		p.finishClose()
		return
	}

	// A closing tag naming the enclosing tool while a parameter is still
	// open recovers a model that forgot </param> but did close the tool:
	// close the parameter implicitly, then resolve the tool's own close.
	if p.paramOpen {
		parent := p.schema.Parent(p.currentNode)
		if name == p.schema.Node(parent).Name {
			p.closeParam()
			p.finishClose()
			return
		}
	}

	p.handleMismatchedClose(name)
}

// finishClose closes whichever of parameter/tool is currently open at
// currentNode and picks the next state based on where ascending lands.
// Callers must have already confirmed the closing name resolves.
func (p *Parser) finishClose() {
	if p.paramOpen {
		p.closeParam()
	} else if p.toolOpen {
		p.closeTool()
	}

	if p.schema.IsRoot(p.currentNode) {
		p.state = stateText
	} else {
		p.state = stateTextContent
	}
}
