package toolparse

import "fmt"

// stepTextContent implements the TextContent state: inside a parameter
// collecting its value, or inside a tool between parameter tags.
func (p *Parser) stepTextContent(c byte) {
	if c == '<' {
		p.tagBuffer.Reset()
		p.state = stateTagOpening
		return
	}

	if p.paramOpen {
		p.paramValueBuffer.WriteByte(c)
		return
	}
	if p.currentAllowsText() {
		p.textBuffer.WriteByte(c)
		return
	}
	if isSpaceByte(c) {
		return
	}

	nodeName := p.schema.Node(p.currentNode).Name
	p.emitError(ErrUnexpectedChar, fmt.Sprintf("Unexpected character in <%s> context", nodeName))
	p.textBuffer.WriteByte(c)
}
