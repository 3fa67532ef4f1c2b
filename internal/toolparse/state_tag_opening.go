package toolparse

// stepTagOpening implements the TagOpening state: exactly one character
// has been consumed since '<', deciding between a closing tag, a
// malformed opening ("< "), and a normal opening tag name.
func (p *Parser) stepTagOpening(c byte) {
	switch {
	case c == '/':
		if !p.schema.IsRoot(p.currentNode) {
			p.closingTagBuffer.Reset()
			p.state = stateClosingTag
			return
		}
		p.emitError(ErrUnopenedClose, "Closing tag without matching opening tag")
		p.textBuffer.WriteString("</")
		p.state = stateText

	case isSpaceByte(c):
		p.emitError(ErrMalformedOpenTag, "Unexpected whitespace after '<'")
		p.textBuffer.WriteByte('<')
		p.textBuffer.WriteByte(c)
		p.state = stateText

	default:
		p.tagBuffer.WriteByte(c)
		p.state = stateTagName
	}
}
