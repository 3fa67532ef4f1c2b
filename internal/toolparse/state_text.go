package toolparse

// stepText implements the Text state: the parser sits outside any tool,
// accumulating free text until '<' starts a tag.
func (p *Parser) stepText(c byte) {
	if c == '<' {
		p.flushText()
		p.tagBuffer.Reset()
		p.state = stateTagOpening
		return
	}

	if p.currentAllowsText() {
		p.textBuffer.WriteByte(c)
		return
	}

	if isSpaceByte(c) {
		return
	}
	p.emitError(ErrUnexpectedChar, "Unexpected character outside of allowed text content")
	p.textBuffer.WriteByte(c)
}
