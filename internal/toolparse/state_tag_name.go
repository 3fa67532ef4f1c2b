package toolparse

import "toolstream/internal/toolparse/schema"

// stepTagName implements the TagName state: reading the name of an
// opening tag, one byte at a time, until '>' or whitespace decides
// whether the accumulated name resolves against currentNode's children.
//
// HasChildWithPrefix lets a caller bail out the moment a tag can no
// longer possibly resolve, but doing so here would truncate the name
// carried in the "Invalid tool name: <name>" / literal-fallback text —
// error messages and literal recovery should carry the whole typed name,
// not just the dead-end prefix. This keeps accumulating through to the
// natural terminator and resolves once, there.
func (p *Parser) stepTagName(c byte) {
	switch {
	case c == '>':
		p.finishTagName()

	case isSpaceByte(c):
		name := p.tagBuffer.String()
		if _, ok := p.schema.FindChild(p.currentNode, name); ok {
			p.emitError(ErrMalformedOpenTag, "Unexpected whitespace in parameter tag")
		}
		p.handleInvalidTag([]byte{c})

	default:
		p.tagBuffer.WriteByte(c)
	}
}

// finishTagName resolves the completed tag name against currentNode's
// children on '>'.
func (p *Parser) finishTagName() {
	name := p.tagBuffer.String()
	idx, ok := p.schema.FindChild(p.currentNode, name)
	if !ok {
		p.handleInvalidTag([]byte{'>'})
		return
	}

	node := p.schema.Node(idx)
	p.tagBuffer.Reset()
	if node.Kind == schema.KindTool {
		p.openTool(idx, name)
	} else {
		p.openParam(idx, name)
	}
	p.state = stateTextContent
}
