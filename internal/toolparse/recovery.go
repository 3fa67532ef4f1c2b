package toolparse

import (
	"fmt"

	"toolstream/internal/toolparse/schema"
)

// handleInvalidTag recovers from a tag name in tagBuffer that cannot be
// resolved against currentNode's children. extra, if non-nil,
// is the terminating byte (">" or the whitespace that ended the tag) not
// yet appended to tagBuffer; pass nil when the offending byte is already
// the last byte written to tagBuffer (the mid-accumulation dead-end case).
func (p *Parser) handleInvalidTag(extra []byte) {
	name := p.tagBuffer.String()
	literal := "<" + name + string(extra)
	p.tagBuffer.Reset()

	switch p.schema.Node(p.currentNode).Kind {
	case schema.KindRoot:
		p.emitError(ErrUnknownTag, fmt.Sprintf("Invalid tool name: %s", name))
		p.textBuffer.WriteString(literal)
		p.state = stateText
	case schema.KindTool:
		p.emitError(ErrUnknownTag, fmt.Sprintf("Invalid param name: %s for tool %s", name, p.toolName))
		p.paramValueBuffer.WriteString(literal)
		p.state = stateTextContent
	case schema.KindParam:
		p.emitError(ErrUnknownTag, "Invalid tag name")
		p.paramValueBuffer.WriteString(literal)
		p.state = stateTextContent
	default:
		p.emitError(ErrUnknownTag, "Invalid tag name")
		p.textBuffer.WriteString(literal)
		p.resetToRoot()
		p.state = stateText
	}
}

// handleMismatchedClose recovers from a completed closing tag name that
// does not resolve against currentNode (nor, per the
// implicit-close rule in resolveClose, against its parent).
func (p *Parser) handleMismatchedClose(name string) {
	literal := "</" + name + ">"

	expected := p.schema.Node(p.currentNode).Name
	p.emitError(ErrMismatchedClose, fmt.Sprintf("Mismatched closing tag: expected </%s> but got </%s>", expected, name))

	if p.paramOpen {
		p.paramValueBuffer.WriteString(literal)
		p.state = stateTextContent
		return
	}
	if p.currentAllowsText() {
		p.textBuffer.WriteString(literal)
		p.state = stateTextContent
		return
	}
	p.textBuffer.WriteString(literal)
	p.resetToRoot()
	p.state = stateText
}
