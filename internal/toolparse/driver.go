package toolparse

import "strings"

// step dispatches one byte to the transition function for the current
// state: a switch over the state enum selecting one transition function
// per state, rather than one object per state.
func (p *Parser) step(c byte) {
	switch p.state {
	case stateText:
		p.stepText(c)
	case stateTagOpening:
		p.stepTagOpening(c)
	case stateTagName:
		p.stepTagName(c)
	case stateTextContent:
		p.stepTextContent(c)
	case stateClosingTag:
		p.stepClosingTag(c)
	}
}

// ProcessChunk consumes s byte by byte, synchronously emitting zero or
// more block/error events, then publishes at most one chunk-boundary
// partial snapshot. It never blocks and never returns an error —
// malformed input produces advisory Diagnostics, not Go errors.
func (p *Parser) ProcessChunk(s string) {
	for i := 0; i < len(s); i++ {
		p.step(s[i])
	}
	p.emitChunkBoundaryPartial()
}

// emitChunkBoundaryPartial publishes at most one partial snapshot of
// whatever is currently in flight, reflecting the buffer state as of the
// end of the most recent chunk.
func (p *Parser) emitChunkBoundaryPartial() {
	if p.state == stateText {
		trimmed := strings.TrimSpace(p.textBuffer.String())
		if trimmed != "" {
			p.emitBlock(Block{Kind: KindText, Partial: true, Text: trimmed})
		}
		return
	}

	if !p.toolOpen {
		return
	}

	if p.paramOpen {
		// Transient copy-in: the real value lands in toolParams for good
		// only when closeParam runs; until then each snapshot re-derives
		// it from the still-growing paramValueBuffer.
		if p.toolParams == nil {
			p.toolParams = make(map[string]string)
		}
		p.toolParams[p.paramName] = p.paramValueBuffer.String()
	}

	p.emitBlock(Block{
		Kind:    KindToolUse,
		Partial: true,
		Tool:    ToolUseRecord{Name: p.toolName, Params: cloneParams(p.toolParams)},
	})
}

// Finalize signals end of stream: emits any pending trailing text as a
// final block, does not re-emit an open tool-use, then resets the parser
// to its post-construction condition so it may be reused.
func (p *Parser) Finalize() {
	if p.state == stateText {
		trimmed := strings.TrimSpace(p.textBuffer.String())
		if trimmed != "" {
			p.emitBlock(Block{Kind: KindText, Partial: false, Text: trimmed})
		}
	}

	p.Reset()
}
