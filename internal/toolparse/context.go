// Package toolparse implements the incremental tokenizer and schema
// validator for the XML-like tool-invocation mini-language embedded in
// streamed model output.
//
// A Parser is not safe for concurrent use; callers that drive several
// logical streams concurrently hold one Parser per stream (see
// internal/toolsession).
package toolparse

import (
	"strings"

	"toolstream/internal/toolparse/schema"
)

// state is the tagged state identifier the driver dispatches on: states
// are data (this enum) plus one transition function per state, selected
// by a switch, not one object per state.
type state int

const (
	stateText state = iota
	stateTagOpening
	stateTagName
	stateTextContent
	stateClosingTag
)

// Options configures a Parser at construction time.
type Options struct {
	// RelaxedMode suppresses advisory error events on malformed tokens,
	// folding them into literal text/param-value recovery instead.
	// Intended for tool payloads (e.g. diffs) that legitimately contain
	// angle brackets.
	RelaxedMode bool
}

// Parser is the single-owner mutable parsing context plus driver.
// Construct with New; it is not safe for concurrent use.
type Parser struct {
	schema  *schema.Schema
	relaxed bool

	state state

	textBuffer        strings.Builder
	tagBuffer         strings.Builder
	closingTagBuffer  strings.Builder
	paramValueBuffer  strings.Builder

	currentNode int

	toolOpen   bool
	toolName   string
	toolParams map[string]string

	paramOpen bool
	paramName string

	onBlock func(Block)
	onError func(Diagnostic)
}

// New constructs a Parser in the Text state at the schema root. schema
// must not be nil.
func New(s *schema.Schema, opts Options) *Parser {
	p := &Parser{
		schema:      s,
		relaxed:     opts.RelaxedMode,
		state:       stateText,
		currentNode: schema.Root,
	}
	return p
}

// Reset discards all in-flight parsing state and returns the Parser to
// its post-construction condition, without emitting the trailing text
// block Finalize would. It exists so a session pool can recycle a
// Parser between unrelated streams without reallocating its schema or
// re-registering callbacks — a small reusable struct with an explicit
// reset rather than a throwaway allocation per stream.
func (p *Parser) Reset() {
	p.textBuffer.Reset()
	p.tagBuffer.Reset()
	p.closingTagBuffer.Reset()
	p.paramValueBuffer.Reset()
	p.resetToRoot()
	p.state = stateText
}

// OnBlock registers the handler invoked for every emitted Block. Only one
// handler is kept; registering again replaces the previous one. A nil
// handler is a valid way to unsubscribe.
func (p *Parser) OnBlock(fn func(Block)) {
	p.onBlock = fn
}

// OnError registers the handler invoked for every advisory Diagnostic.
// Only one handler is kept, same replacement semantics as OnBlock.
func (p *Parser) OnError(fn func(Diagnostic)) {
	p.onError = fn
}

func (p *Parser) emitBlock(b Block) {
	if p.onBlock != nil {
		p.onBlock(b)
	}
}

func (p *Parser) emitError(code ErrorCode, message string) {
	if p.relaxed {
		return
	}
	if p.onError != nil {
		p.onError(Diagnostic{Code: code, Message: message})
	}
}

func isSpaceByte(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

// descendTo moves current_node to the child at idx; the tool/parameter
// bookkeeping is done by openTool and openParam. Callers must have already
// resolved idx via schema.FindChild.
func (p *Parser) descendTo(idx int) {
	p.currentNode = idx
}

// ascend moves current_node back to its parent.
func (p *Parser) ascend() {
	p.currentNode = p.schema.Parent(p.currentNode)
}

// resetToRoot restores current_node to the schema root and clears all
// in-flight tool/param state, without touching text_buffer.
func (p *Parser) resetToRoot() {
	p.currentNode = schema.Root
	p.toolOpen = false
	p.toolName = ""
	p.toolParams = nil
	p.paramOpen = false
	p.paramName = ""
	p.paramValueBuffer.Reset()
}

// openTool begins assembling a new tool-use record and descends into it.
func (p *Parser) openTool(idx int, name string) {
	p.toolOpen = true
	p.toolName = name
	p.toolParams = make(map[string]string)
	p.descendTo(idx)
}

// openParam begins collecting a parameter's value and descends into it.
func (p *Parser) openParam(idx int, name string) {
	p.paramOpen = true
	p.paramName = name
	// paramValueBuffer is deliberately not reset here: an invalid tag
	// encountered directly inside a tool body (no parameter open) has
	// nowhere else lossless to land its literal text, so it accumulates
	// here and rides along as a prefix of whichever parameter opens next.
	p.descendTo(idx)
}

// closeParam copies the accumulated value into the tool's params map,
// clears param state, and ascends back to the tool node.
func (p *Parser) closeParam() {
	if p.toolParams == nil {
		p.toolParams = make(map[string]string)
	}
	p.toolParams[p.paramName] = p.paramValueBuffer.String()
	p.paramOpen = false
	p.paramName = ""
	p.paramValueBuffer.Reset()
	p.ascend()
}

// closeTool emits the finished tool-use block, clears tool state, and
// ascends back to root.
func (p *Parser) closeTool() {
	p.emitBlock(Block{
		Kind:    KindToolUse,
		Partial: false,
		Tool:    ToolUseRecord{Name: p.toolName, Params: cloneParams(p.toolParams)},
	})
	p.toolOpen = false
	p.toolName = ""
	p.toolParams = nil
	p.ascend()
}

// flushText emits text_buffer as a finalized (non-partial) block if it is
// non-empty once trimmed, then clears the buffer.
func (p *Parser) flushText() {
	trimmed := strings.TrimSpace(p.textBuffer.String())
	p.textBuffer.Reset()
	if trimmed != "" {
		p.emitBlock(Block{Kind: KindText, Partial: false, Text: trimmed})
	}
}

// currentAllowsText reports whether the node the parser currently sits at
// permits free text content.
func (p *Parser) currentAllowsText() bool {
	return p.schema.Node(p.currentNode).AllowsTextContent
}
