package toolparse

// Collect runs a fresh parse of content in one shot and returns every
// emitted final block plus every diagnostic, discarding chunk-boundary
// partials. It sits next to the streaming OnBlock/OnError surface as a
// convenience for callers that already have the whole string and don't
// want to wire up callbacks by hand.
func Collect(p *Parser, content string) ([]Block, []Diagnostic) {
	var blocks []Block
	var diags []Diagnostic

	prevBlock, prevErr := p.onBlock, p.onError
	p.OnBlock(func(b Block) {
		if !b.Partial {
			blocks = append(blocks, b)
		}
	})
	p.OnError(func(d Diagnostic) {
		diags = append(diags, d)
	})

	p.ProcessChunk(content)
	p.Finalize()

	p.onBlock, p.onError = prevBlock, prevErr
	return blocks, diags
}
