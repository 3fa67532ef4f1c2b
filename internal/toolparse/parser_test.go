package toolparse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"toolstream/internal/toolparse/schema"
)

func readFileSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.New(schema.Definition{
		ValidToolNames: []string{"read_file"},
		ValidParamNamesByTool: map[string][]string{
			"read_file": {"path", "start_line", "end_line"},
		},
	})
	require.NoError(t, err)
	return s
}

type recorder struct {
	blocks []Block
	diags  []Diagnostic
}

func (r *recorder) attach(p *Parser) *recorder {
	p.OnBlock(func(b Block) { r.blocks = append(r.blocks, b) })
	p.OnError(func(d Diagnostic) { r.diags = append(r.diags, d) })
	return r
}

func (r *recorder) finals() []Block {
	var out []Block
	for _, b := range r.blocks {
		if !b.Partial {
			out = append(out, b)
		}
	}
	return out
}

func newTestParser(t *testing.T, relaxed bool) (*Parser, *recorder) {
	t.Helper()
	p := New(readFileSchema(t), Options{RelaxedMode: relaxed})
	r := (&recorder{}).attach(p)
	return p, r
}

// Scenario 1: text only, single chunk.
func TestScenario_TextOnlySingleChunk(t *testing.T) {
	p, r := newTestParser(t, false)
	p.ProcessChunk("Hello world")
	p.Finalize()

	require.Len(t, r.blocks, 2)
	require.Equal(t, Block{Kind: KindText, Partial: true, Text: "Hello world"}, r.blocks[0])
	require.Equal(t, Block{Kind: KindText, Partial: false, Text: "Hello world"}, r.blocks[1])
}

// Scenario 2: tool in a single chunk.
func TestScenario_ToolSingleChunk(t *testing.T) {
	p, r := newTestParser(t, false)
	p.ProcessChunk("<read_file><path>test.txt</path></read_file>")
	p.Finalize()

	finals := r.finals()
	require.Len(t, finals, 1)
	require.Equal(t, KindToolUse, finals[0].Kind)
	require.False(t, finals[0].Partial)
	require.Equal(t, "read_file", finals[0].Tool.Name)
	require.Equal(t, map[string]string{"path": "test.txt"}, finals[0].Tool.Params)
}

// Scenario 3: split mid-tag.
func TestScenario_SplitMidTag(t *testing.T) {
	p, r := newTestParser(t, false)
	p.ProcessChunk("<read_file><path>file")
	p.ProcessChunk(".txt</path>")
	p.Finalize()

	require.Len(t, r.blocks, 2)
	require.True(t, r.blocks[0].Partial)
	require.Equal(t, "file", r.blocks[0].Tool.Params["path"])
	require.True(t, r.blocks[1].Partial)
	require.Equal(t, "file.txt", r.blocks[1].Tool.Params["path"])
	require.Empty(t, r.finals())
}

// Scenario 4: interleaving text and a tool in one chunk, then finalize.
func TestScenario_Interleaving(t *testing.T) {
	p, r := newTestParser(t, false)
	p.ProcessChunk("Text before <read_file><path>f.txt</path></read_file> text after")
	p.Finalize()

	finals := r.finals()
	require.Len(t, finals, 3)
	require.Equal(t, Block{Kind: KindText, Partial: false, Text: "Text before"}, finals[0])
	require.Equal(t, KindToolUse, finals[1].Kind)
	require.Equal(t, "f.txt", finals[1].Tool.Params["path"])
	require.Equal(t, Block{Kind: KindText, Partial: false, Text: "text after"}, finals[2])

	// The trailing "text after" is also observed as a partial before finalize.
	var sawPartialTrailing bool
	for _, b := range r.blocks {
		if b.Partial && b.Kind == KindText && b.Text == "text after" {
			sawPartialTrailing = true
		}
	}
	require.True(t, sawPartialTrailing)
}

// Scenario 5: invalid tool name (strict mode).
func TestScenario_InvalidToolName_Strict(t *testing.T) {
	p, r := newTestParser(t, false)
	p.ProcessChunk("<invalid_tool></invalid_tool>")
	p.Finalize()

	require.Len(t, r.diags, 2)
	require.Contains(t, r.diags[0].Message, "Invalid tool name: invalid_tool")
	require.Equal(t, "Closing tag without matching opening tag", r.diags[1].Message)
}

// Scenario 6: mismatched close still recovers and eventually closes the tool.
func TestScenario_MismatchedClose(t *testing.T) {
	p, r := newTestParser(t, false)
	p.ProcessChunk("<read_file><path>test.txt</wrong_tag></read_file>")
	p.Finalize()

	require.NotEmpty(t, r.diags)
	require.Contains(t, r.diags[0].Message, "Mismatched closing tag")

	finals := r.finals()
	require.Len(t, finals, 1)
	require.Equal(t, KindToolUse, finals[0].Kind)
	require.Contains(t, finals[0].Tool.Params["path"], "test.txt</wrong_tag>")
}

func TestRelaxedModeSuppressesErrors(t *testing.T) {
	p, r := newTestParser(t, true)
	p.ProcessChunk("<invalid_tool></invalid_tool>")
	p.Finalize()
	require.Empty(t, r.diags)
}

func TestEmptyInputEmitsNothing(t *testing.T) {
	p, r := newTestParser(t, false)
	p.ProcessChunk("")
	p.Finalize()
	require.Empty(t, r.blocks)
	require.Empty(t, r.diags)
}

func TestToolWithZeroParameters(t *testing.T) {
	p, r := newTestParser(t, false)
	p.ProcessChunk("<read_file></read_file>")
	p.Finalize()

	finals := r.finals()
	require.Len(t, finals, 1)
	require.Equal(t, map[string]string{}, finals[0].Tool.Params)
	require.False(t, finals[0].Partial)
}

func TestEmptyParameterValue(t *testing.T) {
	p, r := newTestParser(t, false)
	p.ProcessChunk("<read_file><path></path></read_file>")
	p.Finalize()

	finals := r.finals()
	require.Len(t, finals, 1)
	require.Equal(t, map[string]string{"path": ""}, finals[0].Tool.Params)
}

func TestWhitespacePreservedInParamValueButNotText(t *testing.T) {
	p, r := newTestParser(t, false)
	p.ProcessChunk("  hello  ")
	p.Finalize()
	finals := r.finals()
	require.Len(t, finals, 1)
	require.Equal(t, "hello", finals[0].Text)

	p2, r2 := newTestParser(t, false)
	p2.ProcessChunk("<read_file><path>  spaced value  </path></read_file>")
	p2.Finalize()
	finals2 := r2.finals()
	require.Equal(t, "  spaced value  ", finals2[0].Tool.Params["path"])
}

// Param map isolation: mutating a delivered params map must not affect
// subsequent events.
func TestParamMapIsolation(t *testing.T) {
	p, r := newTestParser(t, false)
	p.ProcessChunk("<read_file><path>a")
	p.Finalize() // leaves an open tool-use; finalize does not re-emit it.

	require.NotEmpty(t, r.blocks)
	last := r.blocks[len(r.blocks)-1]
	last.Tool.Params["path"] = "TAMPERED"

	// Feed a brand new sequence through the reused parser and confirm the
	// tampering left no trace.
	p2, r2 := newTestParser(t, false)
	p2.ProcessChunk("<read_file><path>a</path></read_file>")
	p2.Finalize()
	require.Equal(t, "a", r2.finals()[0].Tool.Params["path"])
}

// Parser reusability: after Finalize, a fresh stream behaves identically
// to a freshly constructed parser.
func TestParserReusableAfterFinalize(t *testing.T) {
	p, r := newTestParser(t, false)
	p.ProcessChunk("<read_file><path>first</path></read_file>")
	p.Finalize()
	r.blocks = nil
	r.diags = nil

	p.ProcessChunk("<read_file><path>second</path></read_file>")
	p.Finalize()

	fresh, freshR := newTestParser(t, false)
	fresh.ProcessChunk("<read_file><path>second</path></read_file>")
	fresh.Finalize()

	require.Equal(t, freshR.finals(), r.finals())
}

// Concatenation equivalence: splitting a stream anywhere across two
// ProcessChunk calls yields the same final blocks as one call.
func TestConcatenationEquivalence(t *testing.T) {
	full := "Before <read_file><path>a/b.txt</path><start_line>1</start_line></read_file> after"

	oneShot, oneShotR := newTestParser(t, false)
	oneShot.ProcessChunk(full)
	oneShot.Finalize()

	for split := 0; split <= len(full); split++ {
		p, r := newTestParser(t, false)
		p.ProcessChunk(full[:split])
		p.ProcessChunk(full[split:])
		p.Finalize()
		require.Equal(t, oneShotR.finals(), r.finals(), "split at %d", split)
	}
}

// No data loss on error: the characters that triggered an error event
// appear in some subsequent block.
func TestNoDataLossOnError(t *testing.T) {
	p, r := newTestParser(t, false)
	p.ProcessChunk("<bogus_tool>hi</bogus_tool>")
	p.Finalize()

	require.NotEmpty(t, r.diags)
	var all string
	for _, b := range r.finals() {
		all += b.Text
	}
	require.Contains(t, all, "bogus_tool")
}

// An invalid parameter tag encountered directly inside a tool body, with
// no parameter open to catch it, has nowhere lossless to land: its literal
// text rides along in param_value_buffer and surfaces as a prefix of
// whichever parameter opens next.
func TestInvalidParamNameRecoversIntoValue(t *testing.T) {
	p, r := newTestParser(t, false)
	p.ProcessChunk("<read_file><bogus><path>ok</path></read_file>")
	p.Finalize()

	require.NotEmpty(t, r.diags)
	require.Contains(t, r.diags[0].Message, "Invalid param name: bogus for tool read_file")

	finals := r.finals()
	require.Len(t, finals, 1)
	require.Equal(t, "read_file", finals[0].Tool.Name)
	require.Equal(t, "<bogus>ok", finals[0].Tool.Params["path"])
}

// A mismatched closing tag encountered directly inside a tool body (no
// parameter open) cannot recover locally — the tool node never accepts
// bare text — so the parser abandons the whole in-flight tool and falls
// back to root, re-interpreting everything after as plain text. The
// mismatched close's own literal is preserved in that fallback text.
func TestMismatchedCloseInsideToolBodyAbandonsTool(t *testing.T) {
	p, r := newTestParser(t, false)
	p.ProcessChunk("<read_file>x</bogus><path>ok</path></read_file>")
	p.Finalize()

	require.NotEmpty(t, r.diags)

	var all string
	for _, b := range r.finals() {
		require.Equal(t, KindText, b.Kind)
		all += b.Text
	}
	require.Contains(t, all, "bogus")
	require.Contains(t, all, "path")
	require.Contains(t, all, "ok")
}

func TestUnexpectedWhitespaceAfterOpenAngle(t *testing.T) {
	p, r := newTestParser(t, false)
	p.ProcessChunk("< read_file>")
	p.Finalize()

	require.NotEmpty(t, r.diags)
	require.Equal(t, "Unexpected whitespace after '<'", r.diags[0].Message)
}
