package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"golang.org/x/term"

	"toolstream/internal/toolparse"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
)

// blockRenderer prints emitted blocks and diagnostics to the terminal,
// rendering Text blocks as markdown and ToolUse blocks as highlighted
// JSON.
type blockRenderer struct {
	md *glamour.TermRenderer
}

func newBlockRenderer() (*blockRenderer, error) {
	wrapWidth := 80
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		wrapWidth = width - 4
		if wrapWidth > 120 {
			wrapWidth = 120
		}
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return nil, fmt.Errorf("toolstream: build markdown renderer: %w", err)
	}
	return &blockRenderer{md: r}, nil
}

func (r *blockRenderer) renderBlock(b toolparse.Block) {
	tag := gray("[final]")
	if b.Partial {
		tag = gray("[partial]")
	}

	switch b.Kind {
	case toolparse.KindText:
		out, err := r.md.Render(b.Text)
		if err != nil {
			out = b.Text + "\n"
		}
		fmt.Printf("%s %s", tag, out)
	case toolparse.KindToolUse:
		payload, _ := json.MarshalIndent(b.Tool, "", "  ")
		fmt.Printf("%s %s\n%s\n", tag, green(b.Tool.Name), cyan(string(payload)))
	}
}

func (r *blockRenderer) renderDiagnostic(d toolparse.Diagnostic) {
	fmt.Println(red(fmt.Sprintf("[%s] %s", yellow(d.Code.String()), d.Message)))
}
