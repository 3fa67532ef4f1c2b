package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"toolstream/internal/config"
	"toolstream/internal/toolparse"
)

func newInteractiveCommand(cfg config.RuntimeConfig) *cobra.Command {
	var (
		schemaOut string
		relaxed   bool
	)

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Type one chunk per line and watch blocks stream out live",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema(schemaOut)
			if err != nil {
				return err
			}

			renderer, err := newBlockRenderer()
			if err != nil {
				return err
			}

			p := toolparse.New(s, toolparse.Options{RelaxedMode: relaxed})
			p.OnBlock(renderer.renderBlock)
			p.OnError(renderer.renderDiagnostic)

			return runInteractive(p)
		},
	}

	cmd.Flags().StringVar(&schemaOut, "schema", cfg.SchemaPath, "path to a JSON/YAML tool schema (default: built-in demo schema)")
	cmd.Flags().BoolVar(&relaxed, "relaxed", cfg.RelaxedMode, "suppress error diagnostics, folding malformed input into literal text")
	return cmd
}

// runInteractive is a line-oriented REPL: each line typed is one chunk,
// fed to p immediately. There is no full-screen TUI here (no
// Model/Update/View loop to drive) — just history-aware line input via
// chzyer/readline.
func runInteractive(p *toolparse.Parser) error {
	fmt.Println("toolstream interactive — one line is one chunk. Ctrl+D to finalize and exit.")

	homeDir, _ := os.UserHomeDir()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     filepath.Join(homeDir, ".toolstream-history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           readline.NewCancelableStdin(os.Stdin),
		Stdout:          os.Stdout,
		Stderr:          os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("toolstream: init readline: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		p.ProcessChunk(line + "\n")
	}

	p.Finalize()
	return nil
}
