package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"toolstream/internal/config"
	"toolstream/internal/toolparse"
)

func newStreamCommand(cfg config.RuntimeConfig) *cobra.Command {
	var (
		filePath  string
		schemaOut string
		relaxed   bool
		chunkSize int
	)

	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Feed stdin or a file to the parser in chunks and print the emitted blocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema(schemaOut)
			if err != nil {
				return err
			}

			var src io.Reader = os.Stdin
			if filePath != "" {
				f, err := os.Open(filePath)
				if err != nil {
					return fmt.Errorf("toolstream: open %s: %w", filePath, err)
				}
				defer f.Close()
				src = f
			}

			content, err := io.ReadAll(src)
			if err != nil {
				return fmt.Errorf("toolstream: read input: %w", err)
			}

			renderer, err := newBlockRenderer()
			if err != nil {
				return err
			}

			p := toolparse.New(s, toolparse.Options{RelaxedMode: relaxed})
			p.OnBlock(renderer.renderBlock)
			p.OnError(renderer.renderDiagnostic)

			for _, chunk := range splitIntoChunks(string(content), chunkSize) {
				p.ProcessChunk(chunk)
			}
			p.Finalize()
			return nil
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "read from a file instead of stdin")
	cmd.Flags().StringVar(&schemaOut, "schema", cfg.SchemaPath, "path to a JSON/YAML tool schema (default: built-in demo schema)")
	cmd.Flags().BoolVar(&relaxed, "relaxed", cfg.RelaxedMode, "suppress error diagnostics, folding malformed input into literal text")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "split input into chunks of roughly this many bytes (0 = whole input in one chunk)")
	return cmd
}

// splitIntoChunks simulates network jitter: with chunkSize <= 0 the whole
// input is a single chunk, otherwise it's split at randomized offsets
// within [chunkSize/2, chunkSize*3/2] so no two runs see identical
// boundaries, exercising the parser's chunk-boundary invariants under
// realistic conditions.
func splitIntoChunks(content string, chunkSize int) []string {
	if chunkSize <= 0 || len(content) == 0 {
		return []string{content}
	}

	var chunks []string
	for len(content) > 0 {
		lo, hi := chunkSize/2, chunkSize+chunkSize/2
		if lo < 1 {
			lo = 1
		}
		size := lo + rand.Intn(hi-lo+1)
		if size >= len(content) {
			chunks = append(chunks, content)
			break
		}
		chunks = append(chunks, content[:size])
		content = content[size:]
	}
	return chunks
}
