// Command toolstream is a CLI harness around internal/toolparse: it feeds
// stdin (or a file) to a Parser in arbitrarily-sized chunks and prints the
// blocks and diagnostics as they're emitted.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"toolstream/internal/config"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCommand builds the toolstream command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "toolstream",
		Short: "Stream text through the tool-invocation parser",
	}

	cfg, err := config.Load()
	if err != nil {
		cfg = config.Defaults()
	}

	root.AddCommand(newStreamCommand(cfg))
	root.AddCommand(newInteractiveCommand(cfg))
	return root
}
