package main

import (
	"fmt"
	"os"
	"strings"

	"toolstream/internal/toolparse/schema"
)

// defaultSchema describes a handful of familiar file/command tool shapes
// for demo purposes: only their tag/parameter shape is relevant here,
// never their execution.
func defaultSchema() (*schema.Schema, error) {
	return schema.New(schema.Definition{
		ValidToolNames: []string{"read_file", "write_to_file", "apply_diff", "execute_command"},
		ValidParamNamesByTool: map[string][]string{
			"read_file":       {"path", "start_line", "end_line"},
			"write_to_file":   {"path", "content"},
			"apply_diff":      {"path", "diff"},
			"execute_command": {"command", "cwd"},
		},
	})
}

func loadSchema(path string) (*schema.Schema, error) {
	if path == "" {
		return defaultSchema()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("toolstream: open schema %s: %w", path, err)
	}
	defer f.Close()

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		return schema.FromYAML(f)
	}
	return schema.FromJSON(f)
}
