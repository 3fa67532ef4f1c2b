package main

import (
	"fmt"
	"os"
	"strings"

	"toolstream/internal/toolparse/schema"
)

// loadSchema mirrors cmd/toolstream's loader: each binary is a separate
// main package, so this small helper is duplicated rather than shared
// through an extra internal package for a handful of lines.
func loadSchema(path string) (*schema.Schema, error) {
	if path == "" {
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

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("toolstream-server: open schema %s: %w", path, err)
	}
	defer f.Close()

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		return schema.FromYAML(f)
	}
	return schema.FromJSON(f)
}
