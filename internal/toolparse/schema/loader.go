package schema

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// FileDefinition is the on-disk shape a deployer writes by hand: a list of
// tools, each naming its own parameters. It decodes into a Definition
// before being handed to New.
type FileDefinition struct {
	Tools []struct {
		Name       string   `json:"name" yaml:"name"`
		Parameters []string `json:"parameters" yaml:"parameters"`
	} `json:"tools" yaml:"tools"`
}

func (f FileDefinition) toDefinition() Definition {
	def := Definition{
		ValidToolNames:        make([]string, 0, len(f.Tools)),
		ValidParamNamesByTool: make(map[string][]string, len(f.Tools)),
	}
	for _, t := range f.Tools {
		def.ValidToolNames = append(def.ValidToolNames, t.Name)
		def.ValidParamNamesByTool[t.Name] = t.Parameters
	}
	return def
}

// FromJSON builds a Schema from a JSON document of the shape:
//
//	{"tools": [{"name": "read_file", "parameters": ["path"]}]}
func FromJSON(r io.Reader) (*Schema, error) {
	var fd FileDefinition
	if err := json.NewDecoder(r).Decode(&fd); err != nil {
		return nil, fmt.Errorf("toolparse/schema: decode json: %w", err)
	}
	s, err := New(fd.toDefinition())
	if err != nil {
		return nil, fmt.Errorf("toolparse/schema: %w", err)
	}
	return s, nil
}

// FromYAML builds a Schema from the same shape as FromJSON, expressed as
// YAML — the format `spf13/viper`-driven config files in this repository
// use by default.
func FromYAML(r io.Reader) (*Schema, error) {
	var fd FileDefinition
	if err := yaml.NewDecoder(r).Decode(&fd); err != nil {
		return nil, fmt.Errorf("toolparse/schema: decode yaml: %w", err)
	}
	s, err := New(fd.toDefinition())
	if err != nil {
		return nil, fmt.Errorf("toolparse/schema: %w", err)
	}
	return s, nil
}
