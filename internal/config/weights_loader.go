package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// LoadWeightsFile loads and validates a similarity-weights config file
// using Koanf. Adapted from the teacher's LoadIntegrationsFile.
func LoadWeightsFile(filepath string) (*WeightsFile, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(filepath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load weights config from %q: %w", filepath, err)
	}

	var wf WeightsFile
	if err := k.UnmarshalWithConf("", &wf, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("failed to parse weights config from %q: %w", filepath, err)
	}

	if err := wf.Validate(); err != nil {
		return nil, fmt.Errorf("weights config validation failed for %q: %w", filepath, err)
	}

	return &wf, nil
}
