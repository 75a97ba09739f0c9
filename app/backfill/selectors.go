package backfill

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type selectorsFile struct {
	Selectors []string `yaml:"selectors"`
}

// LoadSelectors reads additional theme image selectors from a YAML file.
// An empty path means no extra selectors.
func LoadSelectors(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read selectors file: %w", err)
	}

	var parsed selectorsFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse selectors file: %w", err)
	}

	return parsed.Selectors, nil
}
