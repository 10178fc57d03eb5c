package fixtures

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

//go:embed placeholder.yaml
var placeholder []byte

// Default returns the placeholder dataset compiled into the binary.
func Default() (Set, error) {
	return Parse(placeholder)
}

// Load reads a dataset from path, or the embedded placeholder data when path
// is empty.
func Load(path string) (Set, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("could not read fixtures %s: %w", path, err)
	}
	set, err := Parse(data)
	if err != nil {
		return Set{}, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Parse decodes, normalizes and validates a YAML dataset.
func Parse(data []byte) (Set, error) {
	var set Set
	if err := yaml.UnmarshalWithOptions(data, &set, yaml.DisallowUnknownField()); err != nil {
		return Set{}, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	set = Normalize(set)
	if err := Validate(set); err != nil {
		return Set{}, err
	}
	return set, nil
}
