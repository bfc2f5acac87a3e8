package loader

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/napolitain/techtree/internal/selection"
)

//go:embed data/components.yaml
var defaultComponents []byte

type componentsFile struct {
	Components map[string]selection.ComponentStats `yaml:"components"`
}

// ParseComponents decodes a YAML component statistics file into a resolver
// keyed by artifact name
func ParseComponents(data []byte) (selection.MapResolver[selection.ComponentStats], error) {
	var f componentsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("loader: parsing components: %w", err)
	}
	if f.Components == nil {
		f.Components = map[string]selection.ComponentStats{}
	}
	return selection.MapResolver[selection.ComponentStats](f.Components), nil
}

// DefaultComponents returns the statistics compiled into the binary
func DefaultComponents() (selection.MapResolver[selection.ComponentStats], error) {
	return ParseComponents(defaultComponents)
}
