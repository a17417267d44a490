package shadow

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadGeometry reads a YAML geometry file, overlaying it on the defaults so
// a partial file only overrides the keys it names.
func LoadGeometry(path string) (Geometry, error) {
	geo := DefaultGeometry()

	data, err := os.ReadFile(path)
	if err != nil {
		return geo, fmt.Errorf("reading geometry config: %w", err)
	}
	if err := yaml.Unmarshal(data, &geo); err != nil {
		return geo, fmt.Errorf("parsing geometry config: %w", err)
	}
	return geo, nil
}
