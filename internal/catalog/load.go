package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the YAML layout accepted by LoadFile.
//
//	tables:
//	  - family: scs_type_ii
//	    duration_hours: 6
//	    values: [0, 0.02, ..., 1]
//	presets:
//	  - name: front_loaded
//	    alpha: 1.2
//	    beta: 4
type File struct {
	Tables  []Table  `yaml:"tables"`
	Presets []Preset `yaml:"presets"`
}

// LoadFile reads extra tables and presets from a YAML file and merges them
// over base. A nil base means the built-in catalog.
func LoadFile(path string, base *Catalog) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", path, err)
	}
	if base == nil {
		base = Default()
	}
	return base.Merge(f.Tables, f.Presets)
}
