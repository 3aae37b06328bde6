package tilemap

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gravitas-games/mechtactics/internal/tiledef"
)

// Map is a named tile layout.
type Map struct {
	Name   string
	Source *Sparse
}

type mapFile struct {
	Name string   `yaml:"name"`
	Rows []string `yaml:"rows"`
}

// LoadFile reads a YAML map file of the form
//
//	name: outpost
//	rows:
//	  - "..#.."
//	  - "....."
func LoadFile(path string, reg *tiledef.Registry) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file: %w", err)
	}
	var f mapFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse map file: %w", err)
	}
	src, err := ParseRows(f.Rows, reg)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", path, err)
	}
	return &Map{Name: f.Name, Source: src}, nil
}

// SaveFile writes m in the format LoadFile reads.
func SaveFile(path string, m *Map, reg *tiledef.Registry) error {
	rows, err := FormatRows(m.Source, reg)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(mapFile{Name: m.Name, Rows: rows})
	if err != nil {
		return fmt.Errorf("failed to encode map: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write map file: %w", err)
	}
	return nil
}
