// Package tiledef describes the tile kinds a map can be painted with.
package tiledef

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/gravitas-games/mechtactics/internal/hexgrid"
)

// TileType is the gameplay role of a tile.
type TileType string

const (
	TypeBase      TileType = "base"
	TypeHQ        TileType = "hq"
	TypeMechSpawn TileType = "mech_spawn"
	TypeHeal      TileType = "heal"
	TypeShop      TileType = "shop"
	TypeHive      TileType = "hive"
)

// Valid reports whether t is a known tile type.
func (t TileType) Valid() bool {
	switch t {
	case TypeBase, TypeHQ, TypeMechSpawn, TypeHeal, TypeShop, TypeHive:
		return true
	}
	return false
}

// Definition captures a tile kind: what it is called, how it is drawn in text
// maps and whether units can stand on it.
type Definition struct {
	Kind     hexgrid.Kind `json:"kind" yaml:"kind"`
	Name     string       `json:"name,omitempty" yaml:"name,omitempty"`
	Type     TileType     `json:"type" yaml:"type"`
	Glyph    string       `json:"glyph" yaml:"glyph"`
	Obstacle bool         `json:"obstacle,omitempty" yaml:"obstacle,omitempty"`
}

// Registry stores definitions keyed by kind and by glyph.
type Registry struct {
	mu      sync.RWMutex
	defs    map[hexgrid.Kind]Definition
	byGlyph map[rune]hexgrid.Kind
}

// NewRegistry constructs a registry seeded with defs. Invalid or conflicting
// seeds are skipped.
func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{
		defs:    make(map[hexgrid.Kind]Definition, len(defs)),
		byGlyph: make(map[rune]hexgrid.Kind, len(defs)),
	}
	for _, d := range defs {
		_ = r.Register(d)
	}
	return r
}

// Defaults returns the stock definitions.
func Defaults() []Definition {
	return []Definition{
		{Kind: "base", Name: "Plating", Type: TypeBase, Glyph: "."},
		{Kind: "hq", Name: "Headquarters", Type: TypeHQ, Glyph: "H"},
		{Kind: "mech_spawn", Name: "Mech Bay", Type: TypeMechSpawn, Glyph: "M"},
		{Kind: "heal", Name: "Repair Pad", Type: TypeHeal, Glyph: "+"},
		{Kind: "shop", Name: "Depot", Type: TypeShop, Glyph: "$"},
		{Kind: "hive", Name: "Hive", Type: TypeHive, Glyph: "V"},
		{Kind: "rock", Name: "Rock", Type: TypeBase, Glyph: "#", Obstacle: true},
		{Kind: "water", Name: "Water", Type: TypeBase, Glyph: "~", Obstacle: true},
	}
}

// Register inserts or replaces a definition.
func (r *Registry) Register(d Definition) error {
	if d.Kind == "" {
		return errors.New("tiledef: definition missing kind")
	}
	if d.Type == "" {
		d.Type = TypeBase
	}
	if !d.Type.Valid() {
		return fmt.Errorf("tiledef: %s has unknown type %q", d.Kind, d.Type)
	}
	if utf8.RuneCountInString(d.Glyph) != 1 {
		return fmt.Errorf("tiledef: %s glyph must be a single character", d.Kind)
	}
	g, _ := utf8.DecodeRuneInString(d.Glyph)
	if g == ' ' || g == '-' {
		return fmt.Errorf("tiledef: %s glyph %q is reserved for empty cells", d.Kind, d.Glyph)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if owner, taken := r.byGlyph[g]; taken && owner != d.Kind {
		return fmt.Errorf("tiledef: glyph %q already used by %s", d.Glyph, owner)
	}
	if prev, ok := r.defs[d.Kind]; ok {
		pg, _ := utf8.DecodeRuneInString(prev.Glyph)
		delete(r.byGlyph, pg)
	}
	r.defs[d.Kind] = d
	r.byGlyph[g] = d.Kind
	return nil
}

// Lookup returns the definition for kind.
func (r *Registry) Lookup(kind hexgrid.Kind) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs[kind]
	return d, ok
}

// LookupGlyph returns the kind drawn with glyph g.
func (r *Registry) LookupGlyph(g rune) (hexgrid.Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.byGlyph[g]
	return k, ok
}

// Exclusions returns the kinds flagged as obstacles plus any extra kinds.
func (r *Registry) Exclusions(extra ...hexgrid.Kind) hexgrid.ExclusionSet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := hexgrid.NewExclusionSet(extra...)
	for k, d := range r.defs {
		if d.Obstacle {
			set[k] = struct{}{}
		}
	}
	return set
}

// Export copies the definitions into a slice sorted by kind.
func (r *Registry) Export() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

type definitionsFile struct {
	Definitions []Definition `yaml:"definitions"`
}

// LoadFile reads a YAML definitions file into a new registry. Unlike
// NewRegistry, any invalid entry fails the load.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definitions file: %w", err)
	}
	var f definitionsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse definitions file: %w", err)
	}
	if len(f.Definitions) == 0 {
		return nil, fmt.Errorf("definitions file %s lists no tiles", path)
	}
	r := NewRegistry()
	for _, d := range f.Definitions {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}
