// Package tilemap provides tile sources for building a hexgrid: in-memory
// maps, text glyph rows, YAML map files and procedural noise maps.
package tilemap

import "github.com/gravitas-games/mechtactics/internal/hexgrid"

// Sparse is an in-memory Source keyed by coordinate.
type Sparse struct {
	kinds  map[hexgrid.GridCoordinate]hexgrid.Kind
	bounds hexgrid.Bounds
}

// NewSparse creates an empty source.
func NewSparse() *Sparse {
	return &Sparse{kinds: make(map[hexgrid.GridCoordinate]hexgrid.Kind)}
}

// Copy reads every tile of src into a new Sparse.
func Copy(src hexgrid.Source) *Sparse {
	s := NewSparse()
	b := src.Bounds()
	for q := b.MinQ; q < b.MaxQ; q++ {
		for r := b.MinR; r < b.MaxR; r++ {
			c := hexgrid.GridCoordinate{Q: q, R: r}
			if k, ok := src.KindAt(c); ok {
				s.Set(c, k)
			}
		}
	}
	return s
}

// Set paints c with kind. Setting the empty kind removes the tile.
func (s *Sparse) Set(c hexgrid.GridCoordinate, kind hexgrid.Kind) {
	if kind == "" {
		s.Delete(c)
		return
	}
	s.kinds[c] = kind
	s.bounds = s.bounds.Expand(c)
}

// Delete removes the tile at c. Bounds only grow; they are not shrunk.
func (s *Sparse) Delete(c hexgrid.GridCoordinate) {
	delete(s.kinds, c)
}

// Bounds implements hexgrid.Source.
func (s *Sparse) Bounds() hexgrid.Bounds { return s.bounds }

// KindAt implements hexgrid.Source.
func (s *Sparse) KindAt(c hexgrid.GridCoordinate) (hexgrid.Kind, bool) {
	k, ok := s.kinds[c]
	return k, ok
}

// Len returns the number of tiles.
func (s *Sparse) Len() int { return len(s.kinds) }

// Each calls fn for every tile in unspecified order.
func (s *Sparse) Each(fn func(c hexgrid.GridCoordinate, kind hexgrid.Kind)) {
	for c, k := range s.kinds {
		fn(c, k)
	}
}
