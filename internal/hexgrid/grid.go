// Package hexgrid holds the flat-top hex tile set and its adjacency graph.
//
// Tiles are addressed by offset coordinates whose column parity selects the
// neighbor offset table. A Grid is built from a Source in one pass and then
// linked by ComputeAdjacency; occupancy is not part of the grid.
package hexgrid

import "fmt"

// Grid owns the authoritative tile set. It performs no locking; callers that
// share a Grid across goroutines must synchronize rebuilds with reads.
type Grid struct {
	transform Transform
	tiles     map[GridCoordinate]*Tile
	order     []GridCoordinate
	excluded  ExclusionSet
}

// New creates an empty grid that places tiles with transform.
func New(transform Transform) *Grid {
	return &Grid{
		transform: transform,
		tiles:     make(map[GridCoordinate]*Tile),
	}
}

// Rebuild replaces the tile set with the tiles read from src, skipping kinds
// in excluded, and then computes adjacency. On error the previous tile set is
// kept as it was.
func (g *Grid) Rebuild(src Source, excluded ExclusionSet) error {
	if src == nil {
		return ErrNilSource
	}
	if err := excluded.validate(); err != nil {
		return err
	}
	if g.transform == nil {
		return fmt.Errorf("%w: no transform configured", ErrInvalidTransform)
	}

	b := src.Bounds()
	tiles := make(map[GridCoordinate]*Tile)
	order := make([]GridCoordinate, 0)
	present := 0

	for q := b.MinQ; q < b.MaxQ; q++ {
		for r := b.MinR; r < b.MaxR; r++ {
			c := GridCoordinate{Q: q, R: r}
			kind, ok := src.KindAt(c)
			if !ok || kind == "" {
				continue
			}
			present++
			if excluded.Contains(kind) {
				continue
			}
			world, err := g.transform.ToWorld(c)
			if err != nil {
				return fmt.Errorf("build tile %s: %w", c, err)
			}
			tiles[c] = &Tile{Coord: c, Kind: kind, World: world}
			order = append(order, c)
		}
	}

	if present == 0 {
		return ErrEmptySource
	}
	if len(tiles) == 0 {
		return fmt.Errorf("%w: all %d tiles excluded", ErrEmptySource, present)
	}

	g.tiles = tiles
	g.order = order
	g.ComputeAdjacency(excluded)
	return nil
}

// ComputeAdjacency recomputes every tile's neighbor mask. Bit d is set when a
// tile exists one step away in direction d and its kind is not excluded.
// Each mask is computed on its own, so edges are directed: excluding a kind
// here clears edges into such tiles but not the edges leading out of them.
func (g *Grid) ComputeAdjacency(excluded ExclusionSet) {
	g.excluded = excluded
	for _, c := range g.order {
		t := g.tiles[c]
		t.Neighbors = 0
		for _, d := range Directions {
			n, ok := g.tiles[c.Neighbor(d)]
			if !ok || excluded.Contains(n.Kind) {
				continue
			}
			t.Neighbors = t.Neighbors.With(d)
		}
	}
}

// TileAt returns the tile at c.
func (g *Grid) TileAt(c GridCoordinate) (*Tile, bool) {
	t, ok := g.tiles[c]
	return t, ok
}

// ClosestTile returns the tile whose cell contains p, if any.
func (g *Grid) ClosestTile(p Point) (*Tile, bool) {
	if g.transform == nil {
		return nil, false
	}
	return g.TileAt(g.transform.ToCell(p))
}

// Neighbors returns the tiles linked from c, in direction order.
func (g *Grid) Neighbors(c GridCoordinate) []*Tile {
	t, ok := g.tiles[c]
	if !ok {
		return nil
	}
	out := make([]*Tile, 0, t.Neighbors.Count())
	for _, d := range Directions {
		if !t.Neighbors.Has(d) {
			continue
		}
		if n, ok := g.tiles[c.Neighbor(d)]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Tiles returns every tile in build order.
func (g *Grid) Tiles() []*Tile {
	out := make([]*Tile, 0, len(g.order))
	for _, c := range g.order {
		out = append(out, g.tiles[c])
	}
	return out
}

// KindAt returns the kind of the tile at c, so a built grid can itself serve
// as a Source.
func (g *Grid) KindAt(c GridCoordinate) (Kind, bool) {
	t, ok := g.tiles[c]
	if !ok {
		return "", false
	}
	return t.Kind, true
}

// Len returns the number of tiles.
func (g *Grid) Len() int { return len(g.tiles) }

// Excluded returns the exclusion set used by the last adjacency pass.
func (g *Grid) Excluded() ExclusionSet { return g.excluded }

// Bounds returns the smallest bounds covering every tile.
func (g *Grid) Bounds() Bounds {
	var b Bounds
	for _, c := range g.order {
		b = b.Expand(c)
	}
	return b
}

// Dispose drops every tile. The grid can be rebuilt afterwards.
func (g *Grid) Dispose() {
	g.tiles = make(map[GridCoordinate]*Tile)
	g.order = nil
	g.excluded = nil
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(tiles=%d)", g.Len())
}
