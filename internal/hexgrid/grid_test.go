package hexgrid

import (
	"errors"
	"testing"
)

// mapSource is a minimal Source for tests.
type mapSource struct {
	b     Bounds
	kinds map[GridCoordinate]Kind
}

func newMapSource() *mapSource {
	return &mapSource{kinds: make(map[GridCoordinate]Kind)}
}

func (s *mapSource) set(q, r int, k Kind) {
	c := GridCoordinate{Q: q, R: r}
	s.kinds[c] = k
	s.b = s.b.Expand(c)
}

func (s *mapSource) Bounds() Bounds { return s.b }

func (s *mapSource) KindAt(c GridCoordinate) (Kind, bool) {
	k, ok := s.kinds[c]
	return k, ok
}

func uniform(w, h int, k Kind) *mapSource {
	s := newMapSource()
	for q := 0; q < w; q++ {
		for r := 0; r < h; r++ {
			s.set(q, r, k)
		}
	}
	return s
}

func build(t *testing.T, src Source, excluded ExclusionSet) *Grid {
	t.Helper()
	g := New(NewLayout(1, Point{}))
	if err := g.Rebuild(src, excluded); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	return g
}

func TestRebuildEmptySource(t *testing.T) {
	g := New(NewLayout(1, Point{}))
	if err := g.Rebuild(newMapSource(), nil); !errors.Is(err, ErrEmptySource) {
		t.Fatalf("expected ErrEmptySource, got %v", err)
	}
	if err := g.Rebuild(nil, nil); !errors.Is(err, ErrNilSource) {
		t.Fatalf("expected ErrNilSource, got %v", err)
	}
}

func TestRebuildAllExcluded(t *testing.T) {
	g := New(NewLayout(1, Point{}))
	err := g.Rebuild(uniform(2, 2, "rock"), NewExclusionSet("rock"))
	if !errors.Is(err, ErrEmptySource) {
		t.Fatalf("expected ErrEmptySource when every tile is excluded, got %v", err)
	}
}

func TestRebuildInvalidInputKeepsPreviousTiles(t *testing.T) {
	g := build(t, uniform(3, 3, "base"), nil)
	if err := g.Rebuild(uniform(2, 2, "base"), NewExclusionSet("")); !errors.Is(err, ErrInvalidExclusion) {
		t.Fatalf("expected ErrInvalidExclusion, got %v", err)
	}
	if g.Len() != 9 {
		t.Fatalf("expected previous 9 tiles to survive, got %d", g.Len())
	}

	bad := New(NewLayout(0, Point{}))
	if err := bad.Rebuild(uniform(2, 2, "base"), nil); !errors.Is(err, ErrInvalidTransform) {
		t.Fatalf("expected ErrInvalidTransform, got %v", err)
	}
	if bad.Len() != 0 {
		t.Fatalf("expected no partial grid, got %d tiles", bad.Len())
	}
}

func TestRebuildClearsPreviousTiles(t *testing.T) {
	g := build(t, uniform(3, 3, "base"), nil)
	if err := g.Rebuild(uniform(1, 2, "base"), nil); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if g.Len() != 2 {
		t.Fatalf("expected 2 tiles after rebuild, got %d", g.Len())
	}
	if _, ok := g.TileAt(GridCoordinate{Q: 2, R: 2}); ok {
		t.Fatalf("stale tile survived rebuild")
	}
}

func TestAdjacencyValidity(t *testing.T) {
	src := uniform(5, 5, "base")
	src.set(2, 2, "rock")
	src.set(0, 4, "water")
	delete(src.kinds, GridCoordinate{Q: 4, R: 0})
	excluded := NewExclusionSet("rock")
	g := build(t, src, excluded)

	for _, tile := range g.Tiles() {
		for _, d := range Directions {
			nc := tile.Coord.Add(Offset(d, tile.Coord.R&1 == 1))
			kind, present := src.KindAt(nc)
			want := present && !excluded.Contains(kind)
			if got := tile.Neighbors.Has(d); got != want {
				t.Errorf("tile %s dir %s: got %v want %v", tile.Coord, d, got, want)
			}
		}
	}
}

func TestExclusionRespected(t *testing.T) {
	src := uniform(4, 4, "base")
	src.set(1, 1, "rock")
	g := build(t, src, NewExclusionSet("rock"))

	rock := GridCoordinate{Q: 1, R: 1}
	if _, ok := g.TileAt(rock); ok {
		t.Fatalf("excluded kind produced a tile")
	}
	for _, tile := range g.Tiles() {
		for _, d := range tile.Neighbors.Directions() {
			if tile.Coord.Neighbor(d) == rock {
				t.Fatalf("tile %s links to excluded coordinate via %s", tile.Coord, d)
			}
		}
	}
}

func TestAdjacencyIdempotent(t *testing.T) {
	src := uniform(4, 6, "base")
	src.set(3, 3, "water")
	g := build(t, src, nil)
	first := make(map[GridCoordinate]NeighborMask)
	for _, tile := range g.Tiles() {
		first[tile.Coord] = tile.Neighbors
	}
	g.ComputeAdjacency(nil)
	for _, tile := range g.Tiles() {
		if first[tile.Coord] != tile.Neighbors {
			t.Fatalf("mask changed for %s: %s -> %s", tile.Coord, first[tile.Coord], tile.Neighbors)
		}
	}
}

func TestAdjacencyIsDirected(t *testing.T) {
	src := uniform(3, 3, "base")
	src.set(1, 1, "water")
	g := build(t, src, nil)

	// Excluding water after the build removes edges into the water tile but
	// leaves the water tile's own edges.
	g.ComputeAdjacency(NewExclusionSet("water"))
	water, ok := g.TileAt(GridCoordinate{Q: 1, R: 1})
	if !ok {
		t.Fatalf("water tile missing")
	}
	if water.Neighbors.Count() != 6 {
		t.Fatalf("expected water tile to keep 6 outgoing edges, got %s", water.Neighbors)
	}
	up, _ := g.TileAt(GridCoordinate{Q: 2, R: 1})
	if up.Neighbors.Has(Down) {
		t.Fatalf("edge into excluded tile should be cleared")
	}
}

func TestCornerTileNeighbors(t *testing.T) {
	g := build(t, uniform(3, 3, "base"), nil)
	origin, _ := g.TileAt(GridCoordinate{})
	if origin.Neighbors != NeighborMask(0).With(Up).With(UpRight) {
		t.Fatalf("unexpected origin mask %s", origin.Neighbors)
	}
	if n := len(g.Neighbors(GridCoordinate{Q: 1, R: 1})); n != 6 {
		t.Fatalf("expected interior tile to have 6 neighbors, got %d", n)
	}
}

func TestClosestTile(t *testing.T) {
	g := build(t, uniform(4, 4, "base"), nil)
	for _, tile := range g.Tiles() {
		got, ok := g.ClosestTile(Point{X: tile.World.X + 0.2, Y: tile.World.Y - 0.2})
		if !ok || got.Coord != tile.Coord {
			t.Fatalf("closest tile near %s: got %v ok=%v", tile.Coord, got, ok)
		}
	}
	if _, ok := g.ClosestTile(Point{X: -50, Y: -50}); ok {
		t.Fatalf("expected no tile far off-grid")
	}
}

func TestDispose(t *testing.T) {
	g := build(t, uniform(2, 2, "base"), nil)
	g.Dispose()
	if g.Len() != 0 || len(g.Tiles()) != 0 {
		t.Fatalf("expected empty grid after dispose")
	}
}
