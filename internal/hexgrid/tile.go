package hexgrid

import "fmt"

// Kind identifies what a tile is made of. The empty kind means "no tile".
type Kind string

// Point is a world-space position used only for presentation.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Tile is a single cell of the grid.
type Tile struct {
	Coord     GridCoordinate
	Kind      Kind
	World     Point
	Neighbors NeighborMask

	// TargetMarker is a debug flag for tooling; pathing ignores it.
	TargetMarker bool
}

// Name returns a human readable label such as "base (2, 3)".
func (t *Tile) Name() string {
	return fmt.Sprintf("%s %s", t.Kind, t.Coord)
}
