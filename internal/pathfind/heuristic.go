package pathfind

import (
	"math"

	"github.com/gravitas-games/mechtactics/internal/hexgrid"
)

// Heuristic estimates the remaining cost from a to b.
type Heuristic func(a, b hexgrid.GridCoordinate) float64

// HexDistance is the exact hop count on an open grid. It never overestimates,
// so searches using it return shortest paths.
func HexDistance(a, b hexgrid.GridCoordinate) float64 {
	return float64(hexgrid.Distance(a, b))
}

// Euclidean is the straight-line distance between raw offset coordinates.
// Diagonal steps move up to sqrt(2) in this space, so it can overestimate and
// the resulting path is not guaranteed to be shortest.
func Euclidean(a, b hexgrid.GridCoordinate) float64 {
	return math.Hypot(float64(a.Q-b.Q), float64(a.R-b.R))
}

// HeuristicByName resolves a configured heuristic name. Unknown names fall
// back to HexDistance.
func HeuristicByName(name string) (Heuristic, bool) {
	switch name {
	case "", "hex":
		return HexDistance, true
	case "euclidean":
		return Euclidean, true
	default:
		return HexDistance, false
	}
}
