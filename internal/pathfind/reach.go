package pathfind

import "github.com/gravitas-games/mechtactics/internal/hexgrid"

// Reach is a tile a unit can move to, with the hops needed to get there.
type Reach struct {
	Tile *hexgrid.Tile
	Hops int
}

// Reachable floods outward from start and returns every free tile that can be
// reached in 1..maxHops steps without passing through an occupied tile. The
// result is ordered by hop count, then by discovery order. A budget of zero or
// less reaches nothing.
func Reachable(g Graph, start hexgrid.GridCoordinate, occupied Occupancy, maxHops int) ([]Reach, error) {
	if g == nil || g.Len() == 0 {
		return nil, ErrEmptyGrid
	}
	startTile, ok := g.TileAt(start)
	if !ok {
		return nil, ErrTileNotFound
	}
	if occupied == nil {
		occupied = Unoccupied
	}
	if maxHops <= 0 {
		return nil, nil
	}

	visited := map[hexgrid.GridCoordinate]bool{start: true}
	frontier := []*hexgrid.Tile{startTile}
	var out []Reach

	for hops := 1; hops <= maxHops && len(frontier) > 0; hops++ {
		var next []*hexgrid.Tile
		for _, t := range frontier {
			for _, d := range t.Neighbors.Directions() {
				nc := t.Coord.Neighbor(d)
				if visited[nc] {
					continue
				}
				visited[nc] = true
				nt, ok := g.TileAt(nc)
				if !ok || occupied(nc) {
					continue
				}
				out = append(out, Reach{Tile: nt, Hops: hops})
				next = append(next, nt)
			}
		}
		frontier = next
	}
	return out, nil
}
