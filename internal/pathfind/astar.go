// Package pathfind searches a hexgrid adjacency graph for movement routes.
package pathfind

import (
	"container/heap"

	"github.com/gravitas-games/mechtactics/internal/hexgrid"
)

// Graph is the read-only view of a grid the search needs. *hexgrid.Grid
// satisfies it.
type Graph interface {
	Len() int
	TileAt(c hexgrid.GridCoordinate) (*hexgrid.Tile, bool)
}

// Occupancy reports whether a unit currently stands on c. It must return the
// same answer for the whole duration of one search.
type Occupancy func(c hexgrid.GridCoordinate) bool

// Unoccupied is an Occupancy with every tile free.
func Unoccupied(hexgrid.GridCoordinate) bool { return false }

// Option configures a search.
type Option func(*options)

type options struct {
	maxHops   int
	heuristic Heuristic
}

// WithMaxHops caps the returned path at n steps after the start tile.
// Values <= 0 leave the path unbounded.
func WithMaxHops(n int) Option {
	return func(o *options) {
		o.maxHops = n
	}
}

// WithHeuristic replaces the default HexDistance estimate.
func WithHeuristic(h Heuristic) Option {
	return func(o *options) {
		if h != nil {
			o.heuristic = h
		}
	}
}

func applyOptions(opts ...Option) options {
	o := options{heuristic: HexDistance}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

type node struct {
	tile   *hexgrid.Tile
	parent *node
	g      int
	f      float64
	seq    int
}

// FindPath returns the tiles from start to end, start first.
//
// Every step costs one hop. Occupied tiles other than start are never passed
// through; an occupied end tile is not entered, and the path stops at the last
// free tile before it instead. A path that would not leave the start tile is
// reported as ErrNoPath.
func FindPath(g Graph, start, end hexgrid.GridCoordinate, occupied Occupancy, opts ...Option) ([]*hexgrid.Tile, error) {
	if g == nil || g.Len() == 0 {
		return nil, ErrEmptyGrid
	}
	if start == end {
		return nil, ErrSameTile
	}
	startTile, ok := g.TileAt(start)
	if !ok {
		return nil, ErrTileNotFound
	}
	if _, ok := g.TileAt(end); !ok {
		return nil, ErrTileNotFound
	}
	if occupied == nil {
		occupied = Unoccupied
	}
	o := applyOptions(opts...)

	open := newOpenSet()
	seq := 0
	push := func(n *node) {
		n.seq = seq
		seq++
		heap.Push(open, n)
	}

	best := map[hexgrid.GridCoordinate]*node{}
	closed := map[hexgrid.GridCoordinate]bool{}

	root := &node{tile: startTile, f: o.heuristic(start, end)}
	best[start] = root
	push(root)

	for open.Len() > 0 {
		cur := heap.Pop(open).(*node)
		c := cur.tile.Coord
		if closed[c] {
			continue
		}
		closed[c] = true

		if c == end {
			return finish(cur, occupied, o.maxHops)
		}
		if cur != root && occupied(c) {
			continue
		}

		for _, d := range cur.tile.Neighbors.Directions() {
			nc := c.Neighbor(d)
			if closed[nc] {
				continue
			}
			nt, ok := g.TileAt(nc)
			if !ok {
				continue
			}
			tentative := cur.g + 1
			if prev, ok := best[nc]; ok && tentative >= prev.g {
				continue
			}
			n := &node{
				tile:   nt,
				parent: cur,
				g:      tentative,
				f:      float64(tentative) + o.heuristic(nc, end),
			}
			best[nc] = n
			push(n)
		}
	}
	return nil, ErrNoPath
}

// finish picks the terminal node for the goal and retraces it.
func finish(goal *node, occupied Occupancy, maxHops int) ([]*hexgrid.Tile, error) {
	terminal := goal
	if occupied(goal.tile.Coord) {
		terminal = goal.parent
		for terminal != nil && terminal.parent != nil && occupied(terminal.tile.Coord) {
			terminal = terminal.parent
		}
	}
	if terminal == nil || terminal.parent == nil {
		return nil, ErrNoPath
	}

	path := retrace(terminal)
	if maxHops > 0 && len(path) > maxHops+1 {
		path = path[:maxHops+1]
	}
	return path, nil
}

func retrace(n *node) []*hexgrid.Tile {
	var path []*hexgrid.Tile
	for cur := n; cur != nil; cur = cur.parent {
		path = append(path, cur.tile)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
