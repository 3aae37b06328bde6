package hexgrid

import (
	"fmt"
	"math"
)

// GridCoordinate addresses a tile in offset coordinates. R picks the column
// and its parity; odd columns sit half a tile higher than even ones.
type GridCoordinate struct {
	Q int `json:"q" yaml:"q"`
	R int `json:"r" yaml:"r"`
}

// cube represents cube coordinates (x, y, z) with x+y+z=0.
type cube struct {
	X int
	Y int
	Z int
}

// Add returns a+b.
func (c GridCoordinate) Add(o GridCoordinate) GridCoordinate {
	return GridCoordinate{Q: c.Q + o.Q, R: c.R + o.R}
}

// Odd reports whether the coordinate lies in an odd column.
func (c GridCoordinate) Odd() bool { return c.R&1 == 1 }

// Neighbor returns the coordinate one step away in direction d.
func (c GridCoordinate) Neighbor(d Direction) GridCoordinate {
	return c.Add(Offset(d, c.Odd()))
}

// Neighbors returns the six adjacent coordinates in direction order.
func (c GridCoordinate) Neighbors() [6]GridCoordinate {
	var out [6]GridCoordinate
	for i, d := range Directions {
		out[i] = c.Neighbor(d)
	}
	return out
}

func (c GridCoordinate) String() string {
	return fmt.Sprintf("(%d, %d)", c.Q, c.R)
}

// toCube converts the offset coordinate to cube space. The column is the
// axial q; the row is shifted back by half the column count.
func (c GridCoordinate) toCube() cube {
	x := c.R
	z := c.Q - (c.R-(c.R&1))/2
	return cube{X: x, Y: -x - z, Z: z}
}

// fromCube is the inverse of toCube.
func fromCube(c cube) GridCoordinate {
	return GridCoordinate{Q: c.Z + (c.X-(c.X&1))/2, R: c.X}
}

// Distance returns the number of hops between a and b on an unobstructed grid.
func Distance(a, b GridCoordinate) int {
	ca, cb := a.toCube(), b.toCube()
	dx := abs(ca.X - cb.X)
	dy := abs(ca.Y - cb.Y)
	dz := abs(ca.Z - cb.Z)
	if dx > dy && dx > dz {
		return dx
	}
	if dy > dz {
		return dy
	}
	return dz
}

// roundCube snaps fractional cube coordinates to the containing cell.
func roundCube(x, y, z float64) cube {
	rx, ry, rz := math.Round(x), math.Round(y), math.Round(z)
	dx, dy, dz := math.Abs(rx-x), math.Abs(ry-y), math.Abs(rz-z)
	switch {
	case dx > dy && dx > dz:
		rx = -ry - rz
	case dy > dz:
		ry = -rx - rz
	default:
		rz = -rx - ry
	}
	return cube{X: int(rx), Y: int(ry), Z: int(rz)}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
