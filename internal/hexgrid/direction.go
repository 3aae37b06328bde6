package hexgrid

import (
	"math/bits"
	"strings"
)

// Direction names one of the six edges of a flat-top hex.
type Direction uint8

const (
	Up Direction = iota
	UpRight
	DownRight
	Down
	DownLeft
	UpLeft
)

// Directions lists every direction in mask bit order.
var Directions = [6]Direction{Up, UpRight, DownRight, Down, DownLeft, UpLeft}

var directionNames = [6]string{"up", "upRight", "downRight", "down", "downLeft", "upLeft"}

// Offsets per column parity. Up and Down agree across both tables; only the
// diagonals shift.
var (
	evenOffsets = [6]GridCoordinate{
		Up:        {Q: 1, R: 0},
		UpRight:   {Q: 0, R: 1},
		DownRight: {Q: -1, R: 1},
		Down:      {Q: -1, R: 0},
		DownLeft:  {Q: -1, R: -1},
		UpLeft:    {Q: 0, R: -1},
	}
	oddOffsets = [6]GridCoordinate{
		Up:        {Q: 1, R: 0},
		UpRight:   {Q: 1, R: 1},
		DownRight: {Q: 0, R: 1},
		Down:      {Q: -1, R: 0},
		DownLeft:  {Q: 0, R: -1},
		UpLeft:    {Q: 1, R: -1},
	}
)

// Offset returns the coordinate delta for d from a tile in an odd or even column.
func Offset(d Direction, odd bool) GridCoordinate {
	if odd {
		return oddOffsets[d%6]
	}
	return evenOffsets[d%6]
}

// Opposite returns the direction pointing back along d.
func (d Direction) Opposite() Direction { return (d + 3) % 6 }

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "unknown"
}

// NeighborMask records which directions lead to a traversable tile.
type NeighborMask uint8

// Has reports whether bit d is set.
func (m NeighborMask) Has(d Direction) bool { return m&(1<<d) != 0 }

// With returns m with bit d set.
func (m NeighborMask) With(d Direction) NeighborMask { return m | 1<<d }

// Count returns the number of set directions.
func (m NeighborMask) Count() int { return bits.OnesCount8(uint8(m)) }

// Directions returns the set directions in bit order.
func (m NeighborMask) Directions() []Direction {
	out := make([]Direction, 0, m.Count())
	for _, d := range Directions {
		if m.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

func (m NeighborMask) String() string {
	if m == 0 {
		return "none"
	}
	names := make([]string, 0, 6)
	for _, d := range m.Directions() {
		names = append(names, d.String())
	}
	return strings.Join(names, "|")
}
