package hexgrid

import (
	"fmt"
	"math"
)

// Transform maps grid coordinates to world space and back.
type Transform interface {
	ToWorld(c GridCoordinate) (Point, error)
	ToCell(p Point) GridCoordinate
}

// Layout is the flat-top transform. Size is the hex radius (center to corner).
type Layout struct {
	Size   float64
	Origin Point
}

// NewLayout returns a layout with the given hex radius and world origin.
func NewLayout(size float64, origin Point) Layout {
	return Layout{Size: size, Origin: origin}
}

// ToWorld returns the center of cell c.
// Columns advance 1.5 radii along X; rows advance sqrt(3) radii along Y, with
// odd columns lifted by half a row.
func (l Layout) ToWorld(c GridCoordinate) (Point, error) {
	if l.Size <= 0 || math.IsNaN(l.Size) || math.IsInf(l.Size, 0) {
		return Point{}, fmt.Errorf("%w: %s with hex size %v", ErrInvalidTransform, c, l.Size)
	}
	x := l.Origin.X + l.Size*1.5*float64(c.R)
	y := l.Origin.Y + l.Size*math.Sqrt(3)*(float64(c.Q)+0.5*float64(c.R&1))
	return Point{X: x, Y: y}, nil
}

// ToCell returns the cell containing p. A degenerate layout maps everything
// to the origin cell.
func (l Layout) ToCell(p Point) GridCoordinate {
	if l.Size <= 0 {
		return GridCoordinate{}
	}
	x := (p.X - l.Origin.X) / l.Size
	y := (p.Y - l.Origin.Y) / l.Size
	aq := 2.0 / 3.0 * x
	ar := -1.0/3.0*x + math.Sqrt(3)/3.0*y
	return fromCube(roundCube(aq, -aq-ar, ar))
}
