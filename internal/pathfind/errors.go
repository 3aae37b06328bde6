package pathfind

import "errors"

var (
	// ErrEmptyGrid is returned when the grid has no tiles.
	ErrEmptyGrid = errors.New("pathfind: grid is empty")
	// ErrSameTile is returned when start and end are the same coordinate.
	ErrSameTile = errors.New("pathfind: start and end are the same tile")
	// ErrTileNotFound is returned when start or end is not on the grid.
	ErrTileNotFound = errors.New("pathfind: tile not found")
	// ErrNoPath is returned when no traversable route exists.
	ErrNoPath = errors.New("pathfind: no path")
)
