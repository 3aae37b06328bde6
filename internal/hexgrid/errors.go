package hexgrid

import "errors"

var (
	// ErrEmptySource is returned when a rebuild would produce a grid with no tiles.
	ErrEmptySource = errors.New("hexgrid: source contains no tiles")
	// ErrNilSource is returned when rebuild is called without a source.
	ErrNilSource = errors.New("hexgrid: nil source")
	// ErrInvalidExclusion is returned for exclusion sets naming the empty kind.
	ErrInvalidExclusion = errors.New("hexgrid: exclusion set contains empty kind")
	// ErrInvalidTransform is returned when a coordinate has no world position.
	ErrInvalidTransform = errors.New("hexgrid: transform undefined for coordinate")
)
