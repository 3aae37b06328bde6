package hexgrid

import "sort"

// Bounds is a half-open rectangle of coordinates: Min inclusive, Max exclusive.
type Bounds struct {
	MinQ int `json:"min_q" yaml:"min_q"`
	MinR int `json:"min_r" yaml:"min_r"`
	MaxQ int `json:"max_q" yaml:"max_q"`
	MaxR int `json:"max_r" yaml:"max_r"`
}

// Contains reports whether c lies inside b.
func (b Bounds) Contains(c GridCoordinate) bool {
	return c.Q >= b.MinQ && c.Q < b.MaxQ && c.R >= b.MinR && c.R < b.MaxR
}

// Empty reports whether b covers no coordinates.
func (b Bounds) Empty() bool {
	return b.MaxQ <= b.MinQ || b.MaxR <= b.MinR
}

// Expand returns the smallest bounds covering both b and c.
func (b Bounds) Expand(c GridCoordinate) Bounds {
	if b.Empty() {
		return Bounds{MinQ: c.Q, MinR: c.R, MaxQ: c.Q + 1, MaxR: c.R + 1}
	}
	if c.Q < b.MinQ {
		b.MinQ = c.Q
	}
	if c.R < b.MinR {
		b.MinR = c.R
	}
	if c.Q >= b.MaxQ {
		b.MaxQ = c.Q + 1
	}
	if c.R >= b.MaxR {
		b.MaxR = c.R + 1
	}
	return b
}

// Source supplies tile kinds for a bounded region. KindAt returns false for
// coordinates that hold no tile.
type Source interface {
	Bounds() Bounds
	KindAt(c GridCoordinate) (Kind, bool)
}

// ExclusionSet holds tile kinds that never count as traversable.
type ExclusionSet map[Kind]struct{}

// NewExclusionSet builds a set from kinds.
func NewExclusionSet(kinds ...Kind) ExclusionSet {
	s := make(ExclusionSet, len(kinds))
	for _, k := range kinds {
		s[k] = struct{}{}
	}
	return s
}

// Contains reports whether k is excluded. A nil set excludes nothing.
func (s ExclusionSet) Contains(k Kind) bool {
	_, ok := s[k]
	return ok
}

// Kinds returns the excluded kinds in sorted order.
func (s ExclusionSet) Kinds() []Kind {
	out := make([]Kind, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s ExclusionSet) validate() error {
	if s.Contains("") {
		return ErrInvalidExclusion
	}
	return nil
}
