package tilemap

import (
	"fmt"
	"strings"

	"github.com/gravitas-games/mechtactics/internal/hexgrid"
	"github.com/gravitas-games/mechtactics/internal/tiledef"
)

const emptyGlyph = '-'

// ParseRows reads a text map. The first line is the topmost row (highest Q),
// the last line is Q=0, and the character index is R. A space or '-' leaves
// the cell empty; every other character must be a registered glyph.
func ParseRows(rows []string, reg *tiledef.Registry) (*Sparse, error) {
	s := NewSparse()
	n := len(rows)
	for i, line := range rows {
		q := n - 1 - i
		for r, g := range []rune(line) {
			if g == ' ' || g == emptyGlyph {
				continue
			}
			kind, ok := reg.LookupGlyph(g)
			if !ok {
				return nil, fmt.Errorf("row %d col %d: unknown glyph %q", i, r, g)
			}
			s.Set(hexgrid.GridCoordinate{Q: q, R: r}, kind)
		}
	}
	return s, nil
}

// FormatRows is the inverse of ParseRows for sources whose bounds start at
// the origin. Kinds without a definition are rendered as '?'.
func FormatRows(src hexgrid.Source, reg *tiledef.Registry) ([]string, error) {
	b := src.Bounds()
	if b.Empty() {
		return nil, nil
	}
	if b.MinQ < 0 || b.MinR < 0 {
		return nil, fmt.Errorf("bounds %+v extend below the origin", b)
	}
	rows := make([]string, 0, b.MaxQ)
	for q := b.MaxQ - 1; q >= 0; q-- {
		var sb strings.Builder
		for r := 0; r < b.MaxR; r++ {
			kind, ok := src.KindAt(hexgrid.GridCoordinate{Q: q, R: r})
			if !ok {
				sb.WriteRune(emptyGlyph)
				continue
			}
			d, ok := reg.Lookup(kind)
			if !ok {
				sb.WriteRune('?')
				continue
			}
			sb.WriteString(d.Glyph)
		}
		rows = append(rows, strings.TrimRight(sb.String(), string(emptyGlyph)))
	}
	return rows, nil
}
