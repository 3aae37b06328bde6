package tilemap

import (
	"path/filepath"
	"testing"

	"github.com/gravitas-games/mechtactics/internal/hexgrid"
	"github.com/gravitas-games/mechtactics/internal/tiledef"
)

func registry() *tiledef.Registry {
	return tiledef.NewRegistry(tiledef.Defaults()...)
}

func TestParseRows(t *testing.T) {
	src, err := ParseRows([]string{
		"..#",
		"M-~",
	}, registry())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if src.Len() != 5 {
		t.Fatalf("expected 5 tiles, got %d", src.Len())
	}
	cases := map[hexgrid.GridCoordinate]hexgrid.Kind{
		{Q: 1, R: 0}: "base",
		{Q: 1, R: 2}: "rock",
		{Q: 0, R: 0}: "mech_spawn",
		{Q: 0, R: 2}: "water",
	}
	for c, want := range cases {
		if got, ok := src.KindAt(c); !ok || got != want {
			t.Errorf("%s: got %q ok=%v, want %q", c, got, ok, want)
		}
	}
	if _, ok := src.KindAt(hexgrid.GridCoordinate{Q: 0, R: 1}); ok {
		t.Errorf("'-' should leave the cell empty")
	}
	b := src.Bounds()
	if b.MinQ != 0 || b.MaxQ != 2 || b.MaxR != 3 {
		t.Errorf("unexpected bounds %+v", b)
	}
}

func TestParseRowsUnknownGlyph(t *testing.T) {
	if _, err := ParseRows([]string{"..?"}, registry()); err == nil {
		t.Fatalf("expected unknown glyph error")
	}
}

func TestFileRoundTrip(t *testing.T) {
	reg := registry()
	src, err := ParseRows([]string{"H.#", ".-.", "M~$"}, reg)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	path := filepath.Join(t.TempDir(), "outpost.yaml")
	if err := SaveFile(path, &Map{Name: "outpost", Source: src}, reg); err != nil {
		t.Fatalf("save: %v", err)
	}
	m, err := LoadFile(path, reg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.Name != "outpost" || m.Source.Len() != src.Len() {
		t.Fatalf("loaded %q with %d tiles", m.Name, m.Source.Len())
	}
	src.Each(func(c hexgrid.GridCoordinate, k hexgrid.Kind) {
		if got, _ := m.Source.KindAt(c); got != k {
			t.Errorf("%s: got %q want %q", c, got, k)
		}
	})
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 42
	a, err := Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, _ := Generate(cfg)
	if a.Len() != cfg.Width*cfg.Height {
		t.Fatalf("expected full %dx%d map, got %d tiles", cfg.Width, cfg.Height, a.Len())
	}
	a.Each(func(c hexgrid.GridCoordinate, k hexgrid.Kind) {
		if got, _ := b.KindAt(c); got != k {
			t.Fatalf("seeded generation differs at %s", c)
		}
	})
	if k, _ := a.KindAt(hexgrid.GridCoordinate{}); k != "mech_spawn" {
		t.Fatalf("expected mech spawn at origin, got %q", k)
	}
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	if _, err := Generate(GenConfig{Width: 0, Height: 3, RockLevel: 1}); err == nil {
		t.Fatalf("expected size error")
	}
	if _, err := Generate(GenConfig{Width: 3, Height: 3, WaterLevel: 0.8, RockLevel: 0.5}); err == nil {
		t.Fatalf("expected level error")
	}
}

func TestCopy(t *testing.T) {
	src, _ := ParseRows([]string{".~", "#."}, registry())
	g := hexgrid.New(hexgrid.NewLayout(1, hexgrid.Point{}))
	if err := g.Rebuild(src, registry().Exclusions()); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	cp := Copy(g)
	if cp.Len() != 2 {
		t.Fatalf("expected the 2 walkable tiles, got %d", cp.Len())
	}
}
