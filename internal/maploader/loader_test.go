package maploader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gravitas-games/mechtactics/internal/config"
	"github.com/gravitas-games/mechtactics/internal/hexgrid"
	"github.com/gravitas-games/mechtactics/internal/mapstore"
	"github.com/gravitas-games/mechtactics/internal/tiledef"
	"github.com/gravitas-games/mechtactics/internal/tilemap"
)

func gridConfig() config.GridConfig {
	return config.GridConfig{HexSize: 1, Generate: tilemap.DefaultGenConfig()}
}

func TestBuildGenerated(t *testing.T) {
	cfg := gridConfig()
	cfg.Generate.Seed = 3
	grid, reg, err := Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if reg == nil || grid.Len() == 0 {
		t.Fatalf("expected a populated grid")
	}
	for _, tile := range grid.Tiles() {
		if tile.Kind == "rock" || tile.Kind == "water" {
			t.Fatalf("obstacle %s kept in grid", tile.Coord)
		}
	}
}

func TestBuildFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.yaml")
	body := "name: strip\nrows:\n  - \"M.x.V\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	defs := filepath.Join(t.TempDir(), "tiles.yaml")
	defsBody := `definitions:
  - {kind: base, glyph: "."}
  - {kind: mech_spawn, type: mech_spawn, glyph: "M"}
  - {kind: hive, type: hive, glyph: "V"}
  - {kind: crater, glyph: "x"}
`
	if err := os.WriteFile(defs, []byte(defsBody), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := gridConfig()
	cfg.MapFile = path
	cfg.DefinitionsFile = defs
	cfg.Excluded = []string{"crater"}
	grid, _, err := Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if grid.Len() != 4 {
		t.Fatalf("expected 4 tiles after excluding the crater, got %d", grid.Len())
	}
}

func TestBuildFromStore(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "maps.db")
	store, err := mapstore.Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	src, err := tilemap.ParseRows([]string{"...", "..."}, tiledef.NewRegistry(tiledef.Defaults()...))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := store.SaveMap(ctx, "pad", src); err != nil {
		t.Fatalf("save: %v", err)
	}
	store.Close()

	cfg := gridConfig()
	cfg.MapStore = dbPath
	cfg.MapName = "pad"
	grid, _, err := Build(ctx, cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if grid.Len() != 6 {
		t.Fatalf("expected 6 tiles, got %d", grid.Len())
	}

	cfg.MapName = "missing"
	if _, _, err := Build(ctx, cfg); !errors.Is(err, mapstore.ErrMapNotFound) {
		t.Fatalf("expected ErrMapNotFound, got %v", err)
	}
}

func TestBuildAllExcluded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.yaml")
	if err := os.WriteFile(path, []byte("name: wet\nrows:\n  - \"~~\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := gridConfig()
	cfg.MapFile = path
	if _, _, err := Build(context.Background(), cfg); !errors.Is(err, hexgrid.ErrEmptySource) {
		t.Fatalf("expected ErrEmptySource, got %v", err)
	}
}
