package mapstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/gravitas-games/mechtactics/internal/hexgrid"
	"github.com/gravitas-games/mechtactics/internal/tiledef"
	"github.com/gravitas-games/mechtactics/internal/tilemap"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "maps.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoadMap(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	reg := tiledef.NewRegistry(tiledef.Defaults()...)
	src, err := tilemap.ParseRows([]string{"..#", "M~."}, reg)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := s.SaveMap(ctx, "ridge", src); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.LoadMap(ctx, "ridge")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Len() != src.Len() {
		t.Fatalf("expected %d tiles, got %d", src.Len(), got.Len())
	}
	src.Each(func(c hexgrid.GridCoordinate, k hexgrid.Kind) {
		if kind, _ := got.KindAt(c); kind != k {
			t.Errorf("%s: got %q want %q", c, kind, k)
		}
	})

	maps, err := s.ListMaps(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(maps) != 1 || maps[0].Name != "ridge" || maps[0].Tiles != 6 {
		t.Fatalf("unexpected listing %+v", maps)
	}
}

func TestSaveMapReplaces(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	first := tilemap.NewSparse()
	first.Set(hexgrid.GridCoordinate{Q: 0, R: 0}, "base")
	first.Set(hexgrid.GridCoordinate{Q: 1, R: 0}, "base")
	second := tilemap.NewSparse()
	second.Set(hexgrid.GridCoordinate{Q: 5, R: 5}, "hive")

	if err := s.SaveMap(ctx, "m", first); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.SaveMap(ctx, "m", second); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.LoadMap(ctx, "m")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Len() != 1 {
		t.Fatalf("expected replaced layout with 1 tile, got %d", got.Len())
	}
}

func TestMissingMap(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	if _, err := s.LoadMap(ctx, "nope"); !errors.Is(err, ErrMapNotFound) {
		t.Fatalf("expected ErrMapNotFound, got %v", err)
	}
	if err := s.DeleteMap(ctx, "nope"); !errors.Is(err, ErrMapNotFound) {
		t.Fatalf("expected ErrMapNotFound on delete, got %v", err)
	}
	if err := s.SaveMap(ctx, "empty", tilemap.NewSparse()); !errors.Is(err, hexgrid.ErrEmptySource) {
		t.Fatalf("expected ErrEmptySource, got %v", err)
	}
}

func TestDeleteMap(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	src := tilemap.NewSparse()
	src.Set(hexgrid.GridCoordinate{}, "base")
	if err := s.SaveMap(ctx, "gone", src); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.DeleteMap(ctx, "gone"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.LoadMap(ctx, "gone"); !errors.Is(err, ErrMapNotFound) {
		t.Fatalf("expected map to be gone, got %v", err)
	}
}
