// Package maploader turns grid configuration into a built grid: it resolves
// the tile definitions, picks the map source and applies exclusions.
package maploader

import (
	"context"
	"fmt"
	"log"

	"github.com/gravitas-games/mechtactics/internal/config"
	"github.com/gravitas-games/mechtactics/internal/hexgrid"
	"github.com/gravitas-games/mechtactics/internal/mapstore"
	"github.com/gravitas-games/mechtactics/internal/tiledef"
	"github.com/gravitas-games/mechtactics/internal/tilemap"
)

// Registry loads the definitions file, or the stock definitions when none
// is configured.
func Registry(cfg config.GridConfig) (*tiledef.Registry, error) {
	if cfg.DefinitionsFile == "" {
		return tiledef.NewRegistry(tiledef.Defaults()...), nil
	}
	reg, err := tiledef.LoadFile(cfg.DefinitionsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load tile definitions: %w", err)
	}
	return reg, nil
}

// Source returns the configured map and a label describing where it came
// from. A stored map wins over a map file, which wins over generation.
func Source(ctx context.Context, cfg config.GridConfig, reg *tiledef.Registry) (hexgrid.Source, string, error) {
	switch {
	case cfg.MapStore != "" && cfg.MapName != "":
		store, err := mapstore.Open(cfg.MapStore)
		if err != nil {
			return nil, "", err
		}
		defer store.Close()
		src, err := store.LoadMap(ctx, cfg.MapName)
		if err != nil {
			return nil, "", err
		}
		return src, fmt.Sprintf("store %s/%s", cfg.MapStore, cfg.MapName), nil

	case cfg.MapFile != "":
		m, err := tilemap.LoadFile(cfg.MapFile, reg)
		if err != nil {
			return nil, "", err
		}
		return m.Source, fmt.Sprintf("file %s (%s)", cfg.MapFile, m.Name), nil

	default:
		src, err := tilemap.Generate(cfg.Generate)
		if err != nil {
			return nil, "", err
		}
		return src, fmt.Sprintf("generated %dx%d seed %d", cfg.Generate.Width, cfg.Generate.Height, cfg.Generate.Seed), nil
	}
}

// Exclusions combines obstacle definitions with the configured extra kinds.
func Exclusions(cfg config.GridConfig, reg *tiledef.Registry) hexgrid.ExclusionSet {
	extra := make([]hexgrid.Kind, len(cfg.Excluded))
	for i, k := range cfg.Excluded {
		extra[i] = hexgrid.Kind(k)
	}
	return reg.Exclusions(extra...)
}

// Build loads the registry and map and returns the linked grid.
func Build(ctx context.Context, cfg config.GridConfig) (*hexgrid.Grid, *tiledef.Registry, error) {
	reg, err := Registry(cfg)
	if err != nil {
		return nil, nil, err
	}
	src, label, err := Source(ctx, cfg, reg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load map: %w", err)
	}
	grid := hexgrid.New(hexgrid.NewLayout(cfg.HexSize, hexgrid.Point{}))
	if err := grid.Rebuild(src, Exclusions(cfg, reg)); err != nil {
		return nil, nil, fmt.Errorf("failed to build grid from %s: %w", label, err)
	}
	log.Printf("Grid built from %s: %d tiles, excluded %v", label, grid.Len(), grid.Excluded().Kinds())
	return grid, reg, nil
}
