package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimal = `
jwt:
  public_key_url: http://auth.local/key
`

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimal))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Grid.HexSize != 1 || cfg.Pathing.Heuristic != "hex" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.Grid.Generate.Width != 16 || cfg.Session.Teams != 2 {
		t.Fatalf("grid defaults not applied: %+v", cfg.Grid)
	}
	if cfg.Addr() != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.Addr())
	}
}

func TestLoadFileValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimal+`
server:
  port: 9000
grid:
  map_file: maps/outpost.yaml
  excluded: [lava]
  generate:
    width: 20
pathing:
  heuristic: euclidean
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9000 || cfg.Grid.MapFile != "maps/outpost.yaml" {
		t.Fatalf("file values lost: %+v", cfg)
	}
	if len(cfg.Grid.Excluded) != 1 || cfg.Grid.Excluded[0] != "lava" {
		t.Fatalf("excluded lost: %v", cfg.Grid.Excluded)
	}
	if cfg.Grid.Generate.Width != 20 || cfg.Grid.Generate.Height != 12 {
		t.Fatalf("generate merge wrong: %+v", cfg.Grid.Generate)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MECH_SERVER_PORT", "7777")
	t.Setenv("MECH_GRID_EXCLUDED", "lava,acid")
	t.Setenv("MECH_PATHING_HEURISTIC", "euclidean")
	cfg, err := Load(writeConfig(t, minimal+"server:\n  port: 9000\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 7777 {
		t.Fatalf("env did not override port: %d", cfg.Server.Port)
	}
	if len(cfg.Grid.Excluded) != 2 || cfg.Grid.Excluded[1] != "acid" {
		t.Fatalf("env excluded wrong: %v", cfg.Grid.Excluded)
	}
	if cfg.Pathing.Heuristic != "euclidean" {
		t.Fatalf("env heuristic wrong: %s", cfg.Pathing.Heuristic)
	}
}

func TestValidate(t *testing.T) {
	_, err := Load(writeConfig(t, `
grid:
  hex_size: -2
  map_name: ridge
pathing:
  heuristic: manhattan
`))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"public_key_url", "hex_size", "map_store", "manhattan"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %s", err, want)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
