package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gravitas-games/mechtactics/internal/mapstore"
)

func writeMap(t *testing.T, dir, name string, rows ...string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("name: " + name + "\nrows:\n")
	for _, r := range rows {
		b.WriteString("  - \"" + r + "\"\n")
	}
	path := filepath.Join(dir, name+".yaml")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write map: %v", err)
	}
	return path
}

func TestImportListShowDelete(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "maps.db")
	path := writeMap(t, dir, "ridge", "..#", "M..")
	ctx := context.Background()

	var out bytes.Buffer
	if err := run(ctx, []string{"import", "-db", db, path}, &out); err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out.String(), "ridge") {
		t.Fatalf("unexpected import output %q", out.String())
	}

	out.Reset()
	if err := run(ctx, []string{"list", "-db", db}, &out); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out.String(), "ridge") {
		t.Fatalf("list missing ridge: %q", out.String())
	}

	out.Reset()
	if err := run(ctx, []string{"show", "-db", db, "-name", "ridge"}, &out); err != nil {
		t.Fatalf("show: %v", err)
	}
	if out.String() != "..#\nM..\n" {
		t.Fatalf("show mismatch: %q", out.String())
	}

	if err := run(ctx, []string{"delete", "-db", db, "-name", "ridge"}, &out); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := run(ctx, []string{"show", "-db", db, "-name", "ridge"}, &out); !errors.Is(err, mapstore.ErrMapNotFound) {
		t.Fatalf("expected ErrMapNotFound, got %v", err)
	}
}

func TestGenerateAndPath(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "maps.db")
	ctx := context.Background()
	var out bytes.Buffer

	if err := run(ctx, []string{"generate", "-db", db, "-name", "noise", "-seed", "9", "-width", "8", "-height", "6"}, &out); err != nil {
		t.Fatalf("generate: %v", err)
	}
	file := filepath.Join(dir, "noise.yaml")
	if err := run(ctx, []string{"generate", "-out", file, "-name", "noise", "-seed", "9"}, &out); err != nil {
		t.Fatalf("generate to file: %v", err)
	}
	if _, err := os.Stat(file); err != nil {
		t.Fatalf("expected map file: %v", err)
	}

	strip := writeMap(t, dir, "strip", ".", ".", ".", ".", ".")
	out.Reset()
	if err := run(ctx, []string{"path", "-map", strip, "-from", "0,0", "-to", "4,0"}, &out); err != nil {
		t.Fatalf("path: %v", err)
	}
	if lines := strings.Count(out.String(), "\n"); lines != 5 {
		t.Fatalf("expected 5 path lines, got %d: %q", lines, out.String())
	}

	out.Reset()
	if err := run(ctx, []string{"path", "-map", strip, "-from", "0,0", "-to", "4,0", "-max-hops", "1"}, &out); err != nil {
		t.Fatalf("path: %v", err)
	}
	if lines := strings.Count(out.String(), "\n"); lines != 2 {
		t.Fatalf("expected truncated path of 2 lines, got %d", lines)
	}
}

func TestUsageErrors(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	for _, args := range [][]string{
		nil,
		{"frobnicate"},
		{"import"},
		{"generate"},
		{"path", "-map", "x.yaml", "-from", "0", "-to", "1,1"},
		{"path", "-from", "0,0", "-to", "1,1"},
	} {
		if err := run(ctx, args, &out); !errors.Is(err, errUsage) {
			t.Errorf("%v: expected usage error, got %v", args, err)
		}
	}
}

func TestParseCoord(t *testing.T) {
	c, err := parseCoord(" 3, -2")
	if err != nil || c.Q != 3 || c.R != -2 {
		t.Fatalf("parse: got %v, %v", c, err)
	}
	if _, err := parseCoord("a,b"); err == nil {
		t.Fatalf("expected error")
	}
}
