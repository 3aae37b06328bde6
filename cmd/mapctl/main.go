// Command mapctl manages the map library: importing authored map files,
// generating terrain, listing stored maps and tracing paths across them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/gravitas-games/mechtactics/internal/config"
	"github.com/gravitas-games/mechtactics/internal/hexgrid"
	"github.com/gravitas-games/mechtactics/internal/maploader"
	"github.com/gravitas-games/mechtactics/internal/mapstore"
	"github.com/gravitas-games/mechtactics/internal/pathfind"
	"github.com/gravitas-games/mechtactics/internal/tiledef"
	"github.com/gravitas-games/mechtactics/internal/tilemap"
)

const usage = `usage: mapctl <command> [flags]

commands:
  import    store YAML map files in the library
  generate  generate a map into the library or a YAML file
  list      list stored maps
  show      print a stored map as glyph rows
  delete    remove a stored map
  path      trace a path across a stored map or map file
`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("mapctl: %v", err)
	}
}

var errUsage = errors.New("invalid usage")

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return errUsage
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "import":
		return runImport(ctx, rest, out)
	case "generate":
		return runGenerate(ctx, rest, out)
	case "list":
		return runList(ctx, rest, out)
	case "show":
		return runShow(ctx, rest, out)
	case "delete":
		return runDelete(ctx, rest, out)
	case "path":
		return runPath(ctx, rest, out)
	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func registry(defs string) (*tiledef.Registry, error) {
	return maploader.Registry(config.GridConfig{DefinitionsFile: defs})
}

func runImport(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	db := fs.String("db", "maps.db", "map library database")
	defs := fs.String("defs", "", "tile definitions file (default: stock tiles)")
	name := fs.String("name", "", "store under this name instead of the file's name (single file only)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: import needs at least one map file", errUsage)
	}
	if *name != "" && fs.NArg() > 1 {
		return fmt.Errorf("%w: -name only applies to a single file", errUsage)
	}

	reg, err := registry(*defs)
	if err != nil {
		return err
	}
	store, err := mapstore.Open(*db)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, path := range fs.Args() {
		m, err := tilemap.LoadFile(path, reg)
		if err != nil {
			return err
		}
		mapName := m.Name
		if *name != "" {
			mapName = *name
		}
		if mapName == "" {
			return fmt.Errorf("%s has no name; pass -name", path)
		}
		if err := store.SaveMap(ctx, mapName, m.Source); err != nil {
			return err
		}
		fmt.Fprintf(out, "imported %s as %s (%d tiles)\n", path, mapName, m.Source.Len())
	}
	return nil
}

func runGenerate(ctx context.Context, args []string, out io.Writer) error {
	def := tilemap.DefaultGenConfig()
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	db := fs.String("db", "maps.db", "map library database")
	name := fs.String("name", "", "map name")
	file := fs.String("out", "", "write a YAML map file instead of storing")
	defs := fs.String("defs", "", "tile definitions file, used with -out")
	fs.IntVar(&def.Width, "width", def.Width, "columns")
	fs.IntVar(&def.Height, "height", def.Height, "rows")
	fs.Int64Var(&def.Seed, "seed", 0, "noise seed (0 = random)")
	fs.Float64Var(&def.WaterLevel, "water", def.WaterLevel, "elevation below which tiles are water")
	fs.Float64Var(&def.RockLevel, "rock", def.RockLevel, "elevation above which tiles are rock")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("%w: generate needs -name", errUsage)
	}

	src, err := tilemap.Generate(def)
	if err != nil {
		return err
	}

	if *file != "" {
		reg, err := registry(*defs)
		if err != nil {
			return err
		}
		if err := tilemap.SaveFile(*file, &tilemap.Map{Name: *name, Source: src}, reg); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s to %s (%d tiles)\n", *name, *file, src.Len())
		return nil
	}

	store, err := mapstore.Open(*db)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.SaveMap(ctx, *name, src); err != nil {
		return err
	}
	fmt.Fprintf(out, "generated %s (%d tiles)\n", *name, src.Len())
	return nil
}

func runList(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	db := fs.String("db", "maps.db", "map library database")
	if err := fs.Parse(args); err != nil {
		return err
	}
	store, err := mapstore.Open(*db)
	if err != nil {
		return err
	}
	defer store.Close()

	maps, err := store.ListMaps(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTILES\tUPDATED")
	for _, m := range maps {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", m.Name, m.Tiles, m.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func runShow(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	db := fs.String("db", "maps.db", "map library database")
	name := fs.String("name", "", "map name")
	defs := fs.String("defs", "", "tile definitions file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	reg, err := registry(*defs)
	if err != nil {
		return err
	}
	store, err := mapstore.Open(*db)
	if err != nil {
		return err
	}
	defer store.Close()

	src, err := store.LoadMap(ctx, *name)
	if err != nil {
		return err
	}
	rows, err := tilemap.FormatRows(src, reg)
	if err != nil {
		return err
	}
	for _, row := range rows {
		fmt.Fprintln(out, row)
	}
	return nil
}

func runDelete(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	db := fs.String("db", "maps.db", "map library database")
	name := fs.String("name", "", "map name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	store, err := mapstore.Open(*db)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.DeleteMap(ctx, *name); err != nil {
		return err
	}
	fmt.Fprintf(out, "deleted %s\n", *name)
	return nil
}

func runPath(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("path", flag.ContinueOnError)
	var grid config.GridConfig
	fs.StringVar(&grid.MapStore, "db", "", "map library database")
	fs.StringVar(&grid.MapName, "name", "", "stored map name")
	fs.StringVar(&grid.MapFile, "map", "", "YAML map file")
	fs.StringVar(&grid.DefinitionsFile, "defs", "", "tile definitions file")
	fs.Float64Var(&grid.HexSize, "hex-size", 1, "hex size for world positions")
	from := fs.String("from", "", "start tile as q,r")
	to := fs.String("to", "", "goal tile as q,r")
	maxHops := fs.Int("max-hops", 0, "truncate the path to this many steps (0 = unbounded)")
	heuristic := fs.String("heuristic", "hex", "search heuristic: hex or euclidean")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if grid.MapFile == "" && (grid.MapStore == "" || grid.MapName == "") {
		return fmt.Errorf("%w: path needs -map or -db with -name", errUsage)
	}
	start, err := parseCoord(*from)
	if err != nil {
		return err
	}
	goal, err := parseCoord(*to)
	if err != nil {
		return err
	}
	h, ok := pathfind.HeuristicByName(*heuristic)
	if !ok {
		return fmt.Errorf("%w: unknown heuristic %q", errUsage, *heuristic)
	}

	g, _, err := maploader.Build(ctx, grid)
	if err != nil {
		return err
	}
	path, err := pathfind.FindPath(g, start, goal, pathfind.Unoccupied,
		pathfind.WithHeuristic(h), pathfind.WithMaxHops(*maxHops))
	if err != nil {
		return err
	}
	for i, t := range path {
		fmt.Fprintf(out, "%d\t%s\t%s\t(%.2f, %.2f)\n", i, t.Coord, t.Kind, t.World.X, t.World.Y)
	}
	return nil
}

func parseCoord(s string) (hexgrid.GridCoordinate, error) {
	qs, rs, ok := strings.Cut(s, ",")
	if !ok {
		return hexgrid.GridCoordinate{}, fmt.Errorf("%w: coordinate %q must be q,r", errUsage, s)
	}
	q, err := strconv.Atoi(strings.TrimSpace(qs))
	if err != nil {
		return hexgrid.GridCoordinate{}, fmt.Errorf("coordinate %q: %w", s, err)
	}
	r, err := strconv.Atoi(strings.TrimSpace(rs))
	if err != nil {
		return hexgrid.GridCoordinate{}, fmt.Errorf("coordinate %q: %w", s, err)
	}
	return hexgrid.GridCoordinate{Q: q, R: r}, nil
}
