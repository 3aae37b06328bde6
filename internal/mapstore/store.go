// Package mapstore keeps a library of authored map layouts in SQLite so
// editors and the server can share them by name. It stores layouts only;
// live game state never lands here.
package mapstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/gravitas-games/mechtactics/internal/hexgrid"
	"github.com/gravitas-games/mechtactics/internal/tilemap"
)

// ErrMapNotFound is returned when no layout is stored under a name.
var ErrMapNotFound = errors.New("mapstore: map not found")

// MapInfo summarizes a stored layout.
type MapInfo struct {
	Name      string    `json:"name"`
	Tiles     int       `json:"tiles"`
	UpdatedAt time.Time `json:"updated_at"`
}

type mapRow struct {
	Name      string `db:"name"`
	Tiles     int    `db:"tiles"`
	UpdatedAt int64  `db:"updated_at"` // unix seconds
}

type tileRow struct {
	Q    int    `db:"q"`
	R    int    `db:"r"`
	Kind string `db:"kind"`
}

// Store wraps a SQLite connection.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates a store at path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS maps (
		name TEXT PRIMARY KEY,
		tiles INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS map_tiles (
		map_name TEXT NOT NULL,
		q INTEGER NOT NULL,
		r INTEGER NOT NULL,
		kind TEXT NOT NULL,
		PRIMARY KEY (map_name, q, r)
	);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// SaveMap stores every tile of src under name, replacing any previous layout.
func (s *Store) SaveMap(ctx context.Context, name string, src hexgrid.Source) error {
	if name == "" {
		return errors.New("mapstore: map name required")
	}
	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM map_tiles WHERE map_name = ?", name); err != nil {
		return err
	}

	stmt, err := tx.PreparexContext(ctx, "INSERT INTO map_tiles (map_name, q, r, kind) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	count := 0
	b := src.Bounds()
	for q := b.MinQ; q < b.MaxQ; q++ {
		for r := b.MinR; r < b.MaxR; r++ {
			kind, ok := src.KindAt(hexgrid.GridCoordinate{Q: q, R: r})
			if !ok {
				continue
			}
			if _, err := stmt.ExecContext(ctx, name, q, r, string(kind)); err != nil {
				return fmt.Errorf("insert tile (%d, %d): %w", q, r, err)
			}
			count++
		}
	}
	if count == 0 {
		return fmt.Errorf("save %s: %w", name, hexgrid.ErrEmptySource)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO maps (name, tiles, updated_at) VALUES (?, ?, ?)",
		name, count, time.Now().Unix(),
	); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("map saved", "name", name, "tiles", count)
	return nil
}

// LoadMap reads the layout stored under name.
func (s *Store) LoadMap(ctx context.Context, name string) (*tilemap.Sparse, error) {
	var rows []tileRow
	if err := s.conn.SelectContext(ctx, &rows,
		"SELECT q, r, kind FROM map_tiles WHERE map_name = ? ORDER BY q, r", name,
	); err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMapNotFound, name)
	}
	src := tilemap.NewSparse()
	for _, row := range rows {
		src.Set(hexgrid.GridCoordinate{Q: row.Q, R: row.R}, hexgrid.Kind(row.Kind))
	}
	return src, nil
}

// ListMaps returns every stored layout ordered by name.
func (s *Store) ListMaps(ctx context.Context) ([]MapInfo, error) {
	var rows []mapRow
	if err := s.conn.SelectContext(ctx, &rows, "SELECT name, tiles, updated_at FROM maps ORDER BY name"); err != nil {
		return nil, err
	}
	maps := make([]MapInfo, len(rows))
	for i, r := range rows {
		maps[i] = MapInfo{Name: r.Name, Tiles: r.Tiles, UpdatedAt: time.Unix(r.UpdatedAt, 0).UTC()}
	}
	return maps, nil
}

// DeleteMap removes a layout.
func (s *Store) DeleteMap(ctx context.Context, name string) error {
	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM maps WHERE name = ?", name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrMapNotFound, name)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM map_tiles WHERE map_name = ?", name); err != nil {
		return err
	}
	return tx.Commit()
}
