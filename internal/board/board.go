// Package board tracks which unit stands on which tile of a grid, along with
// the artifact piles left on tiles. It is the occupancy provider for path
// searches.
package board

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gravitas-games/mechtactics/internal/hexgrid"
	"github.com/gravitas-games/mechtactics/internal/pathfind"
	"github.com/gravitas-games/mechtactics/pkg/models"
)

var (
	ErrTileNotFound = errors.New("board: tile not found")
	ErrOccupied     = errors.New("board: tile occupied")
	ErrVacant       = errors.New("board: tile vacant")
	ErrUnitPlaced   = errors.New("board: unit already placed")
	ErrUnitNotFound = errors.New("board: unit not on board")
)

// Tiles is the part of a grid the board checks placements against.
type Tiles interface {
	TileAt(c hexgrid.GridCoordinate) (*hexgrid.Tile, bool)
}

// Option configures a Board.
type Option func(*Board)

// WithEventBus publishes board changes to bus.
func WithEventBus(bus EventBus) Option {
	return func(b *Board) {
		if bus != nil {
			b.bus = bus
		}
	}
}

// Board is safe for concurrent use.
type Board struct {
	mu        sync.RWMutex
	tiles     Tiles
	occupants map[hexgrid.GridCoordinate]*models.Unit
	positions map[uuid.UUID]hexgrid.GridCoordinate
	artifacts map[hexgrid.GridCoordinate]int
	bus       EventBus
	now       func() time.Time
}

// New creates an empty board over tiles.
func New(tiles Tiles, opts ...Option) *Board {
	b := &Board{
		tiles:     tiles,
		occupants: make(map[hexgrid.GridCoordinate]*models.Unit),
		positions: make(map[uuid.UUID]hexgrid.GridCoordinate),
		artifacts: make(map[hexgrid.GridCoordinate]int),
		bus:       NullEventBus{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Board) exists(c hexgrid.GridCoordinate) bool {
	if b.tiles == nil {
		return false
	}
	_, ok := b.tiles.TileAt(c)
	return ok
}

// Place puts u on the free tile at c.
func (b *Board) Place(u *models.Unit, c hexgrid.GridCoordinate) error {
	if u == nil {
		return errors.New("board: nil unit")
	}
	b.mu.Lock()
	if !b.exists(c) {
		b.mu.Unlock()
		return fmt.Errorf("place %s: %w", c, ErrTileNotFound)
	}
	if _, ok := b.positions[u.ID]; ok {
		b.mu.Unlock()
		return fmt.Errorf("place %s: %w", u.ID, ErrUnitPlaced)
	}
	if _, ok := b.occupants[c]; ok {
		b.mu.Unlock()
		return fmt.Errorf("place %s: %w", c, ErrOccupied)
	}
	b.occupants[c] = u
	b.positions[u.ID] = c
	ev := Event{Type: EventUnitPlaced, UnitID: u.ID, To: c, Timestamp: b.now()}
	b.mu.Unlock()

	b.bus.Publish(ev)
	return nil
}

// Remove takes the unit off the board and returns the tile it stood on.
func (b *Board) Remove(id uuid.UUID) (hexgrid.GridCoordinate, error) {
	b.mu.Lock()
	c, ok := b.positions[id]
	if !ok {
		b.mu.Unlock()
		return hexgrid.GridCoordinate{}, fmt.Errorf("remove %s: %w", id, ErrUnitNotFound)
	}
	delete(b.positions, id)
	delete(b.occupants, c)
	ev := Event{Type: EventUnitRemoved, UnitID: id, From: c, Timestamp: b.now()}
	b.mu.Unlock()

	b.bus.Publish(ev)
	return c, nil
}

// Move relocates a placed unit to the free tile at to. Moving onto the tile
// the unit already holds is a no-op.
func (b *Board) Move(id uuid.UUID, to hexgrid.GridCoordinate) error {
	b.mu.Lock()
	from, ok := b.positions[id]
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("move %s: %w", id, ErrUnitNotFound)
	}
	if from == to {
		b.mu.Unlock()
		return nil
	}
	if !b.exists(to) {
		b.mu.Unlock()
		return fmt.Errorf("move to %s: %w", to, ErrTileNotFound)
	}
	if _, taken := b.occupants[to]; taken {
		b.mu.Unlock()
		return fmt.Errorf("move to %s: %w", to, ErrOccupied)
	}
	u := b.occupants[from]
	delete(b.occupants, from)
	b.occupants[to] = u
	b.positions[id] = to
	ev := Event{Type: EventUnitMoved, UnitID: id, From: from, To: to, Timestamp: b.now()}
	b.mu.Unlock()

	b.bus.Publish(ev)
	return nil
}

// OccupantAt returns the unit standing at c.
func (b *Board) OccupantAt(c hexgrid.GridCoordinate) (*models.Unit, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	u, ok := b.occupants[c]
	if !ok {
		return nil, fmt.Errorf("occupant of %s: %w", c, ErrVacant)
	}
	return u, nil
}

// PositionOf returns the tile the unit stands on.
func (b *Board) PositionOf(id uuid.UUID) (hexgrid.GridCoordinate, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, ok := b.positions[id]
	return c, ok
}

// Unit returns the placed unit with id.
func (b *Board) Unit(id uuid.UUID) (*models.Unit, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, ok := b.positions[id]
	if !ok {
		return nil, false
	}
	return b.occupants[c], true
}

// Occupied reports whether a unit stands at c. It reads live state; use
// Snapshot for a search.
func (b *Board) Occupied(c hexgrid.GridCoordinate) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.occupants[c]
	return ok
}

// Snapshot copies the current occupancy into a predicate that later board
// changes do not affect.
func (b *Board) Snapshot() pathfind.Occupancy {
	b.mu.RLock()
	set := make(map[hexgrid.GridCoordinate]struct{}, len(b.occupants))
	for c := range b.occupants {
		set[c] = struct{}{}
	}
	b.mu.RUnlock()
	return func(c hexgrid.GridCoordinate) bool {
		_, ok := set[c]
		return ok
	}
}

// Placement pairs a unit with its tile.
type Placement struct {
	Unit  *models.Unit           `json:"unit"`
	Coord hexgrid.GridCoordinate `json:"coord"`
}

// Units lists every placed unit ordered by tile.
func (b *Board) Units() []Placement {
	b.mu.RLock()
	out := make([]Placement, 0, len(b.occupants))
	for c, u := range b.occupants {
		out = append(out, Placement{Unit: u, Coord: c})
	}
	b.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Coord.Q != out[j].Coord.Q {
			return out[i].Coord.Q < out[j].Coord.Q
		}
		return out[i].Coord.R < out[j].Coord.R
	})
	return out
}

// ChangeArtifacts adds delta to the artifact count at c. Counts never drop
// below zero. Returns the new count.
func (b *Board) ChangeArtifacts(c hexgrid.GridCoordinate, delta int) (int, error) {
	b.mu.Lock()
	if !b.exists(c) {
		b.mu.Unlock()
		return 0, fmt.Errorf("artifacts at %s: %w", c, ErrTileNotFound)
	}
	n := b.artifacts[c] + delta
	if n < 0 {
		n = 0
	}
	if n == 0 {
		delete(b.artifacts, c)
	} else {
		b.artifacts[c] = n
	}
	ev := Event{Type: EventArtifactsChanged, To: c, Artifacts: n, Timestamp: b.now()}
	b.mu.Unlock()

	b.bus.Publish(ev)
	return n, nil
}

// Artifacts returns the artifact count at c.
func (b *Board) Artifacts(c hexgrid.GridCoordinate) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.artifacts[c]
}

// Clear removes every unit and artifact, publishing a removal per unit.
// Used after the grid is rebuilt.
func (b *Board) Clear() {
	b.mu.Lock()
	events := make([]Event, 0, len(b.positions))
	now := b.now()
	for id, c := range b.positions {
		events = append(events, Event{Type: EventUnitRemoved, UnitID: id, From: c, Timestamp: now})
	}
	b.occupants = make(map[hexgrid.GridCoordinate]*models.Unit)
	b.positions = make(map[uuid.UUID]hexgrid.GridCoordinate)
	b.artifacts = make(map[hexgrid.GridCoordinate]int)
	b.mu.Unlock()

	for _, ev := range events {
		b.bus.Publish(ev)
	}
}
