package server

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gravitas-games/mechtactics/internal/board"
	"github.com/gravitas-games/mechtactics/internal/config"
	"github.com/gravitas-games/mechtactics/internal/hexgrid"
	"github.com/gravitas-games/mechtactics/internal/network"
	"github.com/gravitas-games/mechtactics/internal/pathfind"
	"github.com/gravitas-games/mechtactics/internal/tiledef"
	"github.com/gravitas-games/mechtactics/pkg/models"
)

var (
	ErrSessionFull = errors.New("session is full")
	ErrNotOwner    = errors.New("unit belongs to another team")
)

// Session represents one battle on one grid
type Session struct {
	ID        string
	CreatedAt time.Time

	// Player management
	players     map[string]*models.Player // playerID -> Player
	connections map[string]*Connection    // playerID -> Connection
	mu          sync.RWMutex
	state       string
	joined      int

	// world guards the grid topology. Searches hold it for reading so a
	// rebuild cannot swap tiles mid-call; the board locks itself.
	world     sync.RWMutex
	grid      *hexgrid.Grid
	hexSize   float64
	registry  *tiledef.Registry
	board     *board.Board
	events    *board.SimpleEventBus
	heuristic pathfind.Heuristic

	config *config.Config
}

// NewSession creates a session over a built grid
func NewSession(id string, cfg *config.Config, grid *hexgrid.Grid, reg *tiledef.Registry) (*Session, error) {
	if grid == nil {
		return nil, errors.New("session requires a grid")
	}
	if reg == nil {
		reg = tiledef.NewRegistry(tiledef.Defaults()...)
	}
	heuristic, ok := pathfind.HeuristicByName(cfg.Pathing.Heuristic)
	if !ok {
		log.Printf("Unknown heuristic %q, using hex distance", cfg.Pathing.Heuristic)
	}

	events := board.NewSimpleEventBus()
	s := &Session{
		ID:          id,
		CreatedAt:   time.Now(),
		players:     make(map[string]*models.Player),
		connections: make(map[string]*Connection),
		state:       "waiting",
		grid:        grid,
		hexSize:     cfg.Grid.HexSize,
		registry:    reg,
		events:      events,
		board:       board.New(grid, board.WithEventBus(events)),
		heuristic:   heuristic,
		config:      cfg,
	}
	events.Subscribe("session", s.broadcastEvent)

	log.Printf("Session %s created with %d tiles", id, grid.Len())
	return s, nil
}

// Events exposes the board event bus so other sinks can subscribe.
func (s *Session) Events() board.EventBus { return s.events }

// Board returns the session's occupancy board.
func (s *Session) Board() *board.Board { return s.board }

// AddPlayer adds a player to the session and assigns a mech team
func (s *Session) AddPlayer(player *models.Player, conn *Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.players[player.ID]; !exists && len(s.players) >= s.config.Session.MaxPlayers {
		return ErrSessionFull
	}
	if player.Team == 0 {
		player.Team = s.joined%s.config.Session.Teams + 1
		s.joined++
	}

	s.players[player.ID] = player
	s.connections[player.ID] = conn
	s.state = "running"

	log.Printf("Player %s (%s) joined session %s on team %d", player.Username, player.ID, s.ID, player.Team)
	return nil
}

// RemovePlayer removes a player from the session
func (s *Session) RemovePlayer(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if player, exists := s.players[playerID]; exists {
		log.Printf("Player %s (%s) left session %s", player.Username, playerID, s.ID)
		delete(s.players, playerID)
		delete(s.connections, playerID)
		if len(s.players) == 0 {
			s.state = "waiting"
		}
	}
}

// GetPlayer retrieves a player by ID
func (s *Session) GetPlayer(playerID string) (*models.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	player, exists := s.players[playerID]
	return player, exists
}

// GetPlayers returns all players in the session
func (s *Session) GetPlayers() []*models.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := make([]*models.Player, 0, len(s.players))
	for _, player := range s.players {
		players = append(players, player)
	}
	return players
}

// BroadcastMessage sends a message to all connected players
func (s *Session) BroadcastMessage(msg *network.ServerMessage) {
	s.BroadcastExcept(nil, msg)
}

// BroadcastExcept sends a message to all players except the specified connection
func (s *Session) BroadcastExcept(exclude *Connection, msg *network.ServerMessage) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, conn := range s.connections {
		if conn != nil && conn != exclude {
			conn.SendMessage(msg)
		}
	}
}

// broadcastEvent turns board events into client messages
func (s *Session) broadcastEvent(ev board.Event) {
	var msg *network.ServerMessage
	switch ev.Type {
	case board.EventUnitPlaced:
		u, ok := s.board.Unit(ev.UnitID)
		if !ok {
			return
		}
		msg = &network.ServerMessage{
			Type:    network.MsgTypeUnitPlaced,
			Payload: network.UnitPayload{Unit: u, Coord: ev.To},
		}
	case board.EventUnitRemoved:
		msg = &network.ServerMessage{
			Type:    network.MsgTypeUnitRemoved,
			Payload: network.UnitRemovedPayload{UnitID: ev.UnitID.String(), From: ev.From},
		}
	case board.EventUnitMoved:
		msg = &network.ServerMessage{
			Type:    network.MsgTypeUnitMoved,
			Payload: network.UnitMovedPayload{UnitID: ev.UnitID.String(), From: ev.From, To: ev.To},
		}
	case board.EventArtifactsChanged:
		msg = &network.ServerMessage{
			Type:    network.MsgTypeArtifactsChanged,
			Payload: network.ArtifactsPayload{Coord: ev.To, Count: ev.Artifacts},
		}
	default:
		return
	}
	s.BroadcastMessage(msg)
}

// GetStatus returns the current session status
func (s *Session) GetStatus() network.SessionStatus {
	s.mu.RLock()
	status := network.SessionStatus{
		State:       s.state,
		PlayerCount: len(s.players),
		MaxPlayers:  s.config.Session.MaxPlayers,
		Uptime:      int64(time.Since(s.CreatedAt).Seconds()),
	}
	s.mu.RUnlock()

	s.world.RLock()
	status.Tiles = s.grid.Len()
	s.world.RUnlock()
	status.Units = len(s.board.Units())
	return status
}

// Rebuild replaces the grid with the tiles of src and clears the board. On
// error the old grid and units stay in place.
func (s *Session) Rebuild(src hexgrid.Source) error {
	excluded := make([]hexgrid.Kind, 0, len(s.config.Grid.Excluded))
	for _, k := range s.config.Grid.Excluded {
		excluded = append(excluded, hexgrid.Kind(k))
	}

	s.world.Lock()
	defer s.world.Unlock()
	if err := s.grid.Rebuild(src, s.registry.Exclusions(excluded...)); err != nil {
		return fmt.Errorf("failed to rebuild grid: %w", err)
	}
	s.board.Clear()
	log.Printf("Session %s rebuilt grid with %d tiles", s.ID, s.grid.Len())
	return nil
}

// tileView must be called with the world lock held.
func (s *Session) tileView(t *hexgrid.Tile) network.TileView {
	dirs := t.Neighbors.Directions()
	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = d.String()
	}
	v := network.TileView{
		Coord:     t.Coord,
		Kind:      t.Kind,
		Name:      t.Name(),
		X:         t.World.X,
		Y:         t.World.Y,
		Neighbors: names,
		Artifacts: s.board.Artifacts(t.Coord),
	}
	if def, ok := s.registry.Lookup(t.Kind); ok && def.Name != "" {
		v.Name = fmt.Sprintf("%s %s", def.Name, t.Coord)
	}
	if u, err := s.board.OccupantAt(t.Coord); err == nil {
		v.Occupant = u.ID.String()
	}
	return v
}

func (s *Session) tileViews(tiles []*hexgrid.Tile) []network.TileView {
	out := make([]network.TileView, len(tiles))
	for i, t := range tiles {
		out[i] = s.tileView(t)
	}
	return out
}

// GridState returns every tile and unit
func (s *Session) GridState() network.GridPayload {
	s.world.RLock()
	defer s.world.RUnlock()

	placements := s.board.Units()
	units := make([]network.UnitPayload, len(placements))
	for i, p := range placements {
		units[i] = network.UnitPayload{Unit: p.Unit, Coord: p.Coord}
	}
	return network.GridPayload{
		HexSize: s.hexSize,
		Tiles:   s.tileViews(s.grid.Tiles()),
		Units:   units,
	}
}

// TileAt returns the tile at c
func (s *Session) TileAt(c hexgrid.GridCoordinate) (network.TileView, error) {
	s.world.RLock()
	defer s.world.RUnlock()

	t, ok := s.grid.TileAt(c)
	if !ok {
		return network.TileView{}, fmt.Errorf("tile %s: %w", c, pathfind.ErrTileNotFound)
	}
	return s.tileView(t), nil
}

// ClosestTile returns the tile under world position p
func (s *Session) ClosestTile(p hexgrid.Point) (network.TileView, error) {
	s.world.RLock()
	defer s.world.RUnlock()

	t, ok := s.grid.ClosestTile(p)
	if !ok {
		return network.TileView{}, fmt.Errorf("no tile under (%g, %g): %w", p.X, p.Y, pathfind.ErrTileNotFound)
	}
	return s.tileView(t), nil
}

// FindPath routes between two tiles around current units
func (s *Session) FindPath(from, to hexgrid.GridCoordinate, maxHops int) (network.PathPayload, error) {
	s.world.RLock()
	defer s.world.RUnlock()

	path, err := pathfind.FindPath(s.grid, from, to, s.board.Snapshot(),
		pathfind.WithHeuristic(s.heuristic), pathfind.WithMaxHops(maxHops))
	if err != nil {
		return network.PathPayload{}, err
	}
	return s.pathPayload(from, to, path), nil
}

func (s *Session) pathPayload(from, to hexgrid.GridCoordinate, path []*hexgrid.Tile) network.PathPayload {
	return network.PathPayload{
		From:      from,
		To:        to,
		Tiles:     s.tileViews(path),
		Hops:      len(path) - 1,
		Truncated: path[len(path)-1].Coord != to,
	}
}

// Reachable lists the tiles a unit at from could move to. A budget of zero or
// less uses the configured default move range.
func (s *Session) Reachable(from hexgrid.GridCoordinate, maxHops int) (network.ReachPayload, error) {
	if maxHops <= 0 {
		maxHops = s.config.Pathing.DefaultMoveRange
	}

	s.world.RLock()
	defer s.world.RUnlock()

	reach, err := pathfind.Reachable(s.grid, from, s.board.Snapshot(), maxHops)
	if err != nil {
		return network.ReachPayload{}, err
	}
	out := network.ReachPayload{From: from, Tiles: make([]network.ReachView, len(reach))}
	for i, r := range reach {
		out.Tiles[i] = network.ReachView{TileView: s.tileView(r.Tile), Hops: r.Hops}
	}
	return out, nil
}

// PlaceUnit spawns a unit for player at req.Coord
func (s *Session) PlaceUnit(player *models.Player, req network.PlaceUnitPayload) (*models.Unit, error) {
	faction := req.Faction
	if faction == "" {
		faction = models.FactionMech
	}
	moveRange := req.MoveRange
	if moveRange <= 0 {
		moveRange = s.config.Pathing.DefaultMoveRange
	}
	name := req.Name
	if name == "" {
		name = string(faction)
	}
	u, err := models.NewUnit(name, faction, player.Team, moveRange)
	if err != nil {
		return nil, err
	}

	s.world.RLock()
	defer s.world.RUnlock()
	if err := s.board.Place(u, req.Coord); err != nil {
		return nil, err
	}
	log.Printf("Player %s placed %s at %s", player.Username, u, req.Coord)
	return u, nil
}

// lookupUnit resolves id and checks player may command it. Aliens have no
// owner and answer to anyone.
func (s *Session) lookupUnit(player *models.Player, id string) (*models.Unit, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("unit id %q: %w", id, board.ErrUnitNotFound)
	}
	u, ok := s.board.Unit(uid)
	if !ok {
		return nil, fmt.Errorf("unit %s: %w", uid, board.ErrUnitNotFound)
	}
	if u.Faction == models.FactionMech && !player.Owns(u) {
		return nil, ErrNotOwner
	}
	return u, nil
}

// RemoveUnit takes one of player's units off the board
func (s *Session) RemoveUnit(player *models.Player, id string) error {
	s.world.RLock()
	defer s.world.RUnlock()

	u, err := s.lookupUnit(player, id)
	if err != nil {
		return err
	}
	_, err = s.board.Remove(u.ID)
	return err
}

// MoveUnit walks a unit toward to, as far as its move range allows, and
// returns the route taken.
func (s *Session) MoveUnit(player *models.Player, id string, to hexgrid.GridCoordinate) (network.PathPayload, error) {
	// Exclusive so two moves cannot plan against the same snapshot.
	s.world.Lock()
	defer s.world.Unlock()

	u, err := s.lookupUnit(player, id)
	if err != nil {
		return network.PathPayload{}, err
	}
	from, _ := s.board.PositionOf(u.ID)
	path, err := pathfind.FindPath(s.grid, from, to, s.board.Snapshot(),
		pathfind.WithHeuristic(s.heuristic), pathfind.WithMaxHops(u.MoveRange))
	if err != nil {
		return network.PathPayload{}, err
	}
	dest := path[len(path)-1].Coord
	if err := s.board.Move(u.ID, dest); err != nil {
		return network.PathPayload{}, err
	}

	out := s.pathPayload(from, to, path)
	out.UnitID = u.ID.String()
	return out, nil
}

// ChangeArtifacts adjusts the artifact pile at c
func (s *Session) ChangeArtifacts(c hexgrid.GridCoordinate, delta int) (int, error) {
	s.world.RLock()
	defer s.world.RUnlock()
	return s.board.ChangeArtifacts(c, delta)
}

// errorCode maps domain errors to protocol error codes
func errorCode(err error) string {
	switch {
	case errors.Is(err, pathfind.ErrNoPath):
		return "no_path"
	case errors.Is(err, pathfind.ErrSameTile):
		return "same_tile"
	case errors.Is(err, pathfind.ErrEmptyGrid):
		return "empty_grid"
	case errors.Is(err, pathfind.ErrTileNotFound), errors.Is(err, board.ErrTileNotFound):
		return "tile_not_found"
	case errors.Is(err, board.ErrOccupied):
		return "occupied"
	case errors.Is(err, board.ErrUnitNotFound):
		return "unit_not_found"
	case errors.Is(err, board.ErrUnitPlaced):
		return "unit_placed"
	case errors.Is(err, ErrNotOwner):
		return "forbidden"
	case errors.Is(err, models.ErrUnknownFaction):
		return "invalid_unit"
	case errors.Is(err, ErrSessionFull):
		return "session_full"
	default:
		return "internal"
	}
}
