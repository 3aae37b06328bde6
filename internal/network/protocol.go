package network

import (
	"encoding/json"

	"github.com/gravitas-games/mechtactics/internal/hexgrid"
	"github.com/gravitas-games/mechtactics/pkg/models"
)

// Message types - Client → Server
const (
	MsgTypeJoin            = "join"
	MsgTypeLeave           = "leave"
	MsgTypePing            = "ping"
	MsgTypeGrid            = "grid"
	MsgTypeTileAt          = "tile_at"
	MsgTypeClosestTile     = "closest_tile"
	MsgTypeFindPath        = "find_path"
	MsgTypeReachable       = "reachable"
	MsgTypePlaceUnit       = "place_unit"
	MsgTypeRemoveUnit      = "remove_unit"
	MsgTypeMoveUnit        = "move_unit"
	MsgTypeChangeArtifacts = "change_artifacts"
)

// Message types - Server → Client
const (
	MsgTypeWelcome          = "welcome"
	MsgTypePlayerJoined     = "player_joined"
	MsgTypePlayerLeft       = "player_left"
	MsgTypeError            = "error"
	MsgTypePong             = "pong"
	MsgTypeGridState        = "grid_state"
	MsgTypeTile             = "tile"
	MsgTypePath             = "path"
	MsgTypeReach            = "reach"
	MsgTypeUnitPlaced       = "unit_placed"
	MsgTypeUnitRemoved      = "unit_removed"
	MsgTypeUnitMoved        = "unit_moved"
	MsgTypeArtifactsChanged = "artifacts_changed"
)

// ClientMessage represents any message from client to server
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ServerMessage represents any message from server to client
type ServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// --- Client Message Payloads ---

// TileAtPayload asks for the tile at a coordinate
type TileAtPayload struct {
	Coord hexgrid.GridCoordinate `json:"coord"`
}

// ClosestTilePayload asks for the tile under a world position
type ClosestTilePayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FindPathPayload asks for a route. MaxHops <= 0 means unbounded.
type FindPathPayload struct {
	From    hexgrid.GridCoordinate `json:"from"`
	To      hexgrid.GridCoordinate `json:"to"`
	MaxHops int                    `json:"max_hops,omitempty"`
}

// ReachablePayload asks for every tile within MaxHops of From.
// MaxHops <= 0 uses the server's default move range.
type ReachablePayload struct {
	From    hexgrid.GridCoordinate `json:"from"`
	MaxHops int                    `json:"max_hops,omitempty"`
}

// PlaceUnitPayload spawns a unit. Faction defaults to mech; mechs join the
// sender's team.
type PlaceUnitPayload struct {
	Name      string                 `json:"name"`
	Faction   models.Faction         `json:"faction,omitempty"`
	MoveRange int                    `json:"move_range,omitempty"`
	Coord     hexgrid.GridCoordinate `json:"coord"`
}

// RemoveUnitPayload takes a unit off the board
type RemoveUnitPayload struct {
	UnitID string `json:"unit_id"`
}

// MoveUnitPayload moves a unit toward To, at most its move range
type MoveUnitPayload struct {
	UnitID string                 `json:"unit_id"`
	To     hexgrid.GridCoordinate `json:"to"`
}

// ChangeArtifactsPayload adds Delta artifacts at Coord
type ChangeArtifactsPayload struct {
	Coord hexgrid.GridCoordinate `json:"coord"`
	Delta int                    `json:"delta"`
}

// --- Server Message Payloads ---

// WelcomePayload is sent to client after joining
type WelcomePayload struct {
	PlayerID      string        `json:"player_id"`
	Username      string        `json:"username"`
	SessionID     string        `json:"session_id"`
	Team          int           `json:"team"`
	SessionStatus SessionStatus `json:"session_status"`
}

// PlayerJoinedPayload notifies clients when a player joins
type PlayerJoinedPayload struct {
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
	Team     int    `json:"team"`
}

// PlayerLeftPayload notifies clients when a player leaves
type PlayerLeftPayload struct {
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
}

// SessionStatus represents the current session state
type SessionStatus struct {
	State       string `json:"state"`
	PlayerCount int    `json:"player_count"`
	MaxPlayers  int    `json:"max_players"`
	Tiles       int    `json:"tiles"`
	Units       int    `json:"units"`
	Uptime      int64  `json:"uptime"`
}

// TileView is a tile as clients see it
type TileView struct {
	Coord     hexgrid.GridCoordinate `json:"coord"`
	Kind      hexgrid.Kind           `json:"kind"`
	Name      string                 `json:"name"`
	X         float64                `json:"x"`
	Y         float64                `json:"y"`
	Neighbors []string               `json:"neighbors"`
	Occupant  string                 `json:"occupant,omitempty"`
	Artifacts int                    `json:"artifacts,omitempty"`
}

// UnitPayload is a placed unit
type UnitPayload struct {
	Unit  *models.Unit           `json:"unit"`
	Coord hexgrid.GridCoordinate `json:"coord"`
}

// GridPayload is the full board state
type GridPayload struct {
	HexSize float64       `json:"hex_size"`
	Tiles   []TileView    `json:"tiles"`
	Units   []UnitPayload `json:"units"`
}

// PathPayload answers find_path and move_unit. Truncated is set when the
// route stops before the requested tile.
type PathPayload struct {
	UnitID    string                 `json:"unit_id,omitempty"`
	From      hexgrid.GridCoordinate `json:"from"`
	To        hexgrid.GridCoordinate `json:"to"`
	Tiles     []TileView             `json:"tiles"`
	Hops      int                    `json:"hops"`
	Truncated bool                   `json:"truncated"`
}

// ReachView is a tile with its hop count from the origin
type ReachView struct {
	TileView
	Hops int `json:"hops"`
}

// ReachPayload answers reachable
type ReachPayload struct {
	From  hexgrid.GridCoordinate `json:"from"`
	Tiles []ReachView            `json:"tiles"`
}

// UnitRemovedPayload notifies clients a unit left the board
type UnitRemovedPayload struct {
	UnitID string                 `json:"unit_id"`
	From   hexgrid.GridCoordinate `json:"from"`
}

// UnitMovedPayload notifies clients a unit moved
type UnitMovedPayload struct {
	UnitID string                 `json:"unit_id"`
	From   hexgrid.GridCoordinate `json:"from"`
	To     hexgrid.GridCoordinate `json:"to"`
}

// ArtifactsPayload carries the new artifact count of a tile
type ArtifactsPayload struct {
	Coord hexgrid.GridCoordinate `json:"coord"`
	Count int                    `json:"count"`
}

// ErrorPayload contains error information
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
