package server

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gravitas-games/mechtactics/internal/hexgrid"
	"github.com/gravitas-games/mechtactics/internal/network"
	"github.com/gravitas-games/mechtactics/pkg/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	// WebSocket connection
	ws *websocket.Conn

	// Server reference
	server *Server

	// Player information (set after authentication)
	player *models.Player

	// Buffered channel for outbound messages
	send chan []byte

	// Is connection authenticated
	authenticated bool

	// Has the player joined the session
	joined bool

	closeOnce sync.Once
}

// NewConnection creates a new connection
func NewConnection(ws *websocket.Conn, server *Server) *Connection {
	return &Connection{
		ws:            ws,
		server:        server,
		send:          make(chan []byte, 256),
		authenticated: false,
	}
}

// Handle manages the connection lifecycle
func (c *Connection) Handle() {
	// Set up connection parameters
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Start read and write pumps
	go c.writePump()
	c.readPump() // Blocking
}

// readPump pumps messages from the WebSocket connection to the server
func (c *Connection) readPump() {
	defer func() {
		c.Close()
	}()

	for {
		// Read message
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		// Parse message
		var clientMsg network.ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			log.Printf("Failed to parse client message: %v", err)
			c.SendError("invalid_message", "Failed to parse message")
			continue
		}

		// Handle message based on type
		c.handleMessage(&clientMsg)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// Write message
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("WebSocket write error: %v", err)
				return
			}

		case <-ticker.C:
			// Send ping
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage routes messages to appropriate handlers
func (c *Connection) handleMessage(msg *network.ClientMessage) {
	if !c.authenticated || c.player == nil {
		c.SendError("not_authenticated", "Connection not authenticated")
		return
	}

	switch msg.Type {
	case network.MsgTypeJoin:
		c.handleJoin()
	case network.MsgTypeLeave:
		c.handleLeave()
	case network.MsgTypePing:
		c.handlePing()
	case network.MsgTypeGrid:
		c.SendMessage(&network.ServerMessage{Type: network.MsgTypeGridState, Payload: c.server.session.GridState()})
	case network.MsgTypeTileAt:
		c.handleTileAt(msg.Payload)
	case network.MsgTypeClosestTile:
		c.handleClosestTile(msg.Payload)
	case network.MsgTypeFindPath:
		c.handleFindPath(msg.Payload)
	case network.MsgTypeReachable:
		c.handleReachable(msg.Payload)
	case network.MsgTypePlaceUnit:
		c.handlePlaceUnit(msg.Payload)
	case network.MsgTypeRemoveUnit:
		c.handleRemoveUnit(msg.Payload)
	case network.MsgTypeMoveUnit:
		c.handleMoveUnit(msg.Payload)
	case network.MsgTypeChangeArtifacts:
		c.handleChangeArtifacts(msg.Payload)
	default:
		log.Printf("Unknown message type: %s", msg.Type)
		c.SendError("unknown_message_type", "Unknown message type")
	}
}

// decode parses a payload, replying with an error when it is malformed
func (c *Connection) decode(payload json.RawMessage, v interface{}) bool {
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	if err := json.Unmarshal(payload, v); err != nil {
		log.Printf("Failed to parse payload from %s: %v", c.player.Username, err)
		c.SendError("invalid_payload", "Failed to parse payload")
		return false
	}
	return true
}

// requireJoined rejects commands from players outside the session
func (c *Connection) requireJoined() bool {
	if !c.joined {
		c.SendError("not_joined", "Join the session first")
		return false
	}
	return true
}

func (c *Connection) sendFailure(err error) {
	c.SendError(errorCode(err), err.Error())
}

// handleJoin handles player join requests
func (c *Connection) handleJoin() {
	session := c.server.session

	c.player.Connected = true
	c.player.ConnectedAt = time.Now()
	c.player.SessionID = session.ID

	if err := session.AddPlayer(c.player, c); err != nil {
		log.Printf("Failed to add player to session: %v", err)
		c.sendFailure(err)
		return
	}
	c.joined = true

	c.SendMessage(&network.ServerMessage{
		Type: network.MsgTypeWelcome,
		Payload: network.WelcomePayload{
			PlayerID:      c.player.ID,
			Username:      c.player.Username,
			SessionID:     session.ID,
			Team:          c.player.Team,
			SessionStatus: session.GetStatus(),
		},
	})
	c.SendMessage(&network.ServerMessage{Type: network.MsgTypeGridState, Payload: session.GridState()})

	session.BroadcastExcept(c, &network.ServerMessage{
		Type: network.MsgTypePlayerJoined,
		Payload: network.PlayerJoinedPayload{
			PlayerID: c.player.ID,
			Username: c.player.Username,
			Team:     c.player.Team,
		},
	})
}

// handleLeave handles player leave requests
func (c *Connection) handleLeave() {
	if !c.joined {
		return
	}
	c.joined = false
	c.player.Connected = false
	c.server.session.RemovePlayer(c.player.ID)

	c.server.session.BroadcastMessage(&network.ServerMessage{
		Type: network.MsgTypePlayerLeft,
		Payload: network.PlayerLeftPayload{
			PlayerID: c.player.ID,
			Username: c.player.Username,
		},
	})
}

// handlePing handles ping requests
func (c *Connection) handlePing() {
	c.SendMessage(&network.ServerMessage{
		Type:    network.MsgTypePong,
		Payload: map[string]interface{}{"timestamp": time.Now().Unix()},
	})
}

func (c *Connection) handleTileAt(payload json.RawMessage) {
	var req network.TileAtPayload
	if !c.decode(payload, &req) {
		return
	}
	tile, err := c.server.session.TileAt(req.Coord)
	if err != nil {
		c.sendFailure(err)
		return
	}
	c.SendMessage(&network.ServerMessage{Type: network.MsgTypeTile, Payload: tile})
}

func (c *Connection) handleClosestTile(payload json.RawMessage) {
	var req network.ClosestTilePayload
	if !c.decode(payload, &req) {
		return
	}
	tile, err := c.server.session.ClosestTile(hexgrid.Point{X: req.X, Y: req.Y})
	if err != nil {
		c.sendFailure(err)
		return
	}
	c.SendMessage(&network.ServerMessage{Type: network.MsgTypeTile, Payload: tile})
}

func (c *Connection) handleFindPath(payload json.RawMessage) {
	var req network.FindPathPayload
	if !c.decode(payload, &req) {
		return
	}
	path, err := c.server.session.FindPath(req.From, req.To, req.MaxHops)
	if err != nil {
		c.sendFailure(err)
		return
	}
	c.SendMessage(&network.ServerMessage{Type: network.MsgTypePath, Payload: path})
}

func (c *Connection) handleReachable(payload json.RawMessage) {
	var req network.ReachablePayload
	if !c.decode(payload, &req) {
		return
	}
	reach, err := c.server.session.Reachable(req.From, req.MaxHops)
	if err != nil {
		c.sendFailure(err)
		return
	}
	c.SendMessage(&network.ServerMessage{Type: network.MsgTypeReach, Payload: reach})
}

// Unit changes reach clients, this one included, through the board event
// broadcast, so the handlers below only answer errors and paths.

func (c *Connection) handlePlaceUnit(payload json.RawMessage) {
	var req network.PlaceUnitPayload
	if !c.requireJoined() || !c.decode(payload, &req) {
		return
	}
	if _, err := c.server.session.PlaceUnit(c.player, req); err != nil {
		c.sendFailure(err)
	}
}

func (c *Connection) handleRemoveUnit(payload json.RawMessage) {
	var req network.RemoveUnitPayload
	if !c.requireJoined() || !c.decode(payload, &req) {
		return
	}
	if err := c.server.session.RemoveUnit(c.player, req.UnitID); err != nil {
		c.sendFailure(err)
	}
}

func (c *Connection) handleMoveUnit(payload json.RawMessage) {
	var req network.MoveUnitPayload
	if !c.requireJoined() || !c.decode(payload, &req) {
		return
	}
	path, err := c.server.session.MoveUnit(c.player, req.UnitID, req.To)
	if err != nil {
		c.sendFailure(err)
		return
	}
	c.SendMessage(&network.ServerMessage{Type: network.MsgTypePath, Payload: path})
}

func (c *Connection) handleChangeArtifacts(payload json.RawMessage) {
	var req network.ChangeArtifactsPayload
	if !c.requireJoined() || !c.decode(payload, &req) {
		return
	}
	if _, err := c.server.session.ChangeArtifacts(req.Coord, req.Delta); err != nil {
		c.sendFailure(err)
	}
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *network.ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal message: %v", err)
		return
	}

	select {
	case c.send <- data:
	default:
		log.Printf("Send buffer full, dropping message")
	}
}

// SendError sends an error message to the client
func (c *Connection) SendError(code, message string) {
	c.SendMessage(&network.ServerMessage{
		Type: network.MsgTypeError,
		Payload: network.ErrorPayload{
			Code:    code,
			Message: message,
		},
	})
}

// Close closes the connection. Safe to call more than once.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		if c.authenticated && c.player != nil {
			c.handleLeave()
		}
		close(c.send)
		if c.ws != nil {
			c.ws.Close()
		}
	})
}
