package board

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gravitas-games/mechtactics/internal/hexgrid"
)

// EventType identifies a board change.
type EventType int

const (
	EventUnitPlaced EventType = iota
	EventUnitRemoved
	EventUnitMoved
	EventArtifactsChanged
)

func (t EventType) String() string {
	switch t {
	case EventUnitPlaced:
		return "UnitPlaced"
	case EventUnitRemoved:
		return "UnitRemoved"
	case EventUnitMoved:
		return "UnitMoved"
	case EventArtifactsChanged:
		return "ArtifactsChanged"
	default:
		return "Unknown"
	}
}

// Event describes one change. From is set for removals and moves, To for
// placements and moves. Artifacts events carry the new count at To.
type Event struct {
	Type      EventType              `json:"type"`
	UnitID    uuid.UUID              `json:"unit_id"`
	From      hexgrid.GridCoordinate `json:"from"`
	To        hexgrid.GridCoordinate `json:"to"`
	Artifacts int                    `json:"artifacts,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// EventBus delivers board events to subscribers.
type EventBus interface {
	Subscribe(key string, handler func(Event))
	Unsubscribe(key string)
	Publish(event Event)
}

// SimpleEventBus calls every handler synchronously, in key order.
type SimpleEventBus struct {
	mu       sync.RWMutex
	handlers map[string]func(Event)
}

// NewSimpleEventBus creates an empty bus.
func NewSimpleEventBus() *SimpleEventBus {
	return &SimpleEventBus{handlers: make(map[string]func(Event))}
}

// Subscribe registers handler under key, replacing any previous one.
func (bus *SimpleEventBus) Subscribe(key string, handler func(Event)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[key] = handler
}

// Unsubscribe removes the handler under key.
func (bus *SimpleEventBus) Unsubscribe(key string) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.handlers, key)
}

// Publish sends event to every handler. Handlers may subscribe or
// unsubscribe while being called.
func (bus *SimpleEventBus) Publish(event Event) {
	bus.mu.RLock()
	keys := make([]string, 0, len(bus.handlers))
	for k := range bus.handlers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	handlers := make([]func(Event), 0, len(keys))
	for _, k := range keys {
		handlers = append(handlers, bus.handlers[k])
	}
	bus.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}

// NullEventBus drops every event.
type NullEventBus struct{}

func (NullEventBus) Subscribe(string, func(Event)) {}

func (NullEventBus) Unsubscribe(string) {}

func (NullEventBus) Publish(Event) {}
