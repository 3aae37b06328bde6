package board

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/gravitas-games/mechtactics/internal/hexgrid"
	"github.com/gravitas-games/mechtactics/internal/pathfind"
)

// RedisMirror keeps a copy of board occupancy in a Redis hash, field "q:r"
// to unit ID, so other processes can read positions without a websocket.
type RedisMirror struct {
	client  redis.Cmdable
	key     string
	timeout time.Duration
}

// NewRedisMirror mirrors into the hash at key.
func NewRedisMirror(client redis.Cmdable, key string) *RedisMirror {
	return &RedisMirror{client: client, key: key, timeout: 2 * time.Second}
}

// Key returns the hash key.
func (m *RedisMirror) Key() string { return m.key }

// Sync replaces the hash with the board's current placements.
func (m *RedisMirror) Sync(ctx context.Context, b *Board) error {
	placements := b.Units()
	_, err := m.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, m.key)
		if len(placements) == 0 {
			return nil
		}
		values := make([]interface{}, 0, len(placements)*2)
		for _, p := range placements {
			values = append(values, formatField(p.Coord), p.Unit.ID.String())
		}
		pipe.HSet(ctx, m.key, values...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to sync occupancy: %w", err)
	}
	return nil
}

// Handler returns an event handler that applies each unit event to the hash.
// Failures are logged; the board stays authoritative.
func (m *RedisMirror) Handler() func(Event) {
	return func(ev Event) {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		if err := m.apply(ctx, ev); err != nil {
			log.Printf("Redis mirror %s: %v", ev.Type, err)
		}
	}
}

func (m *RedisMirror) apply(ctx context.Context, ev Event) error {
	switch ev.Type {
	case EventUnitPlaced:
		return m.client.HSet(ctx, m.key, formatField(ev.To), ev.UnitID.String()).Err()
	case EventUnitRemoved:
		return m.client.HDel(ctx, m.key, formatField(ev.From)).Err()
	case EventUnitMoved:
		_, err := m.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HDel(ctx, m.key, formatField(ev.From))
			pipe.HSet(ctx, m.key, formatField(ev.To), ev.UnitID.String())
			return nil
		})
		return err
	}
	return nil
}

// Load reads the mirrored placements back.
func (m *RedisMirror) Load(ctx context.Context) (map[hexgrid.GridCoordinate]uuid.UUID, error) {
	fields, err := m.client.HGetAll(ctx, m.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read occupancy: %w", err)
	}
	out := make(map[hexgrid.GridCoordinate]uuid.UUID, len(fields))
	for field, value := range fields {
		c, err := parseField(field)
		if err != nil {
			return nil, err
		}
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("occupancy %s: %w", field, err)
		}
		out[c] = id
	}
	return out, nil
}

// Snapshot loads the mirrored occupancy as a search predicate.
func (m *RedisMirror) Snapshot(ctx context.Context) (pathfind.Occupancy, error) {
	placed, err := m.Load(ctx)
	if err != nil {
		return nil, err
	}
	return func(c hexgrid.GridCoordinate) bool {
		_, ok := placed[c]
		return ok
	}, nil
}

func formatField(c hexgrid.GridCoordinate) string {
	return strconv.Itoa(c.Q) + ":" + strconv.Itoa(c.R)
}

func parseField(s string) (hexgrid.GridCoordinate, error) {
	qs, rs, ok := strings.Cut(s, ":")
	if !ok {
		return hexgrid.GridCoordinate{}, fmt.Errorf("bad occupancy field %q", s)
	}
	q, err := strconv.Atoi(qs)
	if err != nil {
		return hexgrid.GridCoordinate{}, fmt.Errorf("bad occupancy field %q: %w", s, err)
	}
	r, err := strconv.Atoi(rs)
	if err != nil {
		return hexgrid.GridCoordinate{}, fmt.Errorf("bad occupancy field %q: %w", s, err)
	}
	return hexgrid.GridCoordinate{Q: q, R: r}, nil
}
