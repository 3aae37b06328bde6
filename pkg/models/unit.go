package models

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Faction separates player mechs from the alien swarm.
type Faction string

const (
	FactionMech  Faction = "mech"
	FactionAlien Faction = "alien"
)

// Valid reports whether f is a known faction.
func (f Faction) Valid() bool {
	return f == FactionMech || f == FactionAlien
}

// ErrUnknownFaction is returned for a faction other than mech or alien.
var ErrUnknownFaction = errors.New("unknown faction")

// DefaultMoveRange is used when a unit is created without a range.
const DefaultMoveRange = 3

// Unit is anything that occupies a tile.
type Unit struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Faction   Faction   `json:"faction"`
	Team      int       `json:"team,omitempty"` // mechs only
	MoveRange int       `json:"move_range"`
}

// NewUnit creates a unit with a fresh ID.
func NewUnit(name string, faction Faction, team, moveRange int) (*Unit, error) {
	if !faction.Valid() {
		return nil, fmt.Errorf("%w %q", ErrUnknownFaction, faction)
	}
	if moveRange <= 0 {
		moveRange = DefaultMoveRange
	}
	if faction == FactionAlien {
		team = 0
	}
	return &Unit{
		ID:        uuid.New(),
		Name:      name,
		Faction:   faction,
		Team:      team,
		MoveRange: moveRange,
	}, nil
}

// CanTarget reports whether u may attack target. Aliens never attack
// aliens and mechs never attack their own team.
func (u *Unit) CanTarget(target *Unit) bool {
	if u == nil || target == nil || u.ID == target.ID {
		return false
	}
	if u.Faction != target.Faction {
		return true
	}
	if u.Faction == FactionAlien {
		return false
	}
	return u.Team != target.Team
}

func (u *Unit) String() string {
	if u.Faction == FactionMech {
		return fmt.Sprintf("%s(mech team %d)", u.Name, u.Team)
	}
	return fmt.Sprintf("%s(%s)", u.Name, u.Faction)
}
