package models

import "testing"

func mustUnit(t *testing.T, f Faction, team int) *Unit {
	t.Helper()
	u, err := NewUnit("u", f, team, 0)
	if err != nil {
		t.Fatalf("new unit: %v", err)
	}
	return u
}

func TestCanTarget(t *testing.T) {
	red1 := mustUnit(t, FactionMech, 1)
	red2 := mustUnit(t, FactionMech, 1)
	blue := mustUnit(t, FactionMech, 2)
	bug1 := mustUnit(t, FactionAlien, 0)
	bug2 := mustUnit(t, FactionAlien, 0)

	cases := []struct {
		name     string
		attacker *Unit
		target   *Unit
		want     bool
	}{
		{"same team", red1, red2, false},
		{"other team", red1, blue, true},
		{"mech on alien", red1, bug1, true},
		{"alien on mech", bug1, blue, true},
		{"alien on alien", bug1, bug2, false},
		{"self", red1, red1, false},
		{"nil target", red1, nil, false},
	}
	for _, tc := range cases {
		if got := tc.attacker.CanTarget(tc.target); got != tc.want {
			t.Errorf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestNewUnitDefaults(t *testing.T) {
	u := mustUnit(t, FactionAlien, 4)
	if u.Team != 0 {
		t.Fatalf("aliens carry no team, got %d", u.Team)
	}
	if u.MoveRange != DefaultMoveRange {
		t.Fatalf("expected default move range, got %d", u.MoveRange)
	}
	if _, err := NewUnit("x", "pirate", 0, 1); err == nil {
		t.Fatalf("expected unknown faction to fail")
	}
}

func TestPlayerOwns(t *testing.T) {
	p := &Player{Team: 1}
	if !p.Owns(mustUnit(t, FactionMech, 1)) {
		t.Fatalf("player should own team 1 mech")
	}
	if p.Owns(mustUnit(t, FactionMech, 2)) || p.Owns(mustUnit(t, FactionAlien, 0)) {
		t.Fatalf("player should not own other units")
	}
}
