package gamemap

import (
	"math/rand"
	"testing"
)

func TestAtMissingCoordinateIsUnknown(t *testing.T) {
	m := New()
	tile := m.At(Loc{Row: 3, Col: 3, Depth: 1})
	if tile.Kind != TileUnknown {
		t.Fatalf("missing coordinate read as %v, want TileUnknown", tile.Kind)
	}
	if tile.Passable() {
		t.Error("unknown tile should be impassable")
	}
	if tile.Clear() {
		t.Error("unknown tile should be opaque")
	}
}

func TestSetTileThenAt(t *testing.T) {
	m := New()
	loc := Loc{Row: 2, Col: 5, Depth: 2}
	m.SetTile(loc, Make(TileStoneFloor))
	if got := m.At(loc).Kind; got != TileStoneFloor {
		t.Fatalf("At after SetTile = %v, want TileStoneFloor", got)
	}
	// Same row/col on another depth stays independent.
	if got := m.At(Loc{Row: 2, Col: 5, Depth: 1}).Kind; got != TileUnknown {
		t.Errorf("other depth read as %v, want TileUnknown", got)
	}
}

func TestInBoundsUsesLevelDims(t *testing.T) {
	m := New()
	m.SetDims(0, 8, 10)
	cases := []struct {
		loc  Loc
		want bool
	}{
		{Loc{0, 0, 0}, true},
		{Loc{7, 9, 0}, true},
		{Loc{-1, 0, 0}, false},
		{Loc{8, 0, 0}, false},
		{Loc{0, 10, 0}, false},
		{Loc{0, 0, 1}, false}, // level never generated
	}
	for _, c := range cases {
		if got := m.InBounds(c.loc); got != c.want {
			t.Errorf("InBounds(%v) = %v, want %v", c.loc, got, c.want)
		}
	}
}

func TestTilePredicates(t *testing.T) {
	cases := []struct {
		name            string
		tile            Tile
		passable, clear bool
	}{
		{"wall", Make(TileWall), false, false},
		{"grass", Make(TileGrass), true, true},
		{"stone floor", Make(TileStoneFloor), true, true},
		{"open door", MakeDoor(DoorOpen), true, true},
		{"closed door", MakeDoor(DoorClosed), false, false},
		{"locked door", MakeDoor(DoorLocked), false, false},
		{"broken door", MakeDoor(DoorBroken), true, true},
		{"closed gate is see-through", MakeGate(DoorClosed), false, true},
		{"window is see-through", Make(TileWindow), false, true},
		{"tree is clear here", Make(TileTree), true, true},
		{"deep water", Make(TileDeepWater), true, true},
		{"world edge", Make(TileWorldEdge), false, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.tile.Passable(); got != c.passable {
				t.Errorf("Passable = %v, want %v", got, c.passable)
			}
			if got := c.tile.Clear(); got != c.clear {
				t.Errorf("Clear = %v, want %v", got, c.clear)
			}
		})
	}
}

func TestPassableDryLandExcludesDeepWater(t *testing.T) {
	if Make(TileDeepWater).PassableDryLand() {
		t.Error("deep water should not be dry-land passable")
	}
	if !Make(TileWater).PassableDryLand() {
		t.Error("shallow water should remain dry-land passable")
	}
}

func TestAdjacentDoorExactlyOne(t *testing.T) {
	m := New()
	center := Loc{Row: 5, Col: 5, Depth: 0}

	if _, ok := m.AdjacentDoor(center, DoorClosed); ok {
		t.Fatal("no doors placed yet, AdjacentDoor should report none")
	}

	want := center.Step(0, 1)
	m.SetTile(want, MakeDoor(DoorClosed))
	got, ok := m.AdjacentDoor(center, DoorClosed)
	if !ok || got != want {
		t.Fatalf("AdjacentDoor = %v, %v; want %v, true", got, ok, want)
	}

	// A second closed door makes the answer ambiguous.
	m.SetTile(center.Step(1, 0), MakeDoor(DoorClosed))
	if _, ok := m.AdjacentDoor(center, DoorClosed); ok {
		t.Error("two candidate doors should report none")
	}

	// Doors in another state do not count.
	if _, ok := m.AdjacentDoor(center, DoorOpen); ok {
		t.Error("no open doors adjacent, should report none")
	}
}

func TestRandomPassablePicksOnlyPassable(t *testing.T) {
	m := New()
	m.SetDims(0, 4, 4)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m.SetTile(Loc{Row: r, Col: c, Depth: 0}, Make(TileWall))
		}
	}
	open := Loc{Row: 2, Col: 1, Depth: 0}
	m.SetTile(open, Make(TileFloor))

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		got, ok := m.RandomPassable(rng, 0)
		if !ok {
			t.Fatal("level has an open cell, ok should be true")
		}
		if got != open {
			t.Fatalf("picked %v, want the only open cell %v", got, open)
		}
	}

	if _, ok := m.RandomPassable(rng, 3); ok {
		t.Error("ungenerated level should report no passable cell")
	}
}
