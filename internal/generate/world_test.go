package generate

import (
	"testing"

	"hollowvale/internal/gamemap"
	"hollowvale/internal/world"
)

func TestBuildWorldLinksEveryDepth(t *testing.T) {
	objs := world.NewObjects()
	m, info, err := BuildWorld(objs, loadTables(t), testRng(5))
	if err != nil {
		t.Fatal(err)
	}

	for depth := 0; depth <= DungeonDepths; depth++ {
		if dims := m.LevelDims(depth); dims.Height == 0 || dims.Width == 0 {
			t.Fatalf("depth %d has no dimensions", depth)
		}
	}

	var entrance gamemap.Loc
	found := false
	for _, fact := range info.Facts {
		if fact.Detail == "dungeon location" {
			entrance, found = fact.Loc, true
		}
	}
	if !found {
		t.Fatal("no dungeon location fact recorded")
	}
	if k := m.At(entrance).Kind; k != gamemap.TilePortal {
		t.Fatalf("entrance square is %v, want portal", k)
	}
	below := gamemap.Loc{Row: entrance.Row, Col: entrance.Col, Depth: 1}
	if k := m.At(below).Kind; k != gamemap.TileStairsUp {
		t.Fatalf("square under the portal is %v, want stairs up", k)
	}

	// Every stairway down must meet a stairway up directly beneath it.
	for depth := 1; depth < DungeonDepths; depth++ {
		downs := stairsAt(m, depth, gamemap.TileStairsDown)
		if len(downs) != 1 {
			t.Fatalf("depth %d has %d stairways down, want 1", depth, len(downs))
		}
		under := gamemap.Loc{Row: downs[0].Row, Col: downs[0].Col, Depth: depth + 1}
		if k := m.At(under).Kind; k != gamemap.TileStairsUp {
			t.Errorf("stairs down at %v land on %v", downs[0], k)
		}
	}
	if downs := stairsAt(m, DungeonDepths, gamemap.TileStairsDown); len(downs) != 0 {
		t.Errorf("deepest floor has %d stairways down", len(downs))
	}
}

func stairsAt(m *gamemap.Map, depth int, kind gamemap.TileKind) []gamemap.Loc {
	dims := m.LevelDims(depth)
	var found []gamemap.Loc
	for r := 0; r < dims.Height; r++ {
		for c := 0; c < dims.Width; c++ {
			loc := gamemap.Loc{Row: r, Col: c, Depth: depth}
			if m.At(loc).Kind == kind {
				found = append(found, loc)
			}
		}
	}
	return found
}

func TestBuildWorldStocksTheDungeon(t *testing.T) {
	objs := world.NewObjects()
	_, _, err := BuildWorld(objs, loadTables(t), testRng(9))
	if err != nil {
		t.Fatal(err)
	}

	monsters := make(map[int]int)
	for _, id := range objs.ListenersFor(world.EventTakeTurn) {
		n := objs.NPC(id)
		if n == nil {
			continue
		}
		if n.Voice == "monster" {
			monsters[n.Loc.Depth]++
		}
	}
	for depth := 1; depth <= DungeonDepths; depth++ {
		if monsters[depth] == 0 {
			t.Errorf("depth %d has no monsters", depth)
		}
	}
	if monsters[0] != 0 {
		t.Errorf("%d monsters loose on the surface", monsters[0])
	}

	traps := 0
	for _, id := range objs.ListenersFor(world.EventSteppedOn) {
		if sq, ok := objs.Get(id).(*world.SpecialSquare); ok && sq.IsTeleportTrap() {
			traps++
		}
	}
	if traps < DungeonDepths {
		t.Errorf("only %d teleport traps laid, want one per floor", traps)
	}
}
