package npc

import (
	"math/rand"
	"testing"

	"hollowvale/assets"
	"hollowvale/internal/gamemap"
	"hollowvale/internal/world"
)

func loadFactory(t *testing.T) *Factory {
	t.Helper()
	tables, err := assets.Load()
	if err != nil {
		t.Fatalf("loading content tables: %v", err)
	}
	return &Factory{Monsters: tables.Monsters, Items: tables.Items}
}

func TestMonsterSpawnsFromTemplate(t *testing.T) {
	f := loadFactory(t)
	objs := world.NewObjects()
	rng := rand.New(rand.NewSource(1))
	loc := gamemap.Loc{Row: 4, Col: 4, Depth: 1}

	n, err := f.Monster("kobold", loc, objs, rng)
	if err != nil {
		t.Fatalf("spawning a kobold: %v", err)
	}

	if n.AC != 13 || n.MaxHP != 7 || n.CurrHP != 7 {
		t.Fatalf("kobold chassis is off: AC %d, HP %d/%d", n.AC, n.CurrHP, n.MaxHP)
	}
	if n.Attitude != world.AttIndifferent {
		t.Fatal("fresh monsters start indifferent, not hostile")
	}
	if n.Active {
		t.Fatal("fresh monsters start dormant")
	}
	if n.EDC != DCForLevel(n.Level) {
		t.Fatalf("EDC should track level, got %d for level %d", n.EDC, n.Level)
	}
	if n.Voice != "monster" {
		t.Fatalf("expected the monster voice, got %q", n.Voice)
	}
	if objs.Get(n.ID) == nil {
		t.Fatal("the spawn should be in the table")
	}

	registered := false
	for _, id := range objs.ListenersFor(world.EventTakeTurn) {
		if id == n.ID {
			registered = true
		}
	}
	if !registered {
		t.Fatal("a spawned monster takes turns")
	}
}

func TestUnknownMonsterNameErrors(t *testing.T) {
	f := loadFactory(t)
	objs := world.NewObjects()
	rng := rand.New(rand.NewSource(1))

	if _, err := f.Monster("snark", gamemap.Loc{}, objs, rng); err == nil {
		t.Fatal("an unknown name should error, not panic or spawn")
	}
}

func TestSporeCarriersRollTheirPayload(t *testing.T) {
	f := loadFactory(t)
	rng := rand.New(rand.NewSource(3))

	payload := world.AttrWeakVenom | world.AttrConfusion
	for i := 0; i < 20; i++ {
		objs := world.NewObjects()
		n, err := f.Monster("fungal growth", gamemap.Loc{Depth: 1}, objs, rng)
		if err != nil {
			t.Fatalf("spawning a fungal growth: %v", err)
		}
		if n.Attrs&payload == 0 {
			t.Fatal("every specimen should carry at least one spore payload")
		}
	}
}

func TestFirstDungeonLevelStaysGentle(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 50; i++ {
		if lvl := monsterLevelForDepth(1, rng); lvl != 1 {
			t.Fatalf("depth 1 always rolls level 1, got %d", lvl)
		}
	}
}

func TestMonsterLevelStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for depth := 2; depth <= 8; depth++ {
		for i := 0; i < 200; i++ {
			lvl := monsterLevelForDepth(depth, rng)
			if lvl < 1 || lvl > 4 {
				t.Fatalf("depth %d rolled level %d, outside the bestiary", depth, lvl)
			}
			if depth > 3 && depth-3 <= 4 && lvl < depth-3 {
				t.Fatalf("depth %d rolled level %d, too weak for the floor", depth, lvl)
			}
		}
	}
}

func TestDCForLevelTiers(t *testing.T) {
	cases := []struct {
		level int
		want  int
	}{
		{0, 12}, {2, 12}, {3, 13}, {5, 13}, {6, 14}, {11, 15}, {14, 16}, {17, 17}, {25, 18},
	}
	for _, c := range cases {
		if got := DCForLevel(c.level); got != c.want {
			t.Errorf("DCForLevel(%d) = %d, expected %d", c.level, got, c.want)
		}
	}
}

func TestVillagerChassis(t *testing.T) {
	v := NewVillager(7, "Edda", gamemap.Loc{Row: 1, Col: 2}, 3, "mayor")

	if v.Mode != world.PersonalityVillager {
		t.Fatal("villagers run the villager personality")
	}
	if v.Attitude != world.AttStranger {
		t.Fatal("villagers start as strangers")
	}
	if !v.Attrs.CanOpenDoors() || !v.Attrs.Has(world.AttrUnlockDoors) {
		t.Fatal("villagers can work the doors of their own town")
	}
	if v.Home != 3 || v.Voice != "mayor" {
		t.Fatalf("home and voice should stick, got %d and %q", v.Home, v.Voice)
	}
	if !v.Active || v.Behavior().Kind != world.BehaviorIdle {
		t.Fatal("villagers idle through their day")
	}
}

func TestPhantasmIsBoundToItsCaster(t *testing.T) {
	p := NewPhantasm(9, "imp", 'i', gamemap.Loc{Row: 2, Col: 2}, 4)

	if p.BoundTo != 4 {
		t.Fatalf("the duplicate should unravel with caster 4, bound to %d", p.BoundTo)
	}
	if !p.Attrs.Has(world.AttrIllusion) || !p.Attrs.Has(world.AttrFearless) {
		t.Fatal("phantasms are fearless illusions")
	}
	if p.MaxHP != 0 {
		t.Fatal("phantasms have nothing behind the image")
	}
	if p.Behavior().Kind != world.BehaviorHunt {
		t.Fatal("phantasms harry the player from the moment they appear")
	}
}
