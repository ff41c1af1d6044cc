package game

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/zyedidia/generic/mapset"

	"hollowvale/assets"
	"hollowvale/internal/gamemap"
	"hollowvale/internal/world"
)

// testGame builds a sealed 12x12 room with the player in the middle.
// No content tables, no generated world; tests wire in exactly the
// objects they need.
func testGame(t *testing.T, seed int64) *Game {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	m := gamemap.New()
	m.SetDims(0, 12, 12)
	for r := 0; r < 12; r++ {
		for c := 0; c < 12; c++ {
			tile := gamemap.Make(gamemap.TileStoneFloor)
			if r == 0 || r == 11 || c == 0 || c == 11 {
				tile = gamemap.Make(gamemap.TileWall)
			}
			m.SetTile(gamemap.Loc{Row: r, Col: c}, tile)
		}
	}

	objs := world.NewObjects()
	p := world.NewPlayer("Tess", world.RoleWarrior, rng)
	p.Loc = gamemap.Loc{Row: 5, Col: 5}
	objs.Add(p)

	g := &Game{
		Map:     m,
		Objs:    objs,
		Info:    world.NewInfo("Testerton", [4]int{1, 1, 10, 10}, "the Gilded Toad"),
		Rng:     rng,
		Memory:  make(TileMemory),
		Log:     &world.MessageLog{},
		Events:  &world.EventQueue{},
		LitSqs:  mapset.New[gamemap.Loc](),
		AuraSqs: mapset.New[gamemap.Loc](),
	}
	g.RefreshView()
	return g
}

// sawMsg reports whether any history line contains the fragment.
func sawMsg(g *Game, fragment string) bool {
	for _, h := range g.history {
		if strings.Contains(h.text, fragment) {
			return true
		}
	}
	return false
}

func TestClockTracksTurns(t *testing.T) {
	cases := []struct {
		turn, hour, minute int
	}{
		{0, 8, 0},
		{359, 8, 59},
		{360, 9, 0},
		{4320, 20, 0},
		{5760, 0, 0},
		{8640, 8, 0},
	}
	g := &Game{}
	for _, c := range cases {
		g.Turn = c.turn
		got := g.Clock()
		if got.Hour != c.hour || got.Minute != c.minute {
			t.Errorf("turn %d: clock %02d:%02d, want %02d:%02d", c.turn, got.Hour, got.Minute, c.hour, c.minute)
		}
	}
}

func TestMessageHistoryFoldsRepeats(t *testing.T) {
	g := &Game{}
	g.writeMsg("Click.")
	g.writeMsg("Click.")
	g.writeMsg("Click.")
	g.writeMsg("You hear a metallic grinding.")

	rows := g.HistoryRows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 history rows, got %d: %v", len(rows), rows)
	}
	if rows[0] != "You hear a metallic grinding." {
		t.Errorf("newest row = %q", rows[0])
	}
	if rows[1] != "Click. (x3)" {
		t.Errorf("folded row = %q", rows[1])
	}
}

func TestMessageHistoryCapped(t *testing.T) {
	g := &Game{}
	for i := 0; i < msgHistoryLength+20; i++ {
		g.writeMsg(fmt.Sprintf("line %d", i))
	}
	if len(g.history) != msgHistoryLength {
		t.Errorf("history length = %d, want %d", len(g.history), msgHistoryLength)
	}
	if g.history[0].text != fmt.Sprintf("line %d", msgHistoryLength+19) {
		t.Errorf("newest entry = %q", g.history[0].text)
	}
}

func TestMessagesDrainBuffer(t *testing.T) {
	g := &Game{}
	g.writeMsg("one")
	g.writeMsg("two")
	if got := g.Messages(); len(got) != 2 {
		t.Fatalf("expected 2 buffered lines, got %v", got)
	}
	if got := g.Messages(); len(got) != 0 {
		t.Errorf("buffer should be empty after draining, got %v", got)
	}
}

func TestLogFlushPrefersWitnessedText(t *testing.T) {
	g := testGame(t, 1)
	p := g.Player()

	g.Log.Queue(world.NoID, p.Loc, "The kobold shrieks!", "You hear a shriek.")
	far := gamemap.Loc{Row: 5, Col: 5, Depth: 3}
	g.Log.Queue(world.NoID, far, "The kobold shrieks!", "You hear a distant shriek.")
	g.flushLog()

	if !sawMsg(g, "The kobold shrieks!") {
		t.Error("visible message should use its full text")
	}
	if !sawMsg(g, "You hear a distant shriek.") {
		t.Error("off-level message should fall back to its alt text")
	}
}

func TestNewGameOutfitsAndPlaces(t *testing.T) {
	tables, err := assets.Load()
	if err != nil {
		t.Fatalf("loading tables: %v", err)
	}
	for seed := int64(1); seed <= 3; seed++ {
		g, err := New(tables, "Edgar", world.RoleWarrior, seed)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		p := g.Player()
		if p.ReadiedWeapon != "Longsword" {
			t.Errorf("seed %d: readied weapon %q, want Longsword", seed, p.ReadiedWeapon)
		}
		torches := 0
		for _, it := range p.Inventory {
			if it.Name == "torch" {
				torches++
			}
		}
		if torches != 5 {
			t.Errorf("seed %d: %d torches, want 5", seed, torches)
		}
		if p.Purse != 20 {
			t.Errorf("seed %d: purse %d, want 20", seed, p.Purse)
		}
		if !g.Map.At(p.Loc).PassableDryLand() {
			t.Errorf("seed %d: started on %v, not dry open ground", seed, g.Map.At(p.Loc).Kind)
		}
		if p.Loc.Depth != 0 {
			t.Errorf("seed %d: started at depth %d", seed, p.Loc.Depth)
		}
		if !sawMsg(g, "Welcome, adventurer!") {
			t.Errorf("seed %d: no welcome message", seed)
		}
		rows := g.CharacterSheetRows()
		if rows[len(rows)-1] != "You have not yet ventured into the dungeon." {
			t.Errorf("seed %d: sheet closes with %q", seed, rows[len(rows)-1])
		}
	}
}

func TestRogueKit(t *testing.T) {
	tables, err := assets.Load()
	if err != nil {
		t.Fatalf("loading tables: %v", err)
	}
	g, err := New(tables, "Nix", world.RoleRogue, 7)
	if err != nil {
		t.Fatal(err)
	}
	p := g.Player()
	if p.ReadiedWeapon != "Dagger" {
		t.Errorf("readied weapon %q, want Dagger", p.ReadiedWeapon)
	}
	wearing := false
	for _, it := range p.Inventory {
		if it.Kind == world.ItemArmour && it.Equipped {
			wearing = it.Name == "leather armour"
		}
	}
	if !wearing {
		t.Error("rogue should start wearing leather armour")
	}
}

func TestInventoryMenuFoldsStacks(t *testing.T) {
	g := testGame(t, 2)
	p := g.Player()
	for i := 0; i < 3; i++ {
		p.Inventory = append(p.Inventory, &world.Item{
			Base:      world.Base{ID: g.Objs.NextID(), Name: "torch"},
			Kind:      world.ItemLight,
			Stackable: true,
			Charges:   1000,
			Aura:      5,
		})
	}
	p.Inventory = append(p.Inventory, &world.Item{
		Base: world.Base{ID: g.Objs.NextID(), Name: "dagger"},
		Kind: world.ItemWeapon,
	})

	menu := g.InventoryMenu()
	if len(menu) != 2 {
		t.Fatalf("expected 2 rows, got %d: %v", len(menu), menu)
	}
	if menu[0].Count != 3 || menu[0].Desc != "3 torches" {
		t.Errorf("stack row = %+v", menu[0])
	}
	if menu[1].Desc != "a dagger" {
		t.Errorf("single row = %+v", menu[1])
	}
}

func TestLitTorchRowsApart(t *testing.T) {
	g := testGame(t, 3)
	p := g.Player()
	lit := &world.Item{
		Base:      world.Base{ID: g.Objs.NextID(), Name: "torch"},
		Kind:      world.ItemLight,
		Stackable: true,
		Equipped:  true,
		Charges:   500,
		Aura:      5,
	}
	p.Inventory = append(p.Inventory, lit)
	p.Inventory = append(p.Inventory, &world.Item{
		Base:      world.Base{ID: g.Objs.NextID(), Name: "torch"},
		Kind:      world.ItemLight,
		Stackable: true,
		Charges:   1000,
		Aura:      5,
	})

	menu := g.InventoryMenu()
	if len(menu) != 2 {
		t.Fatalf("a lit torch must not stack with spares: %v", menu)
	}
	if menu[0].Desc != "a torch (lit)" {
		t.Errorf("lit row = %q", menu[0].Desc)
	}
}

func TestCharacterSheetTracksDepth(t *testing.T) {
	g := testGame(t, 4)
	p := g.Player()
	p.Level = 3
	p.MaxDepth = 2
	rows := g.CharacterSheetRows()
	if !strings.Contains(rows[0], "3rd level warrior") {
		t.Errorf("header = %q", rows[0])
	}
	last := rows[len(rows)-1]
	if last != "You have been as far as the 2nd level of the dungeon." {
		t.Errorf("depth line = %q", last)
	}
}
