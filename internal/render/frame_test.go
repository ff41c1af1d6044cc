package render_test

import (
	"math/rand"
	"testing"

	"github.com/zyedidia/generic/mapset"

	"hollowvale/internal/game"
	"hollowvale/internal/gamemap"
	"hollowvale/internal/render"
	"hollowvale/internal/world"
)

// fixtureGame builds a sealed 12x12 room with the player in the
// middle, same shape the scheduler tests use.
func fixtureGame(t *testing.T) *game.Game {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
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

	g := &game.Game{
		Map:     m,
		Objs:    objs,
		Info:    world.NewInfo("Testerton", [4]int{1, 1, 10, 10}, "the Gilded Toad"),
		Rng:     rng,
		Memory:  make(game.TileMemory),
		Log:     &world.MessageLog{},
		Events:  &world.EventQueue{},
		LitSqs:  mapset.New[gamemap.Loc](),
		AuraSqs: mapset.New[gamemap.Loc](),
	}
	g.RefreshView()
	return g
}

func TestFrameCentersThePlayer(t *testing.T) {
	g := fixtureGame(t)
	f := render.Build(g, g.Memory)

	center := f.Cells[render.Height/2][render.Width/2]
	if !center.Visible || center.Glyph != '@' {
		t.Fatalf("center cell = %+v, want visible '@'", center)
	}
	if center.Kind != gamemap.TileStoneFloor {
		t.Errorf("center terrain = %v, want stone floor", center.Kind)
	}

	// The wall at (0,0) sits 5 up and 5 left of the player.
	corner := f.Cells[render.Height/2-5][render.Width/2-5]
	if !corner.Visible || corner.Kind != gamemap.TileWall {
		t.Errorf("corner cell = %+v, want a visible wall", corner)
	}
}

func TestBeyondTheRoomIsBlank(t *testing.T) {
	g := fixtureGame(t)
	f := render.Build(g, g.Memory)

	out := f.Cells[0][0]
	if out.Visible || out.Remembered || out.Glyph != 0 {
		t.Errorf("far cell = %+v, want blank", out)
	}
}

func TestThingsDrawAndAreRemembered(t *testing.T) {
	g := fixtureGame(t)
	swordLoc := gamemap.Loc{Row: 5, Col: 7}
	sword := &world.Item{
		Base: world.Base{ID: g.Objs.NextID(), Loc: swordLoc, Name: "longsword", Ch: ')'},
		Kind: world.ItemWeapon,
	}
	g.Objs.Add(sword)

	ratLoc := gamemap.Loc{Row: 7, Col: 5}
	rat := &world.NPC{
		Base:  world.Base{ID: g.Objs.NextID(), Loc: ratLoc, Name: "giant rat", Ch: 'r'},
		Alive: true,
	}
	g.Objs.Add(rat)

	f := render.Build(g, g.Memory)
	if got := f.Cells[render.Height/2][render.Width/2+2].Glyph; got != ')' {
		t.Errorf("sword cell glyph = %q, want ')'", got)
	}
	if got := f.Cells[render.Height/2+2][render.Width/2].Glyph; got != 'r' {
		t.Errorf("rat cell glyph = %q, want 'r'", got)
	}

	// Things stick in memory, people do not.
	if g.Memory[swordLoc].Glyph != ')' {
		t.Errorf("sword memory = %+v, want the glyph kept", g.Memory[swordLoc])
	}
	if g.Memory[ratLoc].Glyph != 0 {
		t.Errorf("rat memory = %+v, want terrain only", g.Memory[ratLoc])
	}
	if g.Memory[ratLoc].Tile.Kind != gamemap.TileStoneFloor {
		t.Errorf("rat memory terrain = %v, want stone floor", g.Memory[ratLoc].Tile.Kind)
	}
}

func TestBlindPlayerSeesMemories(t *testing.T) {
	g := fixtureGame(t)
	swordLoc := gamemap.Loc{Row: 5, Col: 7}
	sword := &world.Item{
		Base: world.Base{ID: g.Objs.NextID(), Loc: swordLoc, Name: "longsword", Ch: ')'},
		Kind: world.ItemWeapon,
	}
	g.Objs.Add(sword)
	render.Build(g, g.Memory)

	g.Player().AddStatus(world.StatusBlind, 20)
	g.RefreshView()
	f := render.Build(g, g.Memory)

	cell := f.Cells[render.Height/2][render.Width/2+2]
	if cell.Visible {
		t.Fatal("blind player should not see the sword square")
	}
	if !cell.Remembered || cell.Glyph != ')' {
		t.Errorf("sword cell = %+v, want remembered ')'", cell)
	}
	if got := f.Sidebar.Status; len(got) != 1 || got[0] != "Blind" {
		t.Errorf("sidebar status = %v, want [Blind]", got)
	}
}

func TestLitSquaresCarryTheFlag(t *testing.T) {
	g := fixtureGame(t)
	p := g.Player()
	torch := &world.Item{
		Base:     world.Base{ID: g.Objs.NextID(), Name: "torch", Ch: '('},
		Kind:     world.ItemLight,
		Equipped: true,
		Charges:  300,
		Aura:     5,
	}
	p.Inventory = append(p.Inventory, torch)
	g.Objs.Listen(torch.ID, world.EventUpdate)
	g.Wake()

	f := render.Build(g, g.Memory)
	if !f.Cells[render.Height/2][render.Width/2].Lit {
		t.Error("player's square should be lit by the carried torch")
	}
	if f.Cells[render.Height/2][render.Width/2].Aura {
		t.Error("a torch is no shrine")
	}
}

func TestSidebarSummarizesThePlayer(t *testing.T) {
	g := fixtureGame(t)
	p := g.Player()
	p.Purse = 41
	p.CurrHP = 7
	g.Turn = 360

	f := render.Build(g, g.Memory)
	sb := f.Sidebar
	if sb.Name != "Tess" || sb.Gold != 41 || sb.HP != 7 || sb.MaxHP != p.MaxHP {
		t.Errorf("sidebar = %+v", sb)
	}
	if sb.Weapon != "Empty handed" {
		t.Errorf("weapon = %q, want empty hands", sb.Weapon)
	}
	if sb.Clock != "09:00" {
		t.Errorf("clock = %q, want 09:00", sb.Clock)
	}
	if sb.Depth != 0 {
		t.Errorf("depth = %d, want 0", sb.Depth)
	}

	p.ReadiedWeapon = "Longsword"
	f = render.Build(g, g.Memory)
	if f.Sidebar.Weapon != "Longsword" {
		t.Errorf("weapon = %q after readying", f.Sidebar.Weapon)
	}
}
