// Package game owns a single run: the generated world, the player's
// command loop, the energy scheduler that decides who acts when, and
// the event plumbing that lets squares and objects react to the turn.
package game

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"

	"hollowvale/assets"
	"hollowvale/internal/fov"
	"hollowvale/internal/gamemap"
	"hollowvale/internal/generate"
	"hollowvale/internal/npc"
	"hollowvale/internal/world"
)

const (
	msgHistoryLength = 50

	// A round is ten in-world seconds. Play opens at 08:00.
	turnsPerDay    = 8640
	turnsPerHour   = 360
	turnsPerMinute = 6
	dawnOffset     = 8 * turnsPerHour
)

// Remembered is what the player recalls of a square seen earlier: the
// terrain, plus the glyph of any fixture worth recalling. Glyph 0
// means terrain only.
type Remembered struct {
	Tile  gamemap.Tile
	Glyph rune
}

// TileMemory records every square the player has seen.
type TileMemory map[gamemap.Loc]Remembered

type historyEntry struct {
	text  string
	count int
}

// Game is the whole state of one run.
type Game struct {
	RunID  string
	Map    *gamemap.Map
	Objs   *world.Objects
	Info   *world.Info
	Tables *assets.Tables
	Rng    *rand.Rand

	Turn   int
	Memory TileMemory

	Log    *world.MessageLog
	Events *world.EventQueue

	// LitSqs and AuraSqs are rebuilt every update pass from whatever
	// is burning or consecrated. Aura squares are always lit squares
	// too; the reverse does not hold.
	LitSqs  mapset.Set[gamemap.Loc]
	AuraSqs mapset.Set[gamemap.Loc]

	ui      UI
	visible *mapset.Set[gamemap.Loc]
	msgBuff []string
	history []historyEntry
}

// New builds a fresh world and drops a newly rolled character at the
// edge of town.
func New(tables *assets.Tables, name string, role world.Role, seed int64) (*Game, error) {
	rng := rand.New(rand.NewSource(seed))
	objs := world.NewObjects()
	m, info, err := generate.BuildWorld(objs, tables, rng)
	if err != nil {
		return nil, fmt.Errorf("building world: %w", err)
	}

	g := &Game{
		RunID:   uuid.NewString(),
		Map:     m,
		Objs:    objs,
		Info:    info,
		Tables:  tables,
		Rng:     rng,
		Memory:  make(TileMemory),
		Log:     &world.MessageLog{},
		Events:  &world.EventQueue{},
		LitSqs:  mapset.New[gamemap.Loc](),
		AuraSqs: mapset.New[gamemap.Loc](),
	}

	p := world.NewPlayer(name, role, rng)
	if err := g.outfit(p); err != nil {
		return nil, fmt.Errorf("outfitting player: %w", err)
	}
	p.Loc = g.pickStartLoc()
	objs.Add(p)

	g.writeMsg("Welcome, adventurer!")
	g.RefreshView()
	return g, nil
}

// outfit hands a new character their role's starting kit and readies
// it.
func (g *Game) outfit(p *world.Player) error {
	var kit []string
	equip := 2
	switch p.Role {
	case world.RoleRogue:
		kit = []string{"dagger", "leather armour", "torch", "torch", "torch", "torch", "torch"}
	default:
		kit = []string{"longsword", "ringmail", "dagger", "torch", "torch", "torch", "torch", "torch"}
	}
	for i, name := range kit {
		it, err := g.Tables.Items.New(g.Objs.NextID(), name)
		if err != nil {
			return err
		}
		if i < equip {
			it.Equipped = true
		}
		p.Inventory = append(p.Inventory, it)
	}
	p.SetReadiedWeapon()
	p.CalcAC()
	return nil
}

// pickStartLoc puts the player on open ground a little way out from a
// random side of town.
func (g *Game) pickStartLoc() gamemap.Loc {
	b := g.Info.TownBoundary
	for i := 0; i < 100; i++ {
		var loc gamemap.Loc
		switch g.Rng.Intn(4) {
		case 0:
			loc = gamemap.Loc{Row: b[0] - 5, Col: b[1] + g.Rng.Intn(b[3]-b[1]+1)}
		case 1:
			loc = gamemap.Loc{Row: b[2] + 5, Col: b[1] + g.Rng.Intn(b[3]-b[1]+1)}
		case 2:
			loc = gamemap.Loc{Row: b[0] + g.Rng.Intn(b[2]-b[0]+1), Col: b[1] - 5}
		default:
			loc = gamemap.Loc{Row: b[0] + g.Rng.Intn(b[2]-b[0]+1), Col: b[3] + 5}
		}
		if g.Map.At(loc).PassableDryLand() && !g.Objs.BlockingObjAt(loc) {
			return loc
		}
	}
	// The approaches must all be under water or forest; start in the
	// town square instead.
	if loc, ok := openTownSquare(g.Info, g.Map, g.Objs); ok {
		return loc
	}
	loc, _ := g.randomOpenSq(0)
	return loc
}

func openTownSquare(info *world.Info, m *gamemap.Map, objs *world.Objects) (gamemap.Loc, bool) {
	found := false
	var best gamemap.Loc
	info.TownSquare.Each(func(loc gamemap.Loc) {
		if !m.At(loc).PassableDryLand() || objs.BlockingObjAt(loc) {
			return
		}
		if !found || loc.Row < best.Row || (loc.Row == best.Row && loc.Col < best.Col) {
			best, found = loc, true
		}
	})
	return best, found
}

// Player is the protagonist's object.
func (g *Game) Player() *world.Player { return g.Objs.Player() }

// Clock converts the turn counter to in-world time.
func (g *Game) Clock() world.ClockTime {
	normalized := (g.Turn + dawnOffset) % turnsPerDay
	hour := normalized / turnsPerHour
	minute := (normalized - hour*turnsPerHour) / turnsPerMinute
	return world.ClockTime{Hour: hour, Minute: minute}
}

// ClockString renders the clock for the sidebar.
func (g *Game) ClockString() string {
	t := g.Clock()
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Visible reports whether the square was inside the player's field of
// view at the last refresh.
func (g *Game) Visible(loc gamemap.Loc) bool {
	return g.visible != nil && g.visible.Has(loc)
}

// RefreshView recomputes the player's vision radius and field of view.
// Anything that moves the player or changes the lights should be
// followed by one.
func (g *Game) RefreshView() {
	p := g.Player()
	sunset, sunrise := p.CalcVisionRadius(g.Clock().Hour, p.Loc.Depth)
	if sunset {
		g.writeMsg("The sun is beginning to set.")
	}
	if sunrise {
		g.writeMsg("Sunrise soon.")
	}

	radius := p.VisionRadius
	lit := &g.LitSqs
	if p.HasStatus(world.StatusBlind) {
		radius = 0
		lit = nil
	}
	g.visible = fov.Visible(g.Map, p.Loc, radius, false, lit)
}

// Wake rebuilds the derived state a snapshot leaves out: the lit and
// aura sets and the visible squares. Call it once after a restore.
func (g *Game) Wake() {
	g.runUpdate()
	g.RefreshView()
}

// writeMsg adds a line to the player's message buffer and the history.
func (g *Game) writeMsg(text string) {
	if text == "" {
		return
	}
	g.msgBuff = append(g.msgBuff, text)
	if len(g.history) > 0 && g.history[0].text == text {
		g.history[0].count++
		return
	}
	g.history = append([]historyEntry{{text: text, count: 1}}, g.history...)
	if len(g.history) > msgHistoryLength {
		g.history = g.history[:msgHistoryLength]
	}
}

// Messages returns the lines written since the last call and clears
// the buffer. The client drains it on every refresh.
func (g *Game) Messages() []string {
	out := g.msgBuff
	g.msgBuff = nil
	return out
}

// Announce writes a line from outside the simulation. The session
// greets returning players through it.
func (g *Game) Announce(text string) { g.writeMsg(text) }

// HistoryRows formats the message history, newest first, folding
// repeats into a count.
func (g *Game) HistoryRows() []string {
	rows := make([]string, 0, len(g.history))
	for _, h := range g.history {
		if h.count == 1 {
			rows = append(rows, h.text)
		} else {
			rows = append(rows, fmt.Sprintf("%s (x%d)", h.text, h.count))
		}
	}
	return rows
}

// flushLog routes messages queued by creatures and squares: the full
// text when the player can see where it happened, the fallback line
// otherwise.
func (g *Game) flushLog() {
	for _, msg := range g.Log.Drain() {
		if g.witnessed(msg.Loc) {
			g.writeMsg(msg.Text)
		} else if msg.Alt != "" {
			g.writeMsg(msg.Alt)
		}
	}
}

func (g *Game) witnessed(loc gamemap.Loc) bool {
	return loc.Depth == g.Player().Loc.Depth && g.Visible(loc)
}

// randomOpenSq finds an unoccupied dry square somewhere on the level.
func (g *Game) randomOpenSq(depth int) (gamemap.Loc, bool) {
	for i := 0; i < 30; i++ {
		loc, ok := g.Map.RandomPassable(g.Rng, depth)
		if !ok {
			return gamemap.Loc{}, false
		}
		if g.Map.At(loc).PassableDryLand() && !g.Objs.BlockingObjAt(loc) {
			return loc, true
		}
	}
	return gamemap.Loc{}, false
}

func (g *Game) npcCtx() *npc.Ctx {
	return &npc.Ctx{
		Map:    g.Map,
		Objs:   g.Objs,
		Info:   g.Info,
		Log:    g.Log,
		Events: g.Events,
		Rng:    g.Rng,
		Clock:  g.Clock(),
	}
}

// popup shows a text overlay when a client is attached.
func (g *Game) popup(title string, lines []string) {
	if g.ui != nil {
		g.ui.Popup(title, lines)
	}
}

// confirm asks a yes/no question. Headless, nobody objects.
func (g *Game) confirm(prompt string) bool {
	if g.ui == nil {
		return true
	}
	return g.ui.Confirm(prompt)
}
