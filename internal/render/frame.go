// Package render builds presentation frames from core state. A Frame
// is plain data, one viewport of annotated squares plus the sidebar
// summary; the client decides glyphs, colors, and where the pixels
// go. Nothing here touches a terminal.
package render

import (
	"hollowvale/internal/fov"
	"hollowvale/internal/game"
	"hollowvale/internal/gamemap"
	"hollowvale/internal/world"
)

// Viewport dimensions in squares. The frame shows exactly what the
// visibility engine sweeps.
const (
	Width  = fov.Width
	Height = fov.Height
)

// Cell is one square of the viewport. Glyph 0 on a visible cell means
// bare terrain; on a remembered cell it means the player recalls only
// the ground. A cell that is neither visible nor remembered is blank.
type Cell struct {
	Kind       gamemap.TileKind
	Door       gamemap.DoorState
	Lit        bool
	Aura       bool
	Visible    bool
	Remembered bool
	Glyph      rune
}

// Sidebar summarizes the player for the panel beside the map.
type Sidebar struct {
	Name   string
	AC     int
	HP     int
	MaxHP  int
	Turn   int
	Gold   int
	Weapon string
	Depth  int
	Status []string
	Clock  string
}

// Frame is everything the client draws for one refresh.
type Frame struct {
	Cells   [Height][Width]Cell
	Sidebar Sidebar
}

// Build assembles the frame centered on the player and records what
// they can see into the tile memory. Squares occupied by people are
// remembered by their terrain only; the people will have moved on.
func Build(g *game.Game, memory game.TileMemory) *Frame {
	p := g.Player()
	f := &Frame{Sidebar: buildSidebar(g, p)}
	for vr := 0; vr < Height; vr++ {
		for vc := 0; vc < Width; vc++ {
			loc := gamemap.Loc{
				Row:   p.Loc.Row - Height/2 + vr,
				Col:   p.Loc.Col - Width/2 + vc,
				Depth: p.Loc.Depth,
			}
			f.Cells[vr][vc] = buildCell(g, memory, p, loc)
		}
	}
	return f
}

func buildCell(g *game.Game, memory game.TileMemory, p *world.Player, loc gamemap.Loc) Cell {
	if g.Visible(loc) {
		tile := g.Map.At(loc)
		cell := Cell{
			Kind:    tile.Kind,
			Door:    tile.Door,
			Lit:     g.LitSqs.Has(loc),
			Aura:    g.AuraSqs.Has(loc),
			Visible: true,
		}
		if loc == p.Loc {
			cell.Glyph = '@'
			memory[loc] = game.Remembered{Tile: tile}
			return cell
		}
		if glyph, remember, ok := g.Objs.GlyphAt(loc); ok {
			cell.Glyph = glyph
			rem := game.Remembered{Tile: tile}
			if remember {
				rem.Glyph = glyph
			}
			memory[loc] = rem
			return cell
		}
		if tile.Kind != gamemap.TileUnknown {
			memory[loc] = game.Remembered{Tile: tile}
		}
		return cell
	}
	if rem, ok := memory[loc]; ok {
		return Cell{
			Kind:       rem.Tile.Kind,
			Door:       rem.Tile.Door,
			Remembered: true,
			Glyph:      rem.Glyph,
		}
	}
	return Cell{}
}

func buildSidebar(g *game.Game, p *world.Player) Sidebar {
	weapon := "Empty handed"
	if p.ReadiedWeapon != "" {
		weapon = p.ReadiedWeapon
	}
	return Sidebar{
		Name:   p.Name,
		AC:     p.AC,
		HP:     p.CurrHP,
		MaxHP:  p.MaxHP,
		Turn:   g.Turn,
		Gold:   p.Purse,
		Weapon: weapon,
		Depth:  p.Loc.Depth,
		Status: statusLabels(p),
		Clock:  g.ClockString(),
	}
}

// statusLabels picks the conditions worth a sidebar flag; the
// creature-bookkeeping kinds stay off the panel.
func statusLabels(p *world.Player) []string {
	var labels []string
	for _, s := range p.Statuses {
		switch s.Kind {
		case world.StatusPoisoned:
			labels = append(labels, "Poisoned")
		case world.StatusParalyzed:
			labels = append(labels, "Paralyzed")
		case world.StatusConfused:
			labels = append(labels, "Confused")
		case world.StatusBlind:
			labels = append(labels, "Blind")
		case world.StatusBane:
			labels = append(labels, "Bane")
		case world.StatusInvisible:
			labels = append(labels, "Invisible")
		}
	}
	return labels
}
