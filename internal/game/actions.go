package game

import (
	"fmt"

	"hollowvale/internal/combat"
	"hollowvale/internal/gamemap"
	"hollowvale/internal/npc"
	"hollowvale/internal/world"
)

// adjacent resolves a direction against the player's square.
func (g *Game) adjacent(d Dir) gamemap.Loc {
	dr, dc := d.Delta()
	return g.Player().Loc.Step(dr, dc)
}

// doMove walks the player one square, with everything stepping there
// entails: bumping whoever is in the way, the terrain commenting on
// itself, and any hidden machinery underfoot going off.
func (g *Game) doMove(d Dir) float64 {
	p := g.Player()
	if p.HasStatus(world.StatusConfused) && g.Rng.Intn(2) == 0 {
		d = Dir(g.Rng.Intn(8))
	}
	dest := g.adjacent(d)

	if g.Objs.BlockingObjAt(dest) {
		return g.maybeFight(dest)
	}

	tile := g.Map.At(dest)
	switch {
	case tile.Passable():
		return g.moveTo(dest)
	case tile.IsDoor(gamemap.DoorClosed) || tile.IsDoor(gamemap.DoorLocked):
		return g.openAt(dest)
	case tile.Kind == gamemap.TileGate:
		g.writeMsg("A portcullis bars your way.")
		return 0
	default:
		g.writeMsg("You cannot go that way.")
		return 0
	}
}

func (g *Game) moveTo(dest gamemap.Loc) float64 {
	p := g.Player()
	from := p.Loc
	fromTile := g.Map.At(from)

	if fromTile.Kind == gamemap.TileRubble {
		if g.Rng.Intn(20)+1+world.StatMod(p.Dex) <= 12 {
			g.writeMsg("You stumble and trip over the rubble.")
			return 1
		}
	}

	tile := g.Map.At(dest)
	switch tile.Kind {
	case gamemap.TileWater:
		g.writeMsg("You splash in the shallow water.")
	case gamemap.TileRubble:
		g.writeMsg("The ground is cracked and rubble-strewn here.")
	case gamemap.TileDeepWater:
		if fromTile.Kind != gamemap.TileDeepWater {
			g.writeMsg("You begin to swim.")
		}
	case gamemap.TileSpring:
		g.writeMsg("A well.")
	case gamemap.TileLava:
		g.writeMsg("MOLTEN LAVA!")
	case gamemap.TileFirePit:
		g.writeMsg("You step in the fire!")
	case gamemap.TileOldFirePit:
		g.writeMsg(firepitMsg(dest))
	case gamemap.TilePortal:
		g.writeMsg("Where could this lead...")
	case gamemap.TileShrine:
		if dest.Depth == 0 {
			g.writeMsg("A shrine to Woden.")
		} else {
			g.writeMsg("The misshapen altar makes your skin crawl.")
		}
	default:
		if fromTile.Kind == gamemap.TileDeepWater {
			g.writeMsg("Whew, you stumble ashore.")
		} else if g.AuraSqs.Has(dest) && !g.AuraSqs.Has(from) {
			g.writeMsg("You feel a sense of peace.")
		}
	}

	descs := g.Objs.DescsAt(dest)
	switch {
	case len(descs) == 1:
		g.writeMsg(fmt.Sprintf("You see %s here.", descs[0]))
	case len(descs) == 2:
		g.writeMsg(fmt.Sprintf("You see %s and %s here.", descs[0], descs[1]))
	case len(descs) > 2:
		g.writeMsg("There are several items here.")
	}

	g.Objs.SetToLoc(world.PlayerID, dest)
	g.steppedOn(dest, world.PlayerID)
	return 1
}

// firepitMsg picks the story a cold camp tells. The choice hangs off
// the coordinates so a pit keeps its story between visits.
func firepitMsg(loc gamemap.Loc) string {
	msgs := [...]string{
		"An old fire pit -- some previous adventurer?",
		"A long dead campfire.",
		"Some of the bones in the fire look human-shaped...",
		"The ashes are cold.",
		"You see the remnants of a cooked rat.",
	}
	idx := (loc.Row*7 + loc.Col*3) % len(msgs)
	if idx < 0 {
		idx += len(msgs)
	}
	return msgs[idx]
}

// maybeFight is the bump handler. Hostiles get attacked outright,
// neutral parties only after a confirmation.
func (g *Game) maybeFight(dest gamemap.Loc) float64 {
	n := g.Objs.NPCAt(dest)
	if n == nil {
		return 0
	}
	switch n.Attitude {
	case world.AttHostile:
		combat.PlayerAttacks(g.Objs, n.ID, g.Log, g.Events, g.Rng)
		return 1
	case world.AttIndifferent, world.AttStranger:
		if !g.confirm(fmt.Sprintf("Really attack %s? (y/n)", n.FullName())) {
			return 0
		}
		n.Attitude = world.AttHostile
		n.Active = true
		combat.PlayerAttacks(g.Objs, n.ID, g.Log, g.Events, g.Rng)
		return 1
	default:
		g.writeMsg(world.Capitalize(fmt.Sprintf("%s is in your way!", n.FullName())))
		return 1
	}
}

func (g *Game) openAt(loc gamemap.Loc) float64 {
	tile := g.Map.At(loc)
	if tile.Kind != gamemap.TileDoor {
		g.writeMsg("You cannot open that!")
		return 0
	}
	switch tile.Door {
	case gamemap.DoorOpen, gamemap.DoorBroken:
		g.writeMsg("The door is already open!")
		return 0
	case gamemap.DoorLocked:
		g.writeMsg("That door is locked!")
		return 1
	default:
		g.Map.SetTile(loc, gamemap.MakeDoor(gamemap.DoorOpen))
		g.writeMsg("You open the door.")
		return 1
	}
}

func (g *Game) closeAt(loc gamemap.Loc) float64 {
	tile := g.Map.At(loc)
	if tile.Kind != gamemap.TileDoor {
		g.writeMsg("You cannot close that!")
		return 0
	}
	switch tile.Door {
	case gamemap.DoorClosed, gamemap.DoorLocked:
		g.writeMsg("The door is already closed!")
		return 0
	case gamemap.DoorBroken:
		g.writeMsg("That door is broken.")
		return 0
	default:
		if g.Objs.BlockingObjAt(loc) {
			g.writeMsg("There's someone in the doorway!")
			return 0
		}
		g.Map.SetTile(loc, gamemap.MakeDoor(gamemap.DoorClosed))
		g.writeMsg("You close the door.")
		return 1
	}
}

// bashAt kicks a door. Success breaks it for good, and either way the
// racket carries.
func (g *Game) bashAt(loc gamemap.Loc) float64 {
	tile := g.Map.At(loc)
	if tile.Kind != gamemap.TileDoor {
		g.writeMsg("There's nothing there to kick!")
		return 0
	}
	switch tile.Door {
	case gamemap.DoorOpen, gamemap.DoorBroken:
		g.writeMsg("The door is already open!")
		return 0
	default:
		p := g.Player()
		if g.Rng.Intn(20)+1+world.StatMod(p.Str) > 17 {
			g.Map.SetTile(loc, gamemap.MakeDoor(gamemap.DoorBroken))
			g.writeMsg("You smash the door open!")
		} else {
			g.writeMsg("The door holds firm.")
		}
		g.makeNoise(loc, 12)
		return 1
	}
}

// makeNoise wakes everything in earshot.
func (g *Game) makeNoise(loc gamemap.Loc, radius int) {
	ctx := g.npcCtx()
	for _, id := range g.Objs.ListenersFor(world.EventTakeTurn) {
		n := g.Objs.NPC(id)
		if n == nil || !n.Alive || n.Loc.Depth != loc.Depth {
			continue
		}
		dr, dc := n.Loc.Row-loc.Row, n.Loc.Col-loc.Col
		if dr*dr+dc*dc <= radius*radius {
			npc.HeardNoise(ctx, id, loc)
		}
	}
}

// takeStairs moves the player between levels. Stairways share their
// coordinates with the flight above, so only the depth changes.
func (g *Game) takeStairs(down bool) float64 {
	p := g.Player()
	tile := g.Map.At(p.Loc)

	if down {
		switch tile.Kind {
		case gamemap.TilePortal:
			g.writeMsg("You enter the beckoning portal.")
		case gamemap.TileStairsDown:
			g.writeMsg("You brave the stairs downward.")
		default:
			g.writeMsg("You cannot do that here.")
			return 0
		}
		dest := gamemap.Loc{Row: p.Loc.Row, Col: p.Loc.Col, Depth: p.Loc.Depth + 1}
		g.Objs.SetToLoc(world.PlayerID, dest)
		if dest.Depth > p.MaxDepth {
			p.MaxDepth = dest.Depth
		}
		return 1
	}

	if tile.Kind != gamemap.TileStairsUp {
		g.writeMsg("You cannot do that here.")
		return 0
	}
	g.writeMsg("You climb the stairway.")
	dest := gamemap.Loc{Row: p.Loc.Row, Col: p.Loc.Col, Depth: p.Loc.Depth - 1}
	g.Objs.SetToLoc(world.PlayerID, dest)
	if dest.Depth == 0 {
		g.writeMsg("Fresh air!")
	}
	return 1
}

// search gives every hidden thing on or beside the player one chance
// to be noticed off a single perception roll.
func (g *Game) search() float64 {
	p := g.Player()
	roll := p.PerceptionRoll(g.Rng)
	adj := p.Loc.Neighbors8()
	locs := append([]gamemap.Loc{p.Loc}, adj[:]...)
	for _, loc := range locs {
		for _, obj := range g.Objs.HiddenAt(loc) {
			if roll < 15 {
				continue
			}
			g.reveal(obj)
			g.writeMsg(fmt.Sprintf("You find %s!", world.IndefArticle(obj.FullName())))
		}
	}
	return 1
}

func (g *Game) reveal(obj world.Object) {
	switch o := obj.(type) {
	case *world.SpecialSquare:
		o.Hidden = false
	case *world.Item:
		o.Hidden = false
	case *world.GoldPile:
		o.Hidden = false
	case *world.NPC:
		o.Hidden = false
	}
}

// chatAt strikes up a conversation with whoever is on the square.
func (g *Game) chatAt(loc gamemap.Loc) float64 {
	n := g.Objs.NPCAt(loc)
	if n == nil {
		if g.Map.At(loc).Kind == gamemap.TileDoor {
			g.writeMsg("The door is ignoring you.")
		} else {
			g.writeMsg("Oh no, talking to yourself?")
		}
		return 1
	}

	if n.Mode != world.PersonalityVillager {
		g.writeMsg(world.Capitalize(fmt.Sprintf("%s growls.", n.FullName())))
		return 1
	}

	var line string
	switch {
	case n.Voice == "innkeeper":
		line = fmt.Sprintf("Welcome to %s! The beds are clean and the stew is mostly mutton.", g.Info.TavernName)
	case n.Attitude == world.AttHostile || n.Attitude == world.AttFleeing:
		line = "Leave me alone!"
	case n.Attitude == world.AttFriendly:
		line = "Good to see you again, friend."
	case n.Attitude == world.AttStranger:
		line = fmt.Sprintf("A new face! Welcome to %s, stranger.", g.Info.TownName)
	default:
		line = "Fine weather we're having, no?"
	}
	g.popup(world.Capitalize(n.Name), []string{line})
	if n.Attitude == world.AttStranger {
		n.Attitude = world.AttIndifferent
	}
	return 1
}
