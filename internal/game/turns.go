package game

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"

	"hollowvale/internal/combat"
	"hollowvale/internal/fov"
	"hollowvale/internal/gamemap"
	"hollowvale/internal/npc"
	"hollowvale/internal/world"
)

// eventDispatchCap bounds one round's event cascade. Two squares
// wired at each other could otherwise ping-pong forever.
const eventDispatchCap = 500

// endRound runs everything that happens after the player's energy is
// spent: creatures act, lights burn, queued events land, conditions
// tick, and the clock moves.
func (g *Game) endRound() (ExitReason, bool) {
	g.doNPCTurns()
	g.Objs.CheckForDeadNPCs()
	g.runUpdate()
	g.runEndOfTurn()
	g.tickStatuses()
	reason, over := g.drainEvents()
	g.flushLog()
	if over {
		return reason, true
	}

	p := g.Player()
	p.Energy += p.EnergyRestore
	if g.Turn%25 == 0 {
		p.AddHP(1)
	}
	g.Turn++
	g.RefreshView()
	return 0, false
}

// doNPCTurns gives every creature its share of the round. The id list
// is snapshotted first since acting can add or remove creatures.
// Creatures on dungeon floors the player has left stay frozen, and
// bank nothing while frozen.
func (g *Game) doNPCTurns() {
	ctx := g.npcCtx()
	pdepth := g.Player().Loc.Depth
	for _, id := range g.Objs.ListenersFor(world.EventTakeTurn) {
		n := g.Objs.NPC(id)
		if n == nil || !n.Alive {
			continue
		}
		if n.Loc.Depth != 0 && n.Loc.Depth != pdepth {
			continue
		}
		n.Energy += n.Recovery
		for n.Alive && n.Energy >= 1.0 {
			npc.TakeTurn(ctx, id)
			n.Energy -= 1.0
		}
	}
}

// runUpdate rebuilds the lit and aura sets from every active light
// source: town fires, shrine auras, and burning torches wherever they
// are, including the player's hand.
func (g *Game) runUpdate() {
	g.LitSqs = mapset.New[gamemap.Loc]()
	g.AuraSqs = mapset.New[gamemap.Loc]()
	pdepth := g.Player().Loc.Depth
	for _, id := range g.Objs.ListenersFor(world.EventUpdate) {
		if sq := g.specialByID(id); sq != nil {
			g.markSpecial(sq)
			continue
		}
		it, loc, ok := g.lightByID(id)
		if !ok || !it.Equipped || it.Aura <= 0 || loc.Depth != pdepth {
			continue
		}
		g.markLit(loc, it.Aura)
	}
}

func (g *Game) specialByID(id world.ID) *world.SpecialSquare {
	if sq, ok := g.Objs.Get(id).(*world.SpecialSquare); ok {
		return sq
	}
	return nil
}

// lightByID finds a subscribed light on the floor or in the player's
// pack. A carried light shines from wherever the player is.
func (g *Game) lightByID(id world.ID) (*world.Item, gamemap.Loc, bool) {
	if obj := g.Objs.Get(id); obj != nil {
		it, ok := obj.(*world.Item)
		if !ok {
			return nil, gamemap.Loc{}, false
		}
		return it, it.Loc, true
	}
	if it := g.Player().InventoryItem(id); it != nil {
		return it, g.Player().Loc, true
	}
	return nil, gamemap.Loc{}, false
}

func (g *Game) markSpecial(sq *world.SpecialSquare) {
	if !sq.Active || sq.Radius <= 0 {
		return
	}
	area := fov.Visible(g.Map, sq.Loc, sq.Radius, true, nil)
	area.Each(func(l gamemap.Loc) {
		g.LitSqs.Put(l)
		if sq.Tile.Kind == gamemap.TileShrine {
			g.AuraSqs.Put(l)
		}
	})
}

func (g *Game) markLit(loc gamemap.Loc, radius int) {
	area := fov.Visible(g.Map, loc, radius, true, nil)
	area.Each(func(l gamemap.Loc) { g.LitSqs.Put(l) })
}

// runEndOfTurn burns every lit light down a notch, with warnings on
// the way out.
func (g *Game) runEndOfTurn() {
	for _, id := range g.Objs.ListenersFor(world.EventEndOfTurn) {
		it, loc, ok := g.lightByID(id)
		if !ok || it.Kind != world.ItemLight || !it.Equipped {
			continue
		}
		carried := g.Objs.Get(id) == nil
		owner := "The"
		if carried {
			owner = "Your"
		}
		it.Charges--
		switch {
		case it.Charges == 150:
			g.lightMsg(carried, loc, fmt.Sprintf("%s %s flickers.", owner, it.Name))
			it.Aura -= 2
		case it.Charges == 25:
			g.lightMsg(carried, loc, fmt.Sprintf("%s %s seems about to go out.", owner, it.Name))
		case it.Charges <= 0:
			g.lightMsg(carried, loc, fmt.Sprintf("%s %s has gone out!", owner, it.Name))
			g.expireLight(id, carried)
		}
	}
}

func (g *Game) lightMsg(carried bool, loc gamemap.Loc, text string) {
	if carried {
		g.writeMsg(text)
		return
	}
	g.Log.Queue(world.NoID, loc, text, "")
}

// expireLight removes a spent light entirely.
func (g *Game) expireLight(id world.ID, carried bool) {
	g.Objs.StopListening(id, world.EventUpdate)
	g.Objs.StopListening(id, world.EventEndOfTurn)
	if carried {
		g.Player().RemoveFromInventory(id)
	} else {
		g.Objs.Remove(id)
	}
}

// drainEvents dispatches queued events until the queue settles. The
// second return is true when one of them ended the run.
func (g *Game) drainEvents() (ExitReason, bool) {
	dispatched := 0
	for {
		ev, ok := g.Events.Pop()
		if !ok {
			return 0, false
		}
		dispatched++
		if dispatched > eventDispatchCap {
			logrus.WithFields(logrus.Fields{
				"kind": ev.Kind,
				"turn": g.Turn,
			}).Error("event cascade hit the dispatch cap, dropping the rest")
			for {
				if _, more := g.Events.Pop(); !more {
					return 0, false
				}
			}
		}
		switch ev.Kind {
		case world.EventGateClosed:
			g.checkClosedGate(ev.Loc)
		case world.EventPlayerKilled:
			g.killScreen(ev.Text)
			return ExitDeath, true
		case world.EventLevelUp:
			p := g.Player()
			p.LevelUp(g.Rng)
			g.writeMsg(fmt.Sprintf("Welcome to level %d!", p.Level))
		case world.EventDeathOf:
			g.unravelBoundTo(ev.Source)
		case world.EventSteppedOn:
			g.steppedOn(ev.Loc, ev.Source)
		}
	}
}

// unravelBoundTo pops every conjured duplicate whose caster just died.
func (g *Game) unravelBoundTo(caster world.ID) {
	for _, id := range g.Objs.ListenersFor(world.EventDeathOf) {
		n := g.Objs.NPC(id)
		if n == nil || !n.Alive || n.BoundTo != caster {
			continue
		}
		n.Alive = false
		g.Log.Queue(n.ID, n.Loc, world.Capitalize(fmt.Sprintf("%s fades from existence!", n.FullName())), "")
	}
	g.Objs.CheckForDeadNPCs()
}

// steppedOn fires the square's hidden machinery under whoever just
// arrived. who may be the player or any creature.
func (g *Game) steppedOn(loc gamemap.Loc, who world.ID) {
	for _, id := range g.Objs.ListenersFor(world.EventSteppedOn) {
		sq := g.specialByID(id)
		if sq == nil || sq.Loc != loc {
			continue
		}
		switch {
		case sq.IsTeleportTrap():
			g.springTeleport(sq, who)
		case sq.Tile.Kind == gamemap.TileTrigger:
			g.pressPlate(sq)
		}
	}
}

func (g *Game) springTeleport(sq *world.SpecialSquare, who world.ID) {
	if who == world.PlayerID {
		g.writeMsg("A feeling of vertigo!")
	}
	sq.Hidden = false
	dest, ok := g.randomOpenSq(sq.Loc.Depth)
	if !ok {
		return
	}
	g.Objs.SetToLoc(who, dest)
	if who == world.PlayerID {
		g.RefreshView()
	}
}

func (g *Game) pressPlate(sq *world.SpecialSquare) {
	g.Log.Queue(sq.ID, sq.Loc, "Click.", "You hear a click.")
	sq.Active = !sq.Active
	if sq.Target != world.NoID {
		g.pullGate(sq.Target)
	}
}

// pullGate toggles a portcullis. For gates Active means closed.
func (g *Game) pullGate(id world.ID) {
	gate := g.specialByID(id)
	if gate == nil || !gate.IsGate() {
		return
	}
	gate.Active = !gate.Active
	g.Log.Queue(gate.ID, gate.Loc, "You hear a metallic grinding.", "You hear a metallic grinding.")
	if gate.Active {
		g.Map.SetTile(gate.Loc, gamemap.MakeGate(gamemap.DoorClosed))
		g.Events.Push(world.Event{Kind: world.EventGateClosed, Loc: gate.Loc, Source: gate.ID})
	} else {
		g.Map.SetTile(gate.Loc, gamemap.MakeGate(gamemap.DoorOpen))
		g.Events.Push(world.Event{Kind: world.EventGateOpened, Loc: gate.Loc, Source: gate.ID})
	}
}

// checkClosedGate shoves whoever is standing in a gateway clear of the
// falling portcullis. With nowhere to shove them, they stay put on the
// gate square.
func (g *Game) checkClosedGate(loc gamemap.Loc) {
	if g.Player().Loc == loc {
		if dest, ok := g.shoveDest(loc); ok {
			g.writeMsg("You are shoved out of the way by the falling gate!")
			g.Objs.SetToLoc(world.PlayerID, dest)
		}
		return
	}
	n := g.Objs.NPCAt(loc)
	if n == nil {
		return
	}
	if dest, ok := g.shoveDest(loc); ok {
		g.Log.Queue(n.ID, loc, world.Capitalize(fmt.Sprintf("%s is shoved out of the way by the falling gate!", n.FullName())), "")
		g.Objs.SetToLoc(n.ID, dest)
		g.steppedOn(dest, n.ID)
	}
}

func (g *Game) shoveDest(loc gamemap.Loc) (gamemap.Loc, bool) {
	adj := loc.Neighbors8()
	sqs := adj[:]
	g.Rng.Shuffle(len(sqs), func(i, j int) { sqs[i], sqs[j] = sqs[j], sqs[i] })
	for _, dest := range sqs {
		if g.Map.Passable(dest) && !g.Objs.BlockingObjAt(dest) {
			return dest, true
		}
	}
	return gamemap.Loc{}, false
}

// tickStatuses counts every condition down and announces the ones
// that run out. Poison also takes its bite here.
func (g *Game) tickStatuses() {
	p := g.Player()
	if p.HasStatus(world.StatusPoisoned) {
		combat.DamagePlayer(p, 1, world.DmgPoison, "poison", g.Events)
	}
	for _, kind := range p.TickStatuses() {
		switch kind {
		case world.StatusPoisoned:
			g.writeMsg("The sickness passes.")
		case world.StatusParalyzed:
			g.writeMsg("You can move again!")
		case world.StatusConfused:
			g.writeMsg("Your head clears.")
		case world.StatusBlind:
			g.writeMsg("You can see again!")
		case world.StatusBane:
			g.writeMsg("The curse lifts.")
		case world.StatusInvisible:
			g.writeMsg("You fade back into view.")
		}
	}

	for _, id := range g.Objs.ListenersFor(world.EventTakeTurn) {
		n := g.Objs.NPC(id)
		if n == nil || !n.Alive {
			continue
		}
		for _, kind := range n.TickStatuses() {
			if kind == world.StatusFading {
				n.Alive = false
				g.Log.Queue(n.ID, n.Loc, world.Capitalize(fmt.Sprintf("%s fades from existence!", n.FullName())), "")
			}
		}
	}
	g.Objs.CheckForDeadNPCs()
}
