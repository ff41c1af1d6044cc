// Package npc drives creature decisions: villagers keeping their
// schedules, monsters hunting the player, and the spells and dirty
// tricks some of them carry. State lives on world.NPC; this package is
// the brain that reads and rewrites it each turn.
package npc

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/zyedidia/generic/mapset"

	"hollowvale/internal/combat"
	"hollowvale/internal/fov"
	"hollowvale/internal/gamemap"
	"hollowvale/internal/geom"
	"hollowvale/internal/pathfind"
	"hollowvale/internal/world"
)

// Ctx bundles everything a creature consults on its turn. The game
// loop builds one per round and hands it to every actor.
type Ctx struct {
	Map    *gamemap.Map
	Objs   *world.Objects
	Info   *world.Info
	Log    *world.MessageLog
	Events *world.EventQueue
	Rng    *rand.Rand
	Clock  world.ClockTime
}

// TakeTurn runs one creature's turn. Paralysis skips it outright and
// confusion replaces it with a stumble; otherwise the current behavior
// decides.
func TakeTurn(ctx *Ctx, id world.ID) {
	n := ctx.Objs.NPC(id)
	if n == nil || !n.Alive {
		return
	}
	if n.HasStatus(world.StatusParalyzed) {
		return
	}
	if n.HasStatus(world.StatusConfused) {
		stumble(ctx, n)
		return
	}

	switch b := n.Behavior(); b.Kind {
	case world.BehaviorHunt:
		huntPlayer(ctx, n)
	case world.BehaviorWander:
		wander(ctx, n)
	case world.BehaviorIdle:
		if n.Mode == world.PersonalityVillager {
			villagerSchedule(ctx, n)
			FollowPlan(ctx, n)
		} else {
			idleMonster(ctx, n)
		}
	case world.BehaviorPlant:
		plantBehavior(ctx, n)
	default:
		panic("behavior not implemented: " + b.Kind.String())
	}
}

// HeardNoise points a monster at a sound it cannot ignore, like a door
// being smashed nearby. Villagers pay it no mind, for now.
func HeardNoise(ctx *Ctx, id world.ID, loc gamemap.Loc) {
	n := ctx.Objs.NPC(id)
	if n == nil || !n.Alive || n.Voice != "monster" {
		return
	}
	n.Attitude = world.AttHostile
	n.Active = true
	if !canSeePlayer(ctx, n) {
		CalcPlanToMove(ctx, n, loc, false)
	}
}

// stumble lurches a confused creature toward a random neighboring
// square, swinging wildly if it lurches into the player.
func stumble(ctx *Ctx, n *world.NPC) {
	d := gamemap.Adj8[ctx.Rng.Intn(len(gamemap.Adj8))]
	dest := n.Loc.Step(d[0], d[1])
	if dest == ctx.Objs.PlayerLoc() {
		combat.MonsterAttacksPlayer(ctx.Objs, n, ctx.Log, ctx.Events, ctx.Rng)
		return
	}
	if ctx.Map.At(dest).PassableDryLand() && !ctx.Objs.BlockingObjAt(dest) {
		ctx.Objs.SetToLoc(n.ID, dest)
		ctx.Events.Push(world.Event{Kind: world.EventSteppedOn, Loc: dest, Source: n.ID})
	}
}

func huntPlayer(ctx *Ctx, n *world.NPC) {
	playerLoc := ctx.Objs.PlayerLoc()
	sees := canSeePlayer(ctx, n)
	adj := areAdj(n.Loc, playerLoc)

	if specialMove(ctx, n, playerLoc, sees, adj) {
		return
	}

	if adj {
		n.PrependAction(world.Action{Kind: world.ActAttack, Loc: playerLoc})
	} else if sees {
		CalcPlanToMove(ctx, n, playerLoc, true)
	} else if len(n.Plan) == 0 {
		// Trail gone cold: drift toward where the player was last seen.
		guess := bestGuessTowardPlayer(ctx.Map, n.Loc, n.LastPlayerLoc)
		CalcPlanToMove(ctx, n, guess, false)
	}

	FollowPlan(ctx, n)
}

func wander(ctx *Ctx, n *world.NPC) {
	if canSeePlayer(ctx, n) {
		n.Attitude = world.AttHostile
		n.Active = true
		huntPlayer(ctx, n)
		return
	}

	// Continue the current amble, or pick somewhere new nearby.
	if len(n.Plan) == 0 {
		for i := 0; i < 50; i++ {
			dest := n.Loc.Step(ctx.Rng.Intn(21)-10, ctx.Rng.Intn(21)-10)
			if ctx.Map.InBounds(dest) && ctx.Map.At(dest).PassableDryLand() {
				CalcPlanToMove(ctx, n, dest, false)
				break
			}
		}
	}

	FollowPlan(ctx, n)
}

func idleMonster(ctx *Ctx, n *world.NPC) {
	if canSeePlayer(ctx, n) {
		n.Attitude = world.AttHostile
		n.Active = true
		huntPlayer(ctx, n)
		return
	}

	randomAdjSq(ctx, n)
	FollowPlan(ctx, n)
}

// plantBehavior is for things rooted in place. They do nothing until
// someone stands beside them, then dust them with whatever payload the
// specimen grew.
func plantBehavior(ctx *Ctx, n *world.NPC) {
	if !areAdj(n.Loc, ctx.Objs.PlayerLoc()) {
		return
	}
	s := fmt.Sprintf("%s releases spores!", world.Capitalize(n.FullName()))
	ctx.Log.Queue(n.ID, n.Loc, s, "Something releases spores into the air!")
	if n.Attrs.Has(world.AttrWeakVenom) {
		combat.ApplyWeakPoison(ctx.Objs, world.PlayerID, n.EDC, ctx.Log, ctx.Rng)
	}
	if n.Attrs.Has(world.AttrConfusion) {
		combat.ApplyConfusion(ctx.Objs, world.PlayerID, n.EDC, ctx.Log, ctx.Rng)
	}
}

func villagerSchedule(ctx *Ctx, n *world.NPC) {
	if item, ok := n.CurrAgendaItem(ctx.Clock); ok {
		checkAgendaItem(ctx, n, item)
		return
	}

	// Nothing on the agenda means heading home.
	b := ctx.Info.Buildings
	if n.Home >= 0 && b != nil && n.Home < len(b.Homes) {
		home := b.Homes[n.Home]
		if !inLocation(ctx.Map, n.Loc, home, true) {
			goToPlace(ctx, n, home)
		} else {
			randomAdjSq(ctx, n)
		}
		return
	}
	randomAdjSq(ctx, n)
}

func checkAgendaItem(ctx *Ctx, n *world.NPC, item world.AgendaItem) {
	var venue mapset.Set[gamemap.Loc]
	b := ctx.Info.Buildings
	switch item.Place.Kind {
	case world.VenueTavern:
		venue = b.Tavern
	case world.VenueMarket:
		venue = b.Market
	case world.VenueSmithy:
		venue = b.Smithy
	case world.VenueShrine:
		venue = b.Shrine
	case world.VenueTownSquare:
		venue = ctx.Info.TownSquare
	case world.VenueHome:
		if item.Place.Building >= 0 && item.Place.Building < len(b.Homes) {
			venue = b.Homes[item.Place.Building]
		}
	default:
		panic("venue not implemented: " + fmt.Sprint(item.Place.Kind))
	}

	if venue.Size() > 0 && !inLocation(ctx.Map, n.Loc, venue, true) {
		goToPlace(ctx, n, venue)
	} else {
		randomAdjSq(ctx, n)
	}
}

// goToPlace points the plan at the destination. Which square inside it
// does not matter much, so any one of them does.
func goToPlace(ctx *Ctx, n *world.NPC, sqs mapset.Set[gamemap.Loc]) {
	locs := make([]gamemap.Loc, 0, sqs.Size())
	sqs.Each(func(l gamemap.Loc) {
		locs = append(locs, l)
	})
	if len(locs) == 0 {
		return
	}
	sort.Slice(locs, func(i, j int) bool {
		if locs[i].Row != locs[j].Row {
			return locs[i].Row < locs[j].Row
		}
		return locs[i].Col < locs[j].Col
	})
	CalcPlanToMove(ctx, n, locs[ctx.Rng.Intn(len(locs))], false)
}

func inLocation(m *gamemap.Map, loc gamemap.Loc, sqs mapset.Set[gamemap.Loc], indoorsOnly bool) bool {
	if !sqs.Has(loc) {
		return false
	}
	if indoorsOnly {
		return m.At(loc).Indoors()
	}
	return true
}

// bestGuessTowardPlayer is a cheap stand-in for pathfinding once the
// trail has gone cold: the open neighbor closest to where the player
// was last seen.
func bestGuessTowardPlayer(m *gamemap.Map, loc, lastSeen gamemap.Loc) gamemap.Loc {
	nearest := math.MaxInt
	best := loc
	for _, a := range loc.Neighbors8() {
		if !m.At(a).PassableDryLand() {
			continue
		}
		d := geom.DistanceSq(a.Row, a.Col, lastSeen.Row, lastSeen.Col)
		if d < nearest {
			best = a
			nearest = d
		}
	}
	return best
}

func randomAdjSq(ctx *Ctx, n *world.NPC) {
	if ctx.Rng.Float64() >= 0.33 {
		return
	}
	d := gamemap.Adj8[ctx.Rng.Intn(len(gamemap.Adj8))]
	adj := n.Loc.Step(d[0], d[1])
	if !ctx.Objs.BlockingObjAt(adj) && ctx.Map.At(adj).PassableDryLand() {
		CalcPlanToMove(ctx, n, adj, false)
	}
}

// CalcPlanToMove replaces the plan with a route to goal. The path
// comes back goal first and ends on the creature's own square, so the
// start is dropped and the rest enqueued in walking order.
func CalcPlanToMove(ctx *Ctx, n *world.NPC, goal gamemap.Loc, stopShort bool) {
	n.ClearPlan()
	path := pathfind.FindPath(ctx.Map, stopShort, n.Loc, goal, 50, MoveCosts(n.Attrs))
	if len(path) == 0 {
		return
	}
	path = path[:len(path)-1]
	for i := len(path) - 1; i >= 0; i-- {
		n.EnqueueAction(world.Action{Kind: world.ActMove, Loc: path[i]})
	}
}

// FollowPlan carries out the next queued step. Steps that stall, like
// finding a door that wants opening first, push replacement work onto
// the front of the plan for the following turn.
func FollowPlan(ctx *Ctx, n *world.NPC) {
	action, ok := n.NextAction()
	if !ok {
		return
	}
	switch action.Kind {
	case world.ActMove:
		tryToMoveTo(ctx, n, action.Loc)
	case world.ActOpenDoor:
		openDoor(ctx, n, action.Loc)
	case world.ActCloseDoor:
		closeDoor(ctx, n, action.Loc)
	case world.ActUnlockDoor:
		unlockDoor(ctx, n, action.Loc)
	case world.ActSmashDoor:
		smashDoor(ctx, n, action.Loc)
	case world.ActAttack:
		combat.MonsterAttacksPlayer(ctx.Objs, n, ctx.Log, ctx.Events, ctx.Rng)
	}
}

func tryToMoveTo(ctx *Ctx, n *world.NPC, goal gamemap.Loc) {
	if ctx.Objs.BlockingObjAt(goal) {
		if n.Mode == world.PersonalityVillager {
			ctx.Log.Queue(n.ID, goal, `"Excuse me."`, `"Excuse me."`)
		}
		// Someone in the way invalidates the whole route; an empty
		// plan triggers a fresh one next turn.
		n.ClearPlan()
		return
	}

	tile := ctx.Map.At(goal)
	switch {
	case tile.IsDoor(gamemap.DoorClosed):
		n.PrependAction(world.Action{Kind: world.ActMove, Loc: goal})
		openDoor(ctx, n, goal)
	case tile.IsDoor(gamemap.DoorLocked) && n.Attrs.Has(world.AttrUnlockDoors):
		n.PrependAction(world.Action{Kind: world.ActMove, Loc: goal})
		unlockDoor(ctx, n, goal)
	case tile.IsDoor(gamemap.DoorLocked) && n.Attrs.Has(world.AttrSmashDoors):
		smashDoor(ctx, n, goal)
	default:
		// Villagers close doors behind themselves.
		if n.Mode == world.PersonalityVillager && ctx.Map.At(n.Loc).IsDoor(gamemap.DoorOpen) {
			n.PrependAction(world.Action{Kind: world.ActCloseDoor, Loc: n.Loc})
		}
		ctx.Objs.SetToLoc(n.ID, goal)
		ctx.Events.Push(world.Event{Kind: world.EventSteppedOn, Loc: goal, Source: n.ID})
	}
}

func openDoor(ctx *Ctx, n *world.NPC, loc gamemap.Loc) {
	ctx.Map.SetTile(loc, gamemap.MakeDoor(gamemap.DoorOpen))
	s := fmt.Sprintf("%s opens the door.", world.Capitalize(n.FullName()))
	ctx.Log.Queue(n.ID, n.Loc, s, "You hear a door open.")
}

func unlockDoor(ctx *Ctx, n *world.NPC, loc gamemap.Loc) {
	ctx.Map.SetTile(loc, gamemap.MakeDoor(gamemap.DoorClosed))
	s := fmt.Sprintf("%s fiddles with the lock.", world.Capitalize(n.FullName()))
	ctx.Log.Queue(n.ID, n.Loc, s, "Something fiddles with the lock.")
}

func smashDoor(ctx *Ctx, n *world.NPC, loc gamemap.Loc) {
	if combat.AbilityCheck(n, ctx.Rng) > 17 {
		ctx.Map.SetTile(loc, gamemap.MakeDoor(gamemap.DoorBroken))
		s := fmt.Sprintf("%s smashes down the door.", world.Capitalize(n.FullName()))
		ctx.Log.Queue(n.ID, n.Loc, s, "Wham! You hear wood rending!")
		n.PrependAction(world.Action{Kind: world.ActMove, Loc: loc})
	} else {
		s := fmt.Sprintf("%s slams into the door.", world.Capitalize(n.FullName()))
		ctx.Log.Queue(n.ID, n.Loc, s, "Wham! Something slams against a door!")
		n.PrependAction(world.Action{Kind: world.ActSmashDoor, Loc: loc})
	}
}

func closeDoor(ctx *Ctx, n *world.NPC, loc gamemap.Loc) {
	if ctx.Objs.BlockingObjAt(loc) {
		ctx.Log.Queue(n.ID, n.Loc, `"Please don't stand in the doorway."`, `"Please don't stand in the doorway."`)
		n.PrependAction(world.Action{Kind: world.ActCloseDoor, Loc: loc})
		return
	}
	if ctx.Map.At(loc).IsDoor(gamemap.DoorOpen) {
		ctx.Map.SetTile(loc, gamemap.MakeDoor(gamemap.DoorClosed))
		if n.Attitude == world.AttStranger {
			ctx.Log.Queue(n.ID, n.Loc, "The villager closes the door.", "You hear a door close.")
		} else {
			s := fmt.Sprintf("%s closes the door.", world.Capitalize(n.FullName()))
			ctx.Log.Queue(n.ID, n.Loc, s, "You hear a door close.")
		}
	}
}

// specialMove gives a creature's signature tricks first claim on its
// turn. Returns true when one fired and the turn is spent.
func specialMove(ctx *Ctx, n *world.NPC, playerLoc gamemap.Loc, sees, adj bool) bool {
	if n.Attrs.Has(world.AttrWebslinger) && sees && !adj {
		d := geom.Distance(n.Loc.Row, n.Loc.Col, playerLoc.Row, playerLoc.Col)
		if d < 5.0 && ctx.Rng.Float64() < 0.33 {
			spinWebs(ctx, n, playerLoc)
			return true
		}
	}

	if n.Attrs.Has(world.AttrMinorBlackMagic) && minorBlackMagic(ctx, n, playerLoc, sees) {
		return true
	}

	if n.Attrs.Has(world.AttrMinorTrickery) && minorTrickery(ctx, n, playerLoc, sees, adj) {
		return true
	}

	return false
}

// spinWebs drops a web on the player's square and scatters more over
// most of the open squares around it.
func spinWebs(ctx *Ctx, n *world.NPC, loc gamemap.Loc) {
	web := world.NewWeb(ctx.Objs.NextID(), loc, n.EDC)
	ctx.Objs.Add(web)

	for _, adj := range loc.Neighbors8() {
		if ctx.Map.At(adj).Passable() && ctx.Rng.Float64() < 0.66 {
			web := world.NewWeb(ctx.Objs.NextID(), adj, n.EDC)
			ctx.Objs.Add(web)
		}
	}

	s := fmt.Sprintf("%s spins a web.", world.Capitalize(n.FullName()))
	ctx.Log.Queue(n.ID, loc, s, "")
}

func minorBlackMagic(ctx *Ctx, n *world.NPC, playerLoc gamemap.Loc, sees bool) bool {
	d := geom.Distance(n.Loc.Row, n.Loc.Col, playerLoc.Row, playerLoc.Col)

	// Injured and cornered, they bail out half the time.
	if float64(n.CurrHP)/float64(n.MaxHP) < 0.33 && d <= 3.0 && ctx.Rng.Float64() < 0.5 {
		s := fmt.Sprintf("%s blinks away!", world.Capitalize(n.FullName()))
		ctx.Log.Queue(n.ID, n.Loc, s, "You hear a poof.")
		combat.Blink(ctx.Map, ctx.Objs, n.ID, ctx.Rng)
		return true
	}

	if sees && d <= 3.0 && ctx.Rng.Float64() < 0.33 {
		s := fmt.Sprintf("%s mumbles.", world.Capitalize(n.FullName()))
		ctx.Log.Queue(n.ID, n.Loc, s, "You hear mumbling.")
		ctx.Log.Queue(n.ID, playerLoc, "A shroud falls over your eyes!", "A shroud falls over your eyes!")
		ctx.Objs.Player().AddStatus(world.StatusBlind, ctx.Rng.Intn(3)+3)
		return true
	}

	if sees && d <= 3.0 && ctx.Rng.Float64() < 0.33 {
		s := fmt.Sprintf("%s mumbles.", world.Capitalize(n.FullName()))
		ctx.Log.Queue(n.ID, n.Loc, s, "You hear mumbling.")
		ctx.Log.Queue(n.ID, n.Loc, "You have been cursed!", "You have been cursed!")
		ctx.Objs.Player().AddStatus(world.StatusBane, ctx.Rng.Intn(3)+3)
		return true
	}

	return false
}

func minorTrickery(ctx *Ctx, n *world.NPC, playerLoc gamemap.Loc, sees, adj bool) bool {
	d := geom.Distance(n.Loc.Row, n.Loc.Col, playerLoc.Row, playerLoc.Col)
	invisible := n.HasStatus(world.StatusInvisible)

	if float64(n.CurrHP)/float64(n.MaxHP) < 0.33 && d <= 3.0 && ctx.Rng.Float64() < 0.5 {
		s := fmt.Sprintf("%s blinks away!", world.Capitalize(n.FullName()))
		ctx.Log.Queue(n.ID, n.Loc, s, "You hear a poof.")
		combat.Blink(ctx.Map, ctx.Objs, n.ID, ctx.Rng)
		return true
	}

	if sees && !invisible && ctx.Rng.Float64() < 0.33 {
		s := fmt.Sprintf("%s disappears!", world.Capitalize(n.FullName()))
		ctx.Log.Queue(n.ID, n.Loc, s, "")
		n.AddStatus(world.StatusInvisible, ctx.Rng.Intn(3)+5)
		return true
	}

	if !n.HasStatus(world.StatusCoolingDown) && adj && !invisible && ctx.Rng.Float64() < 0.33 {
		// Three duplicates at once, to really muddy the water.
		createPhantasm(ctx, n, playerLoc)
		createPhantasm(ctx, n, playerLoc)
		createPhantasm(ctx, n, playerLoc)
		n.AddStatus(world.StatusCoolingDown, 10)
		return true
	}

	return false
}

// createPhantasm conjures a duplicate of the caster beside centre. The
// caster sometimes swaps places with it, so the player cannot be sure
// which one bleeds.
func createPhantasm(ctx *Ctx, n *world.NPC, centre gamemap.Loc) {
	var options []gamemap.Loc
	for _, adj := range centre.Neighbors8() {
		if !ctx.Objs.BlockingObjAt(adj) && ctx.Map.At(adj).Passable() {
			options = append(options, adj)
		}
	}
	if len(options) == 0 {
		return
	}

	loc := options[ctx.Rng.Intn(len(options))]
	phantasm := NewPhantasm(ctx.Objs.NextID(), n.Name, n.Ch, loc, n.ID)
	ctx.Objs.Add(phantasm)
	ctx.Objs.Listen(phantasm.ID, world.EventTakeTurn)
	ctx.Objs.Listen(phantasm.ID, world.EventDeathOf)
	phantasm.AddStatus(world.StatusFading, 10)

	s := fmt.Sprintf("Another %s appears!", n.Name)
	ctx.Log.Queue(phantasm.ID, loc, s, "")

	if ctx.Rng.Float64() < 0.33 {
		casterLoc := n.Loc
		ctx.Objs.SetToLoc(n.ID, loc)
		ctx.Objs.SetToLoc(phantasm.ID, casterLoc)
	}
}

// canSeePlayer runs the creature's detection check: a distance gate, a
// line of sight test, then a perception roll against the player's
// stealth. The roll is skipped while the creature already has eyes on
// the player; losing sight forces a fresh roll next time.
func canSeePlayer(ctx *Ctx, n *world.NPC) bool {
	playerLoc := ctx.Objs.PlayerLoc()
	if n.Loc.Depth != playerLoc.Depth ||
		geom.DistanceSq(n.Loc.Row, n.Loc.Col, playerLoc.Row, playerLoc.Col) >= 169 {
		n.RecentlySawPlayer = false
		return false
	}

	visible := fov.Visible(ctx.Map, n.Loc, 12, true, nil)
	if !visible.Has(playerLoc) {
		n.RecentlySawPlayer = false
		return false
	}

	if !n.RecentlySawPlayer {
		if ctx.Rng.Intn(20)+1+n.Level < ctx.Objs.Player().Stealth() {
			return false
		}
	}

	n.RecentlySawPlayer = true
	n.LastPlayerLoc = playerLoc
	return true
}

func areAdj(a, b gamemap.Loc) bool {
	if a.Depth != b.Depth || a == b {
		return false
	}
	dr, dc := a.Row-b.Row, a.Col-b.Col
	return dr >= -1 && dr <= 1 && dc >= -1 && dc <= 1
}
