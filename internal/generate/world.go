// Package generate builds the world: the wilderness surface, the town
// stamped onto it, and the dungeon floors below, along with everything
// living in them when a run starts.
package generate

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"

	"hollowvale/assets"
	"hollowvale/internal/gamemap"
	"hollowvale/internal/geom"
	"hollowvale/internal/npc"
	"hollowvale/internal/pathfind"
	"hollowvale/internal/world"
)

// DungeonDepths is how many floors descend below the surface. The
// deepest is a cavern.
const DungeonDepths = 3

// BuildWorld rolls the whole playfield and populates it. A single rng
// drives every stage.
func BuildWorld(objs *world.Objects, tables *assets.Tables, rng *rand.Rand) (*gamemap.Map, *world.Info, error) {
	m := gamemap.New()
	Wilderness(m, rng)

	info, err := Town(m, objs, tables, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("building town: %w", err)
	}

	entrance := dungeonEntrance(m, largestValley(findValleys(m)), rng)
	if err := buildDungeon(m, objs, tables, entrance, rng); err != nil {
		return nil, nil, fmt.Errorf("building dungeon: %w", err)
	}
	info.Facts = append(info.Facts, world.Fact{Detail: "dungeon location", Loc: entrance})

	addOldRoad(m, entrance, rng)
	// The portal goes down last so the road could path from its square.
	m.SetTile(entrance, gamemap.Make(gamemap.TilePortal))

	return m, info, nil
}

// findValleys flood fills the surface into regions separated by
// mountain ranges. Water counts as valley floor.
func findValleys(m *gamemap.Map) [][]gamemap.Loc {
	visited := make(map[gamemap.Loc]bool)
	var valleys [][]gamemap.Loc

	for r := 0; r < WildernessSize; r++ {
		for c := 0; c < WildernessSize; c++ {
			start := gamemap.Loc{Row: r, Col: c}
			if visited[start] || isRange(m.At(start).Kind) {
				continue
			}
			visited[start] = true
			stack := []gamemap.Loc{start}
			var region []gamemap.Loc
			for len(stack) > 0 {
				loc := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				region = append(region, loc)
				for _, d := range gamemap.Adj4 {
					n := loc.Step(d[0], d[1])
					if visited[n] || !m.InBounds(n) || isRange(m.At(n).Kind) {
						continue
					}
					visited[n] = true
					stack = append(stack, n)
				}
			}
			valleys = append(valleys, region)
		}
	}
	return valleys
}

func isRange(kind gamemap.TileKind) bool {
	return kind == gamemap.TileMountain || kind == gamemap.TileSnowPeak
}

func largestValley(valleys [][]gamemap.Loc) []gamemap.Loc {
	best := 0
	for i := range valleys {
		if len(valleys[i]) > len(valleys[best]) {
			best = i
		}
	}
	return valleys[best]
}

// dungeonEntrance picks a walkable square of the main valley tucked
// against the mountains. When the terrain offers no nook at all, any
// walkable valley square serves.
func dungeonEntrance(m *gamemap.Map, valley []gamemap.Loc, rng *rand.Rand) gamemap.Loc {
	var options, open []gamemap.Loc
	for _, loc := range valley {
		if !m.At(loc).PassableDryLand() {
			continue
		}
		open = append(open, loc)
		if mountainsAround(m, loc) >= 4 {
			options = append(options, loc)
		}
	}
	if len(options) > 0 {
		return options[rng.Intn(len(options))]
	}
	logrus.Warn("no mountain nook for the dungeon entrance, settling for open ground")
	if len(open) > 0 {
		return open[rng.Intn(len(open))]
	}
	return valley[rng.Intn(len(valley))]
}

func mountainsAround(m *gamemap.Map, loc gamemap.Loc) int {
	count := 0
	for _, n := range loc.Neighbors8() {
		if isRange(m.At(n).Kind) {
			count++
		}
	}
	return count
}

// buildDungeon carves the floors, links them with stairs, shifts them
// into world coordinates under the entrance, and fills them with
// leavings, traps, vault hoards, and monsters.
func buildDungeon(m *gamemap.Map, objs *world.Objects, tables *assets.Tables, entrance gamemap.Loc, rng *rand.Rand) error {
	levels := make([]*Level, 0, DungeonDepths)
	for d := 1; d < DungeonDepths; d++ {
		levels = append(levels, Dungeon(rng))
	}
	levels = append(levels, Cave(rng, DungeonHeight, DungeonWidth))

	topStairs := placeStairs(levels, rng)

	// One shift for every floor keeps stairways vertically aligned in
	// world coordinates.
	deltaR := entrance.Row - topStairs[0]
	deltaC := entrance.Col - topStairs[1]
	floors := make([][]gamemap.Loc, len(levels))
	for i, lvl := range levels {
		depth := i + 1
		m.SetDims(depth, deltaR+lvl.Height, deltaC+lvl.Width)
		for r := 0; r < lvl.Height; r++ {
			for c := 0; c < lvl.Width; c++ {
				loc := gamemap.Loc{Row: r + deltaR, Col: c + deltaC, Depth: depth}
				t := lvl.At(r, c)
				m.SetTile(loc, t)
				if t.Kind == gamemap.TileStoneFloor {
					floors[i] = append(floors[i], loc)
				}
			}
		}
	}

	if err := decorateFloors(m, objs, tables, floors, rng); err != nil {
		return err
	}
	gateVaults(m, objs, levels, deltaR, deltaC, rng)
	return seedMonsters(objs, tables, floors, rng)
}

// placeStairs links the floors: an up stairway under the entrance on
// the first floor, and a shared square between each consecutive pair
// so that going down and climbing back up keeps your coordinates.
// Stair squares come off the open lists so nothing else lands on
// them.
func placeStairs(levels []*Level, rng *rand.Rand) [2]int {
	open := make([]map[[2]int]bool, len(levels))
	for i, lvl := range levels {
		open[i] = make(map[[2]int]bool)
		for r := 0; r < lvl.Height; r++ {
			for c := 0; c < lvl.Width; c++ {
				if lvl.At(r, c).Kind == gamemap.TileStoneFloor {
					open[i][[2]int{r, c}] = true
				}
			}
		}
	}

	entrance := pickOpen(open[0], rng)
	levels[0].set(entrance[0], entrance[1], gamemap.Make(gamemap.TileStairsUp))
	delete(open[0], entrance)

	for i := 0; i+1 < len(levels); i++ {
		var shared [][2]int
		for sq := range open[i] {
			if open[i+1][sq] {
				shared = append(shared, sq)
			}
		}
		var down [2]int
		if len(shared) == 0 {
			// No square open on both floors, so carve one through.
			down = pickOpen(open[i], rng)
			logrus.WithField("floor", i+1).Debug("no shared stair square, carving through")
		} else {
			sortSqs(shared)
			down = shared[rng.Intn(len(shared))]
		}
		levels[i].set(down[0], down[1], gamemap.Make(gamemap.TileStairsDown))
		levels[i+1].set(down[0], down[1], gamemap.Make(gamemap.TileStairsUp))
		delete(open[i], down)
		delete(open[i+1], down)
	}
	return entrance
}

func pickOpen(open map[[2]int]bool, rng *rand.Rand) [2]int {
	sqs := make([][2]int, 0, len(open))
	for sq := range open {
		sqs = append(sqs, sq)
	}
	sortSqs(sqs)
	return sqs[rng.Intn(len(sqs))]
}

func sortSqs(sqs [][2]int) {
	sort.Slice(sqs, func(i, j int) bool {
		if sqs[i][0] != sqs[j][0] {
			return sqs[i][0] < sqs[j][0]
		}
		return sqs[i][1] < sqs[j][1]
	})
}

// decorateFloors scatters signs of earlier expeditions through the
// upper floors, an old fire pit with a scrap of writing beside it and
// the dead's coin in the ashes, and hides one teleport trap on every
// floor.
func decorateFloors(m *gamemap.Map, objs *world.Objects, tables *assets.Tables, floors [][]gamemap.Loc, rng *rand.Rand) error {
	for i, sqs := range floors {
		if len(sqs) == 0 {
			continue
		}

		if i+1 < len(floors) {
			idx := rng.Intn(len(sqs))
			pit := sqs[idx]
			sqs[idx] = sqs[len(sqs)-1]
			sqs = sqs[:len(sqs)-1]
			floors[i] = sqs
			m.SetTile(pit, gamemap.Make(gamemap.TileOldFirePit))

			if adj, ok := randomFloorAdj(m, pit, rng); ok {
				note, err := tables.Items.New(objs.NextID(), "note")
				if err != nil {
					return err
				}
				note.Loc = adj
				note.Writing = &world.Writing{
					Desc:  "burnt scrap of parchment",
					Words: "Is there no end to the swarms of kobolds?",
				}
				objs.Add(note)
			}

			pile := world.NewGoldPile(objs.NextID(), 4+rng.Intn(7))
			pile.Loc = pit
			pile.Hidden = true
			objs.Add(pile)
		}

		if len(sqs) == 0 {
			continue
		}
		trap := world.NewTeleportTrap(objs.NextID(), sqs[rng.Intn(len(sqs))])
		objs.Add(trap)
		objs.Listen(trap.ID, world.EventSteppedOn)
	}
	return nil
}

func randomFloorAdj(m *gamemap.Map, loc gamemap.Loc, rng *rand.Rand) (gamemap.Loc, bool) {
	var options []gamemap.Loc
	for _, n := range loc.Neighbors8() {
		if m.At(n).Kind == gamemap.TileStoneFloor {
			options = append(options, n)
		}
	}
	if len(options) == 0 {
		return gamemap.Loc{}, false
	}
	return options[rng.Intn(len(options))], true
}

// gateVaults rigs one vault per carved floor: the entrance becomes a
// portcullis standing open, a pressure plate waits inside it, and the
// hoard sits against the far wall.
func gateVaults(m *gamemap.Map, objs *world.Objects, levels []*Level, deltaR, deltaC int, rng *rand.Rand) {
	for i, lvl := range levels {
		if len(lvl.Vaults) == 0 {
			continue
		}
		depth := i + 1
		vault := lvl.Vaults[rng.Intn(len(lvl.Vaults))]

		gate := gamemap.Loc{Row: vault.Entrance[0] + deltaR, Col: vault.Entrance[1] + deltaC, Depth: depth}
		m.SetTile(gate, gamemap.MakeGate(gamemap.DoorOpen))
		gateSq := world.NewSpecialSquare(objs.NextID(), gamemap.MakeGate(gamemap.DoorOpen), gate, false, 0)
		objs.Add(gateSq)

		plate, ok := vaultInterior(m, vault, gate, deltaR, deltaC)
		if !ok {
			continue
		}
		m.SetTile(plate, gamemap.Make(gamemap.TileTrigger))
		trigger := world.NewSpecialSquare(objs.NextID(), gamemap.Make(gamemap.TileTrigger), plate, true, 0)
		trigger.Target = gateSq.ID
		objs.Add(trigger)
		objs.Listen(trigger.ID, world.EventSteppedOn)

		hoard := world.NewGoldPile(objs.NextID(), 15+rng.Intn(26))
		hoard.Loc = farFloor(m, vault, gate, deltaR, deltaC, depth)
		objs.Add(hoard)
	}
}

// vaultInterior is the square just inside the entrance.
func vaultInterior(m *gamemap.Map, vault Vault, gate gamemap.Loc, deltaR, deltaC int) (gamemap.Loc, bool) {
	for _, n := range gate.Neighbors8() {
		r, c := n.Row-deltaR, n.Col-deltaC
		if r > vault.MinRow && r < vault.MaxRow-1 && c > vault.MinCol && c < vault.MaxCol-1 &&
			m.At(n).Kind == gamemap.TileStoneFloor {
			return n, true
		}
	}
	return gamemap.Loc{}, false
}

// farFloor is the vault floor square farthest from the gate.
func farFloor(m *gamemap.Map, vault Vault, gate gamemap.Loc, deltaR, deltaC, depth int) gamemap.Loc {
	best, bestD := gate, -1
	for r := vault.MinRow + 1; r < vault.MaxRow-1; r++ {
		for c := vault.MinCol + 1; c < vault.MaxCol-1; c++ {
			loc := gamemap.Loc{Row: r + deltaR, Col: c + deltaC, Depth: depth}
			if m.At(loc).Kind != gamemap.TileStoneFloor {
				continue
			}
			if d := geom.DistanceSq(loc.Row, loc.Col, gate.Row, gate.Col); d > bestD {
				best, bestD = loc, d
			}
		}
	}
	return best
}

// seedMonsters stocks each floor from the bestiary, deeper floors
// drawing meaner picks.
func seedMonsters(objs *world.Objects, tables *assets.Tables, floors [][]gamemap.Loc, rng *rand.Rand) error {
	factory := &npc.Factory{Monsters: tables.Monsters, Items: tables.Items}
	for i, sqs := range floors {
		if len(sqs) == 0 {
			continue
		}
		depth := i + 1
		count := 8 + rng.Intn(5)
		for n := 0; n < count; n++ {
			loc := sqs[rng.Intn(len(sqs))]
			if objs.BlockingObjAt(loc) {
				continue
			}
			if _, err := factory.MonsterForDepth(depth, loc, objs, rng); err != nil {
				return err
			}
		}
	}
	return nil
}

// addOldRoad wears a ruined flagstone trail from the dungeon entrance
// off to the north, fading as it goes.
func addOldRoad(m *gamemap.Map, start gamemap.Loc, rng *rand.Rand) {
	costs := pathfind.Costs{
		gamemap.Make(gamemap.TileGrass):      1.0,
		gamemap.Make(gamemap.TileDirt):       1.0,
		gamemap.Make(gamemap.TileTree):       1.0,
		gamemap.Make(gamemap.TileStoneFloor): 1.0,
		gamemap.Make(gamemap.TileWater):      1.0,
		gamemap.Make(gamemap.TileDeepWater):  1.0,
	}

	for try := 0; try < 100; try++ {
		goal := gamemap.Loc{
			Row: start.Row - (10 + rng.Intn(10)),
			Col: start.Col - 15 + rng.Intn(30),
		}
		if !m.InBounds(goal) || !m.Passable(goal) {
			continue
		}
		path := pathfind.FindPath(m, false, start, goal, 40, costs)
		if len(path) == 0 {
			continue
		}
		chance := 1.0
		// The path comes back goal first; walk it outward from the
		// entrance.
		for i := len(path) - 1; i >= 0; i-- {
			sq := path[i]
			if m.At(sq).Kind == gamemap.TileDeepWater {
				continue
			}
			if rng.Float64() < chance {
				m.SetTile(sq, gamemap.Make(gamemap.TileStoneFloor))
				chance -= 0.05
			}
		}
		return
	}
	logrus.Warn("old road never found its way out of the mountains")
}
