package generate

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/zyedidia/generic/mapset"

	"hollowvale/assets"
	"hollowvale/internal/gamemap"
	"hollowvale/internal/geom"
	"hollowvale/internal/npc"
	"hollowvale/internal/pathfind"
	"hollowvale/internal/world"
)

// Town footprint on the surface, five 12x12 lots across and three
// down.
const (
	TownHeight = 36
	TownWidth  = 60
)

type buildingKind uint8

const (
	buildingShrine buildingKind = iota
	buildingHome
	buildingTavern
)

// Town stamps the village onto the wilderness: ground leveled to
// dirt, the tavern along an edge, the shrine and cottages filling in
// around it, paths worn from every door to the square, and a
// villager moved into each home.
func Town(m *gamemap.Map, objs *world.Objects, tables *assets.Tables, rng *rand.Rand) (*world.Info, error) {
	for _, name := range []string{"tavern", "shrine", "cottage 1", "cottage 2"} {
		if _, ok := tables.Buildings[name]; !ok {
			return nil, fmt.Errorf("missing building plan %q", name)
		}
	}

	townR := WildernessSize/4 + rng.Intn(WildernessSize/4)
	townC := WildernessSize/4 + rng.Intn(WildernessSize/4)

	dirt := gamemap.Make(gamemap.TileDirt)
	for r := townR; r < townR+TownHeight; r++ {
		for c := townC; c < townC+TownWidth; c++ {
			m.SetTile(gamemap.Loc{Row: r, Col: c}, dirt)
		}
	}

	tb := world.NewTownBuildings()
	placeTavern(m, townR, townC, tables.Buildings["tavern"], tb, rng)
	placeBuilding(m, townR, townC, tables.Buildings["shrine"], tb, buildingShrine, rng)
	for i := 0; i < 8; i++ {
		name := "cottage 1"
		if rng.Float64() >= 0.5 {
			name = "cottage 2"
		}
		if !placeBuilding(m, townR, townC, tables.Buildings[name], tb, buildingHome, rng) {
			break
		}
	}

	boundary := [4]int{townR, townC, townR + TownHeight - 1, townC + TownWidth - 1}
	info := world.NewInfo(townName(rng), boundary, tavernName(rng))
	info.Buildings = tb

	// The centre lot is kept clear as the town square.
	for r := townR + 12; r < townR+24; r++ {
		for c := townC + 24; c < townC+36; c++ {
			loc := gamemap.Loc{Row: r, Col: c}
			if m.At(loc).PassableDryLand() {
				info.TownSquare.Put(loc)
			}
		}
	}

	placeSquareFixtures(m, objs, info, rng)
	placeAltar(m, objs, tb)
	drawPaths(m, info, rng)

	if err := settleVillagers(objs, tb, tables.Villagers, rng); err != nil {
		return nil, err
	}
	return info, nil
}

// placeTavern slides the tavern along one of the town's edges until
// it fits, door turned inward. It is the largest building, so it goes
// down first while the ground is clear.
func placeTavern(m *gamemap.Map, townR, townC int, tmpl assets.Template, tb *world.TownBuildings, rng *rand.Rand) bool {
	for _, facing := range rng.Perm(4) {
		switch facing {
		case 0: // west edge, door east
			t := tmpl.Rotate().Rotate().Rotate()
			start, delta := townR, 1
			if rng.Float64() >= 0.5 {
				start, delta = townR+TownHeight-t.Height(), -1
			}
			if scanCol(m, townR, townC, townC, start, delta, t, tb, buildingTavern, rng) {
				return true
			}
		case 1: // north edge, door south
			start, delta := townC, 1
			if rng.Float64() >= 0.5 {
				start, delta = townC+TownWidth-tmpl.Width()-1, -1
			}
			if scanRow(m, townR, townC, townR, start, delta, tmpl, tb, buildingTavern, rng) {
				return true
			}
		case 2: // south edge, door north
			t := tmpl.Rotate().Rotate()
			start, delta := townC, 1
			if rng.Float64() >= 0.5 {
				start, delta = townC+TownWidth-t.Width()-1, -1
			}
			if scanRow(m, townR, townC, townR+TownHeight-t.Height()-1, start, delta, t, tb, buildingTavern, rng) {
				return true
			}
		default: // east edge, door west
			t := tmpl.Rotate()
			start, delta := townR, 1
			if rng.Float64() >= 0.5 {
				start, delta = townR+TownHeight-t.Height(), -1
			}
			if scanCol(m, townR, townC, townC+TownWidth-t.Width()-1, start, delta, t, tb, buildingTavern, rng) {
				return true
			}
		}
	}
	return false
}

// placeBuilding walks the town from a random corner, two squares at a
// stride, scanning each row until the plan fits somewhere.
func placeBuilding(m *gamemap.Map, townR, townC int, tmpl assets.Template, tb *world.TownBuildings, kind buildingKind, rng *rand.Rand) bool {
	h, w := tmpl.Height(), tmpl.Width()
	for _, corner := range rng.Perm(4) {
		var row, col, deltaR, deltaC int
		switch corner {
		case 0: // top left
			row, col, deltaR, deltaC = townR, townC, 2, 2
		case 1: // bottom left
			row, col, deltaR, deltaC = townR+TownHeight-h-1, townC, -2, 2
		case 2: // top right
			row, col, deltaR, deltaC = townR, townC+TownWidth-w-1, 2, -2
		default: // bottom right
			row, col, deltaR, deltaC = townR+TownHeight-h-1, townC+TownWidth-w-1, -2, -2
		}
		for row >= townR && row+h <= townR+TownHeight {
			if scanRow(m, townR, townC, row, col, deltaC, tmpl, tb, kind, rng) {
				return true
			}
			row += deltaR
			col += deltaC
			if deltaC > 0 && col+w > townC+TownWidth {
				col = townC
			} else if deltaC < 0 && col < townC {
				col = townC + TownWidth - w - 1
			}
		}
	}
	return false
}

// scanRow slides a plan along a row until it fits, drawing it at the
// first clear spot. Negative deltas start from the east edge.
func scanRow(m *gamemap.Map, townR, townC, row, startCol, delta int, tmpl assets.Template, tb *world.TownBuildings, kind buildingKind, rng *rand.Rand) bool {
	if delta > 0 {
		for col := startCol; col+tmpl.Width() < townC+TownWidth; col += delta {
			if buildingFits(m, row, col, tmpl) {
				drawBuilding(m, row, col, townR, townC, tmpl, tb, kind, rng)
				return true
			}
		}
		return false
	}
	for col := townC + TownWidth - tmpl.Width() - 1; col > townC; col += delta {
		if buildingFits(m, row, col, tmpl) {
			drawBuilding(m, row, col, townR, townC, tmpl, tb, kind, rng)
			return true
		}
	}
	return false
}

// scanCol is scanRow turned sideways, for the taverns hugging the
// west or east edge.
func scanCol(m *gamemap.Map, townR, townC, col, startRow, delta int, tmpl assets.Template, tb *world.TownBuildings, kind buildingKind, rng *rand.Rand) bool {
	if delta > 0 {
		for row := startRow; row+tmpl.Height() < townR+TownHeight; row += delta {
			if buildingFits(m, row, col, tmpl) {
				drawBuilding(m, row, col, townR, townC, tmpl, tb, kind, rng)
				return true
			}
		}
		return false
	}
	for row := startRow; row > townR; row += delta {
		if buildingFits(m, row, col, tmpl) {
			drawBuilding(m, row, col, townR, townC, tmpl, tb, kind, rng)
			return true
		}
	}
	return false
}

// buildingFits rejects spots that cover water or any part of another
// building, and keeps one clear square between walls.
func buildingFits(m *gamemap.Map, nwRow, nwCol int, tmpl assets.Template) bool {
	h, w := tmpl.Height(), tmpl.Width()
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			switch m.At(gamemap.Loc{Row: nwRow + r, Col: nwCol + c}).Kind {
			case gamemap.TileDeepWater, gamemap.TileWall, gamemap.TileWoodWall,
				gamemap.TileWindow, gamemap.TileFloor, gamemap.TileStoneFloor, gamemap.TileDoor:
				return false
			}
		}
	}
	for c := -1; c <= w; c++ {
		if isWallKind(m.At(gamemap.Loc{Row: nwRow - 1, Col: nwCol + c}).Kind) ||
			isWallKind(m.At(gamemap.Loc{Row: nwRow + h, Col: nwCol + c}).Kind) {
			return false
		}
	}
	for r := 0; r < h; r++ {
		if isWallKind(m.At(gamemap.Loc{Row: nwRow + r, Col: nwCol - 1}).Kind) ||
			isWallKind(m.At(gamemap.Loc{Row: nwRow + r, Col: nwCol + w}).Kind) {
			return false
		}
	}
	return true
}

func isWallKind(kind gamemap.TileKind) bool {
	return kind == gamemap.TileWall || kind == gamemap.TileWoodWall
}

// drawBuilding stamps the plan onto the map and records its squares.
// Homes and the shrine are first rotated so their doors face the
// middle of town; the tavern arrives pre-rotated by its edge scan.
func drawBuilding(m *gamemap.Map, row, col, townR, townC int, tmpl assets.Template, tb *world.TownBuildings, kind buildingKind, rng *rand.Rand) {
	if kind != buildingTavern {
		tmpl = faceTownMiddle(tmpl, row, col, townR, townC)
	}

	wood := rng.Float64() < 0.7
	sqs := mapset.New[gamemap.Loc]()
	for r := 0; r < tmpl.Height(); r++ {
		for c := 0; c < tmpl.Width(); c++ {
			tile, err := assets.TileFor(tmpl.At(r, c), wood)
			if err != nil {
				panic(err) // plans are validated at load
			}
			loc := gamemap.Loc{Row: row + r, Col: col + c}
			m.SetTile(loc, tile)
			switch tile.Kind {
			case gamemap.TileDoor, gamemap.TileFloor, gamemap.TileStoneFloor:
				sqs.Put(loc)
			}
		}
	}

	switch kind {
	case buildingShrine:
		tb.Shrine = sqs
	case buildingTavern:
		tb.Tavern = sqs
	default:
		tb.Homes = append(tb.Homes, sqs)
	}
}

// faceTownMiddle turns a south-facing plan toward the centre of town:
// plans in the south half face north, and plans in the middle band
// turn east or west toward the main street.
func faceTownMiddle(tmpl assets.Template, row, col, townR, townC int) assets.Template {
	centreRow := row + tmpl.Height()/2
	centreCol := col + tmpl.Width()/2
	quarter := townR + TownHeight/4
	half := townR + TownHeight/2
	mid := townC + TownWidth/2

	switch {
	case centreRow >= half:
		return tmpl.Rotate().Rotate() // door north
	case centreRow > quarter && centreCol < mid:
		return tmpl.Rotate().Rotate().Rotate() // door east
	case centreRow > quarter && centreCol > mid:
		return tmpl.Rotate() // door west
	}
	return tmpl
}

// placeSquareFixtures drops the village well and the communal fire
// pit on the town square. The fire's light is rebuilt every turn with
// the other auras.
func placeSquareFixtures(m *gamemap.Map, objs *world.Objects, info *world.Info, rng *rand.Rand) {
	// Open ground only. A building crowding the square must not lose
	// its doorway to the well.
	var open []gamemap.Loc
	for _, loc := range sortedLocs(info.TownSquare) {
		if k := m.At(loc).Kind; k == gamemap.TileDirt || k == gamemap.TileGrass {
			open = append(open, loc)
		}
	}
	if len(open) == 0 {
		return
	}
	i := rng.Intn(len(open))
	well := open[i]
	m.SetTile(well, gamemap.Make(gamemap.TileSpring))
	open = append(open[:i], open[i+1:]...)

	if len(open) == 0 {
		return
	}
	pit := open[rng.Intn(len(open))]
	m.SetTile(pit, gamemap.Make(gamemap.TileFirePit))
	fire := world.NewSpecialSquare(objs.NextID(), gamemap.Make(gamemap.TileFirePit), pit, true, 9)
	objs.Add(fire)
	objs.Listen(fire.ID, world.EventUpdate)
}

// placeAltar swaps the shrine's centremost floor square for an altar
// with a soft aura of its own.
func placeAltar(m *gamemap.Map, objs *world.Objects, tb *world.TownBuildings) {
	if tb.Shrine.Size() == 0 {
		return
	}
	var sumR, sumC, n int
	tb.Shrine.Each(func(loc gamemap.Loc) {
		sumR += loc.Row
		sumC += loc.Col
		n++
	})
	cr, cc := sumR/n, sumC/n

	found := false
	var altar gamemap.Loc
	bestD := 0
	tb.Shrine.Each(func(loc gamemap.Loc) {
		if m.At(loc).Kind != gamemap.TileStoneFloor {
			return
		}
		if d := geom.DistanceSq(loc.Row, loc.Col, cr, cc); !found || d < bestD {
			altar, bestD, found = loc, d, true
		}
	})
	if !found {
		return
	}

	m.SetTile(altar, gamemap.Make(gamemap.TileShrine))
	sq := world.NewSpecialSquare(objs.NextID(), gamemap.Make(gamemap.TileShrine), altar, true, 3)
	objs.Add(sq)
	objs.Listen(sq.ID, world.EventUpdate)
}

// drawPaths wears dirt from every door to one spot on the square, and
// bridges any water the paths cross.
func drawPaths(m *gamemap.Map, info *world.Info, rng *rand.Rand) {
	b := info.TownBoundary
	var doors []gamemap.Loc
	for r := b[0]; r <= b[2]; r++ {
		for c := b[1]; c <= b[3]; c++ {
			loc := gamemap.Loc{Row: r, Col: c}
			if m.At(loc).Kind != gamemap.TileDoor {
				continue
			}
			for _, d := range gamemap.Adj4 {
				n := loc.Step(d[0], d[1])
				if k := m.At(n).Kind; k == gamemap.TileGrass || k == gamemap.TileTree {
					m.SetTile(n, gamemap.Make(gamemap.TileDirt))
				}
			}
			doors = append(doors, loc)
		}
	}

	sqs := sortedLocs(info.TownSquare)
	if len(sqs) == 0 {
		return
	}
	centre := sqs[rng.Intn(len(sqs))]

	costs := pathfind.Costs{
		gamemap.Make(gamemap.TileGrass):     1.0,
		gamemap.Make(gamemap.TileDirt):      1.0,
		gamemap.Make(gamemap.TileBridge):    1.0,
		gamemap.Make(gamemap.TileTree):      2.0,
		gamemap.Make(gamemap.TileWater):     3.0,
		gamemap.Make(gamemap.TileDeepWater): 3.0,
	}
	for _, door := range doors {
		for _, step := range pathfind.FindPath(m, false, door, centre, 150, costs) {
			switch m.At(step).Kind {
			case gamemap.TileGrass:
				m.SetTile(step, gamemap.Make(gamemap.TileDirt))
			case gamemap.TileDeepWater:
				layBridge(m, step)
			}
		}
	}
}

// layBridge plants a bridge square and runs it to both banks along
// the row.
func layBridge(m *gamemap.Map, loc gamemap.Loc) {
	bridge := gamemap.Make(gamemap.TileBridge)
	m.SetTile(loc, bridge)
	for n := loc.Step(0, 1); m.At(n).Kind == gamemap.TileDeepWater; n = n.Step(0, 1) {
		m.SetTile(n, bridge)
	}
	for n := loc.Step(0, -1); m.At(n).Kind == gamemap.TileDeepWater; n = n.Step(0, -1) {
		m.SetTile(n, bridge)
	}
}

// settleVillagers moves the mayor in first, fills the remaining homes
// with villagers, and puts an innkeeper behind the tavern bar.
func settleVillagers(objs *world.Objects, tb *world.TownBuildings, pool *assets.VillagerPool, rng *rand.Rand) error {
	used := make(map[string]bool)

	if err := settleOne(objs, tb, pool, "mayor", used, rng); err != nil {
		return err
	}
	for len(tb.TakenHomes) < len(tb.Homes) {
		if err := settleOne(objs, tb, pool, "villager", used, rng); err != nil {
			return err
		}
	}

	if tb.Tavern.Size() == 0 {
		return nil
	}
	name, ok := pool.PickName(used, rng)
	if !ok {
		return fmt.Errorf("villager name pool ran dry")
	}
	used[name] = true
	agenda, err := pool.Agenda("innkeeper")
	if err != nil {
		return err
	}
	keeper := npc.NewVillager(objs.NextID(), name, randomMember(tb.Tavern, rng), -1, "innkeeper")
	keeper.Schedule = agenda
	objs.Add(keeper)
	objs.Listen(keeper.ID, world.EventTakeTurn)
	return nil
}

func settleOne(objs *world.Objects, tb *world.TownBuildings, pool *assets.VillagerPool, voice string, used map[string]bool, rng *rand.Rand) error {
	home, ok := tb.VacantHome(rng)
	if !ok {
		return nil
	}
	name, ok := pool.PickName(used, rng)
	if !ok {
		return fmt.Errorf("villager name pool ran dry")
	}
	used[name] = true
	agenda, err := pool.Agenda(voice)
	if err != nil {
		return err
	}
	v := npc.NewVillager(objs.NextID(), name, randomMember(tb.Homes[home], rng), home, voice)
	v.Schedule = agenda
	tb.TakenHomes = append(tb.TakenHomes, home)
	objs.Add(v)
	objs.Listen(v.ID, world.EventTakeTurn)
	return nil
}

func randomMember(sqs mapset.Set[gamemap.Loc], rng *rand.Rand) gamemap.Loc {
	locs := sortedLocs(sqs)
	return locs[rng.Intn(len(locs))]
}

// sortedLocs flattens a set into row-major order.
func sortedLocs(sqs mapset.Set[gamemap.Loc]) []gamemap.Loc {
	locs := make([]gamemap.Loc, 0, sqs.Size())
	sqs.Each(func(loc gamemap.Loc) { locs = append(locs, loc) })
	sort.Slice(locs, func(i, j int) bool {
		if locs[i].Row != locs[j].Row {
			return locs[i].Row < locs[j].Row
		}
		return locs[i].Col < locs[j].Col
	})
	return locs
}

func tavernName(rng *rand.Rand) string {
	nouns := []string{"Arms", "Boar", "Cup", "Axe", "Bow", "Elf", "Stag"}
	adjectives := []string{"Black", "Golden", "Broken", "Jeweled", "Lost"}
	return fmt.Sprintf("the %s %s", adjectives[rng.Intn(len(adjectives))], nouns[rng.Intn(len(nouns))])
}

func townName(rng *rand.Rand) string {
	names := []string{"Skara Brae", "Jhelom", "Yew", "Moonglow", "Magincia", "Antioch"}
	return names[rng.Intn(len(names))]
}
