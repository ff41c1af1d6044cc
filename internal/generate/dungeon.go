package generate

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"hollowvale/internal/gamemap"
	"hollowvale/internal/geom"
)

// Dungeon floors are carved on a fixed grid.
const (
	DungeonHeight = 40
	DungeonWidth  = 125
)

// A layout must open up more than this share of the grid to be kept.
const minOpenShare = 0.35

// dungeonTries caps rejection sampling so a bad streak of rolls
// cannot hang world creation.
const dungeonTries = 50

// Level is one generated floor on its own zero-based grid. The world
// builder decides what depth and offset it lands at.
type Level struct {
	Height, Width int
	Tiles         []gamemap.Tile // row-major
	Vaults        []Vault
}

// Vault is a room with exactly one way in. Bounds include the wall
// ring; MaxRow and MaxCol are exclusive.
type Vault struct {
	MinRow, MinCol int
	MaxRow, MaxCol int
	Entrance       [2]int
}

func newLevel(height, width int, fill gamemap.Tile) *Level {
	lvl := &Level{Height: height, Width: width, Tiles: make([]gamemap.Tile, height*width)}
	for i := range lvl.Tiles {
		lvl.Tiles[i] = fill
	}
	return lvl
}

// At returns the tile at (r, c).
func (lvl *Level) At(r, c int) gamemap.Tile { return lvl.Tiles[r*lvl.Width+c] }

func (lvl *Level) set(r, c int, t gamemap.Tile) { lvl.Tiles[r*lvl.Width+c] = t }

func (lvl *Level) in(r, c int) bool {
	return r >= 0 && r < lvl.Height && c >= 0 && c < lvl.Width
}

// OpenShare is the fraction of the grid that is not solid wall.
func (lvl *Level) OpenShare() float64 {
	open := 0
	for _, t := range lvl.Tiles {
		if t.Kind != gamemap.TileWall {
			open++
		}
	}
	return float64(open) / float64(len(lvl.Tiles))
}

// Dungeon carves one room-and-corridor floor: a seed room near the
// middle, new rooms butted against random old ones until nothing more
// fits, then a few extra entryways so the floor has loops in it.
// Cramped layouts are redrawn, up to dungeonTries times.
func Dungeon(rng *rand.Rand) *Level {
	var best *Level
	bestShare := -1.0
	for try := 0; try < dungeonTries; try++ {
		lvl := carveDungeon(rng)
		if share := lvl.OpenShare(); share > minOpenShare {
			return lvl
		} else if share > bestShare {
			best, bestShare = lvl, share
		}
	}
	logrus.WithField("open", bestShare).Warn("no floor layout cleared the open-space bar, keeping the best attempt")
	return best
}

func carveDungeon(rng *rand.Rand) *Level {
	lvl := newLevel(DungeonHeight, DungeonWidth, gamemap.Make(gamemap.TileWall))

	seed := rollRoom(rng)
	row := DungeonHeight/2 - seed.height/2 + rng.Intn(20) - 10
	col := DungeonWidth/2 - seed.width/2 + rng.Intn(20) - 10
	drawRoom(lvl, row, col, seed)
	rooms := []roomRect{{minRow: row, minCol: col, maxRow: row + seed.height, maxCol: col + seed.width}}

	for attachRoom(lvl, &rooms, rollRoom(rng), rng) {
	}

	addExtraEntries(lvl, rng)
	lvl.Vaults = findVaults(lvl, rooms)
	return lvl
}

// roomTemplate is a freshly rolled room, wall ring included.
type roomTemplate struct {
	tiles         [][]gamemap.Tile
	height, width int
}

// rollRoom picks the next room shape: mostly rectangles, sometimes a
// round chamber.
func rollRoom(rng *rand.Rand) roomTemplate {
	if rng.Float64() < 0.8 {
		return rectRoom(rng)
	}
	return roundRoom(rng)
}

func rectRoom(rng *rand.Rand) roomTemplate {
	inH := 5 + rng.Intn(4)
	inW := 5 + rng.Intn(21)
	t := blankRoom(inH+2, inW+2)
	floor := gamemap.Make(gamemap.TileStoneFloor)
	for r := 1; r <= inH; r++ {
		for c := 1; c <= inW; c++ {
			t.tiles[r][c] = floor
		}
	}
	return t
}

func roundRoom(rng *rand.Rand) roomTemplate {
	radius := 3 + rng.Intn(4)
	side := radius*2 + 3
	t := blankRoom(side, side)
	floor := gamemap.Make(gamemap.TileStoneFloor)
	for _, p := range geom.CirclePts(radius+1, radius+1, radius) {
		t.tiles[p[0]][p[1]] = floor
	}
	for r := 1; r < side-1; r++ {
		for c := 1; c < side-1; c++ {
			if geom.DistanceSq(r, c, radius+1, radius+1) <= radius*radius {
				t.tiles[r][c] = floor
			}
		}
	}
	return t
}

func blankRoom(height, width int) roomTemplate {
	wall := gamemap.Make(gamemap.TileWall)
	tiles := make([][]gamemap.Tile, height)
	for r := range tiles {
		tiles[r] = make([]gamemap.Tile, width)
		for c := range tiles[r] {
			tiles[r][c] = wall
		}
	}
	return roomTemplate{tiles: tiles, height: height, width: width}
}

// roomRect is a placed room's footprint, wall ring included. Max
// edges are exclusive.
type roomRect struct {
	minRow, minCol, maxRow, maxCol int
}

// attachRoom tries every placed room in random order as a parent for
// the new template.
func attachRoom(lvl *Level, rooms *[]roomRect, tmpl roomTemplate, rng *rand.Rand) bool {
	for _, i := range rng.Perm(len(*rooms)) {
		if placeRoom(lvl, rooms, i, tmpl, rng) {
			return true
		}
	}
	return false
}

// placeRoom butts the template against one side of the parent so the
// two share a single wall line, then opens an entryway through it.
func placeRoom(lvl *Level, rooms *[]roomRect, parent int, tmpl roomTemplate, rng *rand.Rand) bool {
	sides := []byte{'n', 's', 'e', 'w'}
	rng.Shuffle(len(sides), func(i, j int) { sides[i], sides[j] = sides[j], sides[i] })

	const triesPerSide = 5
	for _, side := range sides {
		for try := 0; try < triesPerSide; try++ {
			p := (*rooms)[parent]
			var cand roomRect
			switch side {
			case 'n':
				endRow := p.minRow + 1
				startCol := randBetween(rng, p.minCol+1, p.maxCol-5)
				cand = roomRect{minRow: endRow - tmpl.height, minCol: startCol, maxRow: endRow, maxCol: startCol + tmpl.width}
			case 's':
				startRow := p.maxRow - 1
				startCol := randBetween(rng, p.minCol+1, p.maxCol-5)
				cand = roomRect{minRow: startRow, minCol: startCol, maxRow: startRow + tmpl.height, maxCol: startCol + tmpl.width}
			case 'w':
				endCol := p.minCol + 1
				startRow := randBetween(rng, p.minRow+1, p.maxRow-5)
				cand = roomRect{minRow: startRow, minCol: endCol - tmpl.width, maxRow: startRow + tmpl.height, maxCol: endCol}
			default:
				startCol := p.maxCol - 1
				startRow := randBetween(rng, p.minRow+1, p.maxRow-5)
				cand = roomRect{minRow: startRow, minCol: startCol, maxRow: startRow + tmpl.height, maxCol: startCol + tmpl.width}
			}

			if !roomFits(lvl, cand) {
				continue
			}
			drawRoom(lvl, cand.minRow, cand.minCol, tmpl)
			*rooms = append(*rooms, cand)

			switch side {
			case 'n':
				openEntryRow(lvl, cand.maxRow-1, max(p.minCol+1, cand.minCol), min(p.maxCol-1, cand.maxCol), rng)
			case 's':
				openEntryRow(lvl, cand.minRow, max(p.minCol+1, cand.minCol), min(p.maxCol-1, cand.maxCol), rng)
			case 'w':
				openEntryCol(lvl, cand.maxCol-1, max(p.minRow+1, cand.minRow), min(p.maxRow-1, cand.maxRow), rng)
			default:
				openEntryCol(lvl, cand.minCol, max(p.minRow+1, cand.minRow), min(p.maxRow-1, cand.maxRow), rng)
			}
			return true
		}
	}
	return false
}

// roomFits accepts a footprint only when it sits strictly inside the
// grid and covers nothing but solid wall. Covering the parent's ring
// is fine; covering an earlier entryway is not.
func roomFits(lvl *Level, cand roomRect) bool {
	if cand.minRow <= 0 || cand.maxRow >= lvl.Height || cand.minCol <= 0 || cand.maxCol >= lvl.Width {
		return false
	}
	for r := cand.minRow; r < cand.maxRow; r++ {
		for c := cand.minCol; c < cand.maxCol; c++ {
			if lvl.At(r, c).Kind != gamemap.TileWall {
				return false
			}
		}
	}
	return true
}

func drawRoom(lvl *Level, row, col int, tmpl roomTemplate) {
	for r := 0; r < tmpl.height; r++ {
		for c := 0; c < tmpl.width; c++ {
			lvl.set(row+r, col+c, tmpl.tiles[r][c])
		}
	}
}

// openEntryRow opens an entry through a horizontal wall line: a door
// wherever the wall is a single tile thick, or a short corridor dug
// out at the midpoint when it never is. Round rooms mostly take the
// corridor.
func openEntryRow(lvl *Level, row, loCol, hiCol int, rng *rand.Rand) {
	var options []int
	for c := loCol; c < hiCol; c++ {
		if lvl.At(row-1, c).Kind == gamemap.TileStoneFloor && lvl.At(row+1, c).Kind == gamemap.TileStoneFloor {
			options = append(options, c)
		}
	}
	if len(options) > 0 {
		lvl.set(row, options[rng.Intn(len(options))], entryTile(rng))
		return
	}

	floor := gamemap.Make(gamemap.TileStoneFloor)
	c := (loCol + hiCol) / 2
	for r := row; lvl.in(r, c) && lvl.At(r, c).Kind != gamemap.TileStoneFloor; r-- {
		lvl.set(r, c, floor)
	}
	for r := row + 1; lvl.in(r, c) && lvl.At(r, c).Kind != gamemap.TileStoneFloor; r++ {
		lvl.set(r, c, floor)
	}
}

// openEntryCol is openEntryRow turned sideways.
func openEntryCol(lvl *Level, col, loRow, hiRow int, rng *rand.Rand) {
	var options []int
	for r := loRow; r < hiRow; r++ {
		if lvl.At(r, col-1).Kind == gamemap.TileStoneFloor && lvl.At(r, col+1).Kind == gamemap.TileStoneFloor {
			options = append(options, r)
		}
	}
	if len(options) > 0 {
		lvl.set(options[rng.Intn(len(options))], col, entryTile(rng))
		return
	}

	floor := gamemap.Make(gamemap.TileStoneFloor)
	r := (loRow + hiRow) / 2
	for c := col; lvl.in(r, c) && lvl.At(r, c).Kind != gamemap.TileStoneFloor; c-- {
		lvl.set(r, c, floor)
	}
	for c := col + 1; lvl.in(r, c) && lvl.At(r, c).Kind != gamemap.TileStoneFloor; c++ {
		lvl.set(r, c, floor)
	}
}

// Most entries get a door, the rest stay open gaps.
func entryTile(rng *rand.Rand) gamemap.Tile {
	if rng.Float64() < 0.8 {
		return gamemap.MakeDoor(gamemap.DoorClosed)
	}
	return gamemap.Make(gamemap.TileStoneFloor)
}

// addExtraEntries opens up to three more single-thickness wall spots,
// so the floor is not one long chain of rooms.
func addExtraEntries(lvl *Level, rng *rand.Rand) {
	var candidates [][2]int
	for r := 1; r < lvl.Height-1; r++ {
		for c := 1; c < lvl.Width-1; c++ {
			if lvl.At(r, c).Kind != gamemap.TileWall {
				continue
			}
			vert := lvl.At(r-1, c).Kind == gamemap.TileStoneFloor && lvl.At(r+1, c).Kind == gamemap.TileStoneFloor
			horiz := lvl.At(r, c-1).Kind == gamemap.TileStoneFloor && lvl.At(r, c+1).Kind == gamemap.TileStoneFloor
			if vert != horiz { // a wall gap, not a freestanding pillar
				candidates = append(candidates, [2]int{r, c})
			}
		}
	}
	rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	for i := 0; i < len(candidates) && i < 3; i++ {
		lvl.set(candidates[i][0], candidates[i][1], entryTile(rng))
	}
}

// findVaults reports the rooms whose wall ring is pierced exactly
// once.
func findVaults(lvl *Level, rooms []roomRect) []Vault {
	var vaults []Vault
	for _, room := range rooms {
		var entries [][2]int
		for c := room.minCol; c < room.maxCol; c++ {
			for _, r := range [2]int{room.minRow, room.maxRow - 1} {
				if lvl.At(r, c).Kind != gamemap.TileWall {
					entries = append(entries, [2]int{r, c})
				}
			}
		}
		for r := room.minRow + 1; r < room.maxRow-1; r++ {
			for _, c := range [2]int{room.minCol, room.maxCol - 1} {
				if lvl.At(r, c).Kind != gamemap.TileWall {
					entries = append(entries, [2]int{r, c})
				}
			}
		}
		if len(entries) == 1 {
			vaults = append(vaults, Vault{
				MinRow: room.minRow, MinCol: room.minCol,
				MaxRow: room.maxRow, MaxCol: room.maxCol,
				Entrance: entries[0],
			})
		}
	}
	return vaults
}

// randBetween returns an int in [lo, hi), or lo when the range is
// empty.
func randBetween(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo)
}
