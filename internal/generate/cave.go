package generate

import (
	"math/rand"

	"hollowvale/internal/gamemap"
	"hollowvale/internal/geom"
)

// Cave carves the deepest floor as one open cavern: a random scatter
// of floor, a single smoothing pass, then connectivity repair so
// every floor square is reachable from every other.
func Cave(rng *rand.Rand, height, width int) *Level {
	floor := gamemap.Make(gamemap.TileStoneFloor)
	lvl := newLevel(height, width, gamemap.Make(gamemap.TileWall))
	for r := 1; r < height-1; r++ {
		for c := 1; c < width-1; c++ {
			if rng.Float64() < 0.55 {
				lvl.set(r, c, floor)
			}
		}
	}

	smoothed := newLevel(height, width, gamemap.Make(gamemap.TileWall))
	for r := 1; r < height-1; r++ {
		for c := 1; c < width-1; c++ {
			switch walls := wallNeighbors(lvl, r, c); {
			case walls < 4:
				smoothed.set(r, c, floor)
			case walls > 5:
				smoothed.set(r, c, gamemap.Make(gamemap.TileWall))
			default:
				smoothed.set(r, c, lvl.At(r, c))
			}
		}
	}

	repairCave(smoothed)
	return smoothed
}

// wallNeighbors counts the surrounding walls, with squares past the
// edge counting as wall.
func wallNeighbors(lvl *Level, row, col int) int {
	count := 0
	for _, d := range gamemap.Adj8 {
		r, c := row+d[0], col+d[1]
		if !lvl.in(r, c) || lvl.At(r, c).Kind == gamemap.TileWall {
			count++
		}
	}
	return count
}

// repairCave bridges separated floor pockets wherever a single wall
// divides them, then walls over whatever small pockets remain apart
// from the biggest one.
func repairCave(lvl *Level) {
	ds := geom.NewDisjointSet(lvl.Height * lvl.Width)
	id := func(r, c int) int { return r*lvl.Width + c }
	isFloor := func(r, c int) bool { return lvl.At(r, c).Kind == gamemap.TileStoneFloor }

	for r := 0; r < lvl.Height; r++ {
		for c := 0; c < lvl.Width; c++ {
			if !isFloor(r, c) {
				continue
			}
			if r+1 < lvl.Height && isFloor(r+1, c) {
				ds.Union(id(r, c), id(r+1, c))
			}
			if c+1 < lvl.Width && isFloor(r, c+1) {
				ds.Union(id(r, c), id(r, c+1))
			}
		}
	}

	floor := gamemap.Make(gamemap.TileStoneFloor)
	for r := 1; r < lvl.Height-1; r++ {
		for c := 1; c < lvl.Width-1; c++ {
			if isFloor(r, c) {
				continue
			}
			pockets := make(map[int]bool)
			for _, d := range gamemap.Adj4 {
				if nr, nc := r+d[0], c+d[1]; isFloor(nr, nc) {
					pockets[ds.Find(id(nr, nc))] = true
				}
			}
			if len(pockets) < 2 {
				continue
			}
			lvl.set(r, c, floor)
			for _, d := range gamemap.Adj4 {
				if nr, nc := r+d[0], c+d[1]; isFloor(nr, nc) {
					ds.Union(id(r, c), id(nr, nc))
				}
			}
		}
	}

	sizes := make(map[int]int)
	biggest, bigSize := -1, 0
	for r := 0; r < lvl.Height; r++ {
		for c := 0; c < lvl.Width; c++ {
			if !isFloor(r, c) {
				continue
			}
			root := ds.Find(id(r, c))
			sizes[root]++
			if sizes[root] > bigSize {
				biggest, bigSize = root, sizes[root]
			}
		}
	}
	wall := gamemap.Make(gamemap.TileWall)
	for r := 0; r < lvl.Height; r++ {
		for c := 0; c < lvl.Width; c++ {
			if isFloor(r, c) && ds.Find(id(r, c)) != biggest {
				lvl.set(r, c, wall)
			}
		}
	}
}
