package generate

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"hollowvale/internal/gamemap"
	"hollowvale/internal/geom"
)

// WildernessSize is the edge length of the square surface level.
const WildernessSize = 257

// Wilderness lays down the surface: a noise heightmap banded into
// terrain, woods grown over the grassland, rivers running down from
// the southern mountains, and hard borders on all four edges.
func Wilderness(m *gamemap.Map, rng *rand.Rand) {
	m.SetDims(0, WildernessSize, WildernessSize)

	heights := rollHeightmap(rng)
	for r := 0; r < WildernessSize; r++ {
		for c := 0; c < WildernessSize; c++ {
			m.SetTile(gamemap.Loc{Row: r, Col: c}, bandFor(heights[r][c], rng))
		}
	}

	growTrees(m, rng)
	drawRivers(m, rng)
	drawBorders(m, rng)
}

// rollHeightmap blends fractal noise over a south-rising gradient, so
// the north shore reads as sea and the south edge as a mountain
// range.
func rollHeightmap(rng *rand.Rand) [][]float64 {
	noise := opensimplex.New(rng.Int63())
	heights := make([][]float64, WildernessSize)
	for r := range heights {
		heights[r] = make([]float64, WildernessSize)
		base := 0.5 + 10.5*float64(r)/float64(WildernessSize-1)
		for c := range heights[r] {
			heights[r][c] = base + fractalNoise(noise, float64(r), float64(c))
		}
	}
	return heights
}

// fractalNoise sums three octaves, roughly in [-2.6, 2.6].
func fractalNoise(noise opensimplex.Noise, r, c float64) float64 {
	const scale = 1.0 / 48.0
	total, amp, freq := 0.0, 1.5, scale
	for octave := 0; octave < 3; octave++ {
		total += noise.Eval2(r*freq, c*freq) * amp
		amp /= 2
		freq *= 2
	}
	return total
}

func bandFor(h float64, rng *rand.Rand) gamemap.Tile {
	switch {
	case h < 1.5:
		return gamemap.Make(gamemap.TileDeepWater)
	case h < 1.8:
		return gamemap.Make(gamemap.TileWater)
	case h < 6.0:
		return gamemap.Make(gamemap.TileGrass)
	case rng.Float64() < 0.9:
		return gamemap.Make(gamemap.TileMountain)
	default:
		return gamemap.Make(gamemap.TileSnowPeak)
	}
}

// growTrees seeds half the grass with trees, then runs two automaton
// generations to clump the scatter into woods with clearings.
func growTrees(m *gamemap.Map, rng *rand.Rand) {
	for r := 0; r < WildernessSize; r++ {
		for c := 0; c < WildernessSize; c++ {
			loc := gamemap.Loc{Row: r, Col: c}
			if m.At(loc).Kind == gamemap.TileGrass && rng.Float64() < 0.5 {
				m.SetTile(loc, gamemap.Make(gamemap.TileTree))
			}
		}
	}

	for gen := 0; gen < 2; gen++ {
		changes := make(map[gamemap.Loc]gamemap.Tile)
		for r := 0; r < WildernessSize; r++ {
			for c := 0; c < WildernessSize; c++ {
				loc := gamemap.Loc{Row: r, Col: c}
				trees := countNeighbors(m, loc, gamemap.TileTree)
				switch m.At(loc).Kind {
				case gamemap.TileGrass:
					if trees >= 6 {
						changes[loc] = gamemap.Make(gamemap.TileTree)
					}
				case gamemap.TileTree:
					if trees < 4 {
						changes[loc] = gamemap.Make(gamemap.TileGrass)
					}
				}
			}
		}
		for loc, t := range changes {
			m.SetTile(loc, t)
		}
	}
}

func countNeighbors(m *gamemap.Map, loc gamemap.Loc, kind gamemap.TileKind) int {
	count := 0
	for _, n := range loc.Neighbors8() {
		if m.At(n).Kind == kind {
			count++
		}
	}
	return count
}

// drawRivers runs up to three rivers from the southern mountains down
// to the sea, one per third of the map. The first is guaranteed, the
// others are coin flips.
func drawRivers(m *gamemap.Map, rng *rand.Rand) {
	third := WildernessSize / 3
	spans := [3]struct {
		loCol, hiCol int
		angle        float64
	}{
		{2, third, -0.28},
		{third, third * 2, -1.5},
		{WildernessSize - third - 2, WildernessSize - 2, -2.5},
	}

	for i, pick := range rng.Perm(3) {
		if i > 0 && rng.Float64() >= 0.5 {
			continue
		}
		span := spans[pick]
		start, ok := riverStart(m, rng, span.loCol, span.hiCol)
		if !ok {
			continue
		}
		drawRiver(m, rng, start, span.angle)
	}
}

// riverStart hunts for a square in the bottom third with mountains on
// several sides. ok is false when the span offers no such square.
func riverStart(m *gamemap.Map, rng *rand.Rand, loCol, hiCol int) (gamemap.Loc, bool) {
	third := WildernessSize / 3
	for try := 0; try < 200; try++ {
		loc := gamemap.Loc{
			Row: WildernessSize - third + rng.Intn(third-2),
			Col: randBetween(rng, loCol, hiCol),
		}
		if countNeighbors(m, loc, gamemap.TileMountain) > 3 {
			return loc, true
		}
	}
	return gamemap.Loc{}, false
}

// drawRiver walks short segments from the source along a wobbling
// bearing until it runs off the map or into open water, then floods
// the walked line.
func drawRiver(m *gamemap.Map, rng *rand.Rand, start gamemap.Loc, angle float64) {
	row, col := start.Row, start.Col
	bearing := angle
	var pts []gamemap.Loc

	for {
		d := float64(2 + rng.Intn(3))
		nextRow := row + int(d*math.Sin(bearing))
		nextCol := col + int(d*math.Cos(bearing))
		if !m.InBounds(gamemap.Loc{Row: nextRow, Col: nextCol}) {
			break
		}

		reachedSea := false
		for _, p := range geom.Line(row, col, nextRow, nextCol) {
			loc := gamemap.Loc{Row: p[0], Col: p[1]}
			pts = append(pts, loc)
			if m.At(loc).Kind == gamemap.TileDeepWater {
				reachedSea = true
				break
			}
		}
		if reachedSea {
			break
		}

		row, col = nextRow, nextCol
		bearing += rng.Float64()*0.4 - 0.2
		// Rivers flow north to the sea; the wobble never turns one
		// back uphill.
		if bearing > -0.1 {
			bearing = -0.28
		} else if bearing < -2.6 {
			bearing = -2.6
		}
	}

	water := gamemap.Make(gamemap.TileDeepWater)
	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		if a.Row != b.Row && a.Col != b.Col && a.Row > 0 {
			// A diagonal step leaves a passable pinch at the corner.
			m.SetTile(gamemap.Loc{Row: a.Row - 1, Col: a.Col}, water)
		}
	}
	for _, p := range pts {
		m.SetTile(p, water)
	}
	m.SetTile(start, water)
}

// drawBorders hems the map in: sea along the north edge, mountains
// along the south, and a split of world edge over mountains down each
// side.
func drawBorders(m *gamemap.Map, rng *rand.Rand) {
	deep := gamemap.Make(gamemap.TileDeepWater)
	mountain := gamemap.Make(gamemap.TileMountain)
	edge := gamemap.Make(gamemap.TileWorldEdge)

	for c := 0; c < WildernessSize; c++ {
		depth := 5 + rng.Intn(6)
		for r := 0; r < depth; r++ {
			m.SetTile(gamemap.Loc{Row: r, Col: c}, deep)
		}
		m.SetTile(gamemap.Loc{Row: WildernessSize - 1, Col: c}, mountain)
	}

	for _, c := range [2]int{0, WildernessSize - 1} {
		split := randBetween(rng, WildernessSize/3, WildernessSize/3*2)
		for r := 0; r < split; r++ {
			m.SetTile(gamemap.Loc{Row: r, Col: c}, edge)
		}
		for r := split; r < WildernessSize; r++ {
			m.SetTile(gamemap.Loc{Row: r, Col: c}, mountain)
		}
	}
}
