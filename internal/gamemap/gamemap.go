// Package gamemap models the world map: a sparse mapping from
// (row, col, depth) coordinates to terrain tiles, with per-level dimensions
// recorded at generation time. Coordinates the map has no entry for read as
// TileUnknown, which is impassable and opaque.
package gamemap

import "math/rand"

// Dims is the rectangle a level was generated at.
type Dims struct {
	Height, Width int
}

// Map stores every generated level of the world.
type Map struct {
	tiles map[Loc]Tile
	dims  map[int]Dims
}

// New returns an empty multi-level map.
func New() *Map {
	return &Map{
		tiles: make(map[Loc]Tile),
		dims:  make(map[int]Dims),
	}
}

// At returns the tile at loc, or a TileUnknown tile when no entry exists.
func (m *Map) At(loc Loc) Tile {
	return m.tiles[loc]
}

// SetTile writes one cell.
func (m *Map) SetTile(loc Loc, t Tile) {
	m.tiles[loc] = t
}

// SetDims records the generated rectangle for a level.
func (m *Map) SetDims(depth, height, width int) {
	m.dims[depth] = Dims{Height: height, Width: width}
}

// LevelDims returns the recorded rectangle for a level. Zero when the level
// was never generated.
func (m *Map) LevelDims(depth int) Dims {
	return m.dims[depth]
}

// Depths returns the generated level depths in no particular order.
func (m *Map) Depths() []int {
	out := make([]int, 0, len(m.dims))
	for d := range m.dims {
		out = append(out, d)
	}
	return out
}

// InBounds reports whether loc lies inside its level's generated rectangle.
func (m *Map) InBounds(loc Loc) bool {
	d, ok := m.dims[loc.Depth]
	if !ok {
		return false
	}
	return loc.Row >= 0 && loc.Row < d.Height && loc.Col >= 0 && loc.Col < d.Width
}

// Passable reports whether the tile at loc can be occupied.
func (m *Map) Passable(loc Loc) bool {
	return m.tiles[loc].Passable()
}

// AdjacentDoor returns the door in the given state among the eight
// neighbors of loc, but only when exactly one such door exists; with zero
// or several candidates the answer is ambiguous and ok is false.
func (m *Map) AdjacentDoor(loc Loc, state DoorState) (Loc, bool) {
	count := 0
	var door Loc
	for _, n := range loc.Neighbors8() {
		if m.At(n).IsDoor(state) {
			count++
			door = n
		}
	}
	if count == 1 {
		return door, true
	}
	return Loc{}, false
}

// RandomPassable returns a uniformly chosen passable cell on the level.
// ok is false when the level holds none.
func (m *Map) RandomPassable(rng *rand.Rand, depth int) (Loc, bool) {
	d, haveDims := m.dims[depth]
	if !haveDims {
		return Loc{}, false
	}
	// Reservoir sample: uniform pick in one pass.
	var pick Loc
	n := 0
	for r := 0; r < d.Height; r++ {
		for c := 0; c < d.Width; c++ {
			loc := Loc{Row: r, Col: c, Depth: depth}
			if !m.tiles[loc].Passable() {
				continue
			}
			n++
			if rng.Intn(n) == 0 {
				pick = loc
			}
		}
	}
	return pick, n > 0
}
