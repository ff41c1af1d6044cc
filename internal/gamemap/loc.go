package gamemap

// Loc addresses one cell: row, column, and level depth. Depth 0 is the
// surface; positive depths descend. Levels are independent grids, and the
// only cross-level connections are explicit stairs and portals.
type Loc struct {
	Row, Col int
	Depth    int
}

// Adj8 lists the eight neighbor offsets in (row, col) order. Planning and
// pathfinding both move with king adjacency.
var Adj8 = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Adj4 lists the four cardinal neighbor offsets.
var Adj4 = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// Step returns the location offset by (dr, dc) on the same level.
func (l Loc) Step(dr, dc int) Loc {
	return Loc{Row: l.Row + dr, Col: l.Col + dc, Depth: l.Depth}
}

// Neighbors8 returns the eight same-level neighbors of l.
func (l Loc) Neighbors8() [8]Loc {
	var out [8]Loc
	for i, d := range Adj8 {
		out[i] = l.Step(d[0], d[1])
	}
	return out
}
