// Package geom holds the small geometric helpers shared by the map
// generators, the visibility engine, and NPC planning: distances, Bresenham
// lines and circles, and a disjoint set for connectivity repair.
package geom

import "math"

// Distance returns the straight-line distance between two cells.
func Distance(r1, c1, r2, c2 int) float64 {
	dr := float64(r1 - r2)
	dc := float64(c1 - c2)
	return math.Sqrt(dr*dr + dc*dc)
}

// DistanceSq returns the squared straight-line distance. Cheaper than
// Distance when only comparisons are needed.
func DistanceSq(r1, c1, r2, c2 int) int {
	dr := r1 - r2
	dc := c1 - c2
	return dr*dr + dc*dc
}

// Line returns the Bresenham line from (r1,c1) to (r2,c2), both endpoints
// included.
func Line(r1, c1, r2, c2 int) [][2]int {
	var pts [][2]int
	dr := abs(r2 - r1)
	dc := abs(c2 - c1)
	sr, sc := 1, 1
	if r1 > r2 {
		sr = -1
	}
	if c1 > c2 {
		sc = -1
	}
	err := dc - dr
	r, c := r1, c1
	for {
		pts = append(pts, [2]int{r, c})
		if r == r2 && c == c2 {
			return pts
		}
		e2 := 2 * err
		if e2 > -dr {
			err -= dr
			c += sc
		}
		if e2 < dc {
			err += dc
			r += sr
		}
	}
}

// CirclePts returns the outline cells of a circle centered on (rc, cc),
// midpoint-circle style. Cells repeat where octants meet; callers that care
// should dedupe.
func CirclePts(rc, cc, radius int) [][2]int {
	var pts [][2]int
	x := radius
	y := 0
	residual := 0
	sqrxInc := 2*radius - 1
	sqryInc := 1

	for y <= x {
		pts = append(pts,
			[2]int{rc + y, cc + x},
			[2]int{rc + y, cc - x},
			[2]int{rc - y, cc + x},
			[2]int{rc - y, cc - x},
			[2]int{rc + x, cc + y},
			[2]int{rc + x, cc - y},
			[2]int{rc - x, cc + y},
			[2]int{rc - x, cc - y})

		y++
		residual += sqryInc
		sqryInc += 2
		if residual > x {
			x--
			residual -= sqrxInc
			sqrxInc -= 2
		}
	}
	return pts
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
