// Package fov computes which squares an observer can see.
//
// Visibility is perimeter beamcasting rather than recursive
// shadowcasting: a Bresenham ray runs from the origin to every point on
// a perimeter ring, marking squares along the way. Beamcasting keeps
// two behaviors shadowcasting makes awkward: tree squares dim sight
// instead of blocking it outright, and squares lit by an independent
// light source show up past the observer's own radius.
package fov

import (
	"github.com/zyedidia/generic/mapset"

	"hollowvale/internal/gamemap"
	"hollowvale/internal/geom"
)

// Viewport dimensions in squares. Rays never need to travel further
// than the viewport edge.
const (
	Width  = 41
	Height = 21
)

// Unlimited is the sight radius used for wizard vision and fully lit
// levels. It is larger than any distance inside the viewport, so the
// radius check never rejects a square.
const Unlimited = 99

// A tree square pulls the endpoint of a ray passing through it this
// many squares closer along the ray's major axis.
const treePenalty = 2

// Precomputed rings of ray targets for the common sight radii. Each is
// one octant of a Bresenham circle expanded eightfold; the wider rings
// carry extra near-diagonal points beyond the strict circle.
var rings = map[int][][2]int{
	3: expandOctant([][2]int{{3, 0}, {3, 1}, {2, 2}}),
	5: expandOctant([][2]int{{5, 0}, {5, 1}, {5, 2}, {4, 3}, {3, 3}}),
	7: expandOctant([][2]int{{7, 0}, {7, 1}, {7, 2}, {6, 3}, {6, 4}, {5, 5}, {5, 4}}),
	9: expandOctant([][2]int{{9, 0}, {9, 1}, {9, 2}, {9, 3}, {8, 4}, {8, 5}, {7, 6}, {6, 6}, {7, 5}}),
}

var viewportEdge = buildViewportEdge()

// expandOctant mirrors (row, col) offsets from one octant across both
// axes and the diagonal, producing the full ring. Offsets that land on
// an axis or the diagonal repeat; repeated rays re-mark the same
// squares and are harmless.
func expandOctant(octant [][2]int) [][2]int {
	pts := make([][2]int, 0, len(octant)*8)
	for _, p := range octant {
		a, b := p[0], p[1]
		pts = append(pts,
			[2]int{a, b}, [2]int{a, -b}, [2]int{-a, b}, [2]int{-a, -b},
			[2]int{b, a}, [2]int{b, -a}, [2]int{-b, a}, [2]int{-b, -a},
		)
	}
	return pts
}

// buildViewportEdge returns every offset on the edge of the viewport
// rectangle, for rays that must reach lit squares beyond any fixed
// ring.
func buildViewportEdge() [][2]int {
	const (
		rowRadius = Height / 2
		colRadius = Width / 2
	)
	var pts [][2]int
	for dc := -colRadius; dc < colRadius; dc++ {
		pts = append(pts, [2]int{-rowRadius, dc}, [2]int{rowRadius, dc})
	}
	for dr := -rowRadius; dr < rowRadius; dr++ {
		pts = append(pts, [2]int{dr, -colRadius}, [2]int{dr, colRadius})
	}
	return append(pts, [2]int{rowRadius, colRadius})
}

// Visible returns the set of squares an observer at origin can see on
// the origin's level. A square on a ray is marked when it lies within
// the squared radius or is present in lit, the set of independently
// lit squares. When fovOnly is true and the radius has a precomputed
// ring only that ring is walked; otherwise rays run all the way to the
// viewport edge so lit squares beyond the radius are found. The origin
// is always visible. lit may be nil.
func Visible(m *gamemap.Map, origin gamemap.Loc, radius int, fovOnly bool, lit *mapset.Set[gamemap.Loc]) *mapset.Set[gamemap.Loc] {
	if lit == nil {
		none := mapset.New[gamemap.Loc]()
		lit = &none
	}

	vis := mapset.New[gamemap.Loc]()
	vis.Put(origin)

	perimeter := viewportEdge
	if fovOnly {
		if ring, ok := rings[radius]; ok {
			perimeter = ring
		}
	}
	for _, pt := range perimeter {
		castRay(m, &vis, origin, origin.Row+pt[0], origin.Col+pt[1], radius, lit)
	}
	return &vis
}

// castRay walks a Bresenham line from origin toward (endRow, endCol),
// marking squares into vis. The walk stops without marking when it
// leaves the mapped area, and stops after marking at the first opaque
// square. A tree square that is not the origin shortens the endpoint
// by treePenalty along the major axis, so rays fade out in woods
// rather than stopping dead.
func castRay(m *gamemap.Map, vis *mapset.Set[gamemap.Loc], origin gamemap.Loc, endRow, endCol, radius int, lit *mapset.Set[gamemap.Loc]) {
	deltaR := endRow - origin.Row
	rStep := 1
	if deltaR < 0 {
		rStep = -1
		deltaR = -deltaR
	}
	deltaC := endCol - origin.Col
	cStep := 1
	if deltaC < 0 {
		cStep = -1
		deltaC = -deltaC
	}

	r, c := origin.Row, origin.Col
	maxSq := radius * radius
	errAcc := 0

	if deltaC <= deltaR {
		criterion := deltaR / 2
		for {
			if rStep > 0 && r >= endRow+rStep {
				return
			}
			if rStep < 0 && r <= endRow+rStep {
				return
			}
			loc := gamemap.Loc{Row: r, Col: c, Depth: origin.Depth}
			tile := m.At(loc)
			if tile.Kind == gamemap.TileUnknown {
				return
			}
			if geom.DistanceSq(origin.Row, origin.Col, r, c) <= maxSq || lit.Has(loc) {
				vis.Put(loc)
			}
			if !tile.Clear() {
				return
			}
			if tile.Kind == gamemap.TileTree && loc != origin {
				endRow -= treePenalty * rStep
			}
			r += rStep
			errAcc += deltaC
			if errAcc > criterion {
				errAcc -= deltaR
				c += cStep
			}
		}
	}

	criterion := deltaC / 2
	for {
		if cStep > 0 && c >= endCol+cStep {
			return
		}
		if cStep < 0 && c <= endCol+cStep {
			return
		}
		loc := gamemap.Loc{Row: r, Col: c, Depth: origin.Depth}
		tile := m.At(loc)
		if tile.Kind == gamemap.TileUnknown {
			return
		}
		if geom.DistanceSq(origin.Row, origin.Col, r, c) <= maxSq || lit.Has(loc) {
			vis.Put(loc)
		}
		if !tile.Clear() {
			return
		}
		if tile.Kind == gamemap.TileTree && loc != origin {
			endCol -= treePenalty * cStep
		}
		c += cStep
		errAcc += deltaR
		if errAcc > criterion {
			errAcc -= deltaC
			r += rStep
		}
	}
}
