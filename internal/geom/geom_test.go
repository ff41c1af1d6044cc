package geom

import (
	"math"
	"testing"
)

func TestDistanceKnownTriangles(t *testing.T) {
	if d := Distance(0, 0, 3, 4); d != 5 {
		t.Errorf("Distance(0,0,3,4) = %v, want 5", d)
	}
	if d := Distance(2, 2, 2, 2); d != 0 {
		t.Errorf("Distance to self = %v, want 0", d)
	}
	if d := DistanceSq(1, 1, 4, 5); d != 25 {
		t.Errorf("DistanceSq(1,1,4,5) = %d, want 25", d)
	}
}

func TestLineIncludesBothEndpoints(t *testing.T) {
	pts := Line(2, 3, 7, 11)
	if len(pts) == 0 {
		t.Fatal("Line returned no points")
	}
	if pts[0] != [2]int{2, 3} {
		t.Errorf("first point = %v, want (2,3)", pts[0])
	}
	if pts[len(pts)-1] != [2]int{7, 11} {
		t.Errorf("last point = %v, want (7,11)", pts[len(pts)-1])
	}
}

func TestLineStepsAreAdjacent(t *testing.T) {
	cases := [][4]int{
		{0, 0, 5, 5},
		{0, 0, 0, 9},
		{4, 7, -3, 2},
		{10, 0, 0, 3},
	}
	for _, c := range cases {
		pts := Line(c[0], c[1], c[2], c[3])
		for i := 1; i < len(pts); i++ {
			dr := abs(pts[i][0] - pts[i-1][0])
			dc := abs(pts[i][1] - pts[i-1][1])
			if dr > 1 || dc > 1 || (dr == 0 && dc == 0) {
				t.Errorf("Line%v: step %v -> %v is not a unit king move", c, pts[i-1], pts[i])
			}
		}
	}
}

func TestCirclePtsLieOnRadius(t *testing.T) {
	const radius = 5
	pts := CirclePts(10, 10, radius)
	if len(pts) == 0 {
		t.Fatal("CirclePts returned no points")
	}
	for _, p := range pts {
		d := Distance(10, 10, p[0], p[1])
		if math.Abs(d-radius) > 0.75 {
			t.Errorf("point %v at distance %.2f, want within 0.75 of %d", p, d, radius)
		}
	}
}

func TestCirclePtsCoverAxes(t *testing.T) {
	pts := CirclePts(0, 0, 3)
	want := [][2]int{{0, 3}, {0, -3}, {3, 0}, {-3, 0}}
	for _, w := range want {
		found := false
		for _, p := range pts {
			if p == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("axis point %v missing from circle outline", w)
		}
	}
}

func TestDisjointSetUnionFind(t *testing.T) {
	ds := NewDisjointSet(8)

	for i := 0; i < 8; i++ {
		for j := i + 1; j < 8; j++ {
			if ds.Same(i, j) {
				t.Fatalf("fresh set: %d and %d already joined", i, j)
			}
		}
	}

	ds.Union(0, 1)
	ds.Union(1, 2)
	ds.Union(5, 6)

	if !ds.Same(0, 2) {
		t.Error("0 and 2 should share a set after chained unions")
	}
	if !ds.Same(5, 6) {
		t.Error("5 and 6 should share a set")
	}
	if ds.Same(2, 5) {
		t.Error("2 and 5 should remain separate")
	}

	// Self-union must not corrupt anything.
	ds.Union(0, 2)
	if !ds.Same(1, 2) {
		t.Error("1 and 2 lost their set after redundant union")
	}
}
