package generate

import (
	"testing"

	"hollowvale/internal/gamemap"
)

func TestCaveIsOneCavern(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		lvl := Cave(testRng(seed), DungeonHeight, DungeonWidth)
		open, r, c := countOpen(lvl)
		if open == 0 {
			t.Fatalf("seed=%d: cave came out solid", seed)
		}
		if reached := floodOpen(lvl, r, c); reached != open {
			t.Errorf("seed=%d: cavern is split, reached %d of %d floor squares", seed, reached, open)
		}
	}
}

func TestCaveLeavesRoomToWalk(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		lvl := Cave(testRng(seed), DungeonHeight, DungeonWidth)
		open, _, _ := countOpen(lvl)
		if share := float64(open) / float64(lvl.Height*lvl.Width); share < 0.3 {
			t.Errorf("seed=%d: only %.2f of the cave is floor", seed, share)
		}
	}
}

func TestCaveKeepsBorderSolid(t *testing.T) {
	lvl := Cave(testRng(1), DungeonHeight, DungeonWidth)
	for c := 0; c < lvl.Width; c++ {
		if lvl.At(0, c).Kind != gamemap.TileWall || lvl.At(lvl.Height-1, c).Kind != gamemap.TileWall {
			t.Fatalf("border breached in column %d", c)
		}
	}
	for r := 0; r < lvl.Height; r++ {
		if lvl.At(r, 0).Kind != gamemap.TileWall || lvl.At(r, lvl.Width-1).Kind != gamemap.TileWall {
			t.Fatalf("border breached in row %d", r)
		}
	}
}
