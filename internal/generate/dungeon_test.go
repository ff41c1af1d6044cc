package generate

import (
	"math/rand"
	"testing"

	"hollowvale/internal/gamemap"
)

func testRng(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// floodOpen walks 4-adjacent non-wall squares from (r, c) and returns
// how many it reached.
func floodOpen(lvl *Level, r, c int) int {
	seen := make([]bool, lvl.Height*lvl.Width)
	stack := [][2]int{{r, c}}
	seen[r*lvl.Width+c] = true
	count := 0
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		for _, d := range gamemap.Adj4 {
			nr, nc := cur[0]+d[0], cur[1]+d[1]
			if !lvl.in(nr, nc) || seen[nr*lvl.Width+nc] || lvl.At(nr, nc).Kind == gamemap.TileWall {
				continue
			}
			seen[nr*lvl.Width+nc] = true
			stack = append(stack, [2]int{nr, nc})
		}
	}
	return count
}

func countOpen(lvl *Level) (open int, firstR, firstC int) {
	firstR, firstC = -1, -1
	for r := 0; r < lvl.Height; r++ {
		for c := 0; c < lvl.Width; c++ {
			if lvl.At(r, c).Kind != gamemap.TileWall {
				open++
				if firstR == -1 {
					firstR, firstC = r, c
				}
			}
		}
	}
	return open, firstR, firstC
}

func TestDungeonOpensEnoughFloor(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		lvl := Dungeon(testRng(seed))
		if lvl.Height != DungeonHeight || lvl.Width != DungeonWidth {
			t.Fatalf("seed=%d: floor is %dx%d, want %dx%d", seed, lvl.Height, lvl.Width, DungeonHeight, DungeonWidth)
		}
		if share := lvl.OpenShare(); share <= minOpenShare {
			t.Errorf("seed=%d: only %.2f of the floor is open", seed, share)
		}
	}
}

func TestDungeonAllSquaresConnected(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		lvl := Dungeon(testRng(seed))
		open, r, c := countOpen(lvl)
		if open == 0 {
			t.Fatalf("seed=%d: no open squares at all", seed)
		}
		if reached := floodOpen(lvl, r, c); reached != open {
			t.Errorf("seed=%d: reached %d of %d open squares", seed, reached, open)
		}
	}
}

func TestDungeonKeepsBorderSolid(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		lvl := Dungeon(testRng(seed))
		for c := 0; c < lvl.Width; c++ {
			if lvl.At(0, c).Kind != gamemap.TileWall || lvl.At(lvl.Height-1, c).Kind != gamemap.TileWall {
				t.Fatalf("seed=%d: border breached in column %d", seed, c)
			}
		}
		for r := 0; r < lvl.Height; r++ {
			if lvl.At(r, 0).Kind != gamemap.TileWall || lvl.At(r, lvl.Width-1).Kind != gamemap.TileWall {
				t.Fatalf("seed=%d: border breached in row %d", seed, r)
			}
		}
	}
}

func TestVaultsHaveExactlyOneEntry(t *testing.T) {
	found := 0
	for seed := int64(0); seed < 10; seed++ {
		lvl := Dungeon(testRng(seed))
		for _, v := range lvl.Vaults {
			found++
			entries := 0
			var entry [2]int
			for c := v.MinCol; c < v.MaxCol; c++ {
				for _, r := range [2]int{v.MinRow, v.MaxRow - 1} {
					if lvl.At(r, c).Kind != gamemap.TileWall {
						entries++
						entry = [2]int{r, c}
					}
				}
			}
			for r := v.MinRow + 1; r < v.MaxRow-1; r++ {
				for _, c := range [2]int{v.MinCol, v.MaxCol - 1} {
					if lvl.At(r, c).Kind != gamemap.TileWall {
						entries++
						entry = [2]int{r, c}
					}
				}
			}
			if entries != 1 {
				t.Errorf("seed=%d: vault at (%d,%d) has %d entries", seed, v.MinRow, v.MinCol, entries)
			}
			if entry != v.Entrance {
				t.Errorf("seed=%d: vault entrance recorded at %v, found at %v", seed, v.Entrance, entry)
			}
		}
	}
	if found == 0 {
		t.Error("ten floors produced no vaults at all")
	}
}
