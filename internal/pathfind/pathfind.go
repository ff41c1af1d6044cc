// Package pathfind plots routes across a single level of the map.
//
// The search is weighted A* over 8-directional movement. Each walker
// supplies a cost table naming the tiles it can enter; the per-tile
// cost is folded into the priority alongside the euclidean distance to
// the goal, so walkers drift toward cheap ground instead of strictly
// shortest routes.
package pathfind

import (
	"container/heap"
	"math"

	"hollowvale/internal/gamemap"
	"hollowvale/internal/geom"
)

// Costs maps each tile a walker may enter to the extra priority cost
// of entering it. Tiles absent from the table are impassable to that
// walker.
type Costs map[gamemap.Tile]float64

// Priorities closer than epsilon compare equal.
const epsilon = 0.00001

type node struct {
	loc gamemap.Loc
	f   float64
}

type nodeHeap []node

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(i, j int) bool {
	if math.Abs(h[i].f-h[j].f) < epsilon {
		return false
	}
	return h[i].f < h[j].f
}

func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x any) { *h = append(*h, x.(node)) }

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// FindPath returns a route from start to goal on start's level, ordered
// goal first and ending at the start square. Callers walk it from the
// tail. An empty result means no route exists, not that the walker is
// already there. With stopShort set the search finishes on any square
// adjacent to the goal, for goals that cannot themselves be entered.
// Squares further than maxDistance from the goal are never considered.
func FindPath(m *gamemap.Map, stopShort bool, start, goal gamemap.Loc, maxDistance int, costs Costs) []gamemap.Loc {
	goal.Depth = start.Depth

	gScores := map[gamemap.Loc]int{start: 0}
	parents := make(map[gamemap.Loc]gamemap.Loc)
	queued := map[gamemap.Loc]bool{start: true}

	pq := &nodeHeap{}
	heap.Push(pq, node{loc: start})

	for pq.Len() > 0 {
		curr := heap.Pop(pq).(node).loc
		if stopShort && geom.Distance(curr.Row, curr.Col, goal.Row, goal.Col) < 1.5 {
			return backtrace(curr, parents)
		}
		if curr == goal {
			return backtrace(goal, parents)
		}

		for _, step := range gamemap.Adj8 {
			next := gamemap.Loc{Row: curr.Row + step[0], Col: curr.Col + step[1], Depth: curr.Depth}
			tile := m.At(next)
			if tile.Kind == gamemap.TileUnknown {
				continue
			}
			tileCost, enterable := costs[tile]
			if !enterable {
				continue
			}

			tentative := gScores[curr] + 1
			if g, seen := gScores[next]; seen && tentative >= g {
				continue
			}
			gScores[next] = tentative

			toGoal := geom.Distance(next.Row, next.Col, goal.Row, goal.Col)
			if int(toGoal) > maxDistance {
				continue
			}
			// A square is queued at most once; later, cheaper routes to
			// it update the score without re-queueing.
			if queued[next] {
				continue
			}
			parents[next] = curr
			queued[next] = true
			heap.Push(pq, node{loc: next, f: toGoal + float64(tentative) + tileCost})
		}
	}
	return nil
}

// backtrace rebuilds the route by following parents from last back to
// the start square, which has no parent.
func backtrace(last gamemap.Loc, parents map[gamemap.Loc]gamemap.Loc) []gamemap.Loc {
	route := []gamemap.Loc{last}
	for {
		p, ok := parents[last]
		if !ok {
			return route
		}
		route = append(route, p)
		last = p
	}
}
