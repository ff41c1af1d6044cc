package world

import (
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"hollowvale/internal/gamemap"
)

// Fact is a piece of world knowledge pinned to a square, like where
// the dungeon entrance ended up. NPCs will eventually trade these in
// conversation.
type Fact struct {
	Detail    string
	Timestamp int
	Loc       gamemap.Loc
}

// TownBuildings records the squares of every built structure so
// schedules can send villagers to them. Homes is indexed by the home
// id villagers carry.
type TownBuildings struct {
	Shrine     mapset.Set[gamemap.Loc]
	Tavern     mapset.Set[gamemap.Loc]
	Market     mapset.Set[gamemap.Loc]
	Smithy     mapset.Set[gamemap.Loc]
	Homes      []mapset.Set[gamemap.Loc]
	TakenHomes []int
}

// NewTownBuildings returns an empty record ready for the town builder.
func NewTownBuildings() *TownBuildings {
	return &TownBuildings{
		Shrine: mapset.New[gamemap.Loc](),
		Tavern: mapset.New[gamemap.Loc](),
		Market: mapset.New[gamemap.Loc](),
		Smithy: mapset.New[gamemap.Loc](),
	}
}

// VacantHome picks an unclaimed home at random, or reports none left.
func (tb *TownBuildings) VacantHome(rng *rand.Rand) (int, bool) {
	var available []int
	for i := range tb.Homes {
		taken := false
		for _, t := range tb.TakenHomes {
			if t == i {
				taken = true
				break
			}
		}
		if !taken {
			available = append(available, i)
		}
	}
	if len(available) == 0 {
		return 0, false
	}
	return available[rng.Intn(len(available))], true
}

// Info is the generated world's metadata: the town's layout and the
// facts seeded during generation. The behavior system reads it to
// route villagers; dialogue will eventually mine the facts.
type Info struct {
	Facts        []Fact
	TownBoundary [4]int
	TownName     string
	TownSquare   mapset.Set[gamemap.Loc]
	TavernName   string
	Buildings    *TownBuildings
}

// NewInfo starts an Info with the fixed fields the town builder knows
// up front.
func NewInfo(townName string, boundary [4]int, tavernName string) *Info {
	return &Info{
		TownName:     townName,
		TownBoundary: boundary,
		TavernName:   tavernName,
		TownSquare:   mapset.New[gamemap.Loc](),
	}
}
