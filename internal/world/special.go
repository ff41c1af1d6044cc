package world

import "hollowvale/internal/gamemap"

// SpecialSquare rides invisibly on a map square and gives it behaviour:
// shrine auras, fire pit light, the triggers and light-sensitive gates
// of the vaults, and hidden traps. Tile records which fixture it is.
// For gates, Active means the gate is currently closed.
type SpecialSquare struct {
	Base
	Tile   gamemap.Tile
	Active bool
	Radius int
	// Target is the fixture a trigger fires at, or NoID.
	Target ID
}

func (*SpecialSquare) isObject() {}

func (sq *SpecialSquare) Blocks() bool { return false }

// NewSpecialSquare builds a fixture riding on loc. It stays out of the
// draw order; the map tile underneath is what the player sees.
func NewSpecialSquare(id ID, tile gamemap.Tile, loc gamemap.Loc, active bool, radius int) *SpecialSquare {
	return &SpecialSquare{
		Base:   Base{ID: id, Loc: loc, Hidden: true, Name: "special square", Ch: ' '},
		Tile:   tile,
		Active: active,
		Radius: radius,
		Target: NoID,
	}
}

// NewTeleportTrap builds a hidden trap at loc. It shows itself only
// after it has gone off.
func NewTeleportTrap(id ID, loc gamemap.Loc) *SpecialSquare {
	return &SpecialSquare{
		Base:   Base{ID: id, Loc: loc, Hidden: true, Name: "teleport trap", Ch: '^'},
		Tile:   gamemap.Make(gamemap.TileTeleportTrap),
		Active: true,
		Target: NoID,
	}
}

// IsGate reports whether the fixture is a vault gate.
func (sq *SpecialSquare) IsGate() bool { return sq.Tile.Kind == gamemap.TileGate }

// IsTeleportTrap reports whether the fixture is a hidden teleport trap.
func (sq *SpecialSquare) IsTeleportTrap() bool { return sq.Tile.Kind == gamemap.TileTeleportTrap }
