package gamemap

// TileKind enumerates every terrain/feature value a map cell can hold.
// The zero value TileUnknown stands for coordinates the map has no entry
// for; consumers treat it as unexplored and impassable.
type TileKind uint8

const (
	TileUnknown TileKind = iota
	TileWall
	TileWoodWall
	TileDoor
	TileTree
	TileDirt
	TileBridge
	TileGrass
	TileWater
	TileDeepWater
	TileWorldEdge
	TileSand
	TileMountain
	TileSnowPeak
	TileGate
	TileStoneFloor
	TileFloor
	TileWindow
	TileLava
	TileFirePit
	TileOldFirePit
	TileSpring
	TilePortal
	TileStairsUp
	TileStairsDown
	TileShrine
	TileTrigger
	TileTeleportTrap
	TileRubble
	TileUndergroundRiver
)

// DoorState is the condition of a door or gate tile.
type DoorState uint8

const (
	DoorOpen DoorState = iota
	DoorClosed
	DoorLocked
	DoorBroken
)

// Tile is one map cell: a kind plus, for doors and gates, the door state.
// Tiles are comparable values, so they can key passability cost tables.
type Tile struct {
	Kind TileKind
	Door DoorState
}

// Make returns a tile of the given kind. Door and gate tiles should be
// built with MakeDoor/MakeGate so the state is explicit.
func Make(kind TileKind) Tile { return Tile{Kind: kind} }

// MakeDoor returns a door tile in the given state.
func MakeDoor(state DoorState) Tile { return Tile{Kind: TileDoor, Door: state} }

// MakeGate returns a gate tile in the given state.
func MakeGate(state DoorState) Tile { return Tile{Kind: TileGate, Door: state} }

// Clear reports whether sight passes through the tile. Windows and gates
// are see-through; closed and locked doors are not. Trees count as clear;
// their partial occlusion is the visibility engine's business.
func (t Tile) Clear() bool {
	switch t.Kind {
	case TileWall, TileUnknown, TileMountain, TileSnowPeak, TileWoodWall:
		return false
	case TileDoor:
		return t.Door != DoorClosed && t.Door != DoorLocked
	}
	return true
}

// Passable reports whether an agent can occupy the tile. Water and lava are
// passable; whether an agent should enter them is a cost-table question.
func (t Tile) Passable() bool {
	switch t.Kind {
	case TileWall, TileUnknown, TileWorldEdge, TileMountain, TileSnowPeak,
		TileWoodWall, TileWindow, TileUndergroundRiver:
		return false
	case TileDoor, TileGate:
		return t.Door != DoorClosed && t.Door != DoorLocked
	}
	return true
}

// PassableDryLand is Passable minus deep water, for agents that cannot swim.
func (t Tile) PassableDryLand() bool {
	if t.Kind == TileDeepWater {
		return false
	}
	return t.Passable()
}

// Indoors reports whether the tile is interior flooring.
func (t Tile) Indoors() bool {
	switch t.Kind {
	case TileFloor, TileStoneFloor, TileStairsUp, TileStairsDown:
		return true
	}
	return false
}

// IsDoor reports whether the tile is a door in the given state.
func (t Tile) IsDoor(state DoorState) bool {
	return t.Kind == TileDoor && t.Door == state
}
