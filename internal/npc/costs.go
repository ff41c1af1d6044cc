package npc

import (
	"hollowvale/internal/gamemap"
	"hollowvale/internal/pathfind"
	"hollowvale/internal/world"
)

// MoveCosts builds the pathfinding cost table for a creature with the
// given capabilities. Tiles absent from the table are impassable to
// it, so a creature that cannot work doors never plans through one.
func MoveCosts(attrs world.Attr) pathfind.Costs {
	costs := pathfind.Costs{
		gamemap.Make(gamemap.TileGrass):      1.0,
		gamemap.Make(gamemap.TileDirt):       1.0,
		gamemap.Make(gamemap.TileTree):       1.0,
		gamemap.Make(gamemap.TileBridge):     1.0,
		gamemap.MakeDoor(gamemap.DoorOpen):   1.0,
		gamemap.MakeDoor(gamemap.DoorBroken): 1.0,
		gamemap.MakeGate(gamemap.DoorOpen):   1.0,
		gamemap.MakeGate(gamemap.DoorBroken): 1.0,
		gamemap.Make(gamemap.TileStoneFloor): 1.0,
		gamemap.Make(gamemap.TileFloor):      1.0,
		gamemap.Make(gamemap.TileTrigger):    1.0,
	}
	if attrs.CanOpenDoors() {
		costs[gamemap.MakeDoor(gamemap.DoorClosed)] = 2.0
	}
	if attrs.CanForceLocks() {
		costs[gamemap.MakeDoor(gamemap.DoorLocked)] = 2.5
	}
	return costs
}
