package client

import (
	"github.com/gdamore/tcell/v2"

	"hollowvale/internal/gamemap"
	"hollowvale/internal/render"
)

// The daylight palette. Remembered squares all fade to ash.
var (
	colWhite     = tcell.NewRGBColor(255, 255, 255)
	colLightGrey = tcell.NewRGBColor(220, 220, 220)
	colGrey      = tcell.NewRGBColor(136, 136, 136)
	colAsh       = tcell.NewRGBColor(96, 96, 96)
	colGreen     = tcell.NewRGBColor(144, 238, 144)
	colBrown     = tcell.NewRGBColor(150, 75, 0)
	colDarkBrown = tcell.NewRGBColor(101, 67, 33)
	colBlue      = tcell.NewRGBColor(0, 0, 200)
	colLightBlue = tcell.NewRGBColor(55, 198, 255)
	colBeige     = tcell.NewRGBColor(255, 178, 127)
	colBrightRed = tcell.NewRGBColor(208, 28, 31)
	colGold      = tcell.NewRGBColor(255, 215, 0)
	colOrange    = tcell.NewRGBColor(255, 159, 0)
)

// look is the glyph and foreground drawn for one kind of square.
type look struct {
	glyph rune
	color tcell.Color
}

// terrainLooks maps terrain to its appearance. Doors and gates are
// resolved in tileLook since their glyph follows the door state.
var terrainLooks = map[gamemap.TileKind]look{
	gamemap.TileWall:             {'#', colGrey},
	gamemap.TileWoodWall:         {'#', colBrown},
	gamemap.TileTree:             {'ϙ', colGreen},
	gamemap.TileDirt:             {'.', colBrown},
	gamemap.TileBridge:           {'=', colDarkBrown},
	gamemap.TileGrass:            {'"', colGreen},
	gamemap.TileWater:            {'}', colLightBlue},
	gamemap.TileDeepWater:        {'}', colBlue},
	gamemap.TileWorldEdge:        {'}', colBlue},
	gamemap.TileSand:             {'.', colBeige},
	gamemap.TileMountain:         {'Λ', colGrey},
	gamemap.TileSnowPeak:         {'Λ', colWhite},
	gamemap.TileStoneFloor:       {'.', colGrey},
	gamemap.TileFloor:            {'.', colBeige},
	gamemap.TileWindow:           {'=', colBrown},
	gamemap.TileLava:             {'{', colBrightRed},
	gamemap.TileFirePit:          {'"', colBrightRed},
	gamemap.TileOldFirePit:       {'"', colGrey},
	gamemap.TileSpring:           {'~', colLightBlue},
	gamemap.TilePortal:           {'Ո', colGrey},
	gamemap.TileStairsUp:         {'<', colGrey},
	gamemap.TileStairsDown:       {'>', colGrey},
	gamemap.TileShrine:           {'_', colWhite},
	gamemap.TileTrigger:          {'^', colWhite},
	gamemap.TileTeleportTrap:     {'^', colLightBlue},
	gamemap.TileRubble:           {':', colGrey},
	gamemap.TileUndergroundRiver: {'}', colBlue},
}

// tileLook resolves the terrain appearance for a cell.
func tileLook(cell render.Cell) look {
	switch cell.Kind {
	case gamemap.TileDoor:
		if cell.Door == gamemap.DoorOpen || cell.Door == gamemap.DoorBroken {
			return look{'/', colBrown}
		}
		return look{'+', colBrown}
	case gamemap.TileGate:
		if cell.Door == gamemap.DoorOpen {
			return look{'/', colLightBlue}
		}
		return look{'#', colLightBlue}
	}
	if l, ok := terrainLooks[cell.Kind]; ok {
		return l
	}
	return look{' ', colWhite}
}

// glyphColor colours a creature or thing drawn over the terrain. The
// frame carries only the glyph, so colour goes by what the glyph is.
func glyphColor(r rune) tcell.Color {
	switch r {
	case '@':
		return colWhite
	case '$':
		return colGold
	case '!':
		return colLightBlue
	case '?', '^':
		return colWhite
	case '(':
		return colBrown
	case ')', '[':
		return colLightGrey
	}
	if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
		return colOrange
	}
	return colLightGrey
}
