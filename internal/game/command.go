package game

import "hollowvale/internal/world"

// Dir is one of the eight movement directions.
type Dir uint8

const (
	North Dir = iota
	South
	East
	West
	NorthEast
	NorthWest
	SouthEast
	SouthWest
)

// Delta returns the row and column offsets for one step in the
// direction.
func (d Dir) Delta() (dr, dc int) {
	switch d {
	case North:
		return -1, 0
	case South:
		return 1, 0
	case East:
		return 0, 1
	case West:
		return 0, -1
	case NorthEast:
		return -1, 1
	case NorthWest:
		return -1, -1
	case SouthEast:
		return 1, 1
	default:
		return 1, -1
	}
}

// CmdKind selects which action a Command performs.
type CmdKind uint8

const (
	// CmdNone is an abandoned prompt. It costs nothing.
	CmdNone CmdKind = iota
	CmdMove
	CmdPass
	CmdPickUp
	CmdDrop
	CmdOpen
	CmdClose
	CmdBash
	CmdChat
	CmdUse
	CmdToggleEquipment
	CmdRead
	CmdSearch
	CmdUp
	CmdDown
	CmdInventory
	CmdCharacterSheet
	CmdMessageHistory
	CmdSave
	CmdQuit
	CmdWizard
)

// Command is one fully resolved player action. The client finishes any
// prompting, direction keys, item menus, counts, before emitting one,
// so the game loop never has to ask follow-up questions.
type Command struct {
	Kind CmdKind
	Dir  Dir
	// Item names an inventory or floor object. NoID when the prompt
	// resolved to nothing the player holds.
	Item world.ID
	// Count is how many of a stack to drop, or how much gold.
	Count int
	// Gold directs a drop at the purse instead of the pack.
	Gold bool
	// All picks up everything underfoot.
	All bool
	// Text is the raw wizard-command line.
	Text string
}
