package client

import (
	"github.com/gdamore/tcell/v2"

	"hollowvale/internal/game"
)

// keyToCommand maps a key event to the command it starts. Commands
// that need a target or a confirmation are finished by ReadCommand.
// The second return is false for keys that mean nothing.
func keyToCommand(ev *tcell.EventKey) (game.Command, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return move(game.North)
	case tcell.KeyDown:
		return move(game.South)
	case tcell.KeyRight:
		return move(game.East)
	case tcell.KeyLeft:
		return move(game.West)
	case tcell.KeyCtrlP:
		return game.Command{Kind: game.CmdMessageHistory}, true
	}
	switch ev.Rune() {
	case 'k':
		return move(game.North)
	case 'j':
		return move(game.South)
	case 'l':
		return move(game.East)
	case 'h':
		return move(game.West)
	case 'y':
		return move(game.NorthWest)
	case 'u':
		return move(game.NorthEast)
	case 'b':
		return move(game.SouthWest)
	case 'n':
		return move(game.SouthEast)
	case '.':
		return game.Command{Kind: game.CmdPass}, true
	case ',':
		return game.Command{Kind: game.CmdPickUp}, true
	case 'd':
		return game.Command{Kind: game.CmdDrop}, true
	case 'o':
		return game.Command{Kind: game.CmdOpen}, true
	case 'c':
		return game.Command{Kind: game.CmdClose}, true
	case 'B':
		return game.Command{Kind: game.CmdBash}, true
	case 'C':
		return game.Command{Kind: game.CmdChat}, true
	case 'U':
		return game.Command{Kind: game.CmdUse}, true
	case 'R':
		return game.Command{Kind: game.CmdRead}, true
	case 'w':
		return game.Command{Kind: game.CmdToggleEquipment}, true
	case 's':
		return game.Command{Kind: game.CmdSearch}, true
	case '>':
		return game.Command{Kind: game.CmdDown}, true
	case '<':
		return game.Command{Kind: game.CmdUp}, true
	case 'i':
		return game.Command{Kind: game.CmdInventory}, true
	case '@':
		return game.Command{Kind: game.CmdCharacterSheet}, true
	case 'S':
		return game.Command{Kind: game.CmdSave}, true
	case 'Q':
		return game.Command{Kind: game.CmdQuit}, true
	case ':':
		return game.Command{Kind: game.CmdWizard}, true
	}
	return game.Command{}, false
}

func move(d game.Dir) (game.Command, bool) {
	return game.Command{Kind: game.CmdMove, Dir: d}, true
}

// dirForKey reads a direction key for targeting prompts. The second
// return is false for anything that is not a direction.
func dirForKey(ev *tcell.EventKey) (game.Dir, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return game.North, true
	case tcell.KeyDown:
		return game.South, true
	case tcell.KeyRight:
		return game.East, true
	case tcell.KeyLeft:
		return game.West, true
	}
	switch ev.Rune() {
	case 'k':
		return game.North, true
	case 'j':
		return game.South, true
	case 'l':
		return game.East, true
	case 'h':
		return game.West, true
	case 'y':
		return game.NorthWest, true
	case 'u':
		return game.NorthEast, true
	case 'b':
		return game.SouthWest, true
	case 'n':
		return game.SouthEast, true
	}
	return game.North, false
}

// commandHelp lists the keys for the help overlay.
func commandHelp() []string {
	return []string{
		"── Movement ───────────────────────",
		"  arrows / hjkl     walk",
		"  yubn              walk diagonally",
		"  .                 pass the turn",
		"",
		"── Actions ────────────────────────",
		"  ,                 pick up",
		"  d                 drop",
		"  o / c             open / close",
		"  B                 bash",
		"  C                 chat",
		"  U                 use an item",
		"  R                 read",
		"  w                 wield or wear",
		"  s                 search",
		"  > / <             take stairs",
		"",
		"── Screens ────────────────────────",
		"  i                 inventory",
		"  @                 character sheet",
		"  Ctrl-P            message history",
		"  ?                 this list",
		"",
		"── Game ───────────────────────────",
		"  S                 save and exit",
		"  Q                 quit",
	}
}
