package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"hollowvale/internal/gamemap"
	"hollowvale/internal/npc"
	"hollowvale/internal/world"
)

// UI is the game's view of the client. The client owns the terminal:
// it draws frames, runs every prompt and menu, and hands back fully
// resolved commands.
type UI interface {
	// Refresh redraws the screen from the current state.
	Refresh(g *Game) error
	// ReadCommand blocks for the player's next resolved command.
	ReadCommand(g *Game) (Command, error)
	// Popup overlays a titled text box until dismissed.
	Popup(title string, lines []string)
	// Confirm asks a yes/no question.
	Confirm(prompt string) bool
}

// ExitReason is why a run stopped.
type ExitReason uint8

const (
	ExitQuit ExitReason = iota
	ExitSave
	ExitDeath
)

// Run drives the main loop until the player quits, saves, or dies.
// The player spends banked energy on commands; when it runs dry the
// rest of the world takes its round.
func Run(g *Game, ui UI) (ExitReason, error) {
	g.ui = ui
	defer func() { g.ui = nil }()

	if err := ui.Refresh(g); err != nil {
		return ExitQuit, err
	}
	for {
		p := g.Player()
		for p.Energy >= 1.0 {
			if p.HasStatus(world.StatusParalyzed) {
				g.writeMsg("You cannot move!")
				p.Energy = 0
				if err := ui.Refresh(g); err != nil {
					return ExitQuit, err
				}
				break
			}

			cmd, err := ui.ReadCommand(g)
			if err != nil {
				return ExitQuit, fmt.Errorf("reading command: %w", err)
			}
			switch cmd.Kind {
			case CmdQuit:
				return ExitQuit, nil
			case CmdSave:
				return ExitSave, nil
			case CmdWizard:
				g.wizard(cmd.Text)
				if err := ui.Refresh(g); err != nil {
					return ExitQuit, err
				}
				continue
			}

			cost := g.Apply(cmd)
			p.Energy -= cost
			if cost > 0 && p.Energy >= 1.0 {
				g.Objs.CheckForDeadNPCs()
				g.runUpdate()
				g.RefreshView()
			}
			if err := ui.Refresh(g); err != nil {
				return ExitQuit, err
			}
		}

		reason, over := g.endRound()
		if over {
			return reason, nil
		}
		if err := ui.Refresh(g); err != nil {
			return ExitQuit, err
		}
	}
}

// Apply executes one resolved command and returns its energy cost.
// Commands that never reached a real action, a wall bump, a menu
// backed out of, cost nothing.
func (g *Game) Apply(cmd Command) float64 {
	var cost float64
	switch cmd.Kind {
	case CmdNone:
		g.writeMsg("Nevermind.")
	case CmdMove:
		cost = g.doMove(cmd.Dir)
	case CmdPass:
		cost = g.Player().Energy
	case CmdPickUp:
		cost = g.pickUp(cmd)
	case CmdDrop:
		cost = g.dropItem(cmd)
	case CmdOpen:
		cost = g.openAt(g.adjacent(cmd.Dir))
	case CmdClose:
		cost = g.closeAt(g.adjacent(cmd.Dir))
	case CmdBash:
		cost = g.bashAt(g.adjacent(cmd.Dir))
	case CmdChat:
		cost = g.chatAt(g.adjacent(cmd.Dir))
	case CmdUse:
		cost = g.useItem(cmd.Item)
	case CmdToggleEquipment:
		cost = g.toggleEquipment(cmd.Item)
	case CmdRead:
		cost = g.readItem(cmd.Item)
	case CmdSearch:
		cost = g.search()
	case CmdUp:
		cost = g.takeStairs(false)
	case CmdDown:
		cost = g.takeStairs(true)
	}
	g.flushLog()
	return cost
}

// wizard handles the debug command line.
func (g *Game) wizard(line string) {
	p := g.Player()
	switch {
	case line == "loc":
		g.writeMsg(fmt.Sprintf("(%d, %d, %d)", p.Loc.Row, p.Loc.Col, p.Loc.Depth))
	case line == "goblin":
		factory := &npc.Factory{Monsters: g.Tables.Monsters, Items: g.Tables.Items}
		if _, err := factory.Monster("goblin", p.Loc.Step(0, -1), g.Objs, g.Rng); err != nil {
			g.writeMsg(err.Error())
		}
	case line == "dump level":
		if p.Loc.Depth == 0 {
			g.writeMsg("Uhh the wilderness is too big to dump.")
		} else {
			logrus.Infof("level %d:\n%s", p.Loc.Depth, g.dumpLevel(p.Loc.Depth))
		}
	case strings.HasPrefix(line, "turn="):
		if n, err := strconv.Atoi(strings.TrimPrefix(line, "turn=")); err == nil {
			g.Turn = n
			g.RefreshView()
		} else {
			g.writeMsg("Invalid wizard command")
		}
	default:
		g.writeMsg("Invalid wizard command")
	}
}

func (g *Game) dumpLevel(depth int) string {
	dims := g.Map.LevelDims(depth)
	var sb strings.Builder
	for r := 0; r < dims.Height; r++ {
		for c := 0; c < dims.Width; c++ {
			sb.WriteRune(dumpGlyph(g.Map.At(gamemap.Loc{Row: r, Col: c, Depth: depth})))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func dumpGlyph(t gamemap.Tile) rune {
	switch t.Kind {
	case gamemap.TileWall:
		return '#'
	case gamemap.TileStoneFloor:
		return '.'
	case gamemap.TileDoor:
		return '+'
	case gamemap.TileShrine:
		return '_'
	case gamemap.TileTrigger:
		return '^'
	case gamemap.TileOldFirePit:
		return '#'
	case gamemap.TileStairsDown:
		return '>'
	case gamemap.TileStairsUp:
		return '<'
	case gamemap.TileGate:
		return '/'
	case gamemap.TileRubble:
		return ':'
	case gamemap.TileUndergroundRiver:
		return '~'
	default:
		return ' '
	}
}

// killScreen writes the parting lines and shows them.
func (g *Game) killScreen(assailant string) {
	g.flushLog()
	if assailant == "" {
		g.writeMsg("Oh no! You have died!")
	} else {
		g.writeMsg(fmt.Sprintf("Oh no! You have been killed by %s!", assailant))
	}
	g.writeMsg(fmt.Sprintf("Farewell, %s.", g.Player().Name))
	if g.ui != nil {
		_ = g.ui.Refresh(g)
	}
}
