// Package session walks one player through a full visit: the title
// screen, a name, a saved run or a fresh one, the game loop, and the
// bookkeeping each exit reason calls for. It owns none of the pieces;
// the entry points hand it a screen and a store and wait.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"hollowvale/assets"
	"hollowvale/internal/client"
	"hollowvale/internal/game"
	"hollowvale/internal/logger"
	"hollowvale/internal/save"
	"hollowvale/internal/world"
)

// Names longer than this stop fitting the sidebar.
const nameLimit = 15

// Run serves one visit on the given screen. A nil error covers every
// ordinary ending, disconnection included; only storage trouble
// surfaces.
func Run(screen tcell.Screen, store *save.Store, tables *assets.Tables, seed int64) error {
	log := logger.Component("session")
	c := client.New(screen)

	if !c.ShowText(titleLines()) {
		return nil
	}
	name, err := askName(c)
	if err != nil {
		return quiet(err)
	}
	log = log.WithField("name", name)

	g, err := openRun(c, store, tables, name, seed, log)
	if err != nil {
		return quiet(err)
	}
	log = log.WithField("run", g.RunID)
	log.Info("run started")

	reason, runErr := game.Run(g, c)
	if runErr != nil {
		if errors.Is(runErr, client.ErrDisconnected) {
			// The terminal went away mid-turn. Keep the run.
			if err := store.Snapshot(g); err != nil {
				log.WithError(err).Warn("saving dropped run")
			} else {
				log.Info("run saved on disconnect")
			}
			return nil
		}
		return runErr
	}

	switch reason {
	case game.ExitSave:
		if err := store.Snapshot(g); err != nil {
			log.WithError(err).Error("saving run")
			return fmt.Errorf("saving %q: %w", name, err)
		}
		log.Info("run saved")
	case game.ExitDeath:
		if err := store.Delete(name); err != nil {
			log.WithError(err).Warn("clearing dead run")
		}
		log.Info("run ended in death")
	default:
		log.Info("run abandoned")
	}
	return nil
}

// quiet swallows disconnections; they are how SSH sessions end.
func quiet(err error) error {
	if errors.Is(err, client.ErrDisconnected) {
		return nil
	}
	return err
}

func askName(c *client.Client) (string, error) {
	for {
		name, entered, err := c.ReadLine("Who are you?", nameLimit)
		if err != nil {
			return "", err
		}
		if !entered {
			// No slipping out of introductions.
			continue
		}
		name = strings.TrimSpace(name)
		if name != "" {
			return name, nil
		}
	}
}

// openRun restores the character's saved run if one exists, or walks
// them through making a new one. A snapshot that will not decode is
// logged and surrendered; the player starts over rather than being
// locked out of their own name.
func openRun(c *client.Client, store *save.Store, tables *assets.Tables, name string, seed int64, log *logrus.Entry) (*game.Game, error) {
	if meta, ok := store.Lookup(name); ok {
		g, err := store.Restore(name, tables)
		switch {
		case err == nil:
			log.WithField("turn", meta.Turn).Info("run restored")
			g.Announce(fmt.Sprintf("Welcome back, %s!", name))
			return g, nil
		case errors.Is(err, save.ErrCorrupt):
			log.WithError(err).Error("snapshot unreadable, starting over")
			if !c.ShowText(corruptLines()) {
				return nil, client.ErrDisconnected
			}
		default:
			return nil, err
		}
	}
	return newRun(c, tables, name, seed)
}

func newRun(c *client.Client, tables *assets.Tables, name string, seed int64) (*game.Game, error) {
	pick, ok := c.Choose(roleMenu(), []rune{'a', 'b'})
	if !ok {
		return nil, client.ErrDisconnected
	}
	role := world.RoleWarrior
	if pick == 'b' {
		role = world.RoleRogue
	}
	g, err := game.New(tables, name, role, seed)
	if err != nil {
		return nil, fmt.Errorf("starting a run for %q: %w", name, err)
	}
	return g, nil
}

func titleLines() []string {
	return []string{
		"Welcome to Hollowvale!",
		"",
		"A quiet town at the edge of the wild, and something",
		"underneath it that will not stay quiet.",
		"",
		"[press any key]",
	}
}

func roleMenu() []string {
	return []string{
		"Welcome adventurer, please choose your role in Hollowvale:",
		"",
		"  (a) Warrior - a doughty fighter who lives by the sword and...well",
		"                hopefully just that first part.",
		"",
		"  (b) Rogue - a quick, sly adventurer who gets by on their light step",
		"              and fast blade.",
	}
}

func corruptLines() []string {
	return []string{
		"Your old game could not be loaded.",
		"",
		"A new life awaits.",
		"",
		"[press any key]",
	}
}
