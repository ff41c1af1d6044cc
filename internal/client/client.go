// Package client drives one player's terminal. It draws the frames
// the render package builds and turns keystrokes into commands,
// finishing any that need a target, an amount, or a second thought.
// The same code serves a local terminal and an SSH session; only the
// tcell screen handed to New differs.
package client

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"hollowvale/internal/game"
	"hollowvale/internal/render"
)

// ErrDisconnected reports that the player's terminal went away in the
// middle of a read.
var ErrDisconnected = errors.New("client: terminal closed")

// Client owns a tcell screen for the duration of one session.
type Client struct {
	screen tcell.Screen
	frame  *render.Frame
	msg    string
}

func New(screen tcell.Screen) *Client {
	return &Client{screen: screen}
}

const moreHint = " --More--"

// Refresh rebuilds the frame and shows whatever the game had to say
// since the last one. Long message batches page on the message line.
func (c *Client) Refresh(g *game.Game) error {
	c.frame = render.Build(g, g.Memory)
	return c.showMessages(g.Messages())
}

func (c *Client) showMessages(lines []string) error {
	text := strings.Join(lines, " ")
	if text == "" {
		c.msg = ""
		c.draw()
		return nil
	}
	sw, _ := c.screen.Size()
	width := sw - runewidth.StringWidth(moreHint)
	if width < 20 {
		width = 20
	}
	chunks := foldMessage(text, width)
	for i, chunk := range chunks {
		if i < len(chunks)-1 {
			c.msg = chunk + moreHint
			c.draw()
			if !c.waitKey() {
				return ErrDisconnected
			}
			continue
		}
		c.msg = chunk
	}
	c.draw()
	return nil
}

// ReadCommand blocks until the player has put together a command worth
// sending. Screens like the inventory are handled here and never reach
// the game loop.
func (c *Client) ReadCommand(g *game.Game) (game.Command, error) {
	for {
		ev := c.screen.PollEvent()
		if ev == nil {
			return game.Command{}, ErrDisconnected
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			c.screen.Sync()
			c.draw()
		case *tcell.EventKey:
			if ev.Rune() == '?' {
				c.Popup("Commands", commandHelp())
				continue
			}
			cmd, ok := keyToCommand(ev)
			if !ok {
				continue
			}
			cmd, emit, err := c.resolve(g, cmd)
			if err != nil {
				return game.Command{}, err
			}
			if emit {
				return cmd, nil
			}
		}
	}
}

// resolve finishes a command that needs more from the player. emit
// false keeps the command from reaching the game, either because a
// screen handled it here or because the player backed out of a
// confirmation.
func (c *Client) resolve(g *game.Game, cmd game.Command) (game.Command, bool, error) {
	switch cmd.Kind {
	case game.CmdInventory:
		c.Popup("Inventory", g.InventoryRows())
		return cmd, false, nil
	case game.CmdCharacterSheet:
		c.Popup(g.Player().Name, g.CharacterSheetRows())
		return cmd, false, nil
	case game.CmdMessageHistory:
		c.Popup("Recent events", g.HistoryRows())
		return cmd, false, nil

	case game.CmdOpen, game.CmdClose, game.CmdBash, game.CmdChat:
		dir, picked, err := c.pickDirection(directionPrompt(cmd.Kind))
		if err != nil {
			return cmd, false, err
		}
		if !picked {
			return game.Command{Kind: game.CmdNone}, true, nil
		}
		cmd.Dir = dir
		return cmd, true, nil

	case game.CmdUse, game.CmdRead, game.CmdToggleEquipment:
		menu := g.InventoryMenu()
		if len(menu) == 0 {
			// The game explains the empty pack.
			return cmd, true, nil
		}
		entry, picked, err := c.pickEntry(itemPrompt(cmd.Kind), menu)
		if err != nil {
			return cmd, false, err
		}
		if !picked {
			return game.Command{Kind: game.CmdNone}, true, nil
		}
		cmd.Item = entry.Item
		return cmd, true, nil

	case game.CmdDrop:
		return c.resolveDrop(g, cmd)
	case game.CmdPickUp:
		return c.resolvePickUp(g, cmd)

	case game.CmdSave:
		if !c.Confirm("Save and exit? (y/n)") {
			return cmd, false, nil
		}
		return cmd, true, nil
	case game.CmdQuit:
		if !c.Confirm("Do you really want to Quit? (y/n)") {
			return cmd, false, nil
		}
		return cmd, true, nil

	case game.CmdWizard:
		line, entered, err := c.ReadLine("Wizard command:", 30)
		if err != nil {
			return cmd, false, err
		}
		if !entered || strings.TrimSpace(line) == "" {
			c.msg = ""
			c.draw()
			return cmd, false, nil
		}
		cmd.Text = line
		return cmd, true, nil
	}
	return cmd, true, nil
}

func directionPrompt(k game.CmdKind) string {
	switch k {
	case game.CmdOpen:
		return "Open what?"
	case game.CmdClose:
		return "Close what?"
	case game.CmdBash:
		return "Bash what?"
	}
	return "Chat with whom?"
}

func itemPrompt(k game.CmdKind) string {
	switch k {
	case game.CmdUse:
		return "Use what?"
	case game.CmdRead:
		return "Read what?"
	}
	return "Ready what?"
}

func (c *Client) resolveDrop(g *game.Game, cmd game.Command) (game.Command, bool, error) {
	menu := g.InventoryMenu()
	if g.Player().Purse > 0 {
		gold := game.MenuEntry{Key: '$', Desc: "your money"}
		menu = append([]game.MenuEntry{gold}, menu...)
	}
	if len(menu) == 0 {
		// "You are empty handed."
		return cmd, true, nil
	}
	entry, picked, err := c.pickEntry("Drop what?", menu)
	if err != nil {
		return cmd, false, err
	}
	if !picked {
		return game.Command{Kind: game.CmdNone}, true, nil
	}
	if entry.Key == '$' {
		n, entered, err := c.readNumber("How much?")
		if err != nil {
			return cmd, false, err
		}
		if !entered {
			return game.Command{Kind: game.CmdNone}, true, nil
		}
		cmd.Gold = true
		cmd.Count = n
		return cmd, true, nil
	}
	cmd.Item = entry.Item
	cmd.Count = 1
	if entry.Count > 1 {
		n, entered, err := c.readNumber("Drop how many?")
		if err != nil {
			return cmd, false, err
		}
		if !entered {
			return game.Command{Kind: game.CmdNone}, true, nil
		}
		if n > 0 {
			cmd.Count = n
		}
	}
	return cmd, true, nil
}

func (c *Client) resolvePickUp(g *game.Game, cmd game.Command) (game.Command, bool, error) {
	menu := g.PickUpMenu()
	if len(menu) <= 1 {
		// A bare square gets its message from the game.
		if len(menu) == 1 {
			cmd.Item = menu[0].Item
		}
		return cmd, true, nil
	}
	everything := game.MenuEntry{Key: '*', Desc: "everything"}
	entry, picked, err := c.pickEntry("Pick up what?", append(menu, everything))
	if err != nil {
		return cmd, false, err
	}
	if !picked {
		return game.Command{Kind: game.CmdNone}, true, nil
	}
	if entry.Key == '*' {
		cmd.All = true
		return cmd, true, nil
	}
	cmd.Item = entry.Item
	return cmd, true, nil
}

// pickDirection asks for one of the eight directions. picked is false
// when the player escapes out.
func (c *Client) pickDirection(prompt string) (game.Dir, bool, error) {
	c.msg = prompt
	c.draw()
	for {
		ev := c.screen.PollEvent()
		if ev == nil {
			return game.North, false, ErrDisconnected
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			c.screen.Sync()
			c.draw()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape {
				return game.North, false, nil
			}
			if d, ok := dirForKey(ev); ok {
				return d, true, nil
			}
		}
	}
}

// pickEntry shows a lettered menu and waits for a matching key.
func (c *Client) pickEntry(prompt string, entries []game.MenuEntry) (game.MenuEntry, bool, error) {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%c) %s", e.Key, e.Desc))
	}
	redraw := func() { c.drawOverlay(prompt, lines, "[Esc cancels]") }
	redraw()
	defer c.draw()
	for {
		ev := c.screen.PollEvent()
		if ev == nil {
			return game.MenuEntry{}, false, ErrDisconnected
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			c.screen.Sync()
			redraw()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape {
				return game.MenuEntry{}, false, nil
			}
			for _, e := range entries {
				if ev.Rune() == e.Key {
					return e, true, nil
				}
			}
		}
	}
}

// readNumber edits an amount on the message line. Enter with nothing
// typed answers zero.
func (c *Client) readNumber(prompt string) (int, bool, error) {
	var digits string
	for {
		c.msg = prompt + " " + digits
		c.draw()
		ev := c.screen.PollEvent()
		if ev == nil {
			return 0, false, ErrDisconnected
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			c.screen.Sync()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape:
				return 0, false, nil
			case tcell.KeyEnter:
				if digits == "" {
					return 0, true, nil
				}
				n, err := strconv.Atoi(digits)
				if err != nil {
					return 0, false, nil
				}
				return n, true, nil
			case tcell.KeyBackspace, tcell.KeyBackspace2:
				if len(digits) > 0 {
					digits = digits[:len(digits)-1]
				}
			default:
				if r := ev.Rune(); r >= '0' && r <= '9' && len(digits) < 9 {
					digits += string(r)
				}
			}
		}
	}
}

// Popup shows a text overlay until a key dismisses it. Texts taller
// than the screen page forward a screenful at a time.
func (c *Client) Popup(title string, lines []string) {
	defer c.draw()
	_, sh := c.screen.Size()
	pageLen := sh - 4
	if pageLen < 1 {
		pageLen = 1
	}
	start := 0
	for {
		end := start + pageLen
		footer := "[any key closes]"
		if end < len(lines) {
			footer = "[any key for more]"
		} else {
			end = len(lines)
		}
		for {
			c.drawOverlay(title, lines[start:end], footer)
			ev := c.screen.PollEvent()
			if ev == nil {
				return
			}
			if _, resized := ev.(*tcell.EventResize); resized {
				c.screen.Sync()
				continue
			}
			if _, keyed := ev.(*tcell.EventKey); keyed {
				break
			}
		}
		if end >= len(lines) {
			return
		}
		start = end
	}
}

// Confirm asks a yes or no question on the message line. Only y means
// yes; n and Escape mean no, anything else asks again.
func (c *Client) Confirm(prompt string) bool {
	c.msg = prompt
	c.draw()
	answer := false
	for {
		ev := c.screen.PollEvent()
		if ev == nil {
			break
		}
		if _, resized := ev.(*tcell.EventResize); resized {
			c.screen.Sync()
			c.draw()
			continue
		}
		key, keyed := ev.(*tcell.EventKey)
		if !keyed {
			continue
		}
		if key.Key() == tcell.KeyEscape {
			break
		}
		if key.Rune() == 'y' || key.Rune() == 'Y' {
			answer = true
			break
		}
		if key.Rune() == 'n' || key.Rune() == 'N' {
			break
		}
	}
	c.msg = ""
	c.draw()
	return answer
}

// ReadLine edits a short line of text on the message row. entered is
// false when the player escapes out. Callers wanting a non-empty
// answer loop.
func (c *Client) ReadLine(prompt string, max int) (string, bool, error) {
	var text []rune
	for {
		c.msg = prompt + " " + string(text)
		c.draw()
		ev := c.screen.PollEvent()
		if ev == nil {
			return "", false, ErrDisconnected
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			c.screen.Sync()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape:
				return "", false, nil
			case tcell.KeyEnter:
				return string(text), true, nil
			case tcell.KeyBackspace, tcell.KeyBackspace2:
				if len(text) > 0 {
					text = text[:len(text)-1]
				}
			default:
				if r := ev.Rune(); r >= ' ' && len(text) < max {
					text = append(text, r)
				}
			}
		}
	}
}

// Choose shows a screenful of text and waits for one of the offered
// keys. There is no backing out; ok false means the terminal closed.
func (c *Client) Choose(lines []string, keys []rune) (rune, bool) {
	for {
		c.showPage(lines)
		ev := c.screen.PollEvent()
		if ev == nil {
			return 0, false
		}
		if _, resized := ev.(*tcell.EventResize); resized {
			c.screen.Sync()
			continue
		}
		key, keyed := ev.(*tcell.EventKey)
		if !keyed {
			continue
		}
		for _, k := range keys {
			if key.Rune() == k {
				return k, true
			}
		}
	}
}

// ShowText fills the screen with text and waits for any key. ok false
// means the terminal closed.
func (c *Client) ShowText(lines []string) bool {
	c.showPage(lines)
	for {
		ev := c.screen.PollEvent()
		if ev == nil {
			return false
		}
		if _, resized := ev.(*tcell.EventResize); resized {
			c.screen.Sync()
			c.showPage(lines)
			continue
		}
		if _, keyed := ev.(*tcell.EventKey); keyed {
			return true
		}
	}
}

func (c *Client) showPage(lines []string) {
	c.screen.Clear()
	st := tcell.StyleDefault.Foreground(colWhite)
	for i, line := range lines {
		putText(c.screen, 0, i, line, st)
	}
	c.screen.Show()
}

// waitKey blocks for any keypress, repainting through resizes. False
// means the terminal closed.
func (c *Client) waitKey() bool {
	for {
		ev := c.screen.PollEvent()
		if ev == nil {
			return false
		}
		if _, resized := ev.(*tcell.EventResize); resized {
			c.screen.Sync()
			c.draw()
			continue
		}
		if _, keyed := ev.(*tcell.EventKey); keyed {
			return true
		}
	}
}

// foldMessage word-wraps text into lines no wider than width.
func foldMessage(text string, width int) []string {
	var chunks []string
	var line string
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case runewidth.StringWidth(line)+1+runewidth.StringWidth(word) <= width:
			line += " " + word
		default:
			chunks = append(chunks, line)
			line = word
		}
	}
	if line != "" {
		chunks = append(chunks, line)
	}
	return chunks
}
