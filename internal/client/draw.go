package client

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"hollowvale/internal/render"
)

// Screen layout. The message line sits above the map, the sidebar to
// its right, matching the classic single-player arrangement.
const (
	msgRow     = 0
	mapTop     = 1
	sidebarCol = render.Width + 2
)

// putText writes a string starting at (x, y), clipped at the right
// edge. Wide runes advance two columns so names with them keep their
// shape.
func putText(scr tcell.Screen, x, y int, s string, st tcell.Style) {
	sw, _ := scr.Size()
	for _, r := range s {
		if x >= sw {
			break
		}
		scr.SetContent(x, y, r, nil, st)
		w := runewidth.RuneWidth(r)
		if w < 1 {
			w = 1
		}
		x += w
	}
}

// draw repaints the whole screen from the last built frame and the
// current message line. Before the first frame exists only the message
// line shows, which is what the name prompt wants.
func (c *Client) draw() {
	c.screen.Clear()
	putText(c.screen, 0, msgRow, c.msg, tcell.StyleDefault.Foreground(colWhite))
	if c.frame != nil {
		c.drawMap()
		c.drawSidebar()
	}
	c.screen.Show()
}

func (c *Client) drawMap() {
	for vr := 0; vr < render.Height; vr++ {
		for vc := 0; vc < render.Width; vc++ {
			r, st, ok := cellContent(c.frame.Cells[vr][vc])
			if ok {
				c.screen.SetContent(vc, mapTop+vr, r, nil, st)
			}
		}
	}
}

// cellContent picks the rune and style for one viewport square. Blank
// squares report ok false and stay untouched.
func cellContent(cell render.Cell) (rune, tcell.Style, bool) {
	switch {
	case cell.Visible:
		if cell.Glyph != 0 {
			st := tcell.StyleDefault.Foreground(glyphColor(cell.Glyph))
			if cell.Lit {
				st = st.Bold(true)
			}
			return cell.Glyph, st, true
		}
		l := tileLook(cell)
		color := l.color
		if cell.Aura {
			color = colGold
		}
		st := tcell.StyleDefault.Foreground(color)
		if cell.Lit {
			st = st.Bold(true)
		}
		return l.glyph, st, true
	case cell.Remembered:
		r := cell.Glyph
		if r == 0 {
			r = tileLook(cell).glyph
		}
		return r, tcell.StyleDefault.Foreground(colAsh), true
	}
	return 0, tcell.StyleDefault, false
}

func (c *Client) drawSidebar() {
	sb := c.frame.Sidebar
	white := tcell.StyleDefault.Foreground(colWhite)
	x := sidebarCol

	putText(c.screen, x, mapTop, sb.Name, white)
	putText(c.screen, x, mapTop+1, fmt.Sprintf("AC: %d  HP: %d(%d)", sb.AC, sb.HP, sb.MaxHP), white)
	putText(c.screen, x, mapTop+2, fmt.Sprintf("$: %d", sb.Gold), tcell.StyleDefault.Foreground(colGold))
	putText(c.screen, x, mapTop+3, sb.Weapon, white)

	where := "Outside"
	if sb.Depth > 0 {
		where = fmt.Sprintf("Depth: %d", sb.Depth)
	}
	putText(c.screen, x, mapTop+5, where, white)
	putText(c.screen, x, mapTop+6, sb.Clock, white)

	row := mapTop + 8
	for _, status := range sb.Status {
		if row >= mapTop+render.Height-1 {
			break
		}
		putText(c.screen, x, row, status, tcell.StyleDefault.Foreground(colBrightRed))
		row++
	}

	putText(c.screen, x, mapTop+render.Height-1, fmt.Sprintf("Turn: %d", sb.Turn), white)
}

// drawOverlay paints a bordered box over the screen with a centered
// title, one page of body lines, and a footer hint.
func (c *Client) drawOverlay(title string, lines []string, footer string) {
	border := tcell.StyleDefault.Foreground(colGrey)
	head := tcell.StyleDefault.Foreground(colGold).Bold(true)
	body := tcell.StyleDefault.Foreground(colLightGrey)

	sw, sh := c.screen.Size()
	width := runewidth.StringWidth(title) + 6
	for _, line := range lines {
		if w := runewidth.StringWidth(line) + 4; w > width {
			width = w
		}
	}
	if width > sw {
		width = sw
	}
	boxH := len(lines) + 3
	if footer != "" {
		boxH++
	}
	if boxH > sh {
		boxH = sh
	}
	x0 := (sw - width) / 2
	y0 := (sh - boxH) / 2
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}

	c.screen.Clear()
	for col := x0; col < x0+width; col++ {
		c.screen.SetContent(col, y0, '─', nil, border)
		c.screen.SetContent(col, y0+boxH-1, '─', nil, border)
	}
	for row := y0; row < y0+boxH; row++ {
		c.screen.SetContent(x0, row, '│', nil, border)
		c.screen.SetContent(x0+width-1, row, '│', nil, border)
	}
	c.screen.SetContent(x0, y0, '┌', nil, border)
	c.screen.SetContent(x0+width-1, y0, '┐', nil, border)
	c.screen.SetContent(x0, y0+boxH-1, '└', nil, border)
	c.screen.SetContent(x0+width-1, y0+boxH-1, '┘', nil, border)

	putText(c.screen, x0+(width-runewidth.StringWidth(title)-2)/2, y0, " "+title+" ", head)
	for i, line := range lines {
		if y0+1+i >= y0+boxH-1 {
			break
		}
		putText(c.screen, x0+2, y0+1+i, line, body)
	}
	if footer != "" {
		putText(c.screen, x0+2, y0+boxH-2, footer, border)
	}
	c.screen.Show()
}
