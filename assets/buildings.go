package assets

import (
	"fmt"

	"hollowvale/internal/gamemap"
)

// Template is one building floor plan as a grid of glyphs. The town
// generator stamps these onto the map, rotating them to face the
// square.
type Template struct {
	rows [][]rune
}

// Height is the number of rows in the plan.
func (t Template) Height() int { return len(t.rows) }

// Width is the number of columns in the plan.
func (t Template) Width() int {
	if len(t.rows) == 0 {
		return 0
	}
	return len(t.rows[0])
}

// At returns the glyph at a plan coordinate.
func (t Template) At(r, c int) rune { return t.rows[r][c] }

// Rotate returns the plan turned a quarter turn clockwise.
func (t Template) Rotate() Template {
	h, w := t.Height(), t.Width()
	rows := make([][]rune, w)
	for r := range rows {
		rows[r] = make([]rune, h)
		for c := range rows[r] {
			rows[r][c] = t.rows[h-1-c][r]
		}
	}
	return Template{rows: rows}
}

// TileFor maps a plan glyph to terrain. wood picks the wall material
// for this particular building.
func TileFor(glyph rune, wood bool) (gamemap.Tile, error) {
	switch glyph {
	case '#':
		if wood {
			return gamemap.Make(gamemap.TileWoodWall), nil
		}
		return gamemap.Make(gamemap.TileWall), nil
	case '`':
		return gamemap.Make(gamemap.TileGrass), nil
	case '+':
		return gamemap.MakeDoor(gamemap.DoorClosed), nil
	case '|', '-':
		return gamemap.Make(gamemap.TileWindow), nil
	case 'T':
		return gamemap.Make(gamemap.TileTree), nil
	case '.':
		return gamemap.Make(gamemap.TileStoneFloor), nil
	}
	return gamemap.Tile{}, fmt.Errorf("illegal glyph %q in building plan", glyph)
}

// LoadBuildings parses the embedded floor plans.
func LoadBuildings() (map[string]Template, error) {
	var raw map[string][]string
	if err := parseFile("buildings.yaml", &raw); err != nil {
		return nil, err
	}

	templates := make(map[string]Template, len(raw))
	for name, lines := range raw {
		t, err := buildTemplate(lines)
		if err != nil {
			return nil, fmt.Errorf("building %q: %w", name, err)
		}
		templates[name] = t
	}
	return templates, nil
}

func buildTemplate(lines []string) (Template, error) {
	if len(lines) == 0 {
		return Template{}, fmt.Errorf("empty plan")
	}
	rows := make([][]rune, len(lines))
	width := len([]rune(lines[0]))
	for i, line := range lines {
		row := []rune(line)
		if len(row) != width {
			return Template{}, fmt.Errorf("row %d is %d wide, want %d", i, len(row), width)
		}
		for _, glyph := range row {
			if _, err := TileFor(glyph, true); err != nil {
				return Template{}, err
			}
		}
		rows[i] = row
	}
	return Template{rows: rows}, nil
}
