package assets

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"hollowvale/internal/world"
)

// VillagerPool holds the name list villagers draw from and the daily
// agendas keyed by voice ("mayor", "villager", "innkeeper").
type VillagerPool struct {
	Names   []string
	agendas map[string][]world.AgendaItem
}

type villagerFile struct {
	Names   []string               `yaml:"names"`
	Agendas map[string][]agendaRow `yaml:"agendas"`
}

type agendaRow struct {
	Venue    string `yaml:"venue"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
	Priority int    `yaml:"priority"`
}

// LoadVillagers parses the embedded name and agenda pools.
func LoadVillagers() (*VillagerPool, error) {
	var raw villagerFile
	if err := parseFile("villagers.yaml", &raw); err != nil {
		return nil, err
	}
	if len(raw.Names) == 0 {
		return nil, fmt.Errorf("villager name pool is empty")
	}

	pool := &VillagerPool{
		Names:   raw.Names,
		agendas: make(map[string][]world.AgendaItem),
	}
	for voice, rows := range raw.Agendas {
		items := make([]world.AgendaItem, 0, len(rows))
		for _, row := range rows {
			item, err := row.convert()
			if err != nil {
				return nil, fmt.Errorf("agenda %q: %w", voice, err)
			}
			items = append(items, item)
		}
		pool.agendas[voice] = items
	}
	return pool, nil
}

func (row agendaRow) convert() (world.AgendaItem, error) {
	kind, err := parseVenue(row.Venue)
	if err != nil {
		return world.AgendaItem{}, err
	}
	from, err := parseClock(row.From)
	if err != nil {
		return world.AgendaItem{}, err
	}
	to, err := parseClock(row.To)
	if err != nil {
		return world.AgendaItem{}, err
	}
	return world.AgendaItem{
		From:     from,
		To:       to,
		Priority: row.Priority,
		Place:    world.Venue{Kind: kind},
	}, nil
}

func parseVenue(text string) (world.VenueKind, error) {
	switch text {
	case "town square":
		return world.VenueTownSquare, nil
	case "tavern":
		return world.VenueTavern, nil
	case "shrine":
		return world.VenueShrine, nil
	case "home":
		return world.VenueHome, nil
	case "market":
		return world.VenueMarket, nil
	case "smithy":
		return world.VenueSmithy, nil
	}
	return 0, fmt.Errorf("unknown venue %q", text)
}

func parseClock(text string) (world.ClockTime, error) {
	parts := strings.Split(text, ":")
	if len(parts) != 2 {
		return world.ClockTime{}, fmt.Errorf("bad clock time %q", text)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return world.ClockTime{}, fmt.Errorf("bad clock time %q", text)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return world.ClockTime{}, fmt.Errorf("bad clock time %q", text)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return world.ClockTime{}, fmt.Errorf("clock time %q out of range", text)
	}
	return world.ClockTime{Hour: hour, Minute: minute}, nil
}

// Agenda returns the daily schedule for a voice.
func (p *VillagerPool) Agenda(voice string) ([]world.AgendaItem, error) {
	items, ok := p.agendas[voice]
	if !ok {
		return nil, fmt.Errorf("no agenda for voice %q", voice)
	}
	out := make([]world.AgendaItem, len(items))
	copy(out, items)
	return out, nil
}

// PickName draws an unused name from the pool. ok is false once the
// pool is exhausted.
func (p *VillagerPool) PickName(used map[string]bool, rng *rand.Rand) (string, bool) {
	free := make([]string, 0, len(p.Names))
	for _, name := range p.Names {
		if !used[name] {
			free = append(free, name)
		}
	}
	if len(free) == 0 {
		return "", false
	}
	return free[rng.Intn(len(free))], true
}
