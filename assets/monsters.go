package assets

import (
	"fmt"
	"math/rand"
	"sort"

	"hollowvale/internal/world"
)

// Loot marks the treasure categories rolled when a monster spawns.
type Loot uint8

const (
	LootPittance Loot = 1 << iota
	LootMinorGear
	LootMinorItem
)

// Monster is one stat block from the bestiary, with every field
// already converted to engine types.
type Monster struct {
	Name      string
	Glyph     rune
	Level     int
	AC        int
	HP        int
	Mode      world.Personality
	AttackMod int
	DmgDice   int
	DmgDie    int
	DmgBonus  int
	XP        int
	Active    world.BehaviorKind
	Inactive  world.BehaviorKind
	// Rarity weights spawn selection within a level; higher is more
	// common.
	Rarity int
	Loot   Loot
	Attrs  world.Attr
	// Recovery is energy gained per round; 1.0 keeps pace with the
	// player, more is faster.
	Recovery float64
	// Spores marks fungi whose payload is rolled fresh per specimen.
	Spores bool
}

// MonsterTable indexes the bestiary by name and by level.
type MonsterTable struct {
	byName  map[string]*Monster
	byLevel map[int][]*Monster
}

type monsterRow struct {
	Name      string   `yaml:"name"`
	Glyph     string   `yaml:"glyph"`
	Level     int      `yaml:"level"`
	AC        int      `yaml:"ac"`
	HP        int      `yaml:"hp"`
	Mode      string   `yaml:"personality"`
	AttackMod int      `yaml:"attack_mod"`
	DmgDice   int      `yaml:"dmg_dice"`
	DmgDie    int      `yaml:"dmg_die"`
	DmgBonus  int      `yaml:"dmg_bonus"`
	XP        int      `yaml:"xp"`
	Active    string   `yaml:"active"`
	Inactive  string   `yaml:"inactive"`
	Rarity    int      `yaml:"rarity"`
	Loot      []string `yaml:"loot"`
	Attrs     []string `yaml:"attrs"`
	Recovery  float64  `yaml:"recovery"`
	Spores    bool     `yaml:"spores"`
}

// LoadMonsters parses the embedded bestiary.
func LoadMonsters() (*MonsterTable, error) {
	var rows []monsterRow
	if err := parseFile("monsters.yaml", &rows); err != nil {
		return nil, err
	}

	t := &MonsterTable{
		byName:  make(map[string]*Monster),
		byLevel: make(map[int][]*Monster),
	}
	for _, row := range rows {
		m, err := row.convert()
		if err != nil {
			return nil, fmt.Errorf("monster %q: %w", row.Name, err)
		}
		if _, dup := t.byName[m.Name]; dup {
			return nil, fmt.Errorf("monster %q: duplicate entry", m.Name)
		}
		t.byName[m.Name] = m
		t.byLevel[m.Level] = append(t.byLevel[m.Level], m)
	}
	return t, nil
}

func (row monsterRow) convert() (*Monster, error) {
	glyph := []rune(row.Glyph)
	if len(glyph) != 1 {
		return nil, fmt.Errorf("glyph must be a single rune, got %q", row.Glyph)
	}
	mode, err := parsePersonality(row.Mode)
	if err != nil {
		return nil, err
	}
	active, err := parseBehavior(row.Active)
	if err != nil {
		return nil, err
	}
	inactive, err := parseBehavior(row.Inactive)
	if err != nil {
		return nil, err
	}
	loot, err := parseLoot(row.Loot)
	if err != nil {
		return nil, err
	}
	attrs, err := parseAttrs(row.Attrs)
	if err != nil {
		return nil, err
	}
	if row.Level < 1 {
		return nil, fmt.Errorf("level must be positive, got %d", row.Level)
	}
	if row.Rarity < 1 {
		return nil, fmt.Errorf("rarity must be positive, got %d", row.Rarity)
	}
	recovery := row.Recovery
	if recovery == 0 {
		recovery = 1.0
	}
	if recovery < 0 {
		return nil, fmt.Errorf("recovery must be positive, got %v", recovery)
	}
	return &Monster{
		Name:      row.Name,
		Glyph:     glyph[0],
		Level:     row.Level,
		AC:        row.AC,
		HP:        row.HP,
		Mode:      mode,
		AttackMod: row.AttackMod,
		DmgDice:   row.DmgDice,
		DmgDie:    row.DmgDie,
		DmgBonus:  row.DmgBonus,
		XP:        row.XP,
		Active:    active,
		Inactive:  inactive,
		Rarity:    row.Rarity,
		Loot:      loot,
		Attrs:     attrs,
		Recovery:  recovery,
		Spores:    row.Spores,
	}, nil
}

func parsePersonality(text string) (world.Personality, error) {
	switch text {
	case "simple monster":
		return world.PersonalitySimpleMonster, nil
	case "basic undead":
		return world.PersonalityBasicUndead, nil
	case "plant":
		return world.PersonalityPlant, nil
	}
	return 0, fmt.Errorf("unknown personality %q", text)
}

func parseBehavior(text string) (world.BehaviorKind, error) {
	switch text {
	case "idle":
		return world.BehaviorIdle, nil
	case "wander":
		return world.BehaviorWander, nil
	case "hunt":
		return world.BehaviorHunt, nil
	case "plant":
		return world.BehaviorPlant, nil
	}
	return 0, fmt.Errorf("unknown behavior %q", text)
}

func parseLoot(fields []string) (Loot, error) {
	var loot Loot
	for _, f := range fields {
		switch f {
		case "pittance":
			loot |= LootPittance
		case "minor gear":
			loot |= LootMinorGear
		case "minor item":
			loot |= LootMinorItem
		default:
			return 0, fmt.Errorf("unknown loot category %q", f)
		}
	}
	return loot, nil
}

var attrNames = map[string]world.Attr{
	"open doors":        world.AttrOpenDoors,
	"unlock doors":      world.AttrUnlockDoors,
	"weak venom":        world.AttrWeakVenom,
	"pack tactics":      world.AttrPackTactics,
	"fearless":          world.AttrFearless,
	"undead":            world.AttrUndead,
	"resist slash":      world.AttrResistSlash,
	"resist pierce":     world.AttrResistPierce,
	"webslinger":        world.AttrWebslinger,
	"minor black magic": world.AttrMinorBlackMagic,
	"minor trickery":    world.AttrMinorTrickery,
	"confusion":         world.AttrConfusion,
	"leave corpse":      world.AttrLeaveCorpse,
	"paralyze":          world.AttrParalyze,
	"smash doors":       world.AttrSmashDoors,
}

func parseAttrs(fields []string) (world.Attr, error) {
	var attrs world.Attr
	for _, f := range fields {
		a, ok := attrNames[f]
		if !ok {
			return 0, fmt.Errorf("unknown attribute %q", f)
		}
		attrs |= a
	}
	return attrs, nil
}

// Get looks a monster up by name. Spawning a creature the bestiary
// does not know is a content error, so this is how it surfaces.
func (t *MonsterTable) Get(name string) (*Monster, error) {
	m, ok := t.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown monster %q", name)
	}
	return m, nil
}

// PickForLevel selects a stat block for a dungeon level, weighting
// each candidate by its rarity.
func (t *MonsterTable) PickForLevel(level int, rng *rand.Rand) (*Monster, error) {
	candidates := t.byLevel[level]
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no monsters of level %d", level)
	}
	total := 0
	for _, m := range candidates {
		total += m.Rarity
	}
	roll := rng.Intn(total)
	for _, m := range candidates {
		roll -= m.Rarity
		if roll < 0 {
			return m, nil
		}
	}
	return candidates[len(candidates)-1], nil
}

// Names lists the bestiary in a stable order, for tests and debug
// dumps.
func (t *MonsterTable) Names() []string {
	names := make([]string, 0, len(t.byName))
	for name := range t.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RollSporeAttrs decides a fungus specimen's payload: weak venom,
// confusion, or both.
func RollSporeAttrs(rng *rand.Rand) world.Attr {
	roll := rng.Float64()
	switch {
	case roll < 0.4:
		return world.AttrWeakVenom
	case roll < 0.8:
		return world.AttrConfusion
	default:
		return world.AttrWeakVenom | world.AttrConfusion
	}
}
