package assets

import (
	"fmt"
	"math/rand"

	"hollowvale/internal/world"
)

// ItemTable holds the item templates. New stamps out instances; the
// templates themselves are never handed to callers.
type ItemTable struct {
	templates map[string]world.Item
}

type itemRow struct {
	Name        string   `yaml:"name"`
	Kind        string   `yaml:"kind"`
	Glyph       string   `yaml:"glyph"`
	Stackable   bool     `yaml:"stackable"`
	Weight      string   `yaml:"weight"`
	DmgDice     int      `yaml:"dmg_dice"`
	DmgDie      int      `yaml:"dmg_die"`
	DmgType     string   `yaml:"dmg_type"`
	AttackBonus int      `yaml:"attack_bonus"`
	ACMod       int      `yaml:"ac_mod"`
	Charges     int      `yaml:"charges"`
	Aura        int      `yaml:"aura"`
	Effects     []string `yaml:"effects"`
}

// LoadItems parses the embedded item templates.
func LoadItems() (*ItemTable, error) {
	var rows []itemRow
	if err := parseFile("items.yaml", &rows); err != nil {
		return nil, err
	}

	t := &ItemTable{templates: make(map[string]world.Item)}
	for _, row := range rows {
		tmpl, err := row.convert()
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", row.Name, err)
		}
		if _, dup := t.templates[row.Name]; dup {
			return nil, fmt.Errorf("item %q: duplicate entry", row.Name)
		}
		t.templates[row.Name] = tmpl
	}
	return t, nil
}

func (row itemRow) convert() (world.Item, error) {
	glyph := []rune(row.Glyph)
	if len(glyph) != 1 {
		return world.Item{}, fmt.Errorf("glyph must be a single rune, got %q", row.Glyph)
	}
	kind, err := parseItemKind(row.Kind)
	if err != nil {
		return world.Item{}, err
	}
	weight, err := parseWeight(row.Weight)
	if err != nil {
		return world.Item{}, err
	}
	dmgType, err := parseDamageType(row.DmgType)
	if err != nil {
		return world.Item{}, err
	}
	effects, err := parseEffects(row.Effects)
	if err != nil {
		return world.Item{}, err
	}
	return world.Item{
		Base:        world.Base{Name: row.Name, Ch: glyph[0]},
		Kind:        kind,
		Stackable:   row.Stackable,
		Weight:      weight,
		DmgDice:     row.DmgDice,
		DmgDie:      row.DmgDie,
		DmgType:     dmgType,
		AttackBonus: row.AttackBonus,
		ACMod:       row.ACMod,
		Charges:     row.Charges,
		Aura:        row.Aura,
		Effects:     effects,
	}, nil
}

func parseItemKind(text string) (world.ItemKind, error) {
	switch text {
	case "weapon":
		return world.ItemWeapon, nil
	case "armour":
		return world.ItemArmour, nil
	case "light":
		return world.ItemLight, nil
	case "potion":
		return world.ItemPotion, nil
	case "scroll":
		return world.ItemScroll, nil
	case "note":
		return world.ItemNote, nil
	}
	return 0, fmt.Errorf("unknown item kind %q", text)
}

func parseWeight(text string) (world.ArmourWeight, error) {
	switch text {
	case "", "light":
		return world.ArmourLight, nil
	case "medium":
		return world.ArmourMedium, nil
	case "heavy":
		return world.ArmourHeavy, nil
	}
	return 0, fmt.Errorf("unknown armour weight %q", text)
}

func parseDamageType(text string) (world.DamageType, error) {
	switch text {
	case "", "bludgeoning":
		return world.DmgBludgeoning, nil
	case "slashing":
		return world.DmgSlashing, nil
	case "piercing":
		return world.DmgPiercing, nil
	case "fire":
		return world.DmgFire, nil
	case "cold":
		return world.DmgCold, nil
	case "electricity":
		return world.DmgElectricity, nil
	case "acid":
		return world.DmgAcid, nil
	case "poison":
		return world.DmgPoison, nil
	}
	return 0, fmt.Errorf("unknown damage type %q", text)
}

func parseEffects(fields []string) (world.Effect, error) {
	var effects world.Effect
	for _, f := range fields {
		switch f {
		case "minor heal":
			effects |= world.EffectMinorHeal
		case "blink":
			effects |= world.EffectBlink
		default:
			return 0, fmt.Errorf("unknown effect %q", f)
		}
	}
	return effects, nil
}

// New stamps a fresh instance of a template. The caller supplies the
// object ID; location starts zeroed.
func (t *ItemTable) New(id world.ID, name string) (*world.Item, error) {
	tmpl, ok := t.templates[name]
	if !ok {
		return nil, fmt.Errorf("unknown item %q", name)
	}
	item := tmpl
	item.ID = id
	return &item, nil
}

// Known reports whether a template exists, for content validation.
func (t *ItemTable) Known(name string) bool {
	_, ok := t.templates[name]
	return ok
}

// RollLoot fills out a spawning monster's pockets from its loot
// categories. The gold amount comes back separately from the items.
func (t *ItemTable) RollLoot(loot Loot, nextID func() world.ID, rng *rand.Rand) (items []*world.Item, gold int, err error) {
	if loot&LootPittance != 0 && rng.Float64() < 0.33 {
		gold = 3 + rng.Intn(3)
	}
	if loot&LootMinorGear != 0 {
		if rng.Float64() < 0.1 {
			for i := 0; i < 3; i++ {
				arrow, err := t.New(nextID(), "arrow")
				if err != nil {
					return nil, 0, err
				}
				items = append(items, arrow)
			}
		}
		if rng.Float64() < 0.1 {
			sword, err := t.New(nextID(), "shortsword")
			if err != nil {
				return nil, 0, err
			}
			items = append(items, sword)
		}
	}
	if loot&LootMinorItem != 0 && rng.Float64() < 0.5 {
		name := "potion of healing"
		if rng.Float64() < 0.5 {
			name = "scroll of blink"
		}
		item, err := t.New(nextID(), name)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, gold, nil
}
