// Package assets embeds the content tables the game draws on: monster
// stat blocks, item templates, building floor plans, and the villager
// name and agenda pools. Everything is parsed once at startup into
// typed lookups; a malformed entry fails the whole load, so bad
// content dies at the door instead of mid-run.
package assets

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed monsters.yaml items.yaml buildings.yaml villagers.yaml
var content embed.FS

// Tables bundles every loaded content table.
type Tables struct {
	Monsters  *MonsterTable
	Items     *ItemTable
	Buildings map[string]Template
	Villagers *VillagerPool
}

// Load parses all embedded tables.
func Load() (*Tables, error) {
	monsters, err := LoadMonsters()
	if err != nil {
		return nil, err
	}
	items, err := LoadItems()
	if err != nil {
		return nil, err
	}
	buildings, err := LoadBuildings()
	if err != nil {
		return nil, err
	}
	villagers, err := LoadVillagers()
	if err != nil {
		return nil, err
	}
	return &Tables{
		Monsters:  monsters,
		Items:     items,
		Buildings: buildings,
		Villagers: villagers,
	}, nil
}

func parseFile(name string, out any) error {
	raw, err := content.ReadFile(name)
	if err != nil {
		return fmt.Errorf("reading embedded %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}
