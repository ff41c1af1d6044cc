package assets_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hollowvale/assets"
	"hollowvale/internal/world"
)

func TestLoadParsesAllTables(t *testing.T) {
	tables, err := assets.Load()
	require.NoError(t, err)
	require.NotNil(t, tables.Monsters)
	require.NotNil(t, tables.Items)
	require.NotNil(t, tables.Villagers)
	assert.NotEmpty(t, tables.Monsters.Names())
	assert.Contains(t, tables.Buildings, "tavern")
	assert.Contains(t, tables.Buildings, "shrine")
	assert.Contains(t, tables.Buildings, "cottage 1")
	assert.Contains(t, tables.Buildings, "cottage 2")
}

func TestBestiaryLookup(t *testing.T) {
	tables, err := assets.Load()
	require.NoError(t, err)

	kobold, err := tables.Monsters.Get("kobold")
	require.NoError(t, err)
	assert.Equal(t, 1, kobold.Level)
	assert.Equal(t, 'k', kobold.Glyph)
	assert.Equal(t, world.PersonalitySimpleMonster, kobold.Mode)
	assert.True(t, kobold.Attrs.CanOpenDoors())
	assert.True(t, kobold.Attrs.Has(world.AttrPackTactics))

	_, err = tables.Monsters.Get("gazebo")
	assert.Error(t, err)
}

func TestPickForLevelStaysInLevel(t *testing.T) {
	tables, err := assets.Load()
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 50; i++ {
		m, err := tables.Monsters.PickForLevel(1, rng)
		require.NoError(t, err)
		assert.Equal(t, 1, m.Level)
	}

	_, err = tables.Monsters.PickForLevel(99, rng)
	assert.Error(t, err)
}

func TestItemTemplatesStampDistinctInstances(t *testing.T) {
	tables, err := assets.Load()
	require.NoError(t, err)

	first, err := tables.Items.New(5, "torch")
	require.NoError(t, err)
	assert.Equal(t, world.ID(5), first.ID)
	assert.Equal(t, 1000, first.Charges)
	assert.Equal(t, 5, first.Aura)
	assert.Equal(t, world.ItemLight, first.Kind)

	first.Charges = 3
	second, err := tables.Items.New(6, "torch")
	require.NoError(t, err)
	assert.Equal(t, 1000, second.Charges)

	_, err = tables.Items.New(7, "vorpal blade")
	assert.Error(t, err)
}

func TestLootRollDrawsFromKnownTemplates(t *testing.T) {
	tables, err := assets.Load()
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(11))

	var next world.ID
	nextID := func() world.ID { next++; return next }

	items, gold, err := tables.Items.RollLoot(0, nextID, rng)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, gold)

	allowed := map[string]bool{
		"arrow": true, "shortsword": true,
		"potion of healing": true, "scroll of blink": true,
	}
	for i := 0; i < 200; i++ {
		loot := assets.LootPittance | assets.LootMinorGear | assets.LootMinorItem
		items, gold, err := tables.Items.RollLoot(loot, nextID, rng)
		require.NoError(t, err)
		for _, it := range items {
			assert.True(t, allowed[it.Name], "unexpected loot item %q", it.Name)
		}
		if gold != 0 {
			assert.GreaterOrEqual(t, gold, 3)
			assert.LessOrEqual(t, gold, 5)
		}
	}
}

func TestBuildingPlansAreRectangular(t *testing.T) {
	tables, err := assets.Load()
	require.NoError(t, err)

	for name, tmpl := range tables.Buildings {
		assert.Greater(t, tmpl.Height(), 0, "plan %q", name)
		assert.Greater(t, tmpl.Width(), 0, "plan %q", name)

		hasDoor := false
		for r := 0; r < tmpl.Height(); r++ {
			for c := 0; c < tmpl.Width(); c++ {
				if tmpl.At(r, c) == '+' {
					hasDoor = true
				}
			}
		}
		assert.True(t, hasDoor, "plan %q has no door", name)
	}
}

func TestTemplateRotationSwapsDimensions(t *testing.T) {
	tables, err := assets.Load()
	require.NoError(t, err)

	tavern := tables.Buildings["tavern"]
	turned := tavern.Rotate()
	assert.Equal(t, tavern.Width(), turned.Height())
	assert.Equal(t, tavern.Height(), turned.Width())

	// Four quarter turns land back where we started.
	full := turned.Rotate().Rotate().Rotate()
	for r := 0; r < tavern.Height(); r++ {
		for c := 0; c < tavern.Width(); c++ {
			assert.Equal(t, tavern.At(r, c), full.At(r, c))
		}
	}
}

func TestMayorAgenda(t *testing.T) {
	tables, err := assets.Load()
	require.NoError(t, err)

	agenda, err := tables.Villagers.Agenda("mayor")
	require.NoError(t, err)
	require.Len(t, agenda, 2)

	assert.Equal(t, world.VenueTownSquare, agenda[0].Place.Kind)
	assert.Equal(t, world.ClockTime{Hour: 9}, agenda[0].From)
	assert.Equal(t, world.ClockTime{Hour: 21}, agenda[0].To)
	assert.Equal(t, 0, agenda[0].Priority)

	assert.Equal(t, world.VenueTavern, agenda[1].Place.Kind)
	assert.Equal(t, 10, agenda[1].Priority)

	_, err = tables.Villagers.Agenda("necromancer")
	assert.Error(t, err)
}

func TestVillagerNamePoolExhausts(t *testing.T) {
	tables, err := assets.Load()
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(3))

	used := make(map[string]bool)
	for range tables.Villagers.Names {
		name, ok := tables.Villagers.PickName(used, rng)
		require.True(t, ok)
		require.False(t, used[name], "name %q drawn twice", name)
		used[name] = true
	}

	_, ok := tables.Villagers.PickName(used, rng)
	assert.False(t, ok)
}

func TestSporePayloadIsAlwaysHarmful(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 100; i++ {
		attrs := assets.RollSporeAttrs(rng)
		ok := attrs == world.AttrWeakVenom ||
			attrs == world.AttrConfusion ||
			attrs == world.AttrWeakVenom|world.AttrConfusion
		assert.True(t, ok, "unexpected spore payload %b", attrs)
	}
}
