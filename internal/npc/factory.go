package npc

import (
	"math"
	"math/rand"

	"hollowvale/assets"
	"hollowvale/internal/gamemap"
	"hollowvale/internal/world"
)

// Factory stamps out creatures from the content tables.
type Factory struct {
	Monsters *assets.MonsterTable
	Items    *assets.ItemTable
}

// Monster spawns the named creature at loc, rolls its loot, and
// registers it for turns. Spore carriers get their payload rolled
// fresh per specimen.
func (f *Factory) Monster(name string, loc gamemap.Loc, objs *world.Objects, rng *rand.Rand) (*world.NPC, error) {
	tmpl, err := f.Monsters.Get(name)
	if err != nil {
		return nil, err
	}

	n := &world.NPC{
		Base: world.Base{
			ID:   objs.NextID(),
			Loc:  loc,
			Name: tmpl.Name,
			Ch:   tmpl.Glyph,
		},
		AC:               tmpl.AC,
		CurrHP:           tmpl.HP,
		MaxHP:            tmpl.HP,
		Level:            tmpl.Level,
		Attitude:         world.AttIndifferent,
		Home:             -1,
		Voice:            "monster",
		Mode:             tmpl.Mode,
		AttackMod:        tmpl.AttackMod,
		DmgDice:          tmpl.DmgDice,
		DmgDie:           tmpl.DmgDie,
		DmgBonus:         tmpl.DmgBonus,
		EDC:              DCForLevel(tmpl.Level),
		Attrs:            tmpl.Attrs,
		Alive:            true,
		XPValue:          tmpl.XP,
		Active:           false,
		ActiveBehavior:   world.Behavior{Kind: tmpl.Active},
		InactiveBehavior: world.Behavior{Kind: tmpl.Inactive},
		Energy:           1.0,
		Recovery:         tmpl.Recovery,
		BoundTo:          world.NoID,
	}
	if tmpl.Spores {
		n.Attrs |= assets.RollSporeAttrs(rng)
	}

	items, gold, err := f.Items.RollLoot(tmpl.Loot, objs.NextID, rng)
	if err != nil {
		return nil, err
	}
	n.Inventory = items
	n.Gold = gold

	objs.Add(n)
	objs.Listen(n.ID, world.EventTakeTurn)
	return n, nil
}

// MonsterForDepth spawns a creature suited to the given dungeon depth,
// weighted by rarity within the rolled level.
func (f *Factory) MonsterForDepth(depth int, loc gamemap.Loc, objs *world.Objects, rng *rand.Rand) (*world.NPC, error) {
	level := monsterLevelForDepth(depth, rng)
	tmpl, err := f.Monsters.PickForLevel(level, rng)
	if err != nil {
		return nil, err
	}
	return f.Monster(tmpl.Name, loc, objs, rng)
}

// monsterLevelForDepth rolls a creature level clustered around the
// dungeon depth. The first level stays gentle; deeper floors mix in
// the odd outlier but never anything too far beneath them.
func monsterLevelForDepth(depth int, rng *rand.Rand) int {
	if depth == 1 {
		return 1
	}

	level := int(math.Round(rng.NormFloat64()*1.15 + float64(depth)))
	if level < 1 {
		level = 1
	}
	if depth > 3 && level < depth-3 {
		level = depth - 3
	}
	if level > 4 {
		level = 4
	}
	return level
}

// DCForLevel maps a creature's level to the save difficulty its
// tricks impose.
func DCForLevel(level int) int {
	switch {
	case level < 3:
		return 12
	case level < 6:
		return 13
	case level < 9:
		return 14
	case level < 12:
		return 15
	case level < 15:
		return 16
	case level < 18:
		return 17
	default:
		return 18
	}
}

// NewVillager builds the stock villager chassis. Agendas and homes are
// the town builder's business, since it knows the buildings.
func NewVillager(id world.ID, name string, loc gamemap.Loc, home int, voice string) *world.NPC {
	return &world.NPC{
		Base: world.Base{
			ID:   id,
			Loc:  loc,
			Name: name,
			Ch:   '@',
		},
		AC:               10,
		CurrHP:           8,
		MaxHP:            8,
		Attitude:         world.AttStranger,
		Home:             home,
		Voice:            voice,
		Mode:             world.PersonalityVillager,
		AttackMod:        2,
		DmgDice:          1,
		DmgDie:           3,
		EDC:              12,
		Attrs:            world.AttrOpenDoors | world.AttrUnlockDoors,
		Alive:            true,
		Active:           true,
		ActiveBehavior:   world.Behavior{Kind: world.BehaviorIdle},
		InactiveBehavior: world.Behavior{Kind: world.BehaviorIdle},
		Energy:           1.0,
		Recovery:         1.0,
		BoundTo:          world.NoID,
	}
}

// NewPhantasm conjures an illusory copy of a creature. It fights like
// nothing and dies to a stiff breeze, which is rather the point.
func NewPhantasm(id world.ID, name string, glyph rune, loc gamemap.Loc, caster world.ID) *world.NPC {
	return &world.NPC{
		Base: world.Base{
			ID:   id,
			Loc:  loc,
			Name: name,
			Ch:   glyph,
		},
		AC:               10,
		Attitude:         world.AttHostile,
		Home:             -1,
		Voice:            "monster",
		Mode:             world.PersonalitySimpleMonster,
		EDC:              10,
		Attrs:            world.AttrFearless | world.AttrIllusion,
		Alive:            true,
		Active:           true,
		ActiveBehavior:   world.Behavior{Kind: world.BehaviorHunt},
		InactiveBehavior: world.Behavior{Kind: world.BehaviorHunt},
		Energy:           1.0,
		Recovery:         1.0,
		BoundTo:          caster,
	}
}
