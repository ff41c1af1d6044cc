package world

import (
	"fmt"

	"hollowvale/internal/gamemap"
)

// ItemKind sorts items into the handful of mechanical categories the
// game knows.
type ItemKind uint8

const (
	ItemWeapon ItemKind = iota
	ItemArmour
	ItemLight
	ItemPotion
	ItemScroll
	ItemNote
	ItemWeb
)

// Effect flags name what quaffing or reading an item does.
type Effect uint8

const (
	EffectMinorHeal Effect = 1 << iota
	EffectBlink
)

// ArmourWeight classes armour for the dexterity cap in CalcAC.
type ArmourWeight uint8

const (
	ArmourLight ArmourWeight = iota
	ArmourMedium
	ArmourHeavy
)

// DamageType is the flavor of harm an attack deals. Resistances key
// off it.
type DamageType uint8

const (
	DmgSlashing DamageType = iota
	DmgPiercing
	DmgBludgeoning
	DmgFire
	DmgCold
	DmgElectricity
	DmgAcid
	DmgPoison
)

// Item is a portable object: gear, consumables, light sources, and the
// webs some monsters leave behind.
type Item struct {
	Base
	Kind      ItemKind
	Stackable bool
	Equipped  bool
	Weight    ArmourWeight
	DmgDice   int
	DmgDie    int
	DmgType   DamageType
	// AttackBonus feeds both the to-hit roll and the damage of a
	// weapon, so a +1 blade is +1 to each.
	AttackBonus int
	ACMod       int
	// Charges is the remaining burn time of a light, or the remaining
	// uses of a consumable.
	Charges int
	// Aura is the light radius a burning light source casts.
	Aura int
	// DC is the escape difficulty for webs.
	DC      int
	Effects Effect
	// Writing is set on readable scraps.
	Writing *Writing
}

// Writing is text scrawled on an item. Desc is what the writing looks
// like at a glance, Words what it says when read.
type Writing struct {
	Desc  string
	Words string
}

func (*Item) isObject() {}

func (it *Item) Blocks() bool { return false }

// CanStack reports whether two copies merge in an inventory. A lit
// light source never stacks with its spares.
func (it *Item) CanStack() bool {
	if it.Kind == ItemLight && it.Equipped {
		return false
	}
	return it.Stackable
}

// NewWeb spins a web onto a square. DC is the strength check to tear
// free of it.
func NewWeb(id ID, loc gamemap.Loc, dc int) *Item {
	return &Item{
		Base: Base{ID: id, Loc: loc, Name: "web", Ch: '"'},
		Kind: ItemWeb,
		DC:   dc,
	}
}

// GoldPile is money on the floor. Piles at the same square merge when
// added to the table.
type GoldPile struct {
	Base
	Amount int
}

func (*GoldPile) isObject() {}

func (g *GoldPile) Blocks() bool { return false }

func (g *GoldPile) FullName() string {
	if g.Amount == 1 {
		return "a gold piece"
	}
	return fmt.Sprintf("%d gold pieces", g.Amount)
}

// NewGoldPile mints a pile. The caller places it.
func NewGoldPile(id ID, amount int) *GoldPile {
	return &GoldPile{
		Base:   Base{ID: id, Name: "gold piece", Ch: '$'},
		Amount: amount,
	}
}
