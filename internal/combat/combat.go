package combat

import (
	"fmt"
	"math/rand"

	"hollowvale/internal/world"
)

// PlayerAttacks resolves one swing by the player against a creature.
// The readied weapon supplies the damage dice and its bonus feeds both
// the to-hit and damage rolls; bare fists land a d2 of bludgeoning.
func PlayerAttacks(objs *world.Objects, foeID world.ID, log *world.MessageLog, events *world.EventQueue, rng *rand.Rand) {
	player := objs.Player()
	foe := objs.NPC(foeID)
	if foe == nil {
		return
	}

	weaponBonus := 0
	dice, die := 1, 2
	dmgType := world.DmgBludgeoning
	if weapon := player.ReadiedWeaponItem(); weapon != nil {
		weaponBonus = weapon.AttackBonus
		dice, die = weapon.DmgDice, weapon.DmgDie
		dmgType = weapon.DmgType
	}

	attackRoll := rng.Intn(20) + 1 + player.AttackBonus(rng) + weaponBonus
	xpEarned := 0
	if attackRoll >= foe.AC {
		s := fmt.Sprintf("You hit %s!", foe.FullName())
		log.Queue(foe.ID, foe.Loc, s, s)

		dmg := RollDamage(dice, die, rng) + weaponBonus + world.StatMod(player.Str)
		if dmg > 0 {
			DamageNPC(objs, foe, dmg, dmgType, world.PlayerID, log, events, rng)
			if !foe.Alive {
				xpEarned = foe.XPValue
			}
		}
	} else {
		s := fmt.Sprintf("You miss %s!", foe.FullName())
		log.Queue(foe.ID, foe.Loc, s, s)
	}

	if xpEarned > 0 && player.AddXP(xpEarned) {
		events.Push(world.Event{Kind: world.EventLevelUp, Loc: player.Loc})
	}
}

// MonsterAttacksPlayer resolves one swing by a creature against the
// player. Creature damage has no type of its own yet so piercing
// stands in.
func MonsterAttacksPlayer(objs *world.Objects, n *world.NPC, log *world.MessageLog, events *world.EventQueue, rng *rand.Rand) {
	player := objs.Player()
	attackRoll := rng.Intn(20) + 1 + n.AttackMod
	if attackRoll >= player.AC {
		s := fmt.Sprintf("%s hits you!", world.Capitalize(n.FullName()))
		log.Queue(n.ID, n.Loc, s, s)

		dmg := RollDamage(n.DmgDice, n.DmgDie, rng) + n.DmgBonus
		if dmg > 0 {
			DamagePlayer(player, dmg, world.DmgPiercing, n.IndefName(), events)
		}
	} else {
		s := fmt.Sprintf("%s misses you!", world.Capitalize(n.FullName()))
		log.Queue(n.ID, n.Loc, s, s)
	}
}

// RollDamage sums the given number of dice of the given size. Zero
// dice or a zero-sided die deal nothing.
func RollDamage(dice, die int, rng *rand.Rand) int {
	if die < 1 {
		return 0
	}
	total := 0
	for i := 0; i < dice; i++ {
		total += rng.Intn(die) + 1
	}
	return total
}

// DamageNPC applies damage to a creature, halving it against resisted
// types and queueing a death event when the creature drops. Phantasms
// mostly shrug blows off and pop when one finally lands.
func DamageNPC(objs *world.Objects, n *world.NPC, amount int, dmgType world.DamageType, assailantID world.ID, log *world.MessageLog, events *world.EventQueue, rng *rand.Rand) {
	if n.Attrs.Has(world.AttrIllusion) {
		if rng.Float64() <= 0.75 {
			log.Queue(n.ID, n.Loc, "Your weapon seems to pass right through them!", "")
		} else {
			s := fmt.Sprintf("%s vanishes in a puff of mist!", world.Capitalize(n.FullName()))
			log.Queue(n.ID, n.Loc, s, "")
			n.Alive = false
			events.Push(world.Event{Kind: world.EventDeathOf, Loc: n.Loc, Source: n.ID})
		}
		return
	}

	adjusted := amount
	switch dmgType {
	case world.DmgSlashing:
		if n.Attrs.Has(world.AttrResistSlash) {
			adjusted /= 2
		}
	case world.DmgPiercing:
		if n.Attrs.Has(world.AttrResistPierce) {
			adjusted /= 2
		}
	case world.DmgCold:
		s := fmt.Sprintf("%s is frozen!", world.Capitalize(n.FullName()))
		log.Queue(n.ID, n.Loc, s, "You hear a gasp.")
	}

	if adjusted >= n.CurrHP {
		n.Alive = false
		log.Queue(n.ID, n.Loc, deathMsg(n, assailantID), "You think you've landed a fatal blow!")
		events.Push(world.Event{Kind: world.EventDeathOf, Loc: n.Loc, Source: n.ID})
	} else {
		n.CurrHP -= adjusted
	}
}

// DamagePlayer applies damage to the player and queues the fatal event
// when it kills them. The assailant's name rides along for the death
// report. The player resists no damage types yet.
func DamagePlayer(player *world.Player, amount int, dmgType world.DamageType, assailant string, events *world.EventQueue) {
	if amount >= player.CurrHP {
		player.CurrHP = 0
		events.Push(world.Event{Kind: world.EventPlayerKilled, Loc: player.Loc, Text: assailant})
		return
	}
	player.CurrHP -= amount
}

func deathMsg(n *world.NPC, assailantID world.ID) string {
	if assailantID == world.PlayerID {
		return fmt.Sprintf("You kill %s!", n.FullName())
	}
	return fmt.Sprintf("%s dies!", world.Capitalize(n.FullName()))
}

// AbilityCheck is a d20 roll for a creature forcing something. Until
// creatures carry individual stats the attack modifier stands in for
// every ability.
func AbilityCheck(n *world.NPC, rng *rand.Rand) int {
	return rng.Intn(20) + 1 + n.AttackMod
}
