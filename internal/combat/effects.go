package combat

import (
	"math/rand"

	"hollowvale/internal/gamemap"
	"hollowvale/internal/world"
)

// ApplyEffects runs each effect flagged on a potion, scroll, or spell
// against the target.
func ApplyEffects(m *gamemap.Map, objs *world.Objects, targetID world.ID, effects world.Effect, rng *rand.Rand) {
	if effects&world.EffectMinorHeal != 0 {
		minorHealing(objs, targetID, rng)
	}
	if effects&world.EffectBlink != 0 {
		Blink(m, objs, targetID, rng)
	}
}

// minorHealing restores a handful of hit points. It does nothing for a
// target already at or over their maximum, but a creature it does help
// can end up past full.
func minorHealing(objs *world.Objects, targetID world.ID, rng *rand.Rand) {
	amt := rng.Intn(6) + 5
	switch t := objs.Get(targetID).(type) {
	case *world.Player:
		if t.CurrHP < t.MaxHP {
			t.AddHP(amt)
		}
	case *world.NPC:
		if t.CurrHP < t.MaxHP {
			t.CurrHP += amt
		}
	}
}

// Blink hops the target to a random open square nearby. With nowhere
// to land the target stays put.
func Blink(m *gamemap.Map, objs *world.Objects, targetID world.ID, rng *rand.Rand) {
	obj := objs.Get(targetID)
	if obj == nil {
		return
	}
	loc := obj.Location()
	for i := 0; i < 10; i++ {
		dest := gamemap.Loc{
			Row:   loc.Row + rng.Intn(19) - 9,
			Col:   loc.Col + rng.Intn(19) - 9,
			Depth: loc.Depth,
		}
		if dest == loc || !m.At(dest).PassableDryLand() || objs.BlockingObjAt(dest) {
			continue
		}
		objs.SetToLoc(targetID, dest)
		return
	}
}

// ApplyWeakPoison makes the target save against a mild toxin, a
// constitution check for the player. Failure leaves them poisoned for
// a few turns.
func ApplyWeakPoison(objs *world.Objects, targetID world.ID, dc int, log *world.MessageLog, rng *rand.Rand) {
	switch t := objs.Get(targetID).(type) {
	case *world.Player:
		if rng.Intn(20)+1+world.StatMod(t.Con) >= dc {
			return
		}
		t.AddStatus(world.StatusPoisoned, rng.Intn(3)+3)
		log.Queue(t.ID, t.Loc, "You feel ill!", "")
	case *world.NPC:
		if AbilityCheck(t, rng) >= dc {
			return
		}
		t.AddStatus(world.StatusPoisoned, rng.Intn(3)+3)
	}
}

// ApplyConfusion makes the target save against having their head
// scrambled, an aptitude check for the player.
func ApplyConfusion(objs *world.Objects, targetID world.ID, dc int, log *world.MessageLog, rng *rand.Rand) {
	switch t := objs.Get(targetID).(type) {
	case *world.Player:
		if rng.Intn(20)+1+world.StatMod(t.Apt) >= dc {
			return
		}
		t.AddStatus(world.StatusConfused, rng.Intn(3)+3)
		log.Queue(t.ID, t.Loc, "Your head spins!", "")
	case *world.NPC:
		if AbilityCheck(t, rng) >= dc {
			return
		}
		t.AddStatus(world.StatusConfused, rng.Intn(3)+3)
	}
}
