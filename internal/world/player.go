package world

import (
	"math/rand"

	"hollowvale/internal/fov"
)

// Role is the player's calling. It sets starting gear, hit points,
// and how quickly energy comes back.
type Role uint8

const (
	RoleWarrior Role = iota
	RoleRogue
)

func (r Role) String() string {
	if r == RoleRogue {
		return "rogue"
	}
	return "warrior"
}

// Player is the protagonist's object. There is exactly one, at
// PlayerID in the table.
type Player struct {
	Base
	Role          Role
	MaxHP         int
	CurrHP        int
	Str           int
	Dex           int
	Con           int
	Chr           int
	Apt           int
	XP            int
	Level         int
	MaxDepth      int
	AC            int
	Purse         int
	ReadiedWeapon string
	Energy        float64
	EnergyRestore float64
	VisionRadius  int
	Inventory     []*Item
	Conditions
}

func (*Player) isObject() {}

func (p *Player) Blocks() bool { return true }

// NewPlayer rolls a fresh level 1 character. Each role takes the best
// rolls for the abilities it lives by and coin-flips the leftovers.
// Starting gear is the caller's concern since item templates live with
// the content tables.
func NewPlayer(name string, role Role, rng *rand.Rand) *Player {
	stats := rollStats(rng)
	p := &Player{
		Base:         Base{ID: PlayerID, Name: name, Ch: '@'},
		Role:         role,
		Level:        1,
		AC:           10,
		Purse:        20,
		Energy:       1.0,
		VisionRadius: fov.Unlimited,
	}

	switch role {
	case RoleRogue:
		p.Dex, p.Apt, p.Con = stats[0], stats[1], stats[2]
		if rng.Float64() < 0.5 {
			p.Chr, p.Str = stats[3], stats[4]
		} else {
			p.Chr, p.Str = stats[4], stats[3]
		}
		p.MaxHP = 12 + StatMod(p.Con)
		p.EnergyRestore = 1.25
	default:
		p.Str, p.Con, p.Dex = stats[0], stats[1], stats[2]
		if rng.Float64() < 0.5 {
			p.Chr, p.Apt = stats[3], stats[4]
		} else {
			p.Chr, p.Apt = stats[4], stats[3]
		}
		p.MaxHP = 15 + StatMod(p.Con)
		p.EnergyRestore = 2.0
	}
	p.CurrHP = p.MaxHP

	return p
}

// rollStats produces five ability scores, best three of 4d6 each,
// sorted descending so the class can assign them to taste.
func rollStats(rng *rand.Rand) [5]int {
	var stats [5]int
	for i := range stats {
		rolls := []int{rng.Intn(6) + 1, rng.Intn(6) + 1, rng.Intn(6) + 1, rng.Intn(6) + 1}
		low, total := rolls[0], 0
		for _, r := range rolls {
			total += r
			if r < low {
				low = r
			}
		}
		stats[i] = total - low
	}
	for i := 1; i < len(stats); i++ {
		for j := i; j > 0 && stats[j] > stats[j-1]; j-- {
			stats[j], stats[j-1] = stats[j-1], stats[j]
		}
	}
	return stats
}

// StatMod is the ability modifier for a score, the usual (score-10)/2
// rounded toward minus infinity.
func StatMod(score int) int {
	if score >= 10 {
		return (score - 10) / 2
	}
	return -((11 - score) / 2)
}

// CalcVisionRadius sets how far the player sees this turn. Outdoors it
// follows the sun; below ground sight drops to the squares at hand.
// The returns report a sunset or sunrise announcement falling due.
func (p *Player) CalcVisionRadius(hour int, depth int) (sunset, sunrise bool) {
	prev := p.VisionRadius

	if depth == 0 {
		switch {
		case hour >= 6 && hour <= 19:
			p.VisionRadius = fov.Unlimited
		case hour >= 20 && hour <= 21:
			p.VisionRadius = 8
		case hour >= 22 && hour <= 23:
			p.VisionRadius = 7
		case hour < 4:
			p.VisionRadius = 5
		case hour == 4:
			p.VisionRadius = 7
		default:
			p.VisionRadius = 9
		}
	} else {
		p.VisionRadius = 1
	}

	sunset = prev == fov.Unlimited && p.VisionRadius == 9 && depth == 0
	sunrise = prev == 5 && p.VisionRadius == 7 && depth == 0
	return sunset, sunrise
}

// Stealth is the difficulty for a monster's perception roll against
// the player.
func (p *Player) Stealth() int {
	base := 10 + StatMod(p.Dex)
	if p.Role == RoleRogue {
		base += 3
	}
	return base
}

// AddHP heals up to amt without passing max.
func (p *Player) AddHP(amt int) {
	p.CurrHP += amt
	if p.CurrHP > p.MaxHP {
		p.CurrHP = p.MaxHP
	}
}

// xpChart[level-1] is the experience that advances a character past
// level. Level 20 is the ceiling.
var xpChart = [19]int{
	20, 40, 80, 160, 320, 640, 1280, 2560, 5210, 10000,
	15000, 21000, 28000, 36000, 44000, 52000, 60000, 68000, 76000,
}

// AddXP banks experience and reports whether a level is due. A windfall
// never grants two levels at once; the total is capped just under the
// threshold after next so the second level arrives on the next kill.
func (p *Player) AddXP(xp int) bool {
	p.XP += xp
	if p.Level >= 20 {
		return false
	}
	due := p.XP >= xpChart[p.Level-1]
	if p.Level < 19 && p.XP >= xpChart[p.Level] {
		p.XP = xpChart[p.Level] - 1
	}
	return due
}

// PerceptionRoll is a d20 aptitude check for noticing hidden things.
func (p *Player) PerceptionRoll(rng *rand.Rand) int {
	roll := rng.Intn(20) + 1 + StatMod(p.Apt)
	if roll < 0 {
		return 0
	}
	return roll
}

// AttackBonus rolls the role's bonus dice, d6s for warriors and d4s
// for rogues, more of them at higher levels, plus the strength
// modifier.
func (p *Player) AttackBonus(rng *rand.Rand) int {
	die := 6
	if p.Role == RoleRogue {
		die = 4
	}
	dice := 1
	switch {
	case p.Level >= 15:
		dice = 4
	case p.Level >= 10:
		dice = 3
	case p.Level >= 5:
		dice = 2
	}
	total := 0
	for i := 0; i < dice; i++ {
		total += rng.Intn(die) + 1
	}
	return total + StatMod(p.Str)
}

// LevelUp advances the player one level, raising hit points by a
// constitution-adjusted die.
func (p *Player) LevelUp(rng *rand.Rand) {
	p.Level++
	gain := rng.Intn(8) + 1 + StatMod(p.Con)
	if gain < 1 {
		gain = 1
	}
	p.MaxHP += gain
	p.CurrHP += gain
}

// CalcAC refreshes armor class from dexterity and equipped gear.
// Heavier armour blunts a quick hand: medium caps the dexterity bonus
// at 2, heavy drops it entirely.
func (p *Player) CalcAC() {
	dexMod := StatMod(p.Dex)
	armour := 0
	for _, it := range p.Inventory {
		if !it.Equipped {
			continue
		}
		armour += it.ACMod
		if it.Kind == ItemArmour && it.Weight == ArmourMedium && dexMod > 2 {
			dexMod = 2
		} else if it.Kind == ItemArmour && it.Weight == ArmourHeavy {
			dexMod = 0
		}
	}
	ac := 10 + dexMod + armour
	if ac < 0 {
		ac = 0
	}
	p.AC = ac
}

// ReadiedWeaponItem returns the equipped weapon, or nil for bare fists.
func (p *Player) ReadiedWeaponItem() *Item {
	for _, it := range p.Inventory {
		if it.Equipped && it.Kind == ItemWeapon {
			return it
		}
	}
	return nil
}

// SetReadiedWeapon records the equipped weapon's name for the sidebar,
// or clears it when the player is empty-handed.
func (p *Player) SetReadiedWeapon() {
	p.ReadiedWeapon = ""
	for _, it := range p.Inventory {
		if it.Equipped && it.Kind == ItemWeapon {
			p.ReadiedWeapon = Capitalize(it.Name)
			return
		}
	}
}

// InventoryItem finds an inventory entry by id.
func (p *Player) InventoryItem(id ID) *Item {
	for _, it := range p.Inventory {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// RemoveFromInventory takes an item out of the pack and returns it.
func (p *Player) RemoveFromInventory(id ID) *Item {
	for i, it := range p.Inventory {
		if it.ID == id {
			p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
			return it
		}
	}
	return nil
}
