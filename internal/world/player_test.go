package world

import (
	"math/rand"
	"testing"

	"hollowvale/internal/fov"
)

func TestStatMod(t *testing.T) {
	cases := []struct{ score, want int }{
		{3, -4}, {8, -1}, {9, -1}, {10, 0}, {11, 0}, {12, 1}, {17, 3}, {18, 4},
	}
	for _, c := range cases {
		if got := StatMod(c.score); got != c.want {
			t.Errorf("StatMod(%d) = %d, want %d", c.score, got, c.want)
		}
	}
}

func TestNewWarriorTakesStrengthFirst(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p := NewPlayer("Edda", RoleWarrior, rng)

	if p.ID != PlayerID {
		t.Fatal("the player must take id 0")
	}
	for _, s := range []int{p.Str, p.Con, p.Dex, p.Chr, p.Apt} {
		if s < 3 || s > 18 {
			t.Fatalf("ability score %d out of range", s)
		}
	}
	if p.Str < p.Con || p.Con < p.Dex {
		t.Fatal("a warrior's best rolls go to strength, constitution, dexterity")
	}
	if p.MaxHP != 15+StatMod(p.Con) {
		t.Fatalf("expected warrior hp %d, got %d", 15+StatMod(p.Con), p.MaxHP)
	}
	if p.CurrHP != p.MaxHP {
		t.Fatal("expected a fresh character at full health")
	}
	if p.EnergyRestore != 2.0 {
		t.Fatalf("expected warrior energy restore 2.0, got %v", p.EnergyRestore)
	}
	if p.VisionRadius != fov.Unlimited {
		t.Fatal("a new character starts outdoors in daylight")
	}
}

func TestNewRogueTakesDexterityFirst(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := NewPlayer("Mouse", RoleRogue, rng)

	if p.Dex < p.Apt || p.Apt < p.Con {
		t.Fatal("a rogue's best rolls go to dexterity, aptitude, constitution")
	}
	if p.MaxHP != 12+StatMod(p.Con) {
		t.Fatalf("expected rogue hp %d, got %d", 12+StatMod(p.Con), p.MaxHP)
	}
	if p.EnergyRestore != 1.25 {
		t.Fatalf("expected rogue energy restore 1.25, got %v", p.EnergyRestore)
	}
}

func TestVisionRadiusFollowsTheSun(t *testing.T) {
	p := &Player{VisionRadius: fov.Unlimited}
	cases := []struct{ hour, want int }{
		{12, fov.Unlimited}, {19, fov.Unlimited}, {20, 8}, {22, 7}, {23, 7},
		{0, 5}, {3, 5}, {4, 7}, {5, 9},
	}
	for _, c := range cases {
		p.CalcVisionRadius(c.hour, 0)
		if p.VisionRadius != c.want {
			t.Errorf("hour %d: expected radius %d, got %d", c.hour, c.want, p.VisionRadius)
		}
	}
}

func TestVisionRadiusUnderground(t *testing.T) {
	p := &Player{VisionRadius: fov.Unlimited}
	p.CalcVisionRadius(12, 2)
	if p.VisionRadius != 1 {
		t.Fatalf("expected close quarters underground, got %d", p.VisionRadius)
	}
}

func TestSunriseAnnouncement(t *testing.T) {
	p := &Player{VisionRadius: 5}
	_, sunrise := p.CalcVisionRadius(4, 0)
	if !sunrise {
		t.Fatal("expected the sunrise warning at four in the morning")
	}
	_, sunrise = p.CalcVisionRadius(4, 0)
	if sunrise {
		t.Fatal("the warning should only fire on the change")
	}
}

func TestAddXPLevelsOneAtATime(t *testing.T) {
	p := &Player{Level: 1}
	if p.AddXP(10) {
		t.Fatal("10 xp should not reach level 2")
	}
	if !p.AddXP(10) {
		t.Fatal("20 xp should reach level 2")
	}

	p.Level = 2
	if !p.AddXP(1000) {
		t.Fatal("a windfall should still level up")
	}
	if p.XP != 79 {
		t.Fatalf("expected xp capped one below the threshold after next, got %d", p.XP)
	}
}

func TestLevelUpAlwaysGainsHitPoints(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	p := &Player{Level: 1, MaxHP: 10, CurrHP: 10, Con: 3}
	for i := 0; i < 20; i++ {
		before := p.MaxHP
		p.LevelUp(rng)
		if p.MaxHP <= before {
			t.Fatal("a level should always add hit points")
		}
	}
	if p.Level != 21 {
		t.Fatalf("expected level 21, got %d", p.Level)
	}
}

func TestAddHPStopsAtMax(t *testing.T) {
	p := &Player{MaxHP: 20, CurrHP: 16}
	p.AddHP(10)
	if p.CurrHP != 20 {
		t.Fatalf("expected 20 hp, got %d", p.CurrHP)
	}
}

func TestCalcACCapsDexUnderMediumArmour(t *testing.T) {
	p := &Player{Dex: 18}
	p.Inventory = []*Item{
		{Base: Base{Name: "ringmail"}, Kind: ItemArmour, Weight: ArmourMedium, ACMod: 3, Equipped: true},
	}
	p.CalcAC()
	if p.AC != 15 {
		t.Fatalf("expected ac 15 with the dex bonus capped, got %d", p.AC)
	}

	p.Inventory[0].Equipped = false
	p.CalcAC()
	if p.AC != 14 {
		t.Fatalf("expected ac 14 unarmoured, got %d", p.AC)
	}
}

func TestSetReadiedWeapon(t *testing.T) {
	p := &Player{}
	p.SetReadiedWeapon()
	if p.ReadiedWeapon != "" {
		t.Fatalf("expected no readied weapon, got %q", p.ReadiedWeapon)
	}

	p.Inventory = []*Item{
		{Base: Base{Name: "longsword"}, Kind: ItemWeapon, DmgDie: 8, Equipped: true},
	}
	p.SetReadiedWeapon()
	if p.ReadiedWeapon != "Longsword" {
		t.Fatalf("expected Longsword, got %q", p.ReadiedWeapon)
	}
}

func TestAttackBonusScalesWithLevel(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	p := &Player{Role: RoleWarrior, Level: 5, Str: 10}
	for i := 0; i < 50; i++ {
		b := p.AttackBonus(rng)
		if b < 2 || b > 12 {
			t.Fatalf("a level 5 warrior rolls 2d6, got %d", b)
		}
	}
}
