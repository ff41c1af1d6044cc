package game

import (
	"fmt"
	"strings"

	"hollowvale/internal/combat"
	"hollowvale/internal/gamemap"
	"hollowvale/internal/world"
)

// MenuEntry is one selectable row of an inventory or pick-up menu.
// Count folds a stack into a single row; Item names the first member.
type MenuEntry struct {
	Key   rune
	Desc  string
	Item  world.ID
	Count int
}

// InventoryMenu lists the player's pack for the client to prompt
// against. Stackable items share a row; a lit torch rows apart from
// its spares.
func (g *Game) InventoryMenu() []MenuEntry {
	p := g.Player()
	var entries []MenuEntry
	stacks := make(map[string]int)
	key := 'a'
	for _, it := range p.Inventory {
		if it.CanStack() {
			if idx, ok := stacks[it.Name]; ok {
				entries[idx].Count++
				continue
			}
			stacks[it.Name] = len(entries)
		}
		entries = append(entries, MenuEntry{Key: key, Item: it.ID, Count: 1})
		key++
	}
	for i := range entries {
		entries[i].Desc = g.entryDesc(entries[i])
	}
	return entries
}

func (g *Game) entryDesc(e MenuEntry) string {
	it := g.Player().InventoryItem(e.Item)
	if it == nil {
		return ""
	}
	var desc string
	if e.Count > 1 {
		desc = fmt.Sprintf("%d %s", e.Count, world.Pluralize(it.Name))
	} else {
		desc = world.IndefArticle(it.Name)
	}
	if it.Equipped {
		switch it.Kind {
		case world.ItemWeapon:
			desc += " (wielded)"
		case world.ItemArmour:
			desc += " (worn)"
		case world.ItemLight:
			desc += " (lit)"
		}
	}
	return desc
}

// InventoryRows renders the pack the way the inventory screen shows
// it, coin first.
func (g *Game) InventoryRows() []string {
	p := g.Player()
	menu := g.InventoryMenu()
	if len(menu) == 0 && p.Purse == 0 {
		return []string{"You are empty-handed."}
	}
	rows := []string{"You are carrying:"}
	switch {
	case p.Purse == 1:
		rows = append(rows, "$) a single zorkmid to your name")
	case p.Purse > 1:
		rows = append(rows, fmt.Sprintf("$) %d gold pieces", p.Purse))
	}
	for _, e := range menu {
		rows = append(rows, fmt.Sprintf("%c) %s", e.Key, e.Desc))
	}
	return rows
}

// PickUpMenu lists what is underfoot, gold under the '$' key.
func (g *Game) PickUpMenu() []MenuEntry {
	var entries []MenuEntry
	key := 'a'
	for _, obj := range g.Objs.ThingsAt(g.Objs.PlayerLoc()) {
		if pile, ok := obj.(*world.GoldPile); ok {
			entries = append(entries, MenuEntry{Key: '$', Desc: pile.FullName(), Item: pile.ID, Count: 1})
			continue
		}
		entries = append(entries, MenuEntry{
			Key:   key,
			Desc:  world.IndefArticle(obj.FullName()),
			Item:  obj.ObjectID(),
			Count: 1,
		})
		key++
	}
	return entries
}

func (g *Game) pickUp(cmd Command) float64 {
	things := g.Objs.ThingsAt(g.Objs.PlayerLoc())
	if len(things) == 0 {
		g.writeMsg("There is nothing here.")
		return 0
	}
	if cmd.All {
		for _, obj := range things {
			g.takeObject(obj)
		}
		return 1
	}
	target := things[0]
	if cmd.Item != world.NoID {
		found := false
		for _, obj := range things {
			if obj.ObjectID() == cmd.Item {
				target, found = obj, true
				break
			}
		}
		if !found {
			g.writeMsg("You do not see that here.")
			return 0
		}
	}
	g.takeObject(target)
	return 1
}

func (g *Game) takeObject(obj world.Object) {
	p := g.Player()
	switch o := obj.(type) {
	case *world.GoldPile:
		p.Purse += o.Amount
		if o.Amount == 1 {
			g.writeMsg("You pick up a single gold piece.")
		} else {
			g.writeMsg(fmt.Sprintf("You pick up %d gold pieces.", o.Amount))
		}
		g.Objs.Remove(o.ID)
	case *world.Item:
		g.Objs.Remove(o.ID)
		p.Inventory = append(p.Inventory, o)
		// Removal drops subscriptions, so a still-burning light has to
		// sign back up.
		if o.Kind == world.ItemLight && o.Equipped {
			g.Objs.Listen(o.ID, world.EventUpdate)
			g.Objs.Listen(o.ID, world.EventEndOfTurn)
		}
		g.writeMsg(fmt.Sprintf("You pick up %s.", world.DefArticle(o.Name)))
	}
}

func (g *Game) dropItem(cmd Command) float64 {
	p := g.Player()
	if cmd.Gold {
		return g.dropGold(cmd.Count)
	}
	if len(p.Inventory) == 0 && p.Purse == 0 {
		g.writeMsg("You are empty handed.")
		return 0
	}
	it := p.InventoryItem(cmd.Item)
	if it == nil {
		g.writeMsg("You do not have that item.")
		return 0
	}

	group := []*world.Item{it}
	if it.CanStack() {
		group = group[:0]
		for _, other := range p.Inventory {
			if other.Name == it.Name && other.CanStack() {
				group = append(group, other)
			}
		}
	}
	count := cmd.Count
	if count <= 0 {
		count = 1
	}
	if count > len(group) {
		count = len(group)
	}
	for i := 0; i < count; i++ {
		g.placeAt(group[i], p.Loc)
	}
	if count > 1 {
		g.writeMsg(fmt.Sprintf("You drop %d %s.", count, world.Pluralize(it.Name)))
	} else {
		g.writeMsg(fmt.Sprintf("You drop %s.", world.DefArticle(it.Name)))
	}
	g.gearEffects()
	return 1
}

// placeAt moves an item from the pack to the floor. Dropped gear
// unreadies; a burning light keeps burning where it falls.
func (g *Game) placeAt(it *world.Item, loc gamemap.Loc) {
	g.Player().RemoveFromInventory(it.ID)
	if it.Equipped && it.Kind != world.ItemLight {
		it.Equipped = false
	}
	it.Loc = loc
	g.Objs.Add(it)
}

func (g *Game) dropGold(amount int) float64 {
	p := g.Player()
	if p.Purse == 0 {
		g.writeMsg("You have no money!")
		return 0
	}
	if amount <= 0 {
		g.writeMsg("Never mind.")
		return 0
	}
	if amount > p.Purse {
		amount = p.Purse
	}
	p.Purse -= amount

	if g.Map.At(p.Loc).Kind == gamemap.TileSpring {
		// An offering. The well keeps it.
		if amount > 1 {
			g.writeMsg("You hear faint tinkling splashes.")
		} else {
			g.writeMsg("You hear a faint splash.")
		}
		return 1
	}

	switch {
	case p.Purse == 0:
		g.writeMsg("You drop all your money.")
	case amount > 1:
		g.writeMsg(fmt.Sprintf("You drop %d gold pieces.", amount))
	default:
		g.writeMsg("You drop a gold piece.")
	}
	pile := world.NewGoldPile(g.Objs.NextID(), amount)
	pile.Loc = p.Loc
	g.Objs.Add(pile)
	return 1
}

func (g *Game) toggleEquipment(id world.ID) float64 {
	p := g.Player()
	if len(p.Inventory) == 0 {
		g.writeMsg("You are empty handed.")
		return 0
	}
	it := p.InventoryItem(id)
	if it == nil {
		g.writeMsg("You do not have that item!")
		return 0
	}

	switch it.Kind {
	case world.ItemWeapon:
		if it.Equipped {
			it.Equipped = false
			g.writeMsg(fmt.Sprintf("You unequip %s.", world.DefArticle(it.Name)))
		} else {
			swapped := false
			for _, other := range p.Inventory {
				if other.Kind == world.ItemWeapon && other.Equipped {
					other.Equipped = false
					swapped = true
				}
			}
			it.Equipped = true
			if swapped {
				g.writeMsg(fmt.Sprintf("You are now wielding %s.", world.DefArticle(it.Name)))
			} else {
				g.writeMsg(fmt.Sprintf("You equip %s.", world.DefArticle(it.Name)))
			}
		}
		g.gearEffects()
		if p.ReadiedWeapon == "" {
			g.writeMsg("You are now empty handed.")
		}
		return 1
	case world.ItemArmour:
		if !it.Equipped {
			for _, other := range p.Inventory {
				if other.Kind == world.ItemArmour && other.Equipped {
					g.writeMsg("You're already wearing armour.")
					return 0
				}
			}
			it.Equipped = true
			g.writeMsg(fmt.Sprintf("You equip %s.", world.DefArticle(it.Name)))
		} else {
			it.Equipped = false
			g.writeMsg(fmt.Sprintf("You unequip %s.", world.DefArticle(it.Name)))
		}
		g.gearEffects()
		return 1
	default:
		g.writeMsg("You cannot wear or wield that!")
		return 0
	}
}

// gearEffects recomputes everything that hangs off equipment.
func (g *Game) gearEffects() {
	p := g.Player()
	p.CalcAC()
	p.SetReadiedWeapon()
}

func (g *Game) readItem(id world.ID) float64 {
	p := g.Player()
	if len(p.Inventory) == 0 {
		g.writeMsg("You are empty handed.")
		return 0
	}
	it := p.InventoryItem(id)
	if it == nil {
		g.writeMsg("You do not have that item!")
		return 0
	}
	if it.Writing == nil {
		g.writeMsg("There's nothing written on it.")
		return 1
	}
	title := world.Capitalize(world.IndefArticle(it.Writing.Desc))
	g.popup(title, strings.Split(it.Writing.Words, "\n"))
	return 1
}

func (g *Game) useItem(id world.ID) float64 {
	p := g.Player()
	if len(p.Inventory) == 0 {
		g.writeMsg("You are empty handed.")
		return 0
	}
	it := p.InventoryItem(id)
	if it == nil {
		g.writeMsg("You do not have that item!")
		return 0
	}

	switch it.Kind {
	case world.ItemLight:
		if it.Equipped {
			it.Equipped = false
			g.Objs.StopListening(it.ID, world.EventUpdate)
			g.Objs.StopListening(it.ID, world.EventEndOfTurn)
			g.writeMsg(fmt.Sprintf("You extinguish %s.", world.DefArticle(it.Name)))
		} else {
			it.Equipped = true
			g.Objs.Listen(it.ID, world.EventUpdate)
			g.Objs.Listen(it.ID, world.EventEndOfTurn)
			g.writeMsg(fmt.Sprintf("%s blazes brightly!", world.Capitalize(world.DefArticle(it.Name))))
		}
		return 1
	case world.ItemPotion:
		g.writeMsg(fmt.Sprintf("You drink %s.", world.DefArticle(it.Name)))
		g.applyItemEffects(it)
		p.RemoveFromInventory(it.ID)
		return 1
	case world.ItemScroll:
		g.writeMsg(fmt.Sprintf("You read %s.", world.DefArticle(it.Name)))
		g.applyItemEffects(it)
		p.RemoveFromInventory(it.ID)
		return 1
	default:
		g.writeMsg("You don't know how to use that.")
		return 0
	}
}

func (g *Game) applyItemEffects(it *world.Item) {
	combat.ApplyEffects(g.Map, g.Objs, world.PlayerID, it.Effects, g.Rng)
	if it.Effects&world.EffectMinorHeal != 0 {
		g.writeMsg("You feel better.")
	}
	if it.Effects&world.EffectBlink != 0 {
		g.writeMsg("Suddenly, you are elsewhere!")
		g.RefreshView()
	}
}

// CharacterSheetRows renders the @-screen.
func (g *Game) CharacterSheetRows() []string {
	p := g.Player()
	rows := []string{
		fmt.Sprintf("%s, a %s level %s", p.Name, world.Ordinal(p.Level), p.Role),
		"",
		fmt.Sprintf("Strength: %d", p.Str),
		fmt.Sprintf("Dexterity: %d", p.Dex),
		fmt.Sprintf("Constitution: %d", p.Con),
		fmt.Sprintf("Charisma: %d", p.Chr),
		fmt.Sprintf("Aptitude: %d", p.Apt),
		"",
		fmt.Sprintf("AC: %d    Hit Points: %d(%d)", p.AC, p.CurrHP, p.MaxHP),
		fmt.Sprintf("XP: %d", p.XP),
		"",
	}
	if p.MaxDepth == 0 {
		rows = append(rows, "You have not yet ventured into the dungeon.")
	} else {
		rows = append(rows, fmt.Sprintf("You have been as far as the %s level of the dungeon.", world.Ordinal(p.MaxDepth)))
	}
	return rows
}
