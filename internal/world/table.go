package world

import (
	"fmt"
	"sort"

	"hollowvale/internal/gamemap"
)

// Objects is the master table of everything alive or lying around in
// the world. It owns the id sequence, an index of what sits where, and
// the event subscriptions. The index at each square is newest-first, so
// whatever arrived last draws and acts first.
type Objects struct {
	NextObjID ID
	Objs      map[ID]Object
	ByLoc     map[gamemap.Loc][]ID
	Listeners map[EventKind]map[ID]bool
}

// NewObjects returns an empty table. Ids start at 1 because id 0 is
// reserved for the player.
func NewObjects() *Objects {
	return &Objects{
		NextObjID: 1,
		Objs:      make(map[ID]Object),
		ByLoc:     make(map[gamemap.Loc][]ID),
		Listeners: make(map[EventKind]map[ID]bool),
	}
}

// NextID hands out the next object id.
func (ot *Objects) NextID() ID {
	id := ot.NextObjID
	ot.NextObjID++
	return id
}

// Add inserts obj into the table and indexes it by its location. A gold
// pile landing where another pile lies merges into it instead; keeping
// every coin as its own object would swamp the table.
func (ot *Objects) Add(obj Object) {
	loc := obj.Location()
	if pile, ok := obj.(*GoldPile); ok {
		for _, id := range ot.ByLoc[loc] {
			if other, ok := ot.Objs[id].(*GoldPile); ok {
				other.Amount += pile.Amount
				return
			}
		}
	}
	id := obj.ObjectID()
	ot.ByLoc[loc] = append([]ID{id}, ot.ByLoc[loc]...)
	ot.Objs[id] = obj
}

// Get returns the object with the given id, or nil.
func (ot *Objects) Get(id ID) Object {
	return ot.Objs[id]
}

// Player returns the player object, or nil before one has been added.
func (ot *Objects) Player() *Player {
	p, _ := ot.Objs[PlayerID].(*Player)
	return p
}

// NPC returns the creature with the given id, or nil when the id is
// gone or names something else.
func (ot *Objects) NPC(id ID) *NPC {
	n, _ := ot.Objs[id].(*NPC)
	return n
}

// PlayerLoc returns where the player is standing.
func (ot *Objects) PlayerLoc() gamemap.Loc {
	return ot.Objs[PlayerID].Location()
}

// Remove drops the object from the table, the location index, and every
// event subscription it held, returning it for any final handling.
func (ot *Objects) Remove(id ID) Object {
	obj, ok := ot.Objs[id]
	if !ok {
		return nil
	}
	delete(ot.Objs, id)
	ot.RemoveFromLoc(id, obj.Location())
	for _, subs := range ot.Listeners {
		delete(subs, id)
	}
	return obj
}

// SetToLoc moves the object to loc, leaving it first in line at its new
// square.
func (ot *Objects) SetToLoc(id ID, loc gamemap.Loc) {
	obj, ok := ot.Objs[id]
	if !ok {
		return
	}
	prev := obj.Location()
	if prev == loc {
		return
	}
	ot.ByLoc[loc] = append([]ID{id}, ot.ByLoc[loc]...)
	ot.RemoveFromLoc(id, prev)
	obj.SetLocation(loc)
}

// RemoveFromLoc deletes id from the location index at loc.
func (ot *Objects) RemoveFromLoc(id ID, loc gamemap.Loc) {
	ids := ot.ByLoc[loc]
	for i, other := range ids {
		if other != id {
			continue
		}
		rest := append(ids[:i], ids[i+1:]...)
		if len(rest) == 0 {
			delete(ot.ByLoc, loc)
		} else {
			ot.ByLoc[loc] = rest
		}
		return
	}
}

// BlockingObjAt reports whether anything standing at loc blocks
// movement into it.
func (ot *Objects) BlockingObjAt(loc gamemap.Loc) bool {
	for _, id := range ot.ByLoc[loc] {
		if obj := ot.Objs[id]; obj != nil && obj.Blocks() {
			return true
		}
	}
	return false
}

// NPCAt returns the first creature found at loc, or nil.
func (ot *Objects) NPCAt(loc gamemap.Loc) *NPC {
	for _, id := range ot.ByLoc[loc] {
		if n, ok := ot.Objs[id].(*NPC); ok {
			return n
		}
	}
	return nil
}

// SpecialsAt returns the fixture squares riding on loc.
func (ot *Objects) SpecialsAt(loc gamemap.Loc) []*SpecialSquare {
	var sqs []*SpecialSquare
	for _, id := range ot.ByLoc[loc] {
		if sq, ok := ot.Objs[id].(*SpecialSquare); ok {
			sqs = append(sqs, sq)
		}
	}
	return sqs
}

// ThingsAt lists what is lying at loc for pickup and look commands:
// everything except the player, hidden objects, and fixture squares.
func (ot *Objects) ThingsAt(loc gamemap.Loc) []Object {
	var things []Object
	for _, id := range ot.ByLoc[loc] {
		obj := ot.Objs[id]
		if obj == nil || obj.IsHidden() || id == PlayerID {
			continue
		}
		if _, ok := obj.(*SpecialSquare); ok {
			continue
		}
		things = append(things, obj)
	}
	return things
}

// HiddenAt lists the concealed objects at loc, for search checks.
func (ot *Objects) HiddenAt(loc gamemap.Loc) []Object {
	var hidden []Object
	for _, id := range ot.ByLoc[loc] {
		if obj := ot.Objs[id]; obj != nil && obj.IsHidden() {
			hidden = append(hidden, obj)
		}
	}
	return hidden
}

// DescsAt describes what is visible at loc, folding stacks of the same
// thing into one line: "3 torches" rather than a torch three times.
func (ot *Objects) DescsAt(loc gamemap.Loc) []string {
	counts := make(map[string]int)
	var order []string
	for _, id := range ot.ByLoc[loc] {
		obj := ot.Objs[id]
		if obj == nil || obj.IsHidden() || id == PlayerID {
			continue
		}
		if _, ok := obj.(*SpecialSquare); ok {
			continue
		}
		name := obj.FullName()
		if counts[name] == 0 {
			order = append(order, name)
		}
		counts[name]++
	}

	var descs []string
	for _, name := range order {
		if counts[name] == 1 {
			descs = append(descs, IndefArticle(name))
		} else {
			descs = append(descs, fmt.Sprintf("%d %s", counts[name], Pluralize(name)))
		}
	}
	return descs
}

// GlyphAt picks the glyph drawn for loc and whether the player's tile
// memory should keep it. Whoever blocks the square draws first; people
// move around too much to be worth remembering, things on the floor are.
func (ot *Objects) GlyphAt(loc gamemap.Loc) (glyph rune, remember, ok bool) {
	ids := ot.ByLoc[loc]
	for _, id := range ids {
		obj := ot.Objs[id]
		if obj != nil && !obj.IsHidden() && obj.Blocks() {
			return obj.Glyph(), !isActor(obj), true
		}
	}
	for _, id := range ids {
		obj := ot.Objs[id]
		if obj != nil && !obj.IsHidden() {
			return obj.Glyph(), !isActor(obj), true
		}
	}
	return 0, false, false
}

func isActor(obj Object) bool {
	switch obj.(type) {
	case *Player, *NPC:
		return true
	}
	return false
}

// Listen subscribes the object to events of the given kind.
func (ot *Objects) Listen(id ID, kind EventKind) {
	subs := ot.Listeners[kind]
	if subs == nil {
		subs = make(map[ID]bool)
		ot.Listeners[kind] = subs
	}
	subs[id] = true
}

// StopListening drops one subscription.
func (ot *Objects) StopListening(id ID, kind EventKind) {
	delete(ot.Listeners[kind], id)
}

// ListenersFor returns the subscribers to kind in ascending id order,
// so event delivery is repeatable under a fixed seed.
func (ot *Objects) ListenersFor(kind EventKind) []ID {
	subs := ot.Listeners[kind]
	ids := make([]ID, 0, len(subs))
	for id := range subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// DropNPCInventory tips everything a dead creature carried onto the
// floor at loc. Carried coin becomes a pile, merging with any already
// there.
func (ot *Objects) DropNPCInventory(n *NPC, loc gamemap.Loc) {
	for _, item := range n.Inventory {
		item.Equipped = false
		item.Loc = loc
		ot.Add(item)
	}
	n.Inventory = nil
	if n.Gold > 0 {
		pile := NewGoldPile(ot.NextID(), n.Gold)
		pile.Loc = loc
		ot.Add(pile)
		n.Gold = 0
	}
}

// CheckForDeadNPCs sweeps out any creature marked dead outside its own
// turn and spills its belongings where it fell.
func (ot *Objects) CheckForDeadNPCs() {
	var dead []ID
	for id, obj := range ot.Objs {
		if n, ok := obj.(*NPC); ok && !n.Alive {
			dead = append(dead, id)
		}
	}
	sort.Slice(dead, func(i, j int) bool { return dead[i] < dead[j] })
	for _, id := range dead {
		if n, ok := ot.Remove(id).(*NPC); ok {
			ot.DropNPCInventory(n, n.Location())
		}
	}
}
