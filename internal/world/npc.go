package world

import "hollowvale/internal/gamemap"

// NPC is any creature other than the player: villagers going about
// their rounds and the things living under the hill. The decision
// logic that drives one lives in the npc package; this is its state.
type NPC struct {
	Base
	AC       int
	CurrHP   int
	MaxHP    int
	Level    int
	Attitude Attitude
	// Home indexes the town building this villager sleeps in, or -1.
	Home     int
	Plan     []Action
	Voice    string
	Schedule []AgendaItem
	Mode     Personality
	// Attack profile: to-hit modifier and damage dice.
	AttackMod int
	DmgDice   int
	DmgDie    int
	DmgBonus  int
	// EDC is the difficulty for checks made against this creature.
	EDC   int
	Attrs Attr
	Alive bool
	// XPValue is awarded to the player on a kill.
	XPValue   int
	Inventory []*Item
	// Gold is carried coin, spilled as a pile when the creature dies.
	Gold int
	// Active selects which of the two behaviors currently drives the
	// creature. Sleeping or dormant creatures run the inactive one.
	Active           bool
	ActiveBehavior   Behavior
	InactiveBehavior Behavior
	// Energy gates acting: a creature takes turns while it holds at
	// least a full point and banks Recovery per round.
	Energy            float64
	Recovery          float64
	RecentlySawPlayer bool
	LastPlayerLoc     gamemap.Loc
	Conditions
	// BoundTo ties a conjured duplicate to its caster. When the caster
	// dies the duplicate unravels with it. NoID for real creatures.
	BoundTo ID
}

func (*NPC) isObject() {}

func (n *NPC) Blocks() bool { return true }

// FullName renders the creature's name for prose. Villagers go by
// their given names; monsters get an article.
func (n *NPC) FullName() string {
	if n.Voice != "monster" {
		return n.Name
	}
	return DefArticle(n.Name)
}

// IndefName is the creature's name with an indefinite article, for
// first sightings.
func (n *NPC) IndefName() string {
	if n.Voice != "monster" {
		return n.Name
	}
	return IndefArticle(n.Name)
}

// Behavior returns whichever behavior currently drives the creature.
func (n *NPC) Behavior() Behavior {
	if n.Active {
		return n.ActiveBehavior
	}
	return n.InactiveBehavior
}

// SetBehavior rewrites the live behavior slot.
func (n *NPC) SetBehavior(b Behavior) {
	if n.Active {
		n.ActiveBehavior = b
	} else {
		n.InactiveBehavior = b
	}
}

// EnqueueAction appends a step to the plan.
func (n *NPC) EnqueueAction(a Action) {
	n.Plan = append(n.Plan, a)
}

// PrependAction pushes a step in front of the plan, for work that must
// happen before the queued steps make sense.
func (n *NPC) PrependAction(a Action) {
	n.Plan = append([]Action{a}, n.Plan...)
}

// NextAction pops the front of the plan.
func (n *NPC) NextAction() (Action, bool) {
	if len(n.Plan) == 0 {
		return Action{}, false
	}
	a := n.Plan[0]
	n.Plan = n.Plan[1:]
	return a, true
}

// ClearPlan drops every queued step, forcing a replan.
func (n *NPC) ClearPlan() {
	n.Plan = n.Plan[:0]
}

// CurrAgendaItem picks the schedule entry for the given time of day.
// The highest priority window containing t wins; between equals the
// earlier entry in the schedule sticks.
func (n *NPC) CurrAgendaItem(t ClockTime) (AgendaItem, bool) {
	var best AgendaItem
	found := false
	for _, item := range n.Schedule {
		if !item.Contains(t) {
			continue
		}
		if !found || item.Priority > best.Priority {
			best = item
			found = true
		}
	}
	return best, found
}

