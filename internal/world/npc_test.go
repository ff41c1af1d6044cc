package world

import (
	"testing"

	"hollowvale/internal/gamemap"
)

func TestPlanRunsInOrder(t *testing.T) {
	n := &NPC{}
	n.EnqueueAction(Action{Kind: ActMove, Loc: gamemap.Loc{Row: 1}})
	n.EnqueueAction(Action{Kind: ActMove, Loc: gamemap.Loc{Row: 2}})
	n.PrependAction(Action{Kind: ActOpenDoor, Loc: gamemap.Loc{Row: 0}})

	want := []ActionKind{ActOpenDoor, ActMove, ActMove}
	for i, kind := range want {
		a, ok := n.NextAction()
		if !ok {
			t.Fatalf("plan ran out at step %d", i)
		}
		if a.Kind != kind {
			t.Fatalf("step %d: expected kind %d, got %d", i, kind, a.Kind)
		}
	}
	if _, ok := n.NextAction(); ok {
		t.Fatal("the plan should be spent")
	}
}

func TestClearPlanForcesReplan(t *testing.T) {
	n := &NPC{}
	n.EnqueueAction(Action{Kind: ActMove})
	n.ClearPlan()
	if _, ok := n.NextAction(); ok {
		t.Fatal("a cleared plan should hold nothing")
	}
}

func TestBehaviorFollowsActiveFlag(t *testing.T) {
	n := &NPC{
		ActiveBehavior:   Behavior{Kind: BehaviorHunt},
		InactiveBehavior: Behavior{Kind: BehaviorIdle},
	}
	if n.Behavior().Kind != BehaviorIdle {
		t.Fatal("a dormant creature runs its inactive behavior")
	}
	n.Active = true
	if n.Behavior().Kind != BehaviorHunt {
		t.Fatal("a roused creature runs its active behavior")
	}

	n.SetBehavior(Behavior{Kind: BehaviorWander})
	if n.ActiveBehavior.Kind != BehaviorWander {
		t.Fatal("SetBehavior should rewrite the live slot")
	}
	if n.InactiveBehavior.Kind != BehaviorIdle {
		t.Fatal("SetBehavior should leave the other slot alone")
	}
}

func TestAddStatusExtendsInsteadOfStacking(t *testing.T) {
	n := &NPC{}
	n.AddStatus(StatusPoisoned, 3)
	n.AddStatus(StatusPoisoned, 5)
	n.AddStatus(StatusPoisoned, 2)

	if len(n.Statuses) != 1 {
		t.Fatalf("expected one poison entry, got %d", len(n.Statuses))
	}
	if n.Statuses[0].TurnsLeft != 5 {
		t.Fatalf("expected the longest duration to win, got %d", n.Statuses[0].TurnsLeft)
	}
}

func TestTickStatusesDropsExpired(t *testing.T) {
	n := &NPC{}
	n.AddStatus(StatusConfused, 1)
	n.AddStatus(StatusParalyzed, 2)

	expired := n.TickStatuses()
	if len(expired) != 1 || expired[0] != StatusConfused {
		t.Fatalf("expected confusion to expire, got %v", expired)
	}
	if n.HasStatus(StatusConfused) {
		t.Fatal("confusion should have worn off")
	}
	if !n.HasStatus(StatusParalyzed) {
		t.Fatal("paralysis should have a turn left")
	}

	n.TickStatuses()
	if len(n.Statuses) != 0 {
		t.Fatalf("expected no conditions left, got %d", len(n.Statuses))
	}
}

func TestMonsterNamesTakeArticles(t *testing.T) {
	monster := &NPC{Base: Base{Name: "kobold"}, Voice: "monster"}
	if monster.FullName() != "the kobold" {
		t.Fatalf("expected %q, got %q", "the kobold", monster.FullName())
	}
	if monster.IndefName() != "a kobold" {
		t.Fatalf("expected %q, got %q", "a kobold", monster.IndefName())
	}

	villager := &NPC{Base: Base{Name: "Hilde"}, Voice: "villager"}
	if villager.FullName() != "Hilde" {
		t.Fatalf("villagers go by name, got %q", villager.FullName())
	}
}

func TestAgendaWindowContains(t *testing.T) {
	item := AgendaItem{
		From:  ClockTime{Hour: 9, Minute: 0},
		To:    ClockTime{Hour: 12, Minute: 0},
		Place: Venue{Kind: VenueTownSquare},
	}
	for _, tm := range []ClockTime{{9, 0}, {10, 30}, {12, 0}} {
		if !item.Contains(tm) {
			t.Errorf("window should cover %02d:%02d", tm.Hour, tm.Minute)
		}
	}
	for _, tm := range []ClockTime{{8, 59}, {12, 1}, {23, 0}} {
		if item.Contains(tm) {
			t.Errorf("window should not cover %02d:%02d", tm.Hour, tm.Minute)
		}
	}
}

func TestCurrAgendaItemPrefersPriority(t *testing.T) {
	n := &NPC{
		Schedule: []AgendaItem{
			{
				From:     ClockTime{Hour: 9, Minute: 0},
				To:       ClockTime{Hour: 21, Minute: 0},
				Priority: 0,
				Place:    Venue{Kind: VenueTownSquare},
			},
			{
				From:     ClockTime{Hour: 11, Minute: 0},
				To:       ClockTime{Hour: 14, Minute: 0},
				Priority: 10,
				Place:    Venue{Kind: VenueTavern},
			},
		},
	}

	item, ok := n.CurrAgendaItem(ClockTime{Hour: 12, Minute: 30})
	if !ok {
		t.Fatal("expected an agenda item at 12:30")
	}
	if item.Place.Kind != VenueTavern {
		t.Fatalf("expected the tavern to win at 12:30, got venue kind %d", item.Place.Kind)
	}

	item, ok = n.CurrAgendaItem(ClockTime{Hour: 15, Minute: 0})
	if !ok {
		t.Fatal("expected the town square item at 15:00")
	}
	if item.Place.Kind != VenueTownSquare {
		t.Fatalf("expected the town square at 15:00, got venue kind %d", item.Place.Kind)
	}

	if _, ok := n.CurrAgendaItem(ClockTime{Hour: 23, Minute: 0}); ok {
		t.Fatal("expected no agenda item at 23:00")
	}
}

func TestAttrFlags(t *testing.T) {
	attrs := AttrOpenDoors | AttrWeakVenom
	if !attrs.Has(AttrOpenDoors) {
		t.Fatal("expected the open doors flag set")
	}
	if attrs.Has(AttrOpenDoors | AttrUndead) {
		t.Fatal("Has requires every named flag")
	}
	if !attrs.CanOpenDoors() {
		t.Fatal("expected the holder to work doors")
	}
	if attrs.CanForceLocks() {
		t.Fatal("neither picking nor smashing was granted")
	}
	if !(attrs | AttrSmashDoors).CanForceLocks() {
		t.Fatal("smashing should count as forcing a lock")
	}
}
