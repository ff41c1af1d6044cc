// Package world holds the object table and the closed set of object
// kinds that live in it: the player, NPCs, items, gold piles, and
// special squares. Behavior for these objects lives elsewhere (npc for
// brains, game for the turn loop); this package is the data model and
// its bookkeeping.
package world

import (
	"hollowvale/internal/gamemap"
)

// ID identifies an object in the table for the life of a run. The
// player is always PlayerID; other objects count up from 1.
type ID int

const (
	PlayerID ID = 0
	NoID     ID = -1
)

// EventKind names the events objects can listen for or queue. A single
// set covers both uses so listener registrations and queued events
// speak the same language.
type EventKind uint8

const (
	EventEndOfTurn EventKind = iota
	EventUpdate
	EventLightExpired
	EventTakeTurn
	EventSteppedOn
	EventTriggered
	EventLitUp
	EventGateOpened
	EventGateClosed
	EventPlayerKilled
	EventLevelUp
	EventTrapRevealed
	EventDeathOf
)

// Attr flags the innate capabilities of an NPC. Flags combine with OR
// and are tested with Has.
type Attr uint32

const (
	AttrOpenDoors Attr = 1 << iota
	AttrUnlockDoors
	AttrWeakVenom
	AttrPackTactics
	AttrFearless
	AttrUndead
	AttrResistSlash
	AttrResistPierce
	AttrWebslinger
	AttrMinorBlackMagic
	AttrMinorTrickery
	AttrIllusion
	AttrConfusion
	AttrLeaveCorpse
	AttrParalyze
	AttrSmashDoors
)

// Has reports whether every flag in want is set.
func (a Attr) Has(want Attr) bool { return a&want == want }

// CanOpenDoors reports whether the holder can work a closed door.
func (a Attr) CanOpenDoors() bool { return a&AttrOpenDoors != 0 }

// CanForceLocks reports whether the holder can get through a locked
// door, by key or by force.
func (a Attr) CanForceLocks() bool { return a&(AttrUnlockDoors|AttrSmashDoors) != 0 }

// Attitude is an NPC's current disposition toward the player.
type Attitude uint8

const (
	AttStranger Attitude = iota
	AttIndifferent
	AttFriendly
	AttHostile
	AttFleeing
)

// Personality selects which behavior tables drive an NPC.
type Personality uint8

const (
	PersonalityVillager Personality = iota
	PersonalitySimpleMonster
	PersonalityBasicUndead
	PersonalityPlant
)

// BehaviorKind is a state in the NPC decision machine.
type BehaviorKind uint8

const (
	BehaviorIdle BehaviorKind = iota
	BehaviorWander
	BehaviorHunt
	BehaviorGuard
	BehaviorDefend
	BehaviorPlant
)

func (k BehaviorKind) String() string {
	switch k {
	case BehaviorIdle:
		return "idle"
	case BehaviorWander:
		return "wander"
	case BehaviorHunt:
		return "hunt"
	case BehaviorGuard:
		return "guard"
	case BehaviorDefend:
		return "defend"
	case BehaviorPlant:
		return "plant"
	}
	return "unknown"
}

// Behavior pairs a state with the argument Guard and Defend carry.
type Behavior struct {
	Kind BehaviorKind
	Loc  gamemap.Loc
	Ward ID
}

// ActionKind discriminates the entries of an NPC's plan.
type ActionKind uint8

const (
	ActMove ActionKind = iota
	ActOpenDoor
	ActCloseDoor
	ActUnlockDoor
	ActSmashDoor
	ActAttack
)

// Action is one queued step of a plan. Every kind targets a square.
type Action struct {
	Kind ActionKind
	Loc  gamemap.Loc
}

// VenueKind discriminates agenda destinations.
type VenueKind uint8

const (
	VenueTownSquare VenueKind = iota
	VenueTavern
	VenueShrine
	VenueFavourite
	VenueVisit
	VenueHome
	VenueMarket
	VenueSmithy
)

// Venue is where an agenda item sends a villager. Favourite carries a
// square; Visit and Home carry a building index.
type Venue struct {
	Kind     VenueKind
	Loc      gamemap.Loc
	Building int
}

// AgendaItem schedules a venue for a window of the day. From and To
// are clock times; when windows overlap the highest priority wins.
type AgendaItem struct {
	From     ClockTime
	To       ClockTime
	Priority int
	Place    Venue
}

// ClockTime is an hour and minute of the game day.
type ClockTime struct {
	Hour   int
	Minute int
}

// Before reports whether t reads earlier than u on a 24 hour clock.
func (t ClockTime) Before(u ClockTime) bool {
	if t.Hour != u.Hour {
		return t.Hour < u.Hour
	}
	return t.Minute < u.Minute
}

// Contains reports whether the window [from, to] covers t.
func (item AgendaItem) Contains(t ClockTime) bool {
	return !t.Before(item.From) && !item.To.Before(t)
}

// Object is the closed set of things the table can hold. The isObject
// method limits implementations to this package.
type Object interface {
	isObject()
	ObjectID() ID
	Location() gamemap.Loc
	SetLocation(gamemap.Loc)
	Blocks() bool
	IsHidden() bool
	Glyph() rune
	FullName() string
}

// Base carries the bookkeeping every object kind shares. Concrete
// kinds embed it.
type Base struct {
	ID     ID
	Loc    gamemap.Loc
	Hidden bool
	Name   string
	Ch     rune
}

func (b *Base) ObjectID() ID { return b.ID }

func (b *Base) Location() gamemap.Loc { return b.Loc }

func (b *Base) SetLocation(l gamemap.Loc) { b.Loc = l }

func (b *Base) IsHidden() bool { return b.Hidden }

func (b *Base) Glyph() rune { return b.Ch }

func (b *Base) FullName() string { return b.Name }
