package world

import "hollowvale/internal/gamemap"

// Event is a consequence queued during a turn and resolved after every
// actor has moved: a gate slamming shut, a death, a level gained.
// Text carries the detail some events need, like the killer's name on
// EventPlayerKilled.
type Event struct {
	Kind   EventKind
	Loc    gamemap.Loc
	Source ID
	Text   string
}

// EventQueue is the FIFO of pending events. Handling one event may
// queue more; the turn loop bounds the drain so a cycle cannot hang
// the game.
type EventQueue struct {
	pending []Event
}

// Push appends an event.
func (q *EventQueue) Push(e Event) {
	q.pending = append(q.pending, e)
}

// Pop removes and returns the oldest event.
func (q *EventQueue) Pop() (Event, bool) {
	if len(q.pending) == 0 {
		return Event{}, false
	}
	e := q.pending[0]
	q.pending = q.pending[1:]
	return e, true
}

// Len reports how many events are waiting.
func (q *EventQueue) Len() int { return len(q.pending) }
