package world

// StatusKind names a transient condition on a person.
type StatusKind uint8

const (
	StatusPoisoned StatusKind = iota
	StatusParalyzed
	StatusConfused
	StatusBlind
	StatusBane
	StatusInvisible
	// StatusFading marks a conjured duplicate that unravels when the
	// count runs out.
	StatusFading
	// StatusCoolingDown keeps a creature from chaining its signature
	// trick every turn.
	StatusCoolingDown
)

// Status is a condition with the turn count left on it.
type Status struct {
	Kind      StatusKind
	TurnsLeft int
}

// Conditions tracks the transient statuses on a person. The player
// and every NPC embed one.
type Conditions struct {
	Statuses []Status
}

// HasStatus reports whether a condition is present.
func (c *Conditions) HasStatus(kind StatusKind) bool {
	for _, s := range c.Statuses {
		if s.Kind == kind {
			return true
		}
	}
	return false
}

// AddStatus applies a condition, extending it if already present.
func (c *Conditions) AddStatus(kind StatusKind, turns int) {
	for i := range c.Statuses {
		if c.Statuses[i].Kind == kind {
			if c.Statuses[i].TurnsLeft < turns {
				c.Statuses[i].TurnsLeft = turns
			}
			return
		}
	}
	c.Statuses = append(c.Statuses, Status{Kind: kind, TurnsLeft: turns})
}

// TickStatuses counts conditions down and drops the expired ones,
// returning what expired so the turn loop can react.
func (c *Conditions) TickStatuses() []StatusKind {
	var expired []StatusKind
	kept := c.Statuses[:0]
	for _, s := range c.Statuses {
		s.TurnsLeft--
		if s.TurnsLeft > 0 {
			kept = append(kept, s)
		} else {
			expired = append(expired, s.Kind)
		}
	}
	c.Statuses = kept
	return expired
}
