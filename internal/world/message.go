package world

import "hollowvale/internal/gamemap"

// Message is a line of prose pinned to the square that produced it.
// Text is what the player reads when the square is in view. Alt is the
// out of sight version, usually a sound, and empty when there is
// nothing to hear.
type Message struct {
	Source ID
	Loc    gamemap.Loc
	Text   string
	Alt    string
}

// MessageLog collects the messages raised while a turn plays out. The
// turn loop drains it once everyone has moved, choosing Text or Alt by
// what the player can currently see.
type MessageLog struct {
	pending []Message
}

// Queue appends a message to the log.
func (l *MessageLog) Queue(source ID, loc gamemap.Loc, text, alt string) {
	l.pending = append(l.pending, Message{Source: source, Loc: loc, Text: text, Alt: alt})
}

// Drain returns the queued messages in order and empties the log.
func (l *MessageLog) Drain() []Message {
	out := l.pending
	l.pending = nil
	return out
}

// Len reports how many messages are waiting.
func (l *MessageLog) Len() int { return len(l.pending) }
