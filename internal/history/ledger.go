// Package history provides the append-only chat history ledger for a
// session. The ledger only grows: append order equals chronological
// order, and no reordering or removal occurs except via Clear.
package history

import (
	"sync"
	"time"
)

// Role identifies the sender of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn entry owned by the ledger.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage builds a message stamped with the current time.
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content, Timestamp: time.Now()}
}

// Ledger is an append-only record of chat messages.
//
// Snapshot returns an independent copy, so appends made later in the
// same turn cannot retroactively mutate a snapshot already handed to
// response generation. Safe for concurrent use, though the engine
// additionally serializes turns per session.
type Ledger struct {
	mu       sync.Mutex
	messages []Message
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Append adds a message to the end of the ledger.
func (l *Ledger) Append(msg Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

// Snapshot returns an independent copy of all messages in append order.
func (l *Ledger) Snapshot() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Recent returns an independent copy of the last n messages in append
// order. If n exceeds the ledger length the whole history is returned.
func (l *Ledger) Recent(n int) []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	start := len(l.messages) - n
	if start < 0 {
		start = 0
	}
	out := make([]Message, len(l.messages)-start)
	copy(out, l.messages[start:])
	return out
}

// Len returns the number of messages.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages)
}

// Clear discards all messages, resetting the session.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = nil
}
