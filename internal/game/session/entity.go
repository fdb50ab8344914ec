// Package session provides player session tracking and room presence management
// for the game backend.
package session

import (
	"fmt"
	"sync"

	"github.com/undercroft-game/undercroft/internal/game/storage"
)

// Event kinds pushed onto a session's Bridge.
const (
	EventSlotChanged = "slot_changed"
)

// Event is one unit of player-facing game state change, queued on the
// Bridge for the transport layer to deliver.
type Event struct {
	// Type identifies the event kind.
	Type string
	// Slot carries the payload for EventSlotChanged events.
	Slot storage.Change
}

// Bridge routes game events to a Go channel, bridging the session system to
// the gateway's delivery layer.
type Bridge struct {
	sessionID string
	events    chan Event
	mu        sync.Mutex
	closed    bool
	dropped   int
}

// NewBridge creates a Bridge for the given session ID.
//
// Precondition: sessionID must be non-empty.
// Postcondition: Returns a Bridge with an open events channel.
func NewBridge(sessionID string, bufferSize int) *Bridge {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &Bridge{
		sessionID: sessionID,
		events:    make(chan Event, bufferSize),
	}
}

// SessionID returns the owning session's unique identifier.
func (b *Bridge) SessionID() string {
	return b.sessionID
}

// Push enqueues an event for delivery. A full buffer drops the event and
// counts it; delivery never blocks the game logic that raised the event.
//
// Postcondition: The event is enqueued, or an error if the bridge is closed
// or the buffer is full.
func (b *Bridge) Push(ev Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("bridge %s is closed", b.sessionID)
	}
	select {
	case b.events <- ev:
		return nil
	default:
		b.dropped++
		return fmt.Errorf("bridge %s event buffer full", b.sessionID)
	}
}

// Events returns the read-only events channel.
// The gateway's writer goroutine reads from this channel.
func (b *Bridge) Events() <-chan Event {
	return b.events
}

// Dropped returns how many events have been discarded on a full buffer.
func (b *Bridge) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Close marks the bridge as closed and closes the events channel.
//
// Postcondition: The events channel is closed. Further Push calls return an error.
func (b *Bridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.closed = true
		close(b.events)
	}
	return nil
}

// IsClosed reports whether the bridge has been closed.
func (b *Bridge) IsClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}
