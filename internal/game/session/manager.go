package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/undercroft-game/undercroft/internal/game/equip"
	"github.com/undercroft-game/undercroft/internal/game/storage"
)

// PlayerSession tracks a connected player's state. A session exclusively
// owns its Storage and Loadout; all mutation of either happens on the
// session's command goroutine.
type PlayerSession struct {
	// ID is the unique session identifier.
	ID string
	// AccountID is the database ID of the owning account (0 when persistence
	// is disabled).
	AccountID int64
	// CharacterID is the database ID of the character (0 when persistence is
	// disabled).
	CharacterID int64
	// CharName is the character display name shown in-game.
	CharName string
	// RoomID is the current room the player occupies.
	RoomID string
	// Storage is the player's slot-based inventory.
	Storage *storage.Storage
	// Loadout holds the player's equipped weapon, ability, and accessory.
	Loadout *equip.Loadout
	// Bridge queues game events for the gateway to deliver.
	Bridge *Bridge
}

// New creates a PlayerSession owning the given storage, with a fresh loadout
// and bridge. The storage's change notifications are subscribed here and
// forwarded onto the bridge as slot-changed events for the lifetime of the
// session.
//
// Precondition: charName and roomID must be non-empty; store must be non-nil.
func New(accountID, characterID int64, charName, roomID string, store *storage.Storage, eventBuffer int) *PlayerSession {
	id := uuid.NewString()
	bridge := NewBridge(id, eventBuffer)
	store.Subscribe(func(c storage.Change) {
		// Delivery is best effort: a slow client loses events rather than
		// stalling the simulation.
		_ = bridge.Push(Event{Type: EventSlotChanged, Slot: c})
	})
	return &PlayerSession{
		ID:          id,
		AccountID:   accountID,
		CharacterID: characterID,
		CharName:    charName,
		RoomID:      roomID,
		Storage:     store,
		Loadout:     equip.NewLoadout(),
		Bridge:      bridge,
	}
}

// Manager tracks all active player sessions and room occupancy.
// All methods are safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*PlayerSession  // session ID → session
	roomSets map[string]map[string]bool // roomID → set of session IDs
}

// NewManager creates an empty session Manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*PlayerSession),
		roomSets: make(map[string]map[string]bool),
	}
}

// Add registers a session in its current room.
//
// Precondition: sess must be non-nil with a non-empty ID and RoomID.
// Postcondition: Returns an error if the session ID is already registered.
func (m *Manager) Add(sess *PlayerSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[sess.ID]; exists {
		return fmt.Errorf("session %q already registered", sess.ID)
	}

	m.sessions[sess.ID] = sess
	if m.roomSets[sess.RoomID] == nil {
		m.roomSets[sess.RoomID] = make(map[string]bool)
	}
	m.roomSets[sess.RoomID][sess.ID] = true
	return nil
}

// Remove removes a session, cleans up room occupancy, and closes its bridge.
//
// Precondition: id must be non-empty.
// Postcondition: The session is removed from all tracking. Returns an error if not found.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, exists := m.sessions[id]
	if !exists {
		return fmt.Errorf("session %q not found", id)
	}

	// Remove from room
	if rs, ok := m.roomSets[sess.RoomID]; ok {
		delete(rs, id)
		if len(rs) == 0 {
			delete(m.roomSets, sess.RoomID)
		}
	}

	_ = sess.Bridge.Close()

	delete(m.sessions, id)
	return nil
}

// Move moves a session from its current room to a new room.
//
// Precondition: id and newRoomID must be non-empty.
// Postcondition: Returns the old room ID, or an error if the session is not found.
func (m *Manager) Move(id, newRoomID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, exists := m.sessions[id]
	if !exists {
		return "", fmt.Errorf("session %q not found", id)
	}

	oldRoomID := sess.RoomID

	// Remove from old room
	if rs, ok := m.roomSets[oldRoomID]; ok {
		delete(rs, id)
		if len(rs) == 0 {
			delete(m.roomSets, oldRoomID)
		}
	}

	// Add to new room
	sess.RoomID = newRoomID
	if m.roomSets[newRoomID] == nil {
		m.roomSets[newRoomID] = make(map[string]bool)
	}
	m.roomSets[newRoomID][id] = true

	return oldRoomID, nil
}

// NamesInRoom returns the character display names of all players in the given room.
//
// Postcondition: Returns a slice of character names (may be empty).
func (m *Manager) NamesInRoom(roomID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids, ok := m.roomSets[roomID]
	if !ok {
		return nil
	}

	names := make([]string, 0, len(ids))
	for id := range ids {
		if sess, ok := m.sessions[id]; ok {
			names = append(names, sess.CharName)
		}
	}
	return names
}

// SessionsInRoom returns the session IDs of all players in the given room.
//
// Postcondition: Returns a slice of session IDs (may be empty).
func (m *Manager) SessionsInRoom(roomID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids, ok := m.roomSets[roomID]
	if !ok {
		return nil
	}

	result := make([]string, 0, len(ids))
	for id := range ids {
		result = append(result, id)
	}
	return result
}

// Get returns the session for the given ID.
//
// Postcondition: Returns (session, true) if found, or (nil, false) otherwise.
func (m *Manager) Get(id string) (*PlayerSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

// GetByCharName returns the session for the player with the given character name.
//
// Postcondition: Returns (session, true) if found, or (nil, false) otherwise.
func (m *Manager) GetByCharName(charName string) (*PlayerSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sess := range m.sessions {
		if sess.CharName == charName {
			return sess, true
		}
	}
	return nil, false
}

// Count returns the total number of connected players.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
