// Package floor tracks item piles resting on room floors.
package floor

import (
	"sync"

	"github.com/google/uuid"

	"github.com/undercroft-game/undercroft/internal/game/storage"
)

// Pile is a dropped stack of one item lying in a room.
type Pile struct {
	// InstanceID uniquely identifies this pile.
	InstanceID string
	// Item is the dropped item.
	Item storage.Item
	// Amount is how many copies the pile holds. Always >= 1.
	Amount int
}

// Manager tracks piles per room. It is thread-safe via sync.RWMutex.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string][]Pile
}

// NewManager creates a Manager with no piles in any room.
//
// Postcondition: returned Manager is ready for use with zero piles.
func NewManager() *Manager {
	return &Manager{
		rooms: make(map[string][]Pile),
	}
}

// Drop places a new pile of amount copies of item in the given room.
//
// Precondition: roomID is non-empty.
// Postcondition: on success returns the created pile with a fresh
// InstanceID; a nil item or amount < 1 is rejected with ok == false and no
// state change.
func (m *Manager) Drop(roomID string, it storage.Item, amount int) (Pile, bool) {
	if it == nil || amount < 1 {
		return Pile{}, false
	}
	pile := Pile{
		InstanceID: uuid.New().String(),
		Item:       it,
		Amount:     amount,
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[roomID] = append(m.rooms[roomID], pile)
	return pile, true
}

// Pickup removes and returns the pile with the given instanceID from the room.
// Returns false if the pile is not found.
//
// Precondition: roomID and instanceID are non-empty.
// Postcondition: on success, the pile is removed from the room's floor and
// returned; on failure, room state is unchanged.
func (m *Manager) Pickup(roomID, instanceID string) (Pile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	piles := m.rooms[roomID]
	for i, pile := range piles {
		if pile.InstanceID == instanceID {
			m.rooms[roomID] = append(piles[:i], piles[i+1:]...)
			return pile, true
		}
	}
	return Pile{}, false
}

// PickupAll removes and returns all piles from the room's floor.
//
// Postcondition: the room's floor is empty; returned slice contains all
// previously held piles in drop order.
func (m *Manager) PickupAll(roomID string) []Pile {
	m.mu.Lock()
	defer m.mu.Unlock()
	piles := m.rooms[roomID]
	if len(piles) == 0 {
		return []Pile{}
	}
	delete(m.rooms, roomID)
	return piles
}

// ItemsIn returns a snapshot copy of all piles on the floor of the given room.
//
// Postcondition: returned slice is a copy; mutations do not affect internal state.
func (m *Manager) ItemsIn(roomID string) []Pile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	piles := m.rooms[roomID]
	out := make([]Pile, len(piles))
	copy(out, piles)
	return out
}
