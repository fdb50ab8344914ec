package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/undercroft-game/undercroft/internal/game/storage"
)

type fakeItem struct {
	id    string
	stack int
}

func (f fakeItem) ItemID() string { return f.id }
func (f fakeItem) MaxStack() int  { return f.stack }

func newSession(charName, roomID string) *PlayerSession {
	return New(0, 0, charName, roomID, storage.New(10), 16)
}

func TestBridge_Push(t *testing.T) {
	b := NewBridge("test", 4)
	ev := Event{Type: EventSlotChanged, Slot: storage.Change{Index: 2, Amount: 3}}
	require.NoError(t, b.Push(ev))

	got := <-b.Events()
	assert.Equal(t, ev, got)
}

func TestBridge_PushClosed(t *testing.T) {
	b := NewBridge("test", 4)
	require.NoError(t, b.Close())
	assert.True(t, b.IsClosed())
	assert.Error(t, b.Push(Event{Type: EventSlotChanged}))
}

func TestBridge_PushFullDropsAndCounts(t *testing.T) {
	b := NewBridge("test", 1)
	require.NoError(t, b.Push(Event{Type: EventSlotChanged}))
	err := b.Push(Event{Type: EventSlotChanged})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "buffer full")
	assert.Equal(t, 1, b.Dropped())
}

func TestBridge_CloseIdempotent(t *testing.T) {
	b := NewBridge("test", 4)
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
	assert.True(t, b.IsClosed())
}

func TestNew_ForwardsSlotChanges(t *testing.T) {
	store := storage.New(4)
	sess := New(1, 2, "Alice", "room_a", store, 16)

	torch := fakeItem{id: "torch", stack: 10}
	placed := store.Add(torch, 3)
	require.Equal(t, 3, placed)

	ev := <-sess.Bridge.Events()
	assert.Equal(t, EventSlotChanged, ev.Type)
	assert.Equal(t, 0, ev.Slot.Index)
	assert.Equal(t, 3, ev.Slot.Amount)
	assert.Equal(t, "torch", ev.Slot.Item.ItemID())
}

func TestNew_PopulatesSession(t *testing.T) {
	sess := newSession("Alice", "room_a")
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "Alice", sess.CharName)
	assert.Equal(t, "room_a", sess.RoomID)
	require.NotNil(t, sess.Storage)
	require.NotNil(t, sess.Loadout)
	require.NotNil(t, sess.Bridge)
	assert.Equal(t, 10, sess.Storage.Capacity())
}

func TestManager_Add(t *testing.T) {
	m := NewManager()
	sess := newSession("Alice", "room_a")
	require.NoError(t, m.Add(sess))
	assert.Equal(t, 1, m.Count())
}

func TestManager_AddDuplicate(t *testing.T) {
	m := NewManager()
	sess := newSession("Alice", "room_a")
	require.NoError(t, m.Add(sess))
	err := m.Add(sess)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestManager_Remove(t *testing.T) {
	m := NewManager()
	sess := newSession("Alice", "room_a")
	require.NoError(t, m.Add(sess))

	require.NoError(t, m.Remove(sess.ID))
	assert.Equal(t, 0, m.Count())
	assert.Empty(t, m.NamesInRoom("room_a"))
	assert.True(t, sess.Bridge.IsClosed())
}

func TestManager_RemoveNotFound(t *testing.T) {
	m := NewManager()
	assert.Error(t, m.Remove("unknown"))
}

func TestManager_Move(t *testing.T) {
	m := NewManager()
	sess := newSession("Alice", "room_a")
	require.NoError(t, m.Add(sess))

	oldRoom, err := m.Move(sess.ID, "room_b")
	require.NoError(t, err)
	assert.Equal(t, "room_a", oldRoom)

	got, ok := m.Get(sess.ID)
	require.True(t, ok)
	assert.Equal(t, "room_b", got.RoomID)

	assert.Empty(t, m.NamesInRoom("room_a"))
	assert.Equal(t, []string{"Alice"}, m.NamesInRoom("room_b"))
}

func TestManager_MoveNotFound(t *testing.T) {
	m := NewManager()
	_, err := m.Move("unknown", "room_b")
	assert.Error(t, err)
}

func TestManager_NamesInRoom(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Add(newSession("Alice", "room_a")))
	require.NoError(t, m.Add(newSession("Bob", "room_a")))
	require.NoError(t, m.Add(newSession("Charlie", "room_b")))

	roomA := m.NamesInRoom("room_a")
	assert.Len(t, roomA, 2)
	assert.Contains(t, roomA, "Alice")
	assert.Contains(t, roomA, "Bob")

	roomB := m.NamesInRoom("room_b")
	assert.Len(t, roomB, 1)
	assert.Contains(t, roomB, "Charlie")

	assert.Empty(t, m.NamesInRoom("empty_room"))
}

func TestManager_GetByCharName(t *testing.T) {
	m := NewManager()
	sess := newSession("Alice", "room_a")
	require.NoError(t, m.Add(sess))

	got, ok := m.GetByCharName("Alice")
	assert.True(t, ok)
	assert.Equal(t, sess.ID, got.ID)

	_, ok = m.GetByCharName("Nobody")
	assert.False(t, ok)
}

func TestManager_ConcurrentAddRemove(t *testing.T) {
	m := NewManager()
	const n = 100
	var wg sync.WaitGroup

	ids := make([]string, n)
	sessions := make([]*PlayerSession, n)
	for i := 0; i < n; i++ {
		sessions[i] = newSession(fmt.Sprintf("Player%d", i), "room_a")
		ids[i] = sessions[i].ID
	}

	// Add n sessions concurrently
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_ = m.Add(sessions[i])
		}(i)
	}
	wg.Wait()
	assert.Equal(t, n, m.Count())

	// Remove all concurrently
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_ = m.Remove(ids[i])
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, m.Count())
	assert.Empty(t, m.NamesInRoom("room_a"))
}

func TestManager_ConcurrentMove(t *testing.T) {
	m := NewManager()
	const n = 50
	rooms := []string{"room_a", "room_b", "room_c"}

	ids := make([]string, n)
	for i := 0; i < n; i++ {
		sess := newSession(fmt.Sprintf("P%d", i), rooms[0])
		ids[i] = sess.ID
		require.NoError(t, m.Add(sess))
	}

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			targetRoom := rooms[(i+1)%len(rooms)]
			_, _ = m.Move(ids[i], targetRoom)
		}(i)
	}
	wg.Wait()

	// Verify total session count is consistent
	assert.Equal(t, n, m.Count())

	// Verify room counts sum to total
	total := 0
	for _, room := range rooms {
		total += len(m.NamesInRoom(room))
	}
	assert.Equal(t, n, total)
}

func TestPropertyRoomOccupancyConsistent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := NewManager()
		rooms := []string{"r1", "r2", "r3"}
		numPlayers := rapid.IntRange(1, 20).Draw(t, "num_players")

		// Add sessions
		ids := make([]string, numPlayers)
		for i := 0; i < numPlayers; i++ {
			roomIdx := rapid.IntRange(0, len(rooms)-1).Draw(t, "room_idx")
			sess := newSession(fmt.Sprintf("Player%d", i), rooms[roomIdx])
			ids[i] = sess.ID
			_ = m.Add(sess)
		}

		// Move some sessions
		numMoves := rapid.IntRange(0, numPlayers*2).Draw(t, "num_moves")
		for i := 0; i < numMoves; i++ {
			playerIdx := rapid.IntRange(0, numPlayers-1).Draw(t, "move_player")
			roomIdx := rapid.IntRange(0, len(rooms)-1).Draw(t, "move_room")
			_, _ = m.Move(ids[playerIdx], rooms[roomIdx])
		}

		// Remove some sessions
		numRemoves := rapid.IntRange(0, numPlayers/2).Draw(t, "num_removes")
		for i := 0; i < numRemoves; i++ {
			playerIdx := rapid.IntRange(0, numPlayers-1).Draw(t, "remove_player")
			_ = m.Remove(ids[playerIdx])
		}

		// Verify: total sessions across all rooms == Count()
		totalInRooms := 0
		for _, room := range rooms {
			totalInRooms += len(m.NamesInRoom(room))
		}
		if totalInRooms != m.Count() {
			t.Fatalf("room occupancy sum %d != session count %d", totalInRooms, m.Count())
		}
	})
}
