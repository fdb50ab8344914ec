// Package storage implements the slot-based item storage at the heart of a
// character's inventory: a fixed-capacity ordered slot array with stacking,
// partial adds and takes, slot swaps, bulk extraction, and equip
// orchestration against an equipment registry. Every slot mutation is
// observable through synchronous change notifications.
//
// Operations never return error values. Failures are signaled the way the
// callers expect to branch on them: -1 means the operation could not be
// attempted at all (index out of range, slot mismatch, absent item), while a
// smaller-than-requested non-negative count is a legitimate partial result
// the caller checks against what it asked for.
package storage

// Storage exclusively owns a fixed-length ordered sequence of slots. The
// capacity is fixed at construction; slots are mutated in place and never
// added or removed.
//
// Storage is not safe for concurrent use. It is designed for a single
// control goroutine (the session or simulation tick that owns it);
// notifications are delivered on that goroutine before the mutating call
// returns.
type Storage struct {
	slots     []Slot
	observers []ChangeFunc
}

// New creates a Storage with the given number of empty slots. A negative
// capacity is treated as zero.
func New(capacity int) *Storage {
	if capacity < 0 {
		capacity = 0
	}
	return &Storage{slots: make([]Slot, capacity)}
}

// Capacity returns the fixed slot count.
func (s *Storage) Capacity() int {
	return len(s.slots)
}

// At returns the slot at index.
//
// Postcondition: returns (slot, true) when index is in range, (Slot{}, false)
// otherwise.
func (s *Storage) At(index int) (Slot, bool) {
	if index < 0 || index >= len(s.slots) {
		return Slot{}, false
	}
	return s.slots[index], true
}

// Slots returns a snapshot of all slots in index order.
//
// Postcondition: returned slice is a copy; mutations of the Storage after
// the call are not reflected in it.
func (s *Storage) Slots() []Slot {
	out := make([]Slot, len(s.slots))
	copy(out, s.slots)
	return out
}

// Count returns the total quantity of item across all slots. A nil item
// counts zero.
func (s *Storage) Count(item Item) int {
	if item == nil {
		return 0
	}
	id := item.ItemID()
	total := 0
	for i := range s.slots {
		if s.slots[i].holds(id) {
			total += s.slots[i].amount
		}
	}
	return total
}

// Add distributes amount units of item across the slots in two passes: a
// fill pass tops up existing stacks of the same item in index order, then an
// overflow pass claims empty slots in index order, each filled up to the
// item's max stack. When the storage runs out of room the remainder is
// dropped silently; a short return value is the only signal.
//
// Precondition: item's MaxStack must be positive.
// Postcondition: returns the units actually placed, <= amount; zero for a
// nil item or non-positive amount. One notification per touched slot.
func (s *Storage) Add(item Item, amount int) int {
	if item == nil || amount <= 0 {
		return 0
	}
	id := item.ItemID()
	maxStack := item.MaxStack()
	remaining := amount

	// Fill pass: top up existing stacks of this item.
	for i := range s.slots {
		if remaining <= 0 {
			break
		}
		sl := &s.slots[i]
		if !sl.holds(id) || sl.amount >= maxStack {
			continue
		}
		take := remaining
		if room := maxStack - sl.amount; take > room {
			take = room
		}
		sl.amount += take
		remaining -= take
		s.notify(i)
	}

	// Overflow pass: claim empty slots for the remainder.
	for i := range s.slots {
		if remaining <= 0 {
			break
		}
		if !s.slots[i].Empty() {
			continue
		}
		take := remaining
		if take > maxStack {
			take = maxStack
		}
		s.slots[i].set(item, take)
		remaining -= take
		s.notify(i)
	}

	return amount - remaining
}

// AddToSlot tops up the item already held at index by up to amount, capped
// at the held item's max stack. Excess is dropped.
//
// Postcondition: returns the units actually added (zero when the stack is
// already full or amount <= 0), or -1 when index is out of range or the slot
// is empty. One notification iff the slot changed.
func (s *Storage) AddToSlot(index, amount int) int {
	if index < 0 || index >= len(s.slots) {
		return -1
	}
	if s.slots[index].Empty() {
		return -1
	}
	return s.topUp(index, amount)
}

// AddItemToSlot places item into the slot at index: an empty slot adopts the
// item, a slot already holding the same item is topped up. Excess beyond the
// max stack is dropped.
//
// Postcondition: returns the units actually added, or -1 when index is out
// of range, item is nil, or the slot holds a different item. One
// notification iff the slot changed.
func (s *Storage) AddItemToSlot(item Item, index, amount int) int {
	if index < 0 || index >= len(s.slots) {
		return -1
	}
	if item == nil {
		return -1
	}
	sl := &s.slots[index]
	if sl.Empty() {
		take := amount
		if maxStack := item.MaxStack(); take > maxStack {
			take = maxStack
		}
		if take <= 0 {
			return 0
		}
		sl.set(item, take)
		s.notify(index)
		return take
	}
	if !sl.holds(item.ItemID()) {
		return -1
	}
	return s.topUp(index, amount)
}

// topUp adds up to amount to the occupied slot at index, capped at the held
// item's max stack. index must be in range and the slot occupied.
func (s *Storage) topUp(index, amount int) int {
	sl := &s.slots[index]
	take := amount
	if room := sl.item.MaxStack() - sl.amount; take > room {
		take = room
	}
	if take <= 0 {
		return 0
	}
	sl.amount += take
	s.notify(index)
	return take
}

// Take removes up to amount units of item, draining matching slots in index
// order. A slot drained to zero becomes empty. Asking for more than the
// stock on hand removes everything on hand; the short return value is the
// only signal.
//
// Postcondition: returns the units actually removed, or -1 when the storage
// holds none of the item at all (nil item included). One notification per
// touched slot.
func (s *Storage) Take(item Item, amount int) int {
	if s.Count(item) == 0 {
		return -1
	}
	id := item.ItemID()
	remaining := amount
	removed := 0
	for i := range s.slots {
		if remaining <= 0 {
			break
		}
		sl := &s.slots[i]
		if !sl.holds(id) {
			continue
		}
		take := remaining
		if take > sl.amount {
			take = sl.amount
		}
		sl.amount -= take
		if sl.amount == 0 {
			sl.clear()
		}
		removed += take
		remaining -= take
		s.notify(i)
	}
	return removed
}

// TakeFromSlot removes up to amount units from the slot at index. Removing
// the whole holding leaves the slot empty.
//
// Postcondition: returns the units actually removed (zero when amount <= 0),
// or -1 when index is out of range or the slot is empty. One notification
// iff the slot changed.
func (s *Storage) TakeFromSlot(index, amount int) int {
	if index < 0 || index >= len(s.slots) {
		return -1
	}
	sl := &s.slots[index]
	if sl.Empty() {
		return -1
	}
	take := amount
	if take > sl.amount {
		take = sl.amount
	}
	if take <= 0 {
		return 0
	}
	sl.amount -= take
	if sl.amount == 0 {
		sl.clear()
	}
	s.notify(index)
	return take
}

// DrainSlot removes everything from the slot at index.
//
// Postcondition: returns the units removed, or -1 when index is out of range
// or the slot is empty.
func (s *Storage) DrainSlot(index int) int {
	if index < 0 || index >= len(s.slots) {
		return -1
	}
	return s.TakeFromSlot(index, s.slots[index].amount)
}

// TakeAll empties the storage and returns the stacks that were present, in
// index order, occupied slots only. The clearing is delegated to Clear, so
// TakeAll emits Clear's full notification sweep.
func (s *Storage) TakeAll() []Stack {
	var stacks []Stack
	for i := range s.slots {
		if s.slots[i].Empty() {
			continue
		}
		stacks = append(stacks, Stack{Item: s.slots[i].item, Amount: s.slots[i].amount})
	}
	s.Clear()
	return stacks
}

// Clear empties every slot, notifying once per slot in index order. The
// sweep is unconditional: slots that were already empty are notified all the
// same, so a Clear always emits exactly Capacity notifications.
func (s *Storage) Clear() {
	for i := range s.slots {
		s.slots[i].clear()
		s.notify(i)
	}
}

// Contains reports whether at least one unit of item is held.
func (s *Storage) Contains(item Item) bool {
	return s.ContainsCount(item, 1)
}

// ContainsCount reports whether the total quantity of item is at least
// amount. Pure query: no mutation, no notifications. The comparison is a
// plain sum test, so any amount <= 0 is trivially satisfied.
func (s *Storage) ContainsCount(item Item, amount int) bool {
	return s.Count(item) >= amount
}

// Replace overwrites the slot at index with (item, amount) and returns what
// the slot previously held. The write is an explicit override, not a
// stacking add: the item's max stack is not consulted. A nil item or
// non-positive amount writes the empty state.
//
// Postcondition: returns the previous (item, amount) pair, with (nil, 0) for
// a previously empty slot; (nil, -1) when index is out of range, in which
// case nothing is mutated. One notification when in range.
func (s *Storage) Replace(index int, item Item, amount int) (Item, int) {
	if index < 0 || index >= len(s.slots) {
		return nil, -1
	}
	sl := &s.slots[index]
	prevItem, prevAmount := sl.item, sl.amount
	sl.set(item, amount)
	s.notify(index)
	return prevItem, prevAmount
}

// Swap exchanges the full contents of the two slots and notifies both
// indices with post-swap values, index1 first. Either index out of range is
// a silent no-op with no notification. When both indices are in range the
// two notifications fire unconditionally, index1 == index2 included.
func (s *Storage) Swap(index1, index2 int) {
	if index1 < 0 || index1 >= len(s.slots) {
		return
	}
	if index2 < 0 || index2 >= len(s.slots) {
		return
	}
	s.slots[index1], s.slots[index2] = s.slots[index2], s.slots[index1]
	s.notify(index1)
	s.notify(index2)
}
