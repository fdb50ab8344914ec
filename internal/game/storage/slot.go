package storage

// Slot is a single storage cell: an optional item and its quantity.
// Invariant: amount == 0 iff item is nil. The empty state is the zero value;
// every write path normalizes through set, so (nil item, positive amount)
// and (item, zero amount) are unrepresentable.
type Slot struct {
	item   Item
	amount int
}

// Item returns the held item, or nil when the slot is empty.
func (s Slot) Item() Item { return s.item }

// Amount returns the held quantity; zero iff the slot is empty.
func (s Slot) Amount() int { return s.amount }

// Empty reports whether the slot holds nothing.
func (s Slot) Empty() bool { return s.item == nil }

// holds reports whether the slot contains the item identified by id.
func (s Slot) holds(id string) bool {
	return s.item != nil && s.item.ItemID() == id
}

// set overwrites the slot contents. A nil item or non-positive amount
// writes the empty state.
func (s *Slot) set(item Item, amount int) {
	if item == nil || amount <= 0 {
		s.item = nil
		s.amount = 0
		return
	}
	s.item = item
	s.amount = amount
}

// clear resets the slot to empty.
func (s *Slot) clear() {
	s.set(nil, 0)
}

// Stack is an (item, amount) pair lifted out of a slot, as returned by
// TakeAll.
type Stack struct {
	Item   Item
	Amount int
}
