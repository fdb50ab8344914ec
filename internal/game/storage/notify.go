package storage

// Change describes one slot mutation: the slot index and its post-mutation
// contents. Item is nil when the slot ended up empty.
type Change struct {
	Index  int
	Amount int
	Item   Item
}

// ChangeFunc receives slot change notifications. Delivery is synchronous,
// in-line, and in slot-processing order; one mutation step, one call. A
// ChangeFunc must not mutate the Storage it observes.
type ChangeFunc func(Change)

// Subscribe registers an observer for slot changes. Observers are invoked
// in subscription order. A nil fn is ignored.
func (s *Storage) Subscribe(fn ChangeFunc) {
	if fn == nil {
		return
	}
	s.observers = append(s.observers, fn)
}

// notify delivers the current contents of the slot at index to every
// observer. index must be in range.
func (s *Storage) notify(index int) {
	if len(s.observers) == 0 {
		return
	}
	sl := s.slots[index]
	c := Change{Index: index, Amount: sl.amount, Item: sl.item}
	for _, fn := range s.observers {
		fn(c)
	}
}
