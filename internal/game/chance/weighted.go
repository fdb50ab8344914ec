package chance

// Weighted selects among values with positive integer weights. A value with
// weight 3 is three times as likely as a value with weight 1.
//
// Invariant: total == sum of all entry weights; every entry weight is > 0.
type Weighted[T any] struct {
	entries []weightedEntry[T]
	total   int
}

type weightedEntry[T any] struct {
	value  T
	weight int
}

// Add registers value with the given weight.
//
// Precondition: weight > 0. Panics with "chance: Weighted.Add called with
// weight <= 0" otherwise.
func (w *Weighted[T]) Add(value T, weight int) {
	if weight <= 0 {
		panic("chance: Weighted.Add called with weight <= 0")
	}
	w.entries = append(w.entries, weightedEntry[T]{value: value, weight: weight})
	w.total += weight
}

// Len returns the number of registered entries.
func (w *Weighted[T]) Len() int {
	return len(w.entries)
}

// Pick draws one value using src, with probability proportional to weight.
//
// Postcondition: Returns (value, true) when at least one entry is registered,
// or (zero, false) when the table is empty.
func (w *Weighted[T]) Pick(src Source) (T, bool) {
	var zero T
	if len(w.entries) == 0 {
		return zero, false
	}
	n := src.Intn(w.total)
	for _, e := range w.entries {
		n -= e.weight
		if n < 0 {
			return e.value, true
		}
	}
	// Unreachable while the invariant holds; guard against a misbehaving Source.
	return w.entries[len(w.entries)-1].value, true
}
