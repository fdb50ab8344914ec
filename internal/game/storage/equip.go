package storage

// Registry is the equipment-slot collaborator the equip operations dispatch
// into, one slot per category. Contract: Equip* returns false and changes
// nothing when its category is already occupied; Unequip* returns the
// current occupant (nil when the category is empty) and always leaves the
// category empty.
type Registry interface {
	EquipWeapon(Equipable) bool
	EquipAbility(Equipable) bool
	EquipAccessory(Equipable) bool
	UnequipWeapon() Equipable
	UnequipAbility() Equipable
	UnequipAccessory() Equipable
}

// TryEquip equips the item held at index into reg and drains the source slot
// on success.
//
// Postcondition: true iff the registry accepted the item; the slot is
// drained (with its notification) only then. False covers every failure
// cause without distinction: index out of range, empty slot, item without an
// equip category, or the category already occupied in reg.
func (s *Storage) TryEquip(index int, reg Registry) bool {
	eq := s.equipableAt(index)
	if eq == nil {
		return false
	}
	var ok bool
	switch eq.Category() {
	case CategoryWeapon:
		ok = reg.EquipWeapon(eq)
	case CategoryAbility:
		ok = reg.EquipAbility(eq)
	case CategoryAccessory:
		ok = reg.EquipAccessory(eq)
	}
	if !ok {
		return false
	}
	s.DrainSlot(index)
	return true
}

// EquipAggressive equips the item held at index into reg, evicting the
// current occupant of its category when the direct equip is refused: the
// occupant is unequipped, the new item equipped into the freed slot, and the
// occupant returned.
//
// The source slot is drained after the category dispatch on every path that
// passes the initial checks — including a category that matches no dispatch
// branch, where the slot is drained even though nothing was equipped.
//
// Postcondition: returns the evicted item; nil both when the checks failed
// and when the item went into a free category, indistinguishably.
func (s *Storage) EquipAggressive(index int, reg Registry) Equipable {
	eq := s.equipableAt(index)
	if eq == nil {
		return nil
	}
	var evicted Equipable
	switch eq.Category() {
	case CategoryWeapon:
		if !reg.EquipWeapon(eq) {
			evicted = reg.UnequipWeapon()
			reg.EquipWeapon(eq)
		}
	case CategoryAbility:
		if !reg.EquipAbility(eq) {
			evicted = reg.UnequipAbility()
			reg.EquipAbility(eq)
		}
	case CategoryAccessory:
		if !reg.EquipAccessory(eq) {
			evicted = reg.UnequipAccessory()
			reg.EquipAccessory(eq)
		}
	}
	s.DrainSlot(index)
	return evicted
}

// equipableAt returns the equipable item at index, or nil when index is out
// of range, the slot is empty, or the item advertises no equip category.
func (s *Storage) equipableAt(index int) Equipable {
	if index < 0 || index >= len(s.slots) {
		return nil
	}
	sl := s.slots[index]
	if sl.Empty() {
		return nil
	}
	eq, ok := sl.item.(Equipable)
	if !ok || eq.Category() == CategoryNone {
		return nil
	}
	return eq
}
