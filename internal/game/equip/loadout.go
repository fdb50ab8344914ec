// Package equip tracks a character's worn equipment: one weapon, one
// ability, one accessory. Loadout satisfies the registry contract the
// storage package dispatches equip operations against.
package equip

import "github.com/undercroft-game/undercroft/internal/game/storage"

// Loadout holds at most one equipped item per category.
//
// Invariant: a populated slot only ever holds an item of its own category.
type Loadout struct {
	weapon    storage.Equipable
	ability   storage.Equipable
	accessory storage.Equipable
}

var _ storage.Registry = (*Loadout)(nil)

// NewLoadout returns an empty Loadout with nothing equipped.
//
// Postcondition: all three category slots are empty.
func NewLoadout() *Loadout {
	return &Loadout{}
}

// EquipWeapon places eq in the weapon slot if it is free.
//
// Precondition:  eq must be non-nil with Category() == CategoryWeapon.
// Postcondition: returns true iff the slot was empty and now holds eq.
func (l *Loadout) EquipWeapon(eq storage.Equipable) bool {
	if eq == nil || eq.Category() != storage.CategoryWeapon || l.weapon != nil {
		return false
	}
	l.weapon = eq
	return true
}

// EquipAbility places eq in the ability slot if it is free.
//
// Precondition:  eq must be non-nil with Category() == CategoryAbility.
// Postcondition: returns true iff the slot was empty and now holds eq.
func (l *Loadout) EquipAbility(eq storage.Equipable) bool {
	if eq == nil || eq.Category() != storage.CategoryAbility || l.ability != nil {
		return false
	}
	l.ability = eq
	return true
}

// EquipAccessory places eq in the accessory slot if it is free.
//
// Precondition:  eq must be non-nil with Category() == CategoryAccessory.
// Postcondition: returns true iff the slot was empty and now holds eq.
func (l *Loadout) EquipAccessory(eq storage.Equipable) bool {
	if eq == nil || eq.Category() != storage.CategoryAccessory || l.accessory != nil {
		return false
	}
	l.accessory = eq
	return true
}

// UnequipWeapon clears the weapon slot.
//
// Postcondition: Weapon() == nil; returns the previous occupant, or nil if
// the slot was already empty.
func (l *Loadout) UnequipWeapon() storage.Equipable {
	eq := l.weapon
	l.weapon = nil
	return eq
}

// UnequipAbility clears the ability slot.
//
// Postcondition: Ability() == nil; returns the previous occupant, or nil if
// the slot was already empty.
func (l *Loadout) UnequipAbility() storage.Equipable {
	eq := l.ability
	l.ability = nil
	return eq
}

// UnequipAccessory clears the accessory slot.
//
// Postcondition: Accessory() == nil; returns the previous occupant, or nil
// if the slot was already empty.
func (l *Loadout) UnequipAccessory() storage.Equipable {
	eq := l.accessory
	l.accessory = nil
	return eq
}

// Weapon returns the equipped weapon, or nil if the slot is empty.
func (l *Loadout) Weapon() storage.Equipable {
	return l.weapon
}

// Ability returns the equipped ability, or nil if the slot is empty.
func (l *Loadout) Ability() storage.Equipable {
	return l.ability
}

// Accessory returns the equipped accessory, or nil if the slot is empty.
func (l *Loadout) Accessory() storage.Equipable {
	return l.accessory
}
