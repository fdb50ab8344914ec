package storage_test

import (
	"testing"

	"github.com/undercroft-game/undercroft/internal/game/storage"
)

type testEquipable struct {
	testItem
	cat storage.Category
}

func (e *testEquipable) Category() storage.Category { return e.cat }

func equipItem(id string, cat storage.Category) *testEquipable {
	return &testEquipable{testItem: testItem{id: id, maxStack: 5}, cat: cat}
}

// fakeLoadout implements storage.Registry with one slot per category.
type fakeLoadout struct {
	weapon    storage.Equipable
	ability   storage.Equipable
	accessory storage.Equipable
}

func (f *fakeLoadout) EquipWeapon(e storage.Equipable) bool {
	if f.weapon != nil {
		return false
	}
	f.weapon = e
	return true
}

func (f *fakeLoadout) EquipAbility(e storage.Equipable) bool {
	if f.ability != nil {
		return false
	}
	f.ability = e
	return true
}

func (f *fakeLoadout) EquipAccessory(e storage.Equipable) bool {
	if f.accessory != nil {
		return false
	}
	f.accessory = e
	return true
}

func (f *fakeLoadout) UnequipWeapon() storage.Equipable {
	prev := f.weapon
	f.weapon = nil
	return prev
}

func (f *fakeLoadout) UnequipAbility() storage.Equipable {
	prev := f.ability
	f.ability = nil
	return prev
}

func (f *fakeLoadout) UnequipAccessory() storage.Equipable {
	prev := f.accessory
	f.accessory = nil
	return prev
}

func TestStorage_TryEquip_WeaponIntoFreeSlot(t *testing.T) {
	sword := equipItem("sword", storage.CategoryWeapon)
	st := storage.New(2)
	st.Add(sword, 1)
	reg := &fakeLoadout{}
	log := recordChanges(st)

	if !st.TryEquip(0, reg) {
		t.Fatal("TryEquip should succeed into a free weapon slot")
	}
	if reg.weapon != sword {
		t.Errorf("got registry weapon %v, want sword", reg.weapon)
	}
	checkSlot(t, st, 0, nil, 0)
	if len(*log) != 1 {
		t.Fatalf("got %d changes, want 1", len(*log))
	}
	checkChange(t, (*log)[0], 0, 0, nil)
}

func TestStorage_TryEquip_OccupiedCategory(t *testing.T) {
	sword := equipItem("sword", storage.CategoryWeapon)
	axe := equipItem("axe", storage.CategoryWeapon)
	st := storage.New(2)
	st.Add(axe, 1)
	reg := &fakeLoadout{weapon: sword}
	log := recordChanges(st)

	if st.TryEquip(0, reg) {
		t.Fatal("TryEquip should fail when the category is occupied")
	}
	if reg.weapon != sword {
		t.Errorf("registry weapon changed to %v", reg.weapon)
	}
	checkSlot(t, st, 0, axe, 1)
	if len(*log) != 0 {
		t.Errorf("got %d changes, want 0", len(*log))
	}
}

func TestStorage_TryEquip_NonEquipableItem(t *testing.T) {
	rock := stackItem("rock", 10)
	st := storage.New(2)
	st.Add(rock, 3)
	reg := &fakeLoadout{}

	if st.TryEquip(0, reg) {
		t.Fatal("TryEquip should fail for a non-equipable item")
	}
	checkSlot(t, st, 0, rock, 3)
}

func TestStorage_TryEquip_CategoryNone(t *testing.T) {
	trinket := equipItem("trinket", storage.CategoryNone)
	st := storage.New(2)
	st.Add(trinket, 1)
	reg := &fakeLoadout{}

	if st.TryEquip(0, reg) {
		t.Fatal("TryEquip should fail for CategoryNone")
	}
	checkSlot(t, st, 0, trinket, 1)
}

func TestStorage_TryEquip_EmptySlot(t *testing.T) {
	st := storage.New(2)
	if st.TryEquip(0, &fakeLoadout{}) {
		t.Error("TryEquip on an empty slot should fail")
	}
}

func TestStorage_TryEquip_OutOfRange(t *testing.T) {
	st := storage.New(2)
	if st.TryEquip(-1, &fakeLoadout{}) {
		t.Error("TryEquip(-1) should fail")
	}
	if st.TryEquip(2, &fakeLoadout{}) {
		t.Error("TryEquip(capacity) should fail")
	}
}

func TestStorage_TryEquip_UnknownCategory(t *testing.T) {
	odd := equipItem("odd", storage.Category(99))
	st := storage.New(2)
	st.Add(odd, 1)
	reg := &fakeLoadout{}

	if st.TryEquip(0, reg) {
		t.Fatal("TryEquip should fail for an unknown category")
	}
	checkSlot(t, st, 0, odd, 1)
}

func TestStorage_TryEquip_DrainsWholeStack(t *testing.T) {
	charm := equipItem("charm", storage.CategoryAccessory)
	st := storage.New(2)
	st.Add(charm, 4)
	reg := &fakeLoadout{}

	if !st.TryEquip(0, reg) {
		t.Fatal("TryEquip should succeed")
	}
	if reg.accessory != charm {
		t.Errorf("got registry accessory %v, want charm", reg.accessory)
	}
	// The whole stack leaves the slot, not just the equipped unit.
	checkSlot(t, st, 0, nil, 0)
}

func TestStorage_TryEquip_AbilityDispatch(t *testing.T) {
	blink := equipItem("blink", storage.CategoryAbility)
	st := storage.New(2)
	st.Add(blink, 1)
	reg := &fakeLoadout{}

	if !st.TryEquip(0, reg) {
		t.Fatal("TryEquip should succeed into the ability slot")
	}
	if reg.ability != blink {
		t.Errorf("got registry ability %v, want blink", reg.ability)
	}
	if reg.weapon != nil || reg.accessory != nil {
		t.Error("other categories should be untouched")
	}
}

func TestStorage_EquipAggressive_FreeSlot(t *testing.T) {
	sword := equipItem("sword", storage.CategoryWeapon)
	st := storage.New(2)
	st.Add(sword, 1)
	reg := &fakeLoadout{}

	evicted := st.EquipAggressive(0, reg)
	if evicted != nil {
		t.Errorf("got evicted %v, want nil for a free slot", evicted)
	}
	if reg.weapon != sword {
		t.Errorf("got registry weapon %v, want sword", reg.weapon)
	}
	checkSlot(t, st, 0, nil, 0)
}

func TestStorage_EquipAggressive_EvictsOccupant(t *testing.T) {
	sword := equipItem("sword", storage.CategoryWeapon)
	axe := equipItem("axe", storage.CategoryWeapon)
	st := storage.New(2)
	st.Add(axe, 1)
	reg := &fakeLoadout{weapon: sword}

	evicted := st.EquipAggressive(0, reg)
	if evicted != sword {
		t.Errorf("got evicted %v, want sword", evicted)
	}
	if reg.weapon != axe {
		t.Errorf("got registry weapon %v, want axe", reg.weapon)
	}
	checkSlot(t, st, 0, nil, 0)
}

func TestStorage_EquipAggressive_EvictsAbility(t *testing.T) {
	blink := equipItem("blink", storage.CategoryAbility)
	dash := equipItem("dash", storage.CategoryAbility)
	st := storage.New(2)
	st.Add(dash, 1)
	reg := &fakeLoadout{ability: blink}

	evicted := st.EquipAggressive(0, reg)
	if evicted != blink {
		t.Errorf("got evicted %v, want blink", evicted)
	}
	if reg.ability != dash {
		t.Errorf("got registry ability %v, want dash", reg.ability)
	}
}

func TestStorage_EquipAggressive_EvictsAccessory(t *testing.T) {
	ring := equipItem("ring", storage.CategoryAccessory)
	charm := equipItem("charm", storage.CategoryAccessory)
	st := storage.New(2)
	st.Add(charm, 1)
	reg := &fakeLoadout{accessory: ring}

	evicted := st.EquipAggressive(0, reg)
	if evicted != ring {
		t.Errorf("got evicted %v, want ring", evicted)
	}
	if reg.accessory != charm {
		t.Errorf("got registry accessory %v, want charm", reg.accessory)
	}
}

func TestStorage_EquipAggressive_FailedChecks(t *testing.T) {
	rock := stackItem("rock", 10)
	st := storage.New(2)
	st.Add(rock, 2)
	reg := &fakeLoadout{}

	if evicted := st.EquipAggressive(0, reg); evicted != nil {
		t.Errorf("non-equipable: got evicted %v, want nil", evicted)
	}
	checkSlot(t, st, 0, rock, 2)

	if evicted := st.EquipAggressive(1, reg); evicted != nil {
		t.Errorf("empty slot: got evicted %v, want nil", evicted)
	}
	if evicted := st.EquipAggressive(7, reg); evicted != nil {
		t.Errorf("out of range: got evicted %v, want nil", evicted)
	}
}

func TestStorage_EquipAggressive_UnknownCategoryStillDrains(t *testing.T) {
	odd := equipItem("odd", storage.Category(99))
	st := storage.New(2)
	st.Add(odd, 3)
	reg := &fakeLoadout{}

	evicted := st.EquipAggressive(0, reg)
	if evicted != nil {
		t.Errorf("got evicted %v, want nil", evicted)
	}
	if reg.weapon != nil || reg.ability != nil || reg.accessory != nil {
		t.Error("registry should be untouched for an unknown category")
	}
	// The source slot is drained even though nothing was equipped.
	checkSlot(t, st, 0, nil, 0)
}
