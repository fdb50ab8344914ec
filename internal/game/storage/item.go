package storage

// Category identifies which equipment slot an equipable item occupies.
type Category uint8

// Equip categories dispatched by TryEquip and EquipAggressive.
const (
	// CategoryNone marks an item that cannot be equipped.
	CategoryNone Category = iota
	// CategoryWeapon occupies the weapon slot.
	CategoryWeapon
	// CategoryAbility occupies the ability slot.
	CategoryAbility
	// CategoryAccessory occupies the accessory slot.
	CategoryAccessory
)

// String returns the lowercase name of the category.
func (c Category) String() string {
	switch c {
	case CategoryWeapon:
		return "weapon"
	case CategoryAbility:
		return "ability"
	case CategoryAccessory:
		return "accessory"
	case CategoryNone:
		return "none"
	default:
		return "unknown"
	}
}

// Item is the capability surface Storage requires of anything it holds.
// Identity is the ID: two items are the same item iff their ItemIDs are
// equal. MaxStack must be a positive constant for a given ID.
type Item interface {
	ItemID() string
	MaxStack() int
}

// Equipable is an Item that advertises an equip category. Items whose
// Category is CategoryNone are treated as not equipable.
type Equipable interface {
	Item
	Category() Category
}
