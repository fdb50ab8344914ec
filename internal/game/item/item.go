// Package item provides the static item definitions for Undercroft: the
// catalog of things that can occupy inventory slots, be equipped, or be
// consumed, loaded from YAML content files.
package item

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/undercroft-game/undercroft/internal/game/storage"
)

// Kind constants for Def.Kind.
const (
	KindWeapon     = "weapon"
	KindAbility    = "ability"
	KindAccessory  = "accessory"
	KindConsumable = "consumable"
	KindTrinket    = "trinket"
)

// validKinds is the set of valid Def kinds.
var validKinds = map[string]bool{
	KindWeapon:     true,
	KindAbility:    true,
	KindAccessory:  true,
	KindConsumable: true,
	KindTrinket:    true,
}

// Def defines the static properties of an item loaded from YAML. Exactly one
// of Weapon, Ability, or Accessory is set when Kind names that category;
// consumables and trinkets carry none of them.
type Def struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Kind        string         `yaml:"kind"`
	StackLimit  int            `yaml:"max_stack"`
	Value       int            `yaml:"value"`
	Weight      float64        `yaml:"weight"`
	Weapon      *WeaponSpec    `yaml:"weapon,omitempty"`
	Ability     *AbilitySpec   `yaml:"ability,omitempty"`
	Accessory   *AccessorySpec `yaml:"accessory,omitempty"`
	OnUse       string         `yaml:"on_use,omitempty"`
}

var _ storage.Equipable = (*Def)(nil)

// ItemID returns the stable content identifier for the definition.
func (d *Def) ItemID() string {
	return d.ID
}

// MaxStack returns how many copies share one inventory slot.
func (d *Def) MaxStack() int {
	return d.StackLimit
}

// Category maps the definition's Kind onto the equipment category used for
// slot dispatch. Non-equipable kinds map to CategoryNone.
func (d *Def) Category() storage.Category {
	switch d.Kind {
	case KindWeapon:
		return storage.CategoryWeapon
	case KindAbility:
		return storage.CategoryAbility
	case KindAccessory:
		return storage.CategoryAccessory
	default:
		return storage.CategoryNone
	}
}

// Validate checks that the Def satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *Def) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if !validKinds[d.Kind] {
		errs = append(errs, fmt.Errorf("Kind must be one of weapon, ability, accessory, consumable, trinket; got %q", d.Kind))
	}
	if d.StackLimit < 1 {
		errs = append(errs, errors.New("max_stack must be >= 1"))
	}
	if d.Weight < 0 {
		errs = append(errs, errors.New("Weight must be >= 0"))
	}
	if d.Value < 0 {
		errs = append(errs, errors.New("Value must be >= 0"))
	}
	if d.Kind == KindWeapon && d.Weapon == nil {
		errs = append(errs, errors.New("weapon spec is required when Kind is weapon"))
	}
	if d.Kind == KindAbility && d.Ability == nil {
		errs = append(errs, errors.New("ability spec is required when Kind is ability"))
	}
	if d.Kind == KindAccessory && d.Accessory == nil {
		errs = append(errs, errors.New("accessory spec is required when Kind is accessory"))
	}
	if d.Weapon != nil && d.Kind != KindWeapon {
		errs = append(errs, errors.New("weapon spec is only valid when Kind is weapon"))
	}
	if d.Ability != nil && d.Kind != KindAbility {
		errs = append(errs, errors.New("ability spec is only valid when Kind is ability"))
	}
	if d.Accessory != nil && d.Kind != KindAccessory {
		errs = append(errs, errors.New("accessory spec is only valid when Kind is accessory"))
	}
	if d.Weapon != nil {
		if err := d.Weapon.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if d.Ability != nil {
		if err := d.Ability.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if d.Accessory != nil {
		if err := d.Accessory.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("item validation failed: %v", errs)
	}
	return nil
}

// LoadDefs reads all *.yaml and *.yml files from dir, parses each as a Def,
// validates it, and returns the collected slice.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid Defs or the first encountered error.
func LoadDefs(dir string) ([]*Def, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadDefs: cannot read directory %q: %w", dir, err)
	}

	var defs []*Def
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadDefs: cannot read file %q: %w", path, err)
		}
		var d Def
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("LoadDefs: cannot parse file %q: %w", path, err)
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("LoadDefs: invalid item in %q: %w", path, err)
		}
		defs = append(defs, &d)
	}
	return defs, nil
}
