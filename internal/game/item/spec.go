package item

import (
	"errors"
	"fmt"

	"github.com/undercroft-game/undercroft/internal/game/chance"
)

// WeaponSpec holds the combat properties of a weapon-kind item.
type WeaponSpec struct {
	Damage     string `yaml:"damage"`      // roll expression, e.g. "1d8+1"
	DamageType string `yaml:"damage_type"` // e.g. "slashing"
	Reach      int    `yaml:"reach"`       // tiles; 1 = adjacent only
}

// Validate checks that the WeaponSpec satisfies its invariants.
//
// Postcondition: returns nil iff Damage parses as a roll expression and the
// remaining fields are valid.
func (s *WeaponSpec) Validate() error {
	var errs []error
	if s.Damage == "" {
		errs = append(errs, errors.New("weapon damage must not be empty"))
	} else if _, err := chance.ParseRoll(s.Damage); err != nil {
		errs = append(errs, fmt.Errorf("weapon damage: %w", err))
	}
	if s.DamageType == "" {
		errs = append(errs, errors.New("weapon damage_type must not be empty"))
	}
	if s.Reach < 1 {
		errs = append(errs, errors.New("weapon reach must be >= 1"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon spec validation failed: %v", errs)
	}
	return nil
}

// AbilitySpec holds the behaviour of an ability-kind item.
type AbilitySpec struct {
	Effect        string `yaml:"effect"`         // effect identifier, e.g. "fireball"
	Charges       int    `yaml:"charges"`        // 0 = unlimited
	CooldownTurns int    `yaml:"cooldown_turns"` // turns between uses
}

// Validate checks that the AbilitySpec satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (s *AbilitySpec) Validate() error {
	var errs []error
	if s.Effect == "" {
		errs = append(errs, errors.New("ability effect must not be empty"))
	}
	if s.Charges < 0 {
		errs = append(errs, errors.New("ability charges must be >= 0"))
	}
	if s.CooldownTurns < 0 {
		errs = append(errs, errors.New("ability cooldown_turns must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("ability spec validation failed: %v", errs)
	}
	return nil
}

// AccessorySpec holds the passive bonus of an accessory-kind item.
type AccessorySpec struct {
	Modifier string `yaml:"modifier"` // stat the accessory adjusts, e.g. "defense"
	Bonus    int    `yaml:"bonus"`    // flat adjustment (may be negative)
}

// Validate checks that the AccessorySpec satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (s *AccessorySpec) Validate() error {
	var errs []error
	if s.Modifier == "" {
		errs = append(errs, errors.New("accessory modifier must not be empty"))
	}
	if s.Bonus == 0 {
		errs = append(errs, errors.New("accessory bonus must not be zero"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("accessory spec validation failed: %v", errs)
	}
	return nil
}
