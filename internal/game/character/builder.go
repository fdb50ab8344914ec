package character

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/undercroft-game/undercroft/internal/game/archetype"
	"github.com/undercroft-game/undercroft/internal/game/item"
	"github.com/undercroft-game/undercroft/internal/game/storage"
)

// Name length bounds enforced by Build.
const (
	MinNameLength = 3
	MaxNameLength = 24
)

// ValidateName checks the character naming rules: 3-24 runes, letters only.
//
// Postcondition: returns nil iff name is acceptable.
func ValidateName(name string) error {
	runes := []rune(name)
	if len(runes) < MinNameLength {
		return fmt.Errorf("character name must be at least %d characters", MinNameLength)
	}
	if len(runes) > MaxNameLength {
		return fmt.Errorf("character name must be at most %d characters", MaxNameLength)
	}
	for _, r := range runes {
		if !unicode.IsLetter(r) {
			return fmt.Errorf("character name must contain letters only, got %q", r)
		}
	}
	return nil
}

// Build constructs a new Character from a name and archetype, plus the
// provisioned storage holding the archetype's starting kit. Kit entries are
// resolved against the item registry and placed via Add; quantities that do
// not fit the capacity follow Add's silent-drop contract. A kit entry whose
// item ID is unknown is an error: the builder is the last line of defence
// before a character exists.
//
// Precondition: arch and reg must be non-nil; capacity >= 1.
// Postcondition: Returns a Character located at the archetype's start room
// and a Storage with the kit applied, or a non-nil error.
func Build(name string, arch *archetype.Archetype, reg *item.Registry, capacity int) (*Character, *storage.Storage, error) {
	if err := ValidateName(name); err != nil {
		return nil, nil, err
	}
	if arch == nil {
		return nil, nil, errors.New("archetype must not be nil")
	}
	if reg == nil {
		return nil, nil, errors.New("item registry must not be nil")
	}
	if capacity < 1 {
		return nil, nil, fmt.Errorf("storage capacity must be >= 1, got %d", capacity)
	}

	store := storage.New(capacity)
	for _, k := range arch.Kit {
		def, ok := reg.Def(k.ItemID)
		if !ok {
			return nil, nil, fmt.Errorf("archetype %q kit references unknown item %q", arch.ID, k.ItemID)
		}
		store.Add(def, k.Qty)
	}

	return &Character{
		Name:      name,
		Archetype: arch.ID,
		Location:  arch.StartRoom,
	}, store, nil
}
