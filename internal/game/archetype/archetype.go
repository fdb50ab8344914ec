// Package archetype provides the starting archetypes a new character picks
// from: a name, a starting room, and the kit of items the character begins
// with, loaded from YAML content files.
package archetype

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// KitEntry names one item granted to a fresh character, by definition ID.
type KitEntry struct {
	ItemID string `yaml:"item"`
	Qty    int    `yaml:"qty"`
}

// Archetype defines a starting archetype.
type Archetype struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	StartRoom   string     `yaml:"start_room"`
	Kit         []KitEntry `yaml:"kit"`
}

// Validate checks that the Archetype satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (a *Archetype) Validate() error {
	var errs []error
	if a.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if a.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if a.StartRoom == "" {
		errs = append(errs, errors.New("start_room must not be empty"))
	}
	for i, k := range a.Kit {
		if k.ItemID == "" {
			errs = append(errs, fmt.Errorf("kit[%d]: item must not be empty", i))
		}
		if k.Qty < 1 {
			errs = append(errs, fmt.Errorf("kit[%d]: qty must be >= 1, got %d", i, k.Qty))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("archetype validation failed: %v", errs)
	}
	return nil
}

// LoadArchetypes reads all *.yaml and *.yml files from dir, parses each as
// an Archetype, validates it, and returns the collected slice.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid archetypes or the first encountered error.
func LoadArchetypes(dir string) ([]*Archetype, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadArchetypes: cannot read directory %q: %w", dir, err)
	}

	var archetypes []*Archetype
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadArchetypes: cannot read file %q: %w", path, err)
		}
		var a Archetype
		if err := yaml.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("LoadArchetypes: cannot parse file %q: %w", path, err)
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("LoadArchetypes: invalid archetype in %q: %w", path, err)
		}
		archetypes = append(archetypes, &a)
	}
	return archetypes, nil
}
