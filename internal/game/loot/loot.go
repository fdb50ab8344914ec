// Package loot provides drop tables: chance-gated item grants resolved
// against the item registry.
package loot

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/undercroft-game/undercroft/internal/game/item"
)

// Roller is the subset of the chance roller loot generation needs.
type Roller interface {
	// Percent returns true with probability p.
	Percent(p float64) bool
	// Between returns a uniform int in [low, high].
	Between(low, high int) int
}

// Entry defines a single item grant in a drop table with a drop chance.
type Entry struct {
	ItemID string  `yaml:"item"`
	Chance float64 `yaml:"chance"`
	MinQty int     `yaml:"min_qty"`
	MaxQty int     `yaml:"max_qty"`
}

// Table defines the possible drops rolled as one batch.
type Table struct {
	ID      string  `yaml:"id"`
	Entries []Entry `yaml:"entries"`
}

// Validate checks that the table satisfies its invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff all entry constraints hold; a table with no
// entries is valid.
func (t *Table) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("loot table: id must not be empty")
	}
	for i, e := range t.Entries {
		if e.ItemID == "" {
			return fmt.Errorf("loot table %q: entry[%d] must have a non-empty item id", t.ID, i)
		}
		if e.Chance <= 0 || e.Chance > 1.0 {
			return fmt.Errorf("loot table %q: entry[%d] chance must be in (0, 1.0], got %f", t.ID, i, e.Chance)
		}
		if e.MinQty < 1 {
			return fmt.Errorf("loot table %q: entry[%d] min_qty must be >= 1, got %d", t.ID, i, e.MinQty)
		}
		if e.MinQty > e.MaxQty {
			return fmt.Errorf("loot table %q: entry[%d] min_qty (%d) must be <= max_qty (%d)", t.ID, i, e.MinQty, e.MaxQty)
		}
	}
	return nil
}

// Drop is a single generated grant: a resolved definition and an amount.
type Drop struct {
	Item   *item.Def
	Amount int
}

// Generate rolls the table once against roller, resolving entries through reg.
//
// Precondition: t must have passed Validate(); roller and reg must be non-nil.
// Postcondition: each drop's Amount is in [MinQty, MaxQty]; entries that fail
// their chance roll or name an unregistered item are skipped.
func Generate(t Table, roller Roller, reg *item.Registry) []Drop {
	var drops []Drop
	for _, e := range t.Entries {
		if !roller.Percent(e.Chance) {
			continue
		}
		def, ok := reg.Def(e.ItemID)
		if !ok {
			continue
		}
		drops = append(drops, Drop{
			Item:   def,
			Amount: roller.Between(e.MinQty, e.MaxQty),
		})
	}
	return drops
}

// LoadTables reads all *.yaml and *.yml files from dir, parses each as a
// Table, validates it, and returns the collected tables keyed by ID.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid tables or the first encountered error;
// duplicate table IDs are an error.
func LoadTables(dir string) (map[string]*Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadTables: cannot read directory %q: %w", dir, err)
	}

	tables := make(map[string]*Table)
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadTables: cannot read file %q: %w", path, err)
		}
		var t Table
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("LoadTables: cannot parse file %q: %w", path, err)
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("LoadTables: invalid table in %q: %w", path, err)
		}
		if _, exists := tables[t.ID]; exists {
			return nil, fmt.Errorf("LoadTables: table ID %q already registered", t.ID)
		}
		tables[t.ID] = &t
	}
	return tables, nil
}
