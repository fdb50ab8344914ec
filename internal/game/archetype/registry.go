package archetype

import (
	"fmt"
	"sort"
)

// Registry holds all loaded archetypes indexed by ID.
type Registry struct {
	archetypes map[string]*Archetype
}

// NewRegistry returns an empty Registry.
//
// Postcondition: the internal map is initialised.
func NewRegistry() *Registry {
	return &Registry{archetypes: make(map[string]*Archetype)}
}

// Register adds a to the registry.
//
// Precondition:  a must not be nil.
// Postcondition: Get(a.ID) returns (a, true); returns error if a.ID already registered.
func (r *Registry) Register(a *Archetype) error {
	if _, exists := r.archetypes[a.ID]; exists {
		return fmt.Errorf("archetype: Registry.Register: archetype ID %q already registered", a.ID)
	}
	r.archetypes[a.ID] = a
	return nil
}

// Get returns the Archetype for the given id and whether it was found.
//
// Postcondition: ok is true iff the id is registered.
func (r *Registry) Get(id string) (*Archetype, bool) {
	a, ok := r.archetypes[id]
	return a, ok
}

// All returns all registered archetypes sorted by ID.
//
// Postcondition: len(result) == number of registered archetypes.
func (r *Registry) All() []*Archetype {
	out := make([]*Archetype, 0, len(r.archetypes))
	for _, a := range r.archetypes {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadRegistry reads every archetype in dir via LoadArchetypes and registers
// it.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns a Registry holding every archetype, or an error on
// the first load or duplicate-ID failure.
func LoadRegistry(dir string) (*Registry, error) {
	archetypes, err := LoadArchetypes(dir)
	if err != nil {
		return nil, err
	}
	r := NewRegistry()
	for _, a := range archetypes {
		if err := r.Register(a); err != nil {
			return nil, err
		}
	}
	return r, nil
}
