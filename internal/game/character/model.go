// Package character defines the character domain model and pure creation logic.
package character

import "time"

// Character represents a player character's persistent state.
//
// AccountID and ID are set by the persistence layer; zero values indicate an unsaved character.
type Character struct {
	ID        int64
	AccountID int64

	Name      string
	Archetype string // archetype ID
	Location  string // current room ID

	CreatedAt time.Time
	UpdatedAt time.Time
}
