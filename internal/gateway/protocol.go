// Package gateway exposes the game over a websocket JSON protocol: one
// message per frame, client commands carrying a sequence number, server
// replies acknowledging or rejecting each command plus unsolicited events.
package gateway

import (
	"github.com/undercroft-game/undercroft/internal/game/equip"
	"github.com/undercroft-game/undercroft/internal/game/floor"
	"github.com/undercroft-game/undercroft/internal/game/item"
	"github.com/undercroft-game/undercroft/internal/game/storage"
	"github.com/undercroft-game/undercroft/internal/game/world"
)

// Client command types.
const (
	CmdJoin         = "join"
	CmdAddToSlot    = "add_to_slot"
	CmdTakeFromSlot = "take_from_slot"
	CmdSwap         = "swap"
	CmdReplace      = "replace"
	CmdTake         = "take"
	CmdTakeAll      = "take_all"
	CmdClear        = "clear"
	CmdEquip        = "equip"
	CmdUse          = "use"
	CmdDrop         = "drop"
	CmdPickup       = "pickup"
	CmdTravel       = "travel"
	CmdPath         = "path"
	CmdSearch       = "search"
)

// Equip modes.
const (
	EquipModeTry        = "try"
	EquipModeAggressive = "aggressive"
)

// Server message types.
const (
	MsgAck         = "ack"
	MsgReject      = "reject"
	MsgJoined      = "joined"
	MsgSlotChanged = "slot_changed"
	MsgEquipment   = "equipment"
	MsgFloor       = "floor"
	MsgPath        = "path"
	MsgRoom        = "room"
	MsgInfo        = "info"
)

// Command is the single client-to-server frame shape. Fields beyond Type and
// Seq are populated per command type.
type Command struct {
	Type string `json:"type"`
	Seq  uint64 `json:"seq"`

	// join
	Name      string `json:"name,omitempty"`
	Archetype string `json:"archetype,omitempty"`

	// slot operations
	Index  int    `json:"index"`
	Target int    `json:"target"`
	Amount int    `json:"amount"`
	Item   string `json:"item,omitempty"`

	// equip
	Mode string `json:"mode,omitempty"`

	// pickup
	Instance string `json:"instance,omitempty"`

	// travel
	Direction string `json:"direction,omitempty"`

	// path
	From *PointPayload `json:"from,omitempty"`
	To   *PointPayload `json:"to,omitempty"`
}

// PointPayload is a tile coordinate on a room's floor plan.
type PointPayload struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// ItemPayload describes an item definition on the wire.
type ItemPayload struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Kind string `json:"kind,omitempty"`
}

// SlotPayload describes one inventory slot. Item is nil for an empty slot.
type SlotPayload struct {
	Index  int          `json:"index"`
	Amount int          `json:"amount"`
	Item   *ItemPayload `json:"item"`
}

// PilePayload describes one floor pile.
type PilePayload struct {
	Instance string       `json:"instance"`
	Amount   int          `json:"amount"`
	Item     *ItemPayload `json:"item"`
}

// ExitPayload describes one visible room exit.
type ExitPayload struct {
	Direction string `json:"direction"`
	Locked    bool   `json:"locked,omitempty"`
}

// RoomPayload describes the player's current room.
type RoomPayload struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Exits       []ExitPayload `json:"exits"`
	Occupants   []string      `json:"occupants"`
}

// AckMessage acknowledges a processed command.
type AckMessage struct {
	Type string `json:"type"`
	Seq  uint64 `json:"seq"`
}

// RejectMessage refuses a command with a human-readable reason.
type RejectMessage struct {
	Type   string `json:"type"`
	Seq    uint64 `json:"seq"`
	Reason string `json:"reason"`
}

// JoinedMessage confirms a join and carries the initial state snapshot.
type JoinedMessage struct {
	Type    string        `json:"type"`
	Seq     uint64        `json:"seq"`
	Session string        `json:"session"`
	Name    string        `json:"name"`
	Room    RoomPayload   `json:"room"`
	Slots   []SlotPayload `json:"slots"`
}

// SlotChangedMessage reports one inventory slot mutation.
type SlotChangedMessage struct {
	Type string      `json:"type"`
	Slot SlotPayload `json:"slot"`
}

// EquipmentMessage is a snapshot of the player's loadout.
type EquipmentMessage struct {
	Type      string       `json:"type"`
	Weapon    *ItemPayload `json:"weapon"`
	Ability   *ItemPayload `json:"ability"`
	Accessory *ItemPayload `json:"accessory"`
}

// FloorMessage is a snapshot of the piles in a room.
type FloorMessage struct {
	Type  string        `json:"type"`
	Room  string        `json:"room"`
	Piles []PilePayload `json:"piles"`
}

// PathMessage carries a computed tile route.
type PathMessage struct {
	Type   string         `json:"type"`
	Seq    uint64         `json:"seq"`
	Points []PointPayload `json:"points"`
}

// RoomMessage carries the current room after a move.
type RoomMessage struct {
	Type string      `json:"type"`
	Seq  uint64      `json:"seq"`
	Room RoomPayload `json:"room"`
}

// InfoMessage is free-form narration shown to the player.
type InfoMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Info builds an InfoMessage, exported so wiring code can broadcast narration
// (script hooks in particular) through the hub.
func Info(message string) InfoMessage {
	return InfoMessage{Type: MsgInfo, Message: message}
}

func itemPayload(it storage.Item) *ItemPayload {
	if it == nil {
		return nil
	}
	p := &ItemPayload{ID: it.ItemID()}
	if def, ok := it.(*item.Def); ok {
		p.Name = def.Name
		p.Kind = def.Kind
	}
	return p
}

func slotPayload(index int, sl storage.Slot) SlotPayload {
	return SlotPayload{
		Index:  index,
		Amount: sl.Amount(),
		Item:   itemPayload(sl.Item()),
	}
}

func slotsPayload(store *storage.Storage) []SlotPayload {
	slots := store.Slots()
	out := make([]SlotPayload, len(slots))
	for i, sl := range slots {
		out[i] = slotPayload(i, sl)
	}
	return out
}

func pilesPayload(piles []floor.Pile) []PilePayload {
	out := make([]PilePayload, 0, len(piles))
	for _, p := range piles {
		out = append(out, PilePayload{
			Instance: p.InstanceID,
			Amount:   p.Amount,
			Item:     itemPayload(p.Item),
		})
	}
	return out
}

func roomPayload(r *world.Room, occupants []string) RoomPayload {
	exits := r.VisibleExits()
	out := RoomPayload{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Exits:       make([]ExitPayload, 0, len(exits)),
		Occupants:   occupants,
	}
	for _, e := range exits {
		out.Exits = append(out.Exits, ExitPayload{
			Direction: string(e.Direction),
			Locked:    e.Locked,
		})
	}
	return out
}

func equipmentPayload(l *equip.Loadout) EquipmentMessage {
	msg := EquipmentMessage{Type: MsgEquipment}
	if w := l.Weapon(); w != nil {
		msg.Weapon = itemPayload(w)
	}
	if a := l.Ability(); a != nil {
		msg.Ability = itemPayload(a)
	}
	if a := l.Accessory(); a != nil {
		msg.Accessory = itemPayload(a)
	}
	return msg
}
