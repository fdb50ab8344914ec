package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/undercroft-game/undercroft/internal/game/character"
	"github.com/undercroft-game/undercroft/internal/game/loot"
	"github.com/undercroft-game/undercroft/internal/game/path"
	"github.com/undercroft-game/undercroft/internal/game/session"
	"github.com/undercroft-game/undercroft/internal/game/storage"
	"github.com/undercroft-game/undercroft/internal/game/world"
	"github.com/undercroft-game/undercroft/internal/scripting"
)

// serveConn runs one connection's lifecycle: a join handshake, then the
// command loop. Commands execute serially on this goroutine, so the session's
// storage and loadout never see concurrent mutation.
func (s *Service) serveConn(conn *websocket.Conn) {
	defer conn.Close()

	var (
		sess *session.PlayerSession
		cl   *client
	)
	defer func() {
		if sess != nil {
			s.teardown(sess)
		}
	}()

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("gateway: read failed", zap.Error(err))
			}
			return
		}

		if sess == nil {
			if cmd.Type != CmdJoin {
				_ = conn.WriteJSON(RejectMessage{Type: MsgReject, Seq: cmd.Seq, Reason: "join first"})
				continue
			}
			sess, cl = s.handleJoin(conn, cmd)
			continue
		}

		s.dispatch(sess, cl, cmd)
	}
}

// handleJoin validates the join command, builds the character, registers the
// session, and replies with the initial snapshot. On failure it writes a
// reject directly to the connection and returns nils so the handshake can be
// retried.
func (s *Service) handleJoin(conn *websocket.Conn, cmd Command) (*session.PlayerSession, *client) {
	reject := func(reason string) (*session.PlayerSession, *client) {
		_ = conn.WriteJSON(RejectMessage{Type: MsgReject, Seq: cmd.Seq, Reason: reason})
		return nil, nil
	}

	arch, ok := s.deps.Archetypes.Get(cmd.Archetype)
	if !ok {
		return reject(fmt.Sprintf("unknown archetype %q", cmd.Archetype))
	}
	if _, taken := s.deps.Sessions.GetByCharName(cmd.Name); taken {
		return reject(fmt.Sprintf("the name %q is already in use", cmd.Name))
	}

	char, store, err := character.Build(cmd.Name, arch, s.deps.Items, s.deps.StorageCapacity)
	if err != nil {
		return reject(err.Error())
	}

	roomID := char.Location
	if _, ok := s.deps.World.GetRoom(roomID); !ok {
		start := s.deps.World.StartRoom()
		if start == nil {
			return reject("the world has no rooms")
		}
		roomID = start.ID
	}

	sess := session.New(0, 0, char.Name, roomID, store, s.cfg.EventBuffer)
	if err := s.deps.Sessions.Add(sess); err != nil {
		return reject(err.Error())
	}

	cl := newClient(sess.ID, conn, s.cfg.EventBuffer, s.cfg.WriteTimeout, s.logger)
	s.hub.register(cl)
	go s.pumpBridge(sess, cl)

	room, _ := s.deps.World.GetRoom(roomID)
	cl.enqueue(JoinedMessage{
		Type:    MsgJoined,
		Seq:     cmd.Seq,
		Session: sess.ID,
		Name:    sess.CharName,
		Room:    roomPayload(room, s.deps.Sessions.NamesInRoom(roomID)),
		Slots:   slotsPayload(sess.Storage),
	})
	s.hub.BroadcastRoom(roomID, Info(sess.CharName+" arrives."), sess.ID)

	s.logger.Info("gateway: player joined",
		zap.String("session", sess.ID),
		zap.String("name", sess.CharName),
		zap.String("room", roomID))
	return sess, cl
}

// pumpBridge forwards the session's game events onto the client's send
// queue. Exits when the bridge closes (session removal).
func (s *Service) pumpBridge(sess *session.PlayerSession, cl *client) {
	for ev := range sess.Bridge.Events() {
		switch ev.Type {
		case session.EventSlotChanged:
			cl.enqueue(SlotChangedMessage{
				Type: MsgSlotChanged,
				Slot: SlotPayload{
					Index:  ev.Slot.Index,
					Amount: ev.Slot.Amount,
					Item:   itemPayload(ev.Slot.Item),
				},
			})
		}
	}
}

func (s *Service) teardown(sess *session.PlayerSession) {
	roomID := sess.RoomID
	s.hub.unregister(sess.ID)
	if err := s.deps.Sessions.Remove(sess.ID); err != nil {
		s.logger.Warn("gateway: removing session", zap.String("session", sess.ID), zap.Error(err))
	}
	s.hub.BroadcastRoom(roomID, Info(sess.CharName+" leaves."))

	if s.deps.PersistLocation != nil && sess.CharacterID != 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.deps.PersistLocation(ctx, sess.CharacterID, roomID); err != nil {
			s.logger.Warn("gateway: persisting location",
				zap.Int64("character", sess.CharacterID), zap.Error(err))
		}
	}
	s.logger.Info("gateway: player left",
		zap.String("session", sess.ID), zap.String("name", sess.CharName))
}

func (s *Service) dispatch(sess *session.PlayerSession, cl *client, cmd Command) {
	ack := func() {
		cl.enqueue(AckMessage{Type: MsgAck, Seq: cmd.Seq})
	}
	reject := func(reason string) {
		cl.enqueue(RejectMessage{Type: MsgReject, Seq: cmd.Seq, Reason: reason})
	}

	switch cmd.Type {
	case CmdJoin:
		reject("already joined")

	case CmdAddToSlot:
		if sess.Storage.AddToSlot(cmd.Index, cmd.Amount) < 0 {
			reject("no such slot, or the slot is empty")
			return
		}
		ack()

	case CmdTakeFromSlot:
		if sess.Storage.TakeFromSlot(cmd.Index, cmd.Amount) < 0 {
			reject("no such slot, or the slot is empty")
			return
		}
		ack()

	case CmdSwap:
		sess.Storage.Swap(cmd.Index, cmd.Target)
		ack()

	case CmdReplace:
		def, ok := s.deps.Items.Def(cmd.Item)
		if cmd.Item != "" && !ok {
			reject(fmt.Sprintf("unknown item %q", cmd.Item))
			return
		}
		// it stays a nil interface for an empty item field; a typed-nil
		// *item.Def would read as occupied inside the slot.
		var it storage.Item
		if cmd.Item != "" {
			it = def
		}
		if _, prev := sess.Storage.Replace(cmd.Index, it, cmd.Amount); prev == -1 {
			reject("no such slot")
			return
		}
		ack()

	case CmdTake:
		def, ok := s.deps.Items.Def(cmd.Item)
		if !ok {
			reject(fmt.Sprintf("unknown item %q", cmd.Item))
			return
		}
		if sess.Storage.Take(def, cmd.Amount) < 0 {
			reject(fmt.Sprintf("you have no %s", def.Name))
			return
		}
		ack()

	case CmdTakeAll:
		sess.Storage.TakeAll()
		ack()

	case CmdClear:
		sess.Storage.Clear()
		ack()

	case CmdEquip:
		s.handleEquip(sess, cl, cmd, ack, reject)

	case CmdUse:
		s.handleUse(sess, cl, cmd, ack, reject)

	case CmdDrop:
		s.handleDrop(sess, cmd, ack, reject)

	case CmdPickup:
		s.handlePickup(sess, cmd, ack, reject)

	case CmdTravel:
		s.handleTravel(sess, cl, cmd, reject)

	case CmdPath:
		s.handlePath(sess, cl, cmd, reject)

	case CmdSearch:
		s.handleSearch(sess, cmd, ack, reject)

	default:
		reject(fmt.Sprintf("unknown command %q", cmd.Type))
	}
}

func (s *Service) handleEquip(sess *session.PlayerSession, cl *client, cmd Command, ack func(), reject func(string)) {
	switch cmd.Mode {
	case EquipModeTry, "":
		if !sess.Storage.TryEquip(cmd.Index, sess.Loadout) {
			reject("cannot equip that")
			return
		}
	case EquipModeAggressive:
		if evicted := sess.Storage.EquipAggressive(cmd.Index, sess.Loadout); evicted != nil {
			// The displaced item goes back into the bag; whatever does not
			// fit falls to the floor.
			if placed := sess.Storage.Add(evicted, 1); placed == 0 {
				s.deps.Floor.Drop(sess.RoomID, evicted, 1)
				s.broadcastFloor(sess.RoomID)
			}
		}
	default:
		reject(fmt.Sprintf("unknown equip mode %q", cmd.Mode))
		return
	}
	ack()
	cl.enqueue(equipmentPayload(sess.Loadout))
}

func (s *Service) handleUse(sess *session.PlayerSession, cl *client, cmd Command, ack func(), reject func(string)) {
	sl, ok := sess.Storage.At(cmd.Index)
	if !ok || sl.Empty() {
		reject("nothing there to use")
		return
	}
	def, ok := s.deps.Items.Def(sl.Item().ItemID())
	if !ok || def.OnUse == "" {
		reject("nothing happens")
		return
	}
	if s.deps.Scripts == nil {
		reject("nothing happens")
		return
	}

	res, ran := s.deps.Scripts.Use(def.OnUse, scripting.UseEnv{ItemID: def.ID, CharName: sess.CharName, RoomID: sess.RoomID})
	if !ran {
		reject("nothing happens")
		return
	}
	if res.Consumed {
		sess.Storage.TakeFromSlot(cmd.Index, 1)
	}
	ack()
	if res.Message != "" {
		cl.enqueue(Info(res.Message))
	}
}

func (s *Service) handleDrop(sess *session.PlayerSession, cmd Command, ack func(), reject func(string)) {
	sl, ok := sess.Storage.At(cmd.Index)
	if !ok || sl.Empty() {
		reject("nothing there to drop")
		return
	}
	it := sl.Item()
	removed := sess.Storage.TakeFromSlot(cmd.Index, cmd.Amount)
	if removed <= 0 {
		reject("nothing was dropped")
		return
	}
	s.deps.Floor.Drop(sess.RoomID, it, removed)
	ack()
	s.broadcastFloor(sess.RoomID)
}

func (s *Service) handlePickup(sess *session.PlayerSession, cmd Command, ack func(), reject func(string)) {
	pile, ok := s.deps.Floor.Pickup(sess.RoomID, cmd.Instance)
	if !ok {
		reject("that is not here")
		return
	}
	placed := sess.Storage.Add(pile.Item, pile.Amount)
	if leftover := pile.Amount - placed; leftover > 0 {
		// Bag full: the remainder stays on the floor as a fresh pile.
		s.deps.Floor.Drop(sess.RoomID, pile.Item, leftover)
	}
	ack()
	s.broadcastFloor(sess.RoomID)
}

func (s *Service) handleTravel(sess *session.PlayerSession, cl *client, cmd Command, reject func(string)) {
	target, err := s.deps.World.Navigate(sess.RoomID, world.Direction(cmd.Direction))
	if err != nil {
		reject(err.Error())
		return
	}
	oldRoom, err := s.deps.Sessions.Move(sess.ID, target.ID)
	if err != nil {
		reject(err.Error())
		return
	}

	s.hub.BroadcastRoom(oldRoom, Info(sess.CharName+" heads "+cmd.Direction+"."))
	s.hub.BroadcastRoom(target.ID, Info(sess.CharName+" arrives."), sess.ID)

	cl.enqueue(RoomMessage{
		Type: MsgRoom,
		Seq:  cmd.Seq,
		Room: roomPayload(target, s.deps.Sessions.NamesInRoom(target.ID)),
	})
	cl.enqueue(FloorMessage{
		Type:  MsgFloor,
		Room:  target.ID,
		Piles: pilesPayload(s.deps.Floor.ItemsIn(target.ID)),
	})
}

func (s *Service) handlePath(sess *session.PlayerSession, cl *client, cmd Command, reject func(string)) {
	if cmd.From == nil || cmd.To == nil {
		reject("path needs from and to points")
		return
	}
	route, err := s.deps.World.Route(sess.RoomID,
		path.Point{Col: cmd.From.Col, Row: cmd.From.Row},
		path.Point{Col: cmd.To.Col, Row: cmd.To.Row},
	)
	if err != nil {
		reject(err.Error())
		return
	}
	points := make([]PointPayload, len(route))
	for i, p := range route {
		points[i] = PointPayload{Col: p.Col, Row: p.Row}
	}
	cl.enqueue(PathMessage{Type: MsgPath, Seq: cmd.Seq, Points: points})
}

// handleSearch rolls the room's drop table, if it has one, and scatters the
// results on the floor.
func (s *Service) handleSearch(sess *session.PlayerSession, cmd Command, ack func(), reject func(string)) {
	room, ok := s.deps.World.GetRoom(sess.RoomID)
	if !ok {
		reject("you are nowhere")
		return
	}
	tableID := room.Properties["loot"]
	if tableID == "" || s.deps.Loot == nil || s.deps.Roller == nil {
		reject("you find nothing")
		return
	}
	table, ok := s.deps.Loot[tableID]
	if !ok {
		reject("you find nothing")
		return
	}

	drops := loot.Generate(*table, s.deps.Roller, s.deps.Items)
	for _, d := range drops {
		s.deps.Floor.Drop(sess.RoomID, d.Item, d.Amount)
	}
	ack()
	if len(drops) > 0 {
		s.broadcastFloor(sess.RoomID)
	}
}

func (s *Service) broadcastFloor(roomID string) {
	msg := FloorMessage{
		Type:  MsgFloor,
		Room:  roomID,
		Piles: pilesPayload(s.deps.Floor.ItemsIn(roomID)),
	}
	s.hub.BroadcastRoom(roomID, msg)
}
