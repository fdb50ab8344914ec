package gateway

import (
	"sync"

	"go.uber.org/zap"

	"github.com/undercroft-game/undercroft/internal/game/session"
)

// Hub tracks connected clients by session ID and routes outbound frames:
// targeted sends to one session, broadcasts to everyone in a room.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*client
	sessions *session.Manager
	logger   *zap.Logger
}

// NewHub creates a Hub resolving room membership through sessions.
//
// Precondition: sessions must be non-nil.
func NewHub(sessions *session.Manager, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:  make(map[string]*client),
		sessions: sessions,
		logger:   logger,
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c.sessionID] = c
	h.mu.Unlock()
	h.logger.Debug("gateway: client registered", zap.String("session", c.sessionID))
}

func (h *Hub) unregister(sessionID string) {
	h.mu.Lock()
	c, ok := h.clients[sessionID]
	delete(h.clients, sessionID)
	h.mu.Unlock()
	if ok {
		c.close()
		h.logger.Debug("gateway: client unregistered", zap.String("session", sessionID))
	}
}

// SendTo queues a frame for one session. Unknown sessions are ignored.
func (h *Hub) SendTo(sessionID string, v any) {
	h.mu.RLock()
	c, ok := h.clients[sessionID]
	h.mu.RUnlock()
	if ok {
		c.enqueue(v)
	}
}

// BroadcastRoom queues a frame for every session in the room, except those
// listed in exclude.
func (h *Hub) BroadcastRoom(roomID string, v any, exclude ...string) {
	skip := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}
	for _, id := range h.sessions.SessionsInRoom(roomID) {
		if skip[id] {
			continue
		}
		h.SendTo(id, v)
	}
}

// ClientCount reports the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
