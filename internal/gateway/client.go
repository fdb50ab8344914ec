package gateway

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// client owns one websocket connection. Outbound frames go through a
// buffered queue drained by a single writer goroutine; the read loop stays
// on the connection's handler goroutine.
type client struct {
	sessionID string
	conn      *websocket.Conn
	send      chan []byte
	logger    *zap.Logger

	writeTimeout time.Duration

	closeOnce sync.Once
	done      chan struct{}
}

func newClient(sessionID string, conn *websocket.Conn, queueDepth int, writeTimeout time.Duration, logger *zap.Logger) *client {
	if queueDepth <= 0 {
		queueDepth = 64
	}
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	c := &client{
		sessionID:    sessionID,
		conn:         conn,
		send:         make(chan []byte, queueDepth),
		logger:       logger,
		writeTimeout: writeTimeout,
		done:         make(chan struct{}),
	}
	go c.writeLoop()
	return c
}

// enqueue marshals v and queues it for delivery. A full queue drops the
// frame: a stalled client must not block the game loop.
func (c *client) enqueue(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Error("gateway: marshaling outbound frame",
			zap.String("session", c.sessionID), zap.Error(err))
		return
	}
	select {
	case c.send <- data:
	case <-c.done:
	default:
		c.logger.Warn("gateway: outbound queue full, dropping frame",
			zap.String("session", c.sessionID))
	}
}

func (c *client) writeLoop() {
	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Debug("gateway: write failed, closing client",
					zap.String("session", c.sessionID), zap.Error(err))
				c.close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// close shuts the writer down and closes the connection. Safe to call more
// than once and from any goroutine.
func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}
