package testutil

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// GatewayClient is a websocket test client speaking the gateway's JSON
// protocol. Frames skipped while waiting for a specific type are buffered,
// not discarded, so assertions stay independent of server-side interleaving.
type GatewayClient struct {
	conn    *websocket.Conn
	t       *testing.T
	pending []map[string]json.RawMessage
}

// DialGateway connects to the given websocket URL and returns a test client.
//
// Precondition: url must be a ws:// URL with a listening gateway.
// Postcondition: Returns a connected GatewayClient or fails the test.
func DialGateway(t *testing.T, url string) *GatewayClient {
	t.Helper()
	start := time.Now()

	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing %s: %v [%s]", url, err, time.Since(start))
	}

	t.Cleanup(func() {
		conn.Close()
	})

	t.Logf("gateway client connected to %s [%s]", url, time.Since(start))
	return &GatewayClient{conn: conn, t: t}
}

// Send marshals v as JSON and writes it as a single text frame.
//
// Postcondition: The message is written, or the test fails.
func (c *GatewayClient) Send(v any) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := c.conn.WriteJSON(v); err != nil {
		c.t.Fatalf("sending %+v: %v", v, err)
	}
}

// Recv returns the next frame: buffered first, then fresh off the wire.
//
// Postcondition: Returns the decoded message, or fails on timeout or decode error.
func (c *GatewayClient) Recv(timeout time.Duration) map[string]json.RawMessage {
	c.t.Helper()
	if len(c.pending) > 0 {
		msg := c.pending[0]
		c.pending = c.pending[1:]
		return msg
	}
	return c.read(timeout)
}

// RecvType returns the next frame whose "type" field equals msgType,
// checking buffered frames first and buffering any others read along the
// way. Fails the test if timeout elapses first.
func (c *GatewayClient) RecvType(msgType string, timeout time.Duration) map[string]json.RawMessage {
	c.t.Helper()

	for i, msg := range c.pending {
		if frameType(msg) == msgType {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return msg
		}
	}

	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			c.t.Fatalf("timed out waiting for message type %q", msgType)
		}
		msg := c.read(remaining)
		if frameType(msg) == msgType {
			return msg
		}
		c.pending = append(c.pending, msg)
	}
}

func (c *GatewayClient) read(timeout time.Duration) map[string]json.RawMessage {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))

	var msg map[string]json.RawMessage
	if err := c.conn.ReadJSON(&msg); err != nil {
		c.t.Fatalf("reading message: %v", err)
	}
	return msg
}

func frameType(msg map[string]json.RawMessage) string {
	raw, ok := msg["type"]
	if !ok {
		return ""
	}
	var s string
	_ = json.Unmarshal(raw, &s)
	return s
}

// Close closes the underlying connection.
func (c *GatewayClient) Close() {
	c.conn.Close()
}
