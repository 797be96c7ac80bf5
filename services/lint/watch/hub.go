// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package watch

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/AleutianAI/langcheck/pkg/logging"
	"github.com/AleutianAI/langcheck/services/lint/engine"
	"github.com/AleutianAI/langcheck/services/lint/report"
)

const (
	writeWait      = 5 * time.Second
	clientSendSize = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 64 * 1024,
}

// Event is one message on the /events stream.
type Event struct {
	Type   string             `json:"type"`
	Result *report.JSONReport `json:"result,omitempty"`
}

// Event types.
const (
	EventHello  = "hello"
	EventResult = "result"
)

type client struct {
	conn *websocket.Conn
	send chan Event
}

// Hub fans results out to connected WebSocket clients. A client that
// cannot keep up is disconnected rather than blocking the checker.
//
// Thread Safety: Safe for concurrent use.
type Hub struct {
	logger *logging.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub creates an empty hub.
func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Hub{logger: logger, clients: make(map[*client]struct{})}
}

// Publish implements Publisher.
func (h *Hub) Publish(res *engine.CheckResult) {
	rep := report.NewJSONReport(res)
	ev := Event{Type: EventResult, Result: &rep}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- ev:
		default:
			h.logger.Warn("dropping slow websocket client")
			h.removeLocked(c)
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.removeLocked(c)
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	h.removeLocked(c)
	h.mu.Unlock()
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// HandleEvents upgrades the request and streams results until the
// client goes away.
func (h *Hub) HandleEvents() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ws, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
		if err != nil {
			h.logger.Warn("failed to upgrade the websocket", "error", err)
			return
		}

		c := &client{conn: ws, send: make(chan Event, clientSendSize)}
		c.send <- Event{Type: EventHello}
		h.add(c)
		h.logger.Debug("websocket client connected", "remote", ctx.Request.RemoteAddr)

		go h.writePump(c)
		h.readPump(c)
	}
}

// readPump discards client messages and detects disconnects.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		_ = c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.logger.Debug("websocket client disconnected", "error", err)
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for ev := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(ev); err != nil {
			h.logger.Debug("websocket write failed", "error", err)
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}
