package realtime

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/schedule-assistant/internal/metrics"
)

// Hub tracks live connections per session and fans messages out to them.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]map[*Conn]struct{}

	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewHub(m *metrics.Metrics, log *zap.Logger) *Hub {
	return &Hub{
		conns:   make(map[string]map[*Conn]struct{}),
		metrics: m,
		log:     log,
	}
}

// Register wraps an upgraded socket and starts its writer.
func (h *Hub) Register(sessionID string, ws *websocket.Conn) *Conn {
	c := newConn(sessionID, ws)

	h.mu.Lock()
	set, ok := h.conns[sessionID]
	if !ok {
		set = make(map[*Conn]struct{})
		h.conns[sessionID] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()

	h.metrics.IncConnections()
	h.log.Info("ws connected", zap.String("session_id", sessionID))
	return c
}

func (h *Hub) Unregister(c *Conn) {
	c.Close()

	h.mu.Lock()
	set, ok := h.conns[c.SessionID]
	if ok {
		if _, present := set[c]; !present {
			h.mu.Unlock()
			return
		}
		delete(set, c)
		if len(set) == 0 {
			delete(h.conns, c.SessionID)
		}
	}
	h.mu.Unlock()

	if ok {
		h.metrics.DecConnections()
		h.log.Info("ws disconnected", zap.String("session_id", c.SessionID))
	}
}

// Publish sends msg to every connection of sessionID.
func (h *Hub) Publish(sessionID string, msg any) {
	h.mu.RLock()
	targets := make([]*Conn, 0, len(h.conns[sessionID]))
	for c := range h.conns[sessionID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if !c.Send(msg) {
			h.log.Debug("ws send dropped", zap.String("session_id", sessionID))
		}
	}
}

// Connections reports how many sockets are open for sessionID.
func (h *Hub) Connections(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[sessionID])
}

// CloseAll shuts every connection down.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	all := h.conns
	h.conns = make(map[string]map[*Conn]struct{})
	h.mu.Unlock()

	for _, set := range all {
		for c := range set {
			c.Close()
			h.metrics.DecConnections()
		}
	}
}
