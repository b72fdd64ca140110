package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/selivandex/pulsebrief/internal/brief"
	"github.com/selivandex/pulsebrief/internal/pulse"
	"github.com/selivandex/pulsebrief/pkg/daykey"
	"github.com/selivandex/pulsebrief/pkg/logger"
)

// Message types pushed to stream clients
const (
	MessageMarketPulse = "market_pulse"
	MessageDailyBrief  = "daily_brief"
)

const writeTimeout = 5 * time.Second

// Message is one frame of the live feed
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Hub fans newly stored content out to WebSocket clients. It satisfies the
// workers' brief and pulse publishers.
type Hub struct {
	upgrader websocket.Upgrader
	clients  map[*websocket.Conn]*sync.Mutex
	mu       sync.RWMutex
	location func() *time.Location
}

// NewHub creates empty hub. location fixes the calendar of brief day keys and
// may be nil for the local zone.
func NewHub(location func() *time.Location) *Hub {
	if location == nil {
		location = func() *time.Location { return time.Local }
	}
	return &Hub{
		location: location,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// ServeHTTP upgrades the request and holds the connection until the client leaves
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("failed to upgrade websocket", zap.Error(err))
		return
	}

	h.mu.Lock()
	h.clients[conn] = &sync.Mutex{}
	total := len(h.clients)
	h.mu.Unlock()

	logger.Debug("stream client connected",
		zap.String("remote", r.RemoteAddr),
		zap.Int("clients", total),
	)

	// Clients never send anything meaningful; reading detects close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(conn)
}

// Clients returns number of connected clients
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// PublishPulse pushes a stored pulse update to every client
func (h *Hub) PublishPulse(ctx context.Context, rec pulse.Record) error {
	return h.broadcast(Message{Type: MessageMarketPulse, Payload: NewPulseView(rec)})
}

// PublishBrief pushes a stored brief to every client
func (h *Hub) PublishBrief(ctx context.Context, rec brief.Record) error {
	return h.broadcast(Message{Type: MessageDailyBrief, Payload: BriefView{
		ID:      rec.ID,
		Date:    rec.Date.UnixNano(),
		DayKey:  daykey.DayKey(rec.Date.In(h.location())),
		Content: rec.Content,
	}})
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, mu := range h.clients {
		mu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
			time.Now().Add(time.Second))
		mu.Unlock()
		conn.Close()
		delete(h.clients, conn)
	}
}

func (h *Hub) broadcast(msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal %s message: %w", msg.Type, err)
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	mutexes := make([]*sync.Mutex, 0, len(h.clients))
	for conn, mu := range h.clients {
		conns = append(conns, conn)
		mutexes = append(mutexes, mu)
	}
	h.mu.RUnlock()

	var failed []*websocket.Conn
	for i, conn := range conns {
		mu := mutexes[i]
		mu.Lock()
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		err := conn.WriteMessage(websocket.TextMessage, data)
		mu.Unlock()

		if err != nil {
			logger.Warn("failed to send to stream client",
				zap.String("type", msg.Type),
				zap.Error(err),
			)
			failed = append(failed, conn)
		}
	}

	for _, conn := range failed {
		h.remove(conn)
	}

	return nil
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()

	if ok {
		conn.Close()
	}
}
