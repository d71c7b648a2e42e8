package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	api "hostpulse/internal/api/application"
	metricsdomain "hostpulse/internal/metrics/domain"
	sharedlogger "hostpulse/internal/shared/logger"
	"hostpulse/pkg/utils"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	defaultSendBuffer = 8
)

type subscriber struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() {
		close(s.send)
	})
}

// Hub fans extended samples out to websocket subscribers. A subscriber
// whose send buffer is full is dropped so the poller never blocks.
type Hub struct {
	logger   sharedlogger.Logger
	upgrader websocket.Upgrader

	mu          sync.RWMutex
	subscribers map[string]*subscriber
	closed      bool
}

var _ metricsdomain.Sink = (*Hub)(nil)

// NewHub creates a hub. allowedOrigin follows the CORS setting: empty keeps
// gorilla's same-origin check, "*" accepts any origin.
func NewHub(logger sharedlogger.Logger, allowedOrigin string) *Hub {
	up := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
	}
	if allowedOrigin != "" {
		up.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowedOrigin == "*" || origin == allowedOrigin
		}
	}

	return &Hub{
		logger:      logger,
		upgrader:    up,
		subscribers: make(map[string]*subscriber),
	}
}

// Count returns the number of connected subscribers
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Emit implements domain.Sink
func (h *Hub) Emit(ctx context.Context, stats metricsdomain.ExtendedStats) error {
	h.mu.RLock()
	if len(h.subscribers) == 0 {
		h.mu.RUnlock()
		return nil
	}
	h.mu.RUnlock()

	data, err := json.Marshal(api.ToExtendedStatsResponse(stats, nil))
	if err != nil {
		return fmt.Errorf("failed to encode sample: %w", err)
	}

	var slow []string
	h.mu.RLock()
	for id, sub := range h.subscribers {
		select {
		case sub.send <- data:
		default:
			slow = append(slow, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range slow {
		h.logger.Warn("Dropping slow stream subscriber", "subscriber", id)
		h.remove(id)
	}
	return nil
}

// ServeHTTP upgrades the request and streams samples until the client leaves
// @Summary      Stream extended stats
// @Description  Upgrade to WebSocket; every poll tick pushes one extended stats object
// @Tags         stats
// @Success      101
// @Router       /stream [get]
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.logger.Debug("Stream upgrade failed", "err", err)
		return
	}

	sub := &subscriber{
		id:   utils.NewSubscriberID(),
		conn: conn,
		send: make(chan []byte, defaultSendBuffer),
	}
	if !h.add(sub) {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}
	h.logger.Info("Stream subscriber connected", "subscriber", sub.id, "remote", r.RemoteAddr)

	go h.writePump(sub)
	h.readPump(sub)

	h.remove(sub.id)
	h.logger.Info("Stream subscriber disconnected", "subscriber", sub.id)
}

// Close disconnects every subscriber and refuses new ones
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	subs := make([]*subscriber, 0, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs = append(subs, sub)
		delete(h.subscribers, id)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}
}

func (h *Hub) add(sub *subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.subscribers[sub.id] = sub
	return true
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	delete(h.subscribers, id)
	h.mu.Unlock()

	if ok {
		sub.close()
	}
}

// readPump discards client messages and keeps the read deadline alive via pongs.
func (h *Hub) readPump(sub *subscriber) {
	sub.conn.SetReadLimit(maxMessageSize)
	sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("Stream read error", "subscriber", sub.id, "err", err)
			}
			return
		}
	}
}

// writePump owns all writes to the connection
func (h *Hub) writePump(sub *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-sub.send:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				sub.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := sub.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
