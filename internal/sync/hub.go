package sync

import (
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 2 * time.Second

// Hub fans cart and favorites events out to every connected TCP and
// WebSocket session so a change on one device shows up on the user's
// others. Dead connections are dropped on the first failed write.
type Hub struct {
	mu        sync.Mutex
	tcpConns  map[net.Conn]struct{}
	wsConns   map[*websocket.Conn]struct{}
	broadcast uint64
}

type Stats struct {
	TCPClients int    `json:"tcp_clients"`
	WSClients  int    `json:"ws_clients"`
	Broadcasts uint64 `json:"broadcasts"`
}

// welcomeMsg is the first line every new session receives.
type welcomeMsg struct {
	Type      string   `json:"type"`
	Message   string   `json:"message"`
	Transport string   `json:"transport"`
	Stats     Stats    `json:"stats"`
	Events    []string `json:"events"`
}

func NewHub() *Hub {
	return &Hub{
		tcpConns: make(map[net.Conn]struct{}),
		wsConns:  make(map[*websocket.Conn]struct{}),
	}
}

func (h *Hub) Add(conn net.Conn) {
	h.mu.Lock()
	h.tcpConns[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Remove(conn net.Conn) {
	h.mu.Lock()
	delete(h.tcpConns, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

func (h *Hub) AddWS(ws *websocket.Conn) {
	h.mu.Lock()
	h.wsConns[ws] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) RemoveWS(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.wsConns, ws)
	h.mu.Unlock()
	_ = ws.Close()
}

func (h *Hub) BroadcastJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	line := append(b, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcast++

	for conn := range h.tcpConns {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if _, err := conn.Write(line); err != nil {
			_ = conn.Close()
			delete(h.tcpConns, conn)
		}
	}
	for ws := range h.wsConns {
		if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
			_ = ws.Close()
			delete(h.wsConns, ws)
		}
	}
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.statsLocked()
}

func (h *Hub) statsLocked() Stats {
	return Stats{
		TCPClients: len(h.tcpConns),
		WSClients:  len(h.wsConns),
		Broadcasts: h.broadcast,
	}
}

func (h *Hub) welcome(transport string) []byte {
	h.mu.Lock()
	stats := h.statsLocked()
	h.mu.Unlock()

	msg := welcomeMsg{
		Type:      "welcome",
		Message:   "connected to store sync",
		Transport: transport,
		Stats:     stats,
		Events: []string{
			EventCartUpdate,
			EventCartRemove,
			EventCartCheckout,
			EventFavoriteAdd,
			EventFavoriteRemove,
		},
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return nil
	}
	return append(b, '\n')
}

func (h *Hub) Welcome(conn net.Conn) {
	if b := h.welcome("tcp"); b != nil {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		_, _ = conn.Write(b)
	}
}

func (h *Hub) WelcomeWS(ws *websocket.Conn) {
	if b := h.welcome("websocket"); b != nil {
		_ = ws.WriteMessage(websocket.TextMessage, b)
	}
}
