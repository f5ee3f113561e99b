package sync

import (
	"bufio"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLine(t *testing.T, conn net.Conn) []byte {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := bufio.NewReader(conn).ReadBytes('\n')
	require.NoError(t, err)
	return line
}

func TestHubWelcomeDescribesStoreStream(t *testing.T) {
	hub := NewHub()
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	go hub.Welcome(server)

	var msg struct {
		Type      string   `json:"type"`
		Transport string   `json:"transport"`
		Events    []string `json:"events"`
		Stats     Stats    `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(readLine(t, client), &msg))

	assert.Equal(t, "welcome", msg.Type)
	assert.Equal(t, "tcp", msg.Transport)
	assert.Contains(t, msg.Events, EventCartUpdate)
	assert.Contains(t, msg.Events, EventFavoriteRemove)
	assert.Equal(t, 0, msg.Stats.TCPClients)
}

func TestHubBroadcastReachesEveryClient(t *testing.T) {
	hub := NewHub()

	var clients []net.Conn
	for i := 0; i < 2; i++ {
		server, client := net.Pipe()
		defer server.Close()
		defer client.Close()
		hub.Add(server)
		clients = append(clients, client)
	}

	got := make(chan CartEvent, len(clients))
	for _, c := range clients {
		go func(c net.Conn) {
			_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
			line, err := bufio.NewReader(c).ReadBytes('\n')
			if err != nil {
				return
			}
			var ev CartEvent
			if json.Unmarshal(line, &ev) == nil {
				got <- ev
			}
		}(c)
	}

	hub.BroadcastJSON(CartEvent{Type: EventCartUpdate, UserID: "u1", GameID: "g1", Quantity: 2})

	for range clients {
		select {
		case ev := <-got:
			assert.Equal(t, EventCartUpdate, ev.Type)
			assert.Equal(t, "g1", ev.GameID)
		case <-time.After(3 * time.Second):
			t.Fatal("broadcast did not reach a client")
		}
	}
	assert.Equal(t, uint64(1), hub.Stats().Broadcasts)
}

func TestHubDropsDeadConnections(t *testing.T) {
	hub := NewHub()
	server, client := net.Pipe()
	hub.Add(server)
	require.Equal(t, 1, hub.Stats().TCPClients)

	_ = client.Close()
	_ = server.Close()
	hub.BroadcastJSON(CartEvent{Type: EventCartRemove, UserID: "u1"})

	assert.Equal(t, 0, hub.Stats().TCPClients)
}
