package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialSocket upgrades one loopback connection, registers its server side
// under socketId, and returns the client side for reading.
func dialSocket(t *testing.T, s *Ws, socketId string) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	registered := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		s.StoreConnection(socketId, conn)
		close(registered)
	}))
	t.Cleanup(srv.Close)

	clientConn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { clientConn.Close() })

	<-registered
	return clientConn
}

// Both NATS subscriptions can target the same socket from their own
// goroutines; every message must still arrive intact.
func TestWriteJSONSerializesConcurrentWriters(t *testing.T) {
	s := NewWs()
	clientConn := dialSocket(t, s, "sock-1")

	const writers = 8
	const perWriter = 25

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				assert.NoError(t, s.WriteJSON("sock-1", map[string]string{"type": "room-change"}))
			}
		}()
	}

	for received := 0; received < writers*perWriter; received++ {
		var msg map[string]string
		require.NoError(t, clientConn.ReadJSON(&msg))
		assert.Equal(t, "room-change", msg["type"])
	}
	wg.Wait()
}

func TestWriteJSONUnknownSocket(t *testing.T) {
	s := NewWs()

	assert.NoError(t, s.WriteJSON("gone", map[string]string{"type": "room-change"}))
}

func TestHandleDisconnectDropsRegistrations(t *testing.T) {
	s := NewWs()
	dialSocket(t, s, "sock-1")
	s.StoreRoom("sock-1", "room-1")
	s.StoreUser("sock-1", "alice")

	s.HandleDisconnect("sock-1")

	_, ok := s.GetRoom("sock-1")
	assert.False(t, ok)
	_, ok = s.GetUser("sock-1")
	assert.False(t, ok)
	sockets, _ := s.GetRoomSockets("room-1")
	assert.Empty(t, sockets)
}
