package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/casillasalejandro22/mtg-table/internal/comm"
	"github.com/casillasalejandro22/mtg-table/internal/socketsvc/broker"
)

type Ws struct {
	connMap sync.Map // socketId -> *client
	roomMap sync.Map // socketId -> roomId
	userMap sync.Map // socketId -> userId
	Broker  *broker.Broker
}

// client pairs a connection with its write lock. gorilla/websocket allows
// only one concurrent writer, and both NATS subscriptions deliver on their
// own goroutines.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func NewWs() *Ws {
	return &Ws{}
}

// handle socket message from web clients
func (s *Ws) SocketMessage(socketId string, message *comm.WSMessage) {
	switch message.Type {
	case "subscribe-room":
		s.handleSubscribeRoom(socketId, message)
	default:
		log.Warnf("unknown event received: %s", message.Type)
	}
}

// handleSubscribeRoom relays a room subscription to the table service. The
// room mapping is stored only once the snapshot response confirms the pin
// resolved to a real room.
func (s *Ws) handleSubscribeRoom(socketId string, msg *comm.WSMessage) {
	var payload comm.SubscribeRoom
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		log.Errorf("Error: malformed subscribe-room payload %s", err)
		return
	}

	if payload.Pin == "" || payload.UserId == "" {
		log.Error("Invalid subscribe-room payload: missing pin or user_id")
		return
	}

	s.StoreUser(socketId, payload.UserId)

	msg.SocketId = socketId

	bytes, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Failed to marshal WSMessage for NATS: %v", err)
		return
	}

	topic := "socket.service"
	if err := s.Broker.Publish(topic, bytes); err != nil {
		log.Errorf("Failed to publish to NATS topic %s: %v", topic, err)
		return
	}

	log.Infof("Relayed subscribe-room for pin %s to topic %s", payload.Pin, topic)
}

func (s *Ws) StoreConnection(socketId string, conn *websocket.Conn) {
	s.connMap.Store(socketId, &client{conn: conn})
}

// WriteJSON sends one message to a socket, holding its write lock for the
// duration. A socket that already disconnected is not an error.
func (s *Ws) WriteJSON(socketId string, v interface{}) error {
	value, ok := s.connMap.Load(socketId)
	if !ok {
		return nil
	}

	c := value.(*client)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (s *Ws) StoreRoom(socketId string, roomId string) {
	s.roomMap.Store(socketId, roomId)
}

func (s *Ws) GetRoom(socketId string) (string, bool) {
	room, ok := s.roomMap.Load(socketId)
	if !ok {
		return "", false
	}
	return room.(string), true
}

func (s *Ws) StoreUser(socketId string, userId string) {
	s.userMap.Store(socketId, userId)
}

func (s *Ws) GetUser(socketId string) (string, bool) {
	user, ok := s.userMap.Load(socketId)
	if !ok {
		return "", false
	}
	return user.(string), true
}

func (s *Ws) GetRoomSockets(roomId string) ([]string, bool) {
	var sockets []string
	found := false

	s.roomMap.Range(func(key, value interface{}) bool {
		if value.(string) == roomId {
			sockets = append(sockets, key.(string))
			found = true
		}
		return true // continue iterating
	})

	return sockets, found
}

func (s *Ws) HandleDisconnect(socketId string) {
	s.connMap.Delete(socketId)
	s.roomMap.Delete(socketId)
	s.userMap.Delete(socketId)
}
