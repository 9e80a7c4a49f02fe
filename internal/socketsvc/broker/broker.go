package broker

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/casillasalejandro22/mtg-table/internal/comm"
)

// Broker bridges NATS and the websocket edge. Snapshot responses from the
// table service are routed to the requesting socket; committed row changes
// fan out to every socket subscribed to the room. All sends go through
// WriteJSON, which serializes writers per connection: the two subscriptions
// deliver on separate goroutines and may target the same socket.
type Broker struct {
	Conn           *nats.Conn
	WriteJSON      func(socketId string, v interface{}) error
	GetRoomSockets func(string) ([]string, bool)
	GetUser        func(string) (string, bool)
	StoreRoom      func(socketId, roomId string)
}

func NewBroker(conn *nats.Conn,
	fncWriteJSON func(socketId string, v interface{}) error,
	fncGetRoomSockets func(string) ([]string, bool),
	fncGetUser func(string) (string, bool),
	fncStoreRoom func(socketId, roomId string)) *Broker {
	return &Broker{
		Conn:           conn,
		WriteJSON:      fncWriteJSON,
		GetRoomSockets: fncGetRoomSockets,
		GetUser:        fncGetUser,
		StoreRoom:      fncStoreRoom,
	}
}

// Subscribe consumes directed messages from the table service.
func (b *Broker) Subscribe(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleMessages)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// SubscribeRoomEvents consumes row change events for every room.
func (b *Broker) SubscribeRoomEvents() (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe("table.room.>", b.handleChangeEvent)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (b *Broker) Publish(topic string, payload []byte) error {
	err := b.Conn.Publish(topic, payload)
	if err != nil {
		log.Errorf("Error publishing to topic %s: %s", topic, err)
		return err
	}

	return nil
}

// handleMessages receives directed messages from the table service.
func (b *Broker) handleMessages(msgNats *nats.Msg) {
	message := &comm.WSMessage{}
	err := json.Unmarshal(msgNats.Data, &message)
	if err != nil {
		log.Errorf("Error %s", err)
		return
	}

	switch message.Type {
	case "room-snapshot-response":
		b.registerRoom(message)
		b.sendMessage(message)
	case "subscribe-room-error":
		b.sendMessage(message)
	default:
		log.Error("Unknown message")
		return
	}
}

// registerRoom binds the socket to the room the snapshot resolved, so later
// change events reach it.
func (b *Broker) registerRoom(m *comm.WSMessage) {
	var snapshot comm.RoomSnapshot
	if err := json.Unmarshal(m.Data, &snapshot); err != nil {
		log.Errorf("Error unmarshalling room snapshot: %s", err)
		return
	}
	if snapshot.Room == nil {
		log.Error("room snapshot carries no room")
		return
	}

	b.StoreRoom(m.SocketId, snapshot.Room.ID)
}

// cardImage is the slice of a match_cards row the visibility rule needs.
type cardImage struct {
	OwnerUserID string `json:"owner_user_id"`
	Zone        string `json:"zone"`
}

// visibleTo decides whether one change event may reach the given user.
// Hands and libraries are private: a match_cards row whose new image sits
// in a hidden zone goes only to its owner. Everything else is public.
func visibleTo(event *comm.ChangeEvent, userId string) bool {
	if event.Table != "match_cards" {
		return true
	}

	image := event.New
	if len(image) == 0 {
		image = event.Old
	}

	var card cardImage
	if err := json.Unmarshal(image, &card); err != nil {
		log.Errorf("Error unmarshalling match_cards image: %s", err)
		return false
	}

	if card.Zone == "hand" || card.Zone == "library" {
		return card.OwnerUserID == userId
	}
	return true
}

// handleChangeEvent fans one committed row change out to the room's
// subscribed sockets, withholding hidden-zone card rows from non-owners.
func (b *Broker) handleChangeEvent(msgNats *nats.Msg) {
	event := &comm.ChangeEvent{}
	if err := json.Unmarshal(msgNats.Data, &event); err != nil {
		log.Errorf("Error %s", err)
		return
	}

	sockets, ok := b.GetRoomSockets(event.RoomId)
	if !ok {
		return
	}

	msg := &comm.WSMessage{
		Type: "room-change",
		Data: msgNats.Data,
	}

	for _, socketId := range sockets {
		userId, ok := b.GetUser(socketId)
		if !ok {
			continue
		}
		if !visibleTo(event, userId) {
			continue
		}

		msg.SocketId = socketId
		b.sendMessage(msg)
	}
}

// send socket message to the web client
func (b *Broker) sendMessage(m *comm.WSMessage) {
	if err := b.WriteJSON(m.SocketId, m); err != nil {
		log.Errorf("Error writing to socket %s: %s", m.SocketId, err)
	}
}
