package broker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/casillasalejandro22/mtg-table/internal/comm"
	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/models"
	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/service"
)

// Subjects. Change events go out per room; command round trips with the
// socket service use a request topic and a response topic.
const (
	TopicSocketCommands = "socket.service"
	TopicSocketOut      = "table.service"
	roomSubjectPrefix   = "table.room."
)

// Broker publishes committed row changes for the socket service to fan out,
// and answers socket-originated commands (room subscriptions).
type Broker struct {
	Conn         *nats.Conn
	RoomService  *service.RoomService
	MatchService *service.MatchService
	ZoneService  *service.ZoneService
}

func NewBroker(nc *nats.Conn, roomService *service.RoomService, matchService *service.MatchService, zoneService *service.ZoneService) *Broker {
	return &Broker{
		Conn:         nc,
		RoomService:  roomService,
		MatchService: matchService,
		ZoneService:  zoneService,
	}
}

// SubscribeSocketService consumes commands relayed by the socket service.
func (b *Broker) SubscribeSocketService() (*nats.Subscription, error) {
	return b.Conn.Subscribe(TopicSocketCommands, b.handleMessage)
}

func (b *Broker) handleMessage(msgNat *nats.Msg) {
	msg := &comm.WSMessage{}
	if err := json.Unmarshal(msgNat.Data, &msg); err != nil {
		log.Errorf("Error nats message %s", err)
		return
	}

	switch msg.Type {
	case "subscribe-room":
		var request comm.SubscribeRoom
		if err := json.Unmarshal(msg.Data, &request); err != nil {
			log.Errorf("Error unmarshalling subscribe-room: %s", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		snapshot, err := b.buildSnapshot(ctx, request.Pin, request.UserId)
		if err != nil {
			log.Errorf("Error [Broker.buildSnapshot] pin %s: %s", request.Pin, err)
			b.publishSubscribeError(request.Pin, err, msg.SocketId)
			return
		}

		b.publishSnapshot(snapshot, msg.SocketId)
	default:
		log.Warnf("unknown command received: %s", msg.Type)
	}
}

// buildSnapshot assembles the room state a freshly subscribed client needs:
// seats, the live match and its counters, and the subscriber's own hand.
func (b *Broker) buildSnapshot(ctx context.Context, pin, userID string) (*comm.RoomSnapshot, error) {
	room, err := b.RoomService.GetByPin(ctx, pin)
	if err != nil {
		return nil, err
	}

	players, err := b.RoomService.ListPlayers(ctx, room.ID)
	if err != nil {
		return nil, err
	}

	snapshot := &comm.RoomSnapshot{Room: room, Players: players, UserId: userID}

	if room.Status == models.RoomStarted {
		match, seats, battlefield, hand, err := b.MatchService.Snapshot(ctx, room.ID, userID)
		if err != nil {
			return nil, err
		}
		snapshot.Match = match
		snapshot.MatchSeats = seats
		snapshot.Battlefield = battlefield
		snapshot.Hand = hand
	}

	return snapshot, nil
}

func (b *Broker) publishSnapshot(snapshot *comm.RoomSnapshot, socketId string) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		log.Errorf("[publishSnapshot] unable to marshal snapshot for room %s", snapshot.Room.ID)
		return
	}

	msg := &comm.WSMessage{
		Type:     "room-snapshot-response",
		Data:     data,
		SocketId: socketId,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Error %s", err)
		return
	}

	b.Publish(TopicSocketOut, payload)
}

func (b *Broker) publishSubscribeError(pin string, cause error, socketId string) {
	data, err := json.Marshal(comm.SubscribeError{Pin: pin, Reason: cause.Error()})
	if err != nil {
		log.Errorf("Error %s", err)
		return
	}

	msg := &comm.WSMessage{
		Type:     "subscribe-room-error",
		Data:     data,
		SocketId: socketId,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Error %s", err)
		return
	}

	b.Publish(TopicSocketOut, payload)
}

// RoomSubject is the per-room change event channel.
func RoomSubject(roomID string) string {
	return roomSubjectPrefix + roomID
}

// publishChange emits one committed row change on the room's channel.
// NATS preserves publish order per connection, so observers see changes in
// commit order within a channel.
func (b *Broker) publishChange(roomID, matchID, eventType, table string, newRow, oldRow interface{}) {
	event := comm.ChangeEvent{
		EventType: eventType,
		Table:     table,
		RoomId:    roomID,
		MatchId:   matchID,
	}

	var err error
	if newRow != nil {
		if event.New, err = json.Marshal(newRow); err != nil {
			log.Errorf("[publishChange] unable to marshal new image for %s: %s", table, err)
			return
		}
	}
	if oldRow != nil {
		if event.Old, err = json.Marshal(oldRow); err != nil {
			log.Errorf("[publishChange] unable to marshal old image for %s: %s", table, err)
			return
		}
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Errorf("Error %s", err)
		return
	}

	b.Publish(RoomSubject(roomID), payload)
}

func (b *Broker) PublishRoomUpdate(room *models.Room) {
	b.publishChange(room.ID, "", comm.EventUpdate, "rooms", room, nil)
}

func (b *Broker) PublishRoomPlayerInsert(p *models.RoomPlayer) {
	b.publishChange(p.RoomID, "", comm.EventInsert, "room_players", p, nil)
}

func (b *Broker) PublishRoomPlayerUpdate(p *models.RoomPlayer) {
	b.publishChange(p.RoomID, "", comm.EventUpdate, "room_players", p, nil)
}

func (b *Broker) PublishRoomPlayerDelete(p *models.RoomPlayer) {
	b.publishChange(p.RoomID, "", comm.EventDelete, "room_players", nil, p)
}

func (b *Broker) PublishMatchInsert(roomID string, m *models.Match) {
	b.publishChange(roomID, m.ID, comm.EventInsert, "matches", m, nil)
}

func (b *Broker) PublishMatchUpdate(roomID string, m *models.Match) {
	b.publishChange(roomID, m.ID, comm.EventUpdate, "matches", m, nil)
}

func (b *Broker) PublishMatchPlayerUpdate(roomID string, p *models.MatchPlayer) {
	b.publishChange(roomID, p.MatchID, comm.EventUpdate, "match_players", p, nil)
}

func (b *Broker) PublishMatchPlayerInsert(roomID string, p *models.MatchPlayer) {
	b.publishChange(roomID, p.MatchID, comm.EventInsert, "match_players", p, nil)
}

func (b *Broker) PublishMatchCardInsert(roomID string, c *models.MatchCard) {
	b.publishChange(roomID, c.MatchID, comm.EventInsert, "match_cards", c, nil)
}

// PublishMatchCardMove emits an UPDATE carrying both images so observers
// can tell which zone the card left.
func (b *Broker) PublishMatchCardMove(roomID string, oldCard, newCard *models.MatchCard) {
	b.publishChange(roomID, newCard.MatchID, comm.EventUpdate, "match_cards", newCard, oldCard)
}

func (b *Broker) Publish(topic string, payload []byte) error {
	err := b.Conn.Publish(topic, payload)
	if err != nil {
		log.Errorf("Error publishing to topic %s: %s", topic, err)
		return err
	}

	return nil
}
