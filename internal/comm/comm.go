package comm

import (
	"encoding/json"

	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/models"
)

// WSMessage is the envelope for every message moving between a web client,
// the socket service and the table service.
type WSMessage struct {
	Type     string          `json:"type"` // e.g. "subscribe-room", "room-snapshot-response"
	Data     json.RawMessage `json:"data"`
	SocketId string          `json:"socketid"`
}

// Change event types, mirroring the row operations they describe.
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// ChangeEvent is one committed row-level change. RoomId is always set and is
// what the socket service routes on; MatchId is set for match-scoped tables.
// New is nil for deletes, Old is nil for inserts.
type ChangeEvent struct {
	EventType string          `json:"eventType"` // INSERT | UPDATE | DELETE
	Table     string          `json:"table"`
	RoomId    string          `json:"room_id"`
	MatchId   string          `json:"match_id,omitempty"`
	New       json.RawMessage `json:"new"`
	Old       json.RawMessage `json:"old"`
}

// SubscribeRoom is sent by a web client right after connecting, to attach
// its socket to a room channel.
type SubscribeRoom struct {
	Pin    string `json:"pin"`
	UserId string `json:"user_id"`
}

// RoomSnapshot answers a subscribe-room round trip with the full visible
// state of the room: seats, the live match if any, and the requesting
// player's own hand (never anyone else's).
type RoomSnapshot struct {
	Room        *models.Room          `json:"room"`
	Players     []*models.RoomPlayer  `json:"players"`
	Match       *models.Match         `json:"match,omitempty"`
	MatchSeats  []*models.MatchPlayer `json:"match_seats,omitempty"`
	Hand        []*models.MatchCard   `json:"hand,omitempty"`
	UserId      string                `json:"user_id"`
	Battlefield []*models.MatchCard   `json:"battlefield,omitempty"`
}

// SubscribeError tells a socket why its subscribe-room was refused.
type SubscribeError struct {
	Pin    string `json:"pin"`
	Reason string `json:"reason"`
}
