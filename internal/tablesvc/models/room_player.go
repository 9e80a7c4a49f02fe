package models

import "time"

// MaxSeats is the number of seats at a table.
const MaxSeats = 4

type RoomPlayer struct {
	ID        string    `json:"id"`      // Primary key (uuid)
	RoomID    string    `json:"room_id"` // FK to rooms(id)
	UserID    string    `json:"user_id"`
	Nickname  string    `json:"nickname"`
	DeckID    *string   `json:"deck_id"`  // nil until a deck is chosen
	IsReady   bool      `json:"is_ready"` // ready requires a valid deck
	Seat      int       `json:"seat"`     // 1..4, unique per room
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
