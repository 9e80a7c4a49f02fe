package models

import "time"

// Match statuses.
const (
	MatchActive = "active"
	MatchEnded  = "ended"
)

// StartingLife is the commander format starting total.
const StartingLife = 40

type Match struct {
	ID        string    `json:"id"`      // Primary key (uuid)
	RoomID    string    `json:"room_id"` // FK to rooms(id)
	Status    string    `json:"status"`  // 'active', 'ended'
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MatchPlayer is the per-seat snapshot taken when a match starts. The zone
// counters are a cache of match_cards membership and are updated in the
// same transaction as every card move.
type MatchPlayer struct {
	MatchID        string `json:"match_id"`
	UserID         string `json:"user_id"`
	Seat           int    `json:"seat"`
	Life           int    `json:"life"`
	DeckID         string `json:"deck_id"`
	HandCount      int    `json:"hand_count"`
	LibraryCount   int    `json:"library_count"`
	GraveyardCount int    `json:"graveyard_count"`
	ExileCount     int    `json:"exile_count"`
}
