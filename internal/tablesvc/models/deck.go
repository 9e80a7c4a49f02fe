package models

import "time"

type Deck struct {
	ID        string    `json:"id"`      // Primary key (uuid)
	UserID    string    `json:"user_id"` // Owner
	Name      string    `json:"name"`
	ListText  string    `json:"list_text"` // Raw import text, kept for editing
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeckCard is one row of a deck list. Card identity within a deck is the
// card name, so a deck holds at most one row per name.
type DeckCard struct {
	DeckID          string  `json:"deck_id"`
	CardName        string  `json:"card_name"`
	Count           int     `json:"count"` // >= 1
	IsCommander     bool    `json:"is_commander"`
	SetCode         *string `json:"set_code"`
	CollectorNumber *string `json:"collector_number"`
}
