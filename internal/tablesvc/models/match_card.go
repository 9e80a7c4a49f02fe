package models

// Zones a card instance can occupy.
const (
	ZoneLibrary     = "library"
	ZoneHand        = "hand"
	ZoneBattlefield = "battlefield"
	ZoneGraveyard   = "graveyard"
	ZoneExile       = "exile"
	ZoneCommand     = "command"
)

// MatchCard is one physical card instance at the table. Decks with count>1
// rows expand into that many instances. LibraryIndex is set only while the
// card sits in the library: a dense 1..N permutation per owner, 1 = top.
// The commander's command-zone row never enters the index space.
type MatchCard struct {
	ID              string  `json:"id"` // Primary key (uuid)
	MatchID         string  `json:"match_id"`
	OwnerUserID     string  `json:"owner_user_id"`
	DeckID          string  `json:"deck_id"`
	CardName        string  `json:"card_name"`
	SetCode         *string `json:"set_code"`
	CollectorNumber *string `json:"collector_number"`
	Zone            string  `json:"zone"`
	LibraryIndex    *int    `json:"library_index"`
}
