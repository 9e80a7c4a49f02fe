package broker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/casillasalejandro22/mtg-table/internal/comm"
	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/models"
)

// cardEvent marshals a real match card row, so the fixture keys match what
// the table service actually publishes.
func cardEvent(t *testing.T, zone, ownerId string) *comm.ChangeEvent {
	t.Helper()

	image, err := json.Marshal(&models.MatchCard{
		ID:          "card-1",
		MatchID:     "match-1",
		OwnerUserID: ownerId,
		DeckID:      "deck-1",
		CardName:    "Sol Ring",
		Zone:        zone,
	})
	assert.NoError(t, err)

	return &comm.ChangeEvent{
		EventType: comm.EventUpdate,
		Table:     "match_cards",
		RoomId:    "room-1",
		New:       image,
	}
}

func TestVisibleToHidesHandFromOthers(t *testing.T) {
	event := cardEvent(t, "hand", "alice")

	assert.True(t, visibleTo(event, "alice"))
	assert.False(t, visibleTo(event, "bob"))
}

func TestVisibleToHidesLibraryFromOthers(t *testing.T) {
	event := cardEvent(t, "library", "alice")

	assert.True(t, visibleTo(event, "alice"))
	assert.False(t, visibleTo(event, "bob"))
}

func TestVisibleToShowsPublicZonesToEveryone(t *testing.T) {
	for _, zone := range []string{"battlefield", "graveyard", "exile", "command"} {
		event := cardEvent(t, zone, "alice")

		assert.True(t, visibleTo(event, "alice"), zone)
		assert.True(t, visibleTo(event, "bob"), zone)
	}
}

func TestVisibleToDeleteFallsBackToOldImage(t *testing.T) {
	event := cardEvent(t, "hand", "alice")
	event.EventType = comm.EventDelete
	event.Old = event.New
	event.New = nil

	assert.True(t, visibleTo(event, "alice"))
	assert.False(t, visibleTo(event, "bob"))
}

func TestVisibleToNonCardTablesArePublic(t *testing.T) {
	event := &comm.ChangeEvent{
		EventType: comm.EventUpdate,
		Table:     "match_players",
		RoomId:    "room-1",
	}

	assert.True(t, visibleTo(event, "anyone"))
}
