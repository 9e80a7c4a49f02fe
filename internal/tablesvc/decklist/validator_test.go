package decklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/models"
)

func deckWith(commanders int, commanderCount int, mainTotal int) []*models.DeckCard {
	var cards []*models.DeckCard
	for i := 0; i < commanders; i++ {
		cards = append(cards, &models.DeckCard{CardName: "Commander", IsCommander: true, Count: commanderCount})
	}
	// spread the main total over a basic-land row plus singletons
	if mainTotal > 0 {
		basics := mainTotal / 2
		cards = append(cards, &models.DeckCard{CardName: "Swamp", Count: basics})
		for i := 0; i < mainTotal-basics; i++ {
			cards = append(cards, &models.DeckCard{CardName: "Spell", Count: 1})
		}
	}
	return cards
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cards   []*models.DeckCard
		wantErr string
	}{
		{name: "valid commander deck", cards: deckWith(1, 1, 99)},
		{name: "no commander", cards: deckWith(0, 0, 99), wantErr: "no commander"},
		{name: "two commander rows", cards: deckWith(2, 1, 98), wantErr: "commander rows"},
		{name: "commander count above one", cards: deckWith(1, 2, 99), wantErr: "commander count"},
		{name: "main deck short", cards: deckWith(1, 1, 98), wantErr: "main deck"},
		{name: "main deck long", cards: deckWith(1, 1, 100), wantErr: "main deck"},
		{name: "empty deck", cards: nil, wantErr: "no commander"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cards)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.True(t, IsValid(tt.cards))
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.False(t, IsValid(tt.cards))
		})
	}
}
