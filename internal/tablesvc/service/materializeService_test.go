package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/models"
)

func commanderDeckRows() []*models.DeckCard {
	rows := []*models.DeckCard{
		{CardName: "Atraxa, Praetors' Voice", Count: 1, IsCommander: true},
		{CardName: "Swamp", Count: 40},
	}
	for i := 0; i < 59; i++ {
		rows = append(rows, &models.DeckCard{CardName: "Spell", Count: 1})
	}
	return rows
}

func TestExpandDeck(t *testing.T) {
	library, commander := expandDeck("m1", "u1", "d1", commanderDeckRows())

	require.NotNil(t, commander)
	assert.Equal(t, models.ZoneCommand, commander.Zone)
	assert.Nil(t, commander.LibraryIndex, "commander never enters the index space")
	assert.Equal(t, "Atraxa, Praetors' Voice", commander.CardName)

	require.Len(t, library, 99, "count>1 rows expand into individual instances")
	swamps := 0
	for _, c := range library {
		assert.Equal(t, models.ZoneLibrary, c.Zone)
		assert.Equal(t, "m1", c.MatchID)
		assert.Equal(t, "u1", c.OwnerUserID)
		if c.CardName == "Swamp" {
			swamps++
		}
	}
	assert.Equal(t, 40, swamps)
}

func TestExpandDeckWithoutCommander(t *testing.T) {
	library, commander := expandDeck("m1", "u1", "d1", []*models.DeckCard{
		{CardName: "Forest", Count: 3},
	})
	assert.Nil(t, commander)
	assert.Len(t, library, 3)
}

func TestShuffleLibraryAssignsDensePermutation(t *testing.T) {
	library, _ := expandDeck("m1", "u1", "d1", commanderDeckRows())
	shuffleLibrary(library)

	seen := make(map[int]bool, len(library))
	for _, c := range library {
		require.NotNil(t, c.LibraryIndex)
		assert.GreaterOrEqual(t, *c.LibraryIndex, 1)
		assert.LessOrEqual(t, *c.LibraryIndex, len(library))
		assert.False(t, seen[*c.LibraryIndex], "index %d assigned twice", *c.LibraryIndex)
		seen[*c.LibraryIndex] = true
	}
	assert.Len(t, seen, len(library), "indexes form a dense 1..N permutation")
}

func TestShuffleLibraryIsIndependentPerCall(t *testing.T) {
	// Two shuffles of the same 99-card pool almost surely differ; equal
	// order on every card would mean the shuffle is not being applied.
	a, _ := expandDeck("m1", "u1", "d1", commanderDeckRows())
	b, _ := expandDeck("m1", "u2", "d1", commanderDeckRows())
	shuffleLibrary(a)
	shuffleLibrary(b)

	same := true
	for i := range a {
		if a[i].CardName != b[i].CardName {
			same = false
			break
		}
	}
	assert.False(t, same, "independent shuffles produced identical order")
}
