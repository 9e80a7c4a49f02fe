package decklist

import (
	"fmt"

	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/models"
)

// MainDeckSize is the required number of non-commander cards.
const MainDeckSize = 99

// Validate decides structural legality of a deck: exactly one commander row
// with count 1, and the remaining counts summing to 99. The returned error
// names the violated rule; nil means the deck is tournament-valid.
func Validate(cards []*models.DeckCard) error {
	commanderRows := 0
	commanderCount := 0
	mainCount := 0

	for _, c := range cards {
		if c.IsCommander {
			commanderRows++
			commanderCount += c.Count
		} else {
			mainCount += c.Count
		}
	}

	switch {
	case commanderRows == 0:
		return fmt.Errorf("deck has no commander")
	case commanderRows > 1:
		return fmt.Errorf("deck has %d commander rows, want exactly 1", commanderRows)
	case commanderCount != 1:
		return fmt.Errorf("commander count is %d, want exactly 1", commanderCount)
	case mainCount != MainDeckSize:
		return fmt.Errorf("main deck has %d cards, want exactly %d", mainCount, MainDeckSize)
	}
	return nil
}

// IsValid is the boolean form of Validate.
func IsValid(cards []*models.DeckCard) bool {
	return Validate(cards) == nil
}
