package service

import (
	"context"
	"errors"

	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/decklist"
	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/models"
	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/store"
)

type DeckService struct {
	decks *store.DeckStore
}

func NewDeckService(decks *store.DeckStore) *DeckService {
	return &DeckService{decks: decks}
}

func rowsToCards(rows []decklist.Row) []*models.DeckCard {
	cards := make([]*models.DeckCard, 0, len(rows))
	for _, r := range rows {
		c := &models.DeckCard{
			CardName: r.CardName,
			Count:    r.Count,
		}
		if r.SetCode != "" {
			set := r.SetCode
			c.SetCode = &set
		}
		if r.CollectorNumber != "" {
			num := r.CollectorNumber
			c.CollectorNumber = &num
		}
		cards = append(cards, c)
	}
	return cards
}

// Import parses a pasted deck list and creates the deck. Cards come in
// without a commander; the commander is designated afterwards.
func (s *DeckService) Import(ctx context.Context, userID, name, listText string) (*models.Deck, []*models.DeckCard, error) {
	if name == "" {
		return nil, nil, validationf("deck name is required")
	}

	rows, err := decklist.ParseList(listText)
	if err != nil {
		return nil, nil, &ValidationError{Reason: err.Error()}
	}
	if len(rows) == 0 {
		return nil, nil, validationf("deck list is empty")
	}

	cards := rowsToCards(rows)
	deck, err := s.decks.Create(ctx, userID, name, listText, cards)
	if err != nil {
		return nil, nil, err
	}

	return deck, cards, nil
}

// Update re-imports a deck's list, replacing its card rows.
func (s *DeckService) Update(ctx context.Context, userID, deckID, name, listText string) (*models.Deck, []*models.DeckCard, error) {
	if _, err := s.getOwned(ctx, userID, deckID); err != nil {
		return nil, nil, err
	}

	rows, err := decklist.ParseList(listText)
	if err != nil {
		return nil, nil, &ValidationError{Reason: err.Error()}
	}

	cards := rowsToCards(rows)
	deck, err := s.decks.Update(ctx, deckID, name, listText, cards)
	if err != nil {
		return nil, nil, err
	}

	return deck, cards, nil
}

// SetCommander flags one named row of the caller's deck as its commander;
// an empty name clears the designation.
func (s *DeckService) SetCommander(ctx context.Context, userID, deckID, cardName string) error {
	if _, err := s.getOwned(ctx, userID, deckID); err != nil {
		return err
	}

	if err := s.decks.SetCommander(ctx, deckID, cardName); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCardNotFound
		}
		return err
	}
	return nil
}

func (s *DeckService) List(ctx context.Context, userID string) ([]*models.Deck, error) {
	return s.decks.ListByUser(ctx, userID)
}

// Get returns the caller's deck with its card rows.
func (s *DeckService) Get(ctx context.Context, userID, deckID string) (*models.Deck, []*models.DeckCard, error) {
	deck, err := s.getOwned(ctx, userID, deckID)
	if err != nil {
		return nil, nil, err
	}

	cards, err := s.decks.GetCards(ctx, deckID)
	if err != nil {
		return nil, nil, err
	}

	return deck, cards, nil
}

func (s *DeckService) Delete(ctx context.Context, userID, deckID string) error {
	if _, err := s.getOwned(ctx, userID, deckID); err != nil {
		return err
	}
	return s.decks.Delete(ctx, deckID)
}

func (s *DeckService) getOwned(ctx context.Context, userID, deckID string) (*models.Deck, error) {
	deck, err := s.decks.Get(ctx, deckID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDeckNotFound
		}
		return nil, err
	}
	if deck.UserID != userID {
		return nil, ErrNotYourDeck
	}
	return deck, nil
}
