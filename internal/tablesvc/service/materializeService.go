package service

import (
	"context"
	"math/rand"

	log "github.com/sirupsen/logrus"

	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/models"
	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/store"
)

// MaterializeService expands deck definitions into shuffled, individually
// tracked card instances. This is the only place libraries are built;
// re-invoking it wipes and regenerates the match's card rows.
type MaterializeService struct {
	decks      *store.DeckStore
	matchCards *store.MatchCardStore
	matchSeats *store.MatchPlayerStore
}

func NewMaterializeService(decks *store.DeckStore, matchCards *store.MatchCardStore, matchSeats *store.MatchPlayerStore) *MaterializeService {
	return &MaterializeService{decks: decks, matchCards: matchCards, matchSeats: matchSeats}
}

// expandDeck turns deck rows into card instances: every non-commander row
// becomes count library instances, the commander row becomes a single
// command-zone instance that never joins the library index space.
func expandDeck(matchID, ownerUserID, deckID string, rows []*models.DeckCard) (library []*models.MatchCard, commander *models.MatchCard) {
	for _, r := range rows {
		if r.IsCommander {
			commander = &models.MatchCard{
				MatchID:         matchID,
				OwnerUserID:     ownerUserID,
				DeckID:          deckID,
				CardName:        r.CardName,
				SetCode:         r.SetCode,
				CollectorNumber: r.CollectorNumber,
				Zone:            models.ZoneCommand,
			}
			continue
		}
		for i := 0; i < r.Count; i++ {
			library = append(library, &models.MatchCard{
				MatchID:         matchID,
				OwnerUserID:     ownerUserID,
				DeckID:          deckID,
				CardName:        r.CardName,
				SetCode:         r.SetCode,
				CollectorNumber: r.CollectorNumber,
				Zone:            models.ZoneLibrary,
			})
		}
	}
	return library, commander
}

// shuffleLibrary deals a uniform permutation over the player's library
// instances and assigns library_index 1..N in shuffled order, 1 = top.
func shuffleLibrary(library []*models.MatchCard) {
	rand.Shuffle(len(library), func(i, j int) {
		library[i], library[j] = library[j], library[i]
	})
	for i, c := range library {
		idx := i + 1
		c.LibraryIndex = &idx
	}
}

// Materialize rebuilds every seated player's zones for the match: prior
// card rows are deleted, each deck is expanded and independently shuffled,
// and the per-player counters are reset. Returns the fresh card instances
// and the updated player rows for broadcasting.
func (s *MaterializeService) Materialize(ctx context.Context, matchID string) ([]*models.MatchCard, []*models.MatchPlayer, error) {
	seats, err := s.matchSeats.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, nil, err
	}
	if len(seats) == 0 {
		return nil, nil, ErrMatchNotFound
	}

	var all []*models.MatchCard
	counts := make(map[string]int, len(seats))
	for _, seat := range seats {
		rows, err := s.decks.GetCards(ctx, seat.DeckID)
		if err != nil {
			return nil, nil, err
		}

		library, commander := expandDeck(matchID, seat.UserID, seat.DeckID, rows)
		shuffleLibrary(library)

		counts[seat.UserID] = len(library)
		all = append(all, library...)
		if commander != nil {
			all = append(all, commander)
		}
	}

	players, err := s.matchCards.ReplaceForMatch(ctx, matchID, all, counts)
	if err != nil {
		return nil, nil, err
	}

	log.Infof("materialized %d card instances for match %s (%d players)", len(all), matchID, len(seats))

	return all, players, nil
}
