package service

import (
	"context"
	"errors"

	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/models"
	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/store"
)

// ZoneService performs zone transitions on a live match. Every operation
// acts only on the calling player's own cards and counters; other players'
// state is reachable only through the broadcaster. The card row and the
// counter cache move in one transaction, so a half-applied transition
// cannot be observed.
type ZoneService struct {
	matches    *store.MatchStore
	matchSeats *store.MatchPlayerStore
	matchCards *store.MatchCardStore
}

func NewZoneService(matches *store.MatchStore, matchSeats *store.MatchPlayerStore, matchCards *store.MatchCardStore) *ZoneService {
	return &ZoneService{matches: matches, matchSeats: matchSeats, matchCards: matchCards}
}

func (s *ZoneService) liveMatch(ctx context.Context, matchID string) (*models.Match, error) {
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if match.Status != models.MatchActive {
		return nil, validationf("match has ended")
	}
	return match, nil
}

// Draw moves the top library card (lowest library_index) to hand. The
// returned int is the library index the card vacated. An empty library
// reports ErrEmptyLibrary and changes nothing; that is a normal in-game
// situation, not a fault.
func (s *ZoneService) Draw(ctx context.Context, matchID, userID string) (*models.Match, *models.MatchCard, int, *models.MatchPlayer, error) {
	match, err := s.liveMatch(ctx, matchID)
	if err != nil {
		return nil, nil, 0, nil, err
	}

	card, prevIndex, player, err := s.matchCards.DrawTop(ctx, matchID, userID)
	if err != nil {
		if errors.Is(err, store.ErrEmptyLibrary) {
			return nil, nil, 0, nil, ErrEmptyLibrary
		}
		return nil, nil, 0, nil, err
	}

	return match, card, prevIndex, player, nil
}

// Play moves a hand card to the battlefield. No position or tapped state
// is modeled, only membership.
func (s *ZoneService) Play(ctx context.Context, matchID, userID, cardID string) (*models.Match, *models.MatchCard, *models.MatchPlayer, error) {
	return s.moveFromHand(ctx, matchID, userID, cardID, models.ZoneBattlefield)
}

// Discard moves a hand card to the graveyard.
func (s *ZoneService) Discard(ctx context.Context, matchID, userID, cardID string) (*models.Match, *models.MatchCard, *models.MatchPlayer, error) {
	return s.moveFromHand(ctx, matchID, userID, cardID, models.ZoneGraveyard)
}

// Exile moves a hand card to exile.
func (s *ZoneService) Exile(ctx context.Context, matchID, userID, cardID string) (*models.Match, *models.MatchCard, *models.MatchPlayer, error) {
	return s.moveFromHand(ctx, matchID, userID, cardID, models.ZoneExile)
}

func (s *ZoneService) moveFromHand(ctx context.Context, matchID, userID, cardID, toZone string) (*models.Match, *models.MatchCard, *models.MatchPlayer, error) {
	match, err := s.liveMatch(ctx, matchID)
	if err != nil {
		return nil, nil, nil, err
	}

	card, player, err := s.matchCards.MoveFromHand(ctx, matchID, userID, cardID, toZone)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, nil, ErrCardNotFound
		}
		return nil, nil, nil, err
	}

	return match, card, player, nil
}

// Mulligan returns the whole hand to the library and reshuffles the
// player's entire library pool, returned cards included. hand+library is
// conserved; the library index set is again a dense 1..N permutation.
func (s *ZoneService) Mulligan(ctx context.Context, matchID, userID string) (*models.Match, int, *models.MatchPlayer, error) {
	match, err := s.liveMatch(ctx, matchID)
	if err != nil {
		return nil, 0, nil, err
	}

	returned, player, err := s.matchCards.Mulligan(ctx, matchID, userID)
	if err != nil {
		return nil, 0, nil, err
	}

	return match, returned, player, nil
}

// AdjustLife applies a signed delta to the caller's life. No floor, no
// elimination: life below zero is allowed.
func (s *ZoneService) AdjustLife(ctx context.Context, matchID, userID string, delta int) (*models.Match, *models.MatchPlayer, error) {
	match, err := s.liveMatch(ctx, matchID)
	if err != nil {
		return nil, nil, err
	}

	player, err := s.matchSeats.AdjustLife(ctx, matchID, userID, delta)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrMatchNotFound
		}
		return nil, nil, err
	}

	return match, player, nil
}

// AdjustZone applies a free-standing manual correction to the graveyard or
// exile counter, floor-clamped at zero. Not tied to a specific card.
func (s *ZoneService) AdjustZone(ctx context.Context, matchID, userID, zone string, delta int) (*models.Match, *models.MatchPlayer, error) {
	if zone != models.ZoneGraveyard && zone != models.ZoneExile {
		return nil, nil, validationf("zone %q does not support manual adjustment", zone)
	}

	match, err := s.liveMatch(ctx, matchID)
	if err != nil {
		return nil, nil, err
	}

	player, err := s.matchSeats.AdjustZoneCount(ctx, matchID, userID, zone, delta)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrMatchNotFound
		}
		return nil, nil, err
	}

	return match, player, nil
}

// Hand returns the caller's own hand contents. Hands are private; this is
// never served for another user's cards.
func (s *ZoneService) Hand(ctx context.Context, matchID, userID string) ([]*models.MatchCard, error) {
	if _, err := s.liveMatch(ctx, matchID); err != nil {
		return nil, err
	}
	return s.matchCards.ListZone(ctx, matchID, userID, models.ZoneHand)
}
