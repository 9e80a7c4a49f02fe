package service

import (
	"context"
	"errors"

	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/models"
	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/store"
)

// MatchService reads live match state for observers. All mutation goes
// through LobbyService (start/end) and ZoneService (transitions).
type MatchService struct {
	matches    *store.MatchStore
	matchSeats *store.MatchPlayerStore
	matchCards *store.MatchCardStore
}

func NewMatchService(matches *store.MatchStore, matchSeats *store.MatchPlayerStore, matchCards *store.MatchCardStore) *MatchService {
	return &MatchService{matches: matches, matchSeats: matchSeats, matchCards: matchCards}
}

// Snapshot returns the latest match of a room with its seat counters, the
// shared battlefield, and the requesting user's own hand. Other players'
// hands and every library stay hidden; their sizes travel as counters.
func (s *MatchService) Snapshot(ctx context.Context, roomID, userID string) (*models.Match, []*models.MatchPlayer, []*models.MatchCard, []*models.MatchCard, error) {
	match, err := s.matches.LatestByRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, nil, nil, ErrMatchNotFound
		}
		return nil, nil, nil, nil, err
	}

	seats, err := s.matchSeats.ListByMatch(ctx, match.ID)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	battlefield, err := s.matchCards.ListMatchZone(ctx, match.ID, models.ZoneBattlefield)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	var hand []*models.MatchCard
	for _, seat := range seats {
		if seat.UserID == userID {
			if hand, err = s.matchCards.ListZone(ctx, match.ID, userID, models.ZoneHand); err != nil {
				return nil, nil, nil, nil, err
			}
			break
		}
	}

	return match, seats, battlefield, hand, nil
}

// LatestByRoom exposes the most recent match for routing HTTP calls.
func (s *MatchService) LatestByRoom(ctx context.Context, roomID string) (*models.Match, error) {
	match, err := s.matches.LatestByRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

// GetByID returns a match by id.
func (s *MatchService) GetByID(ctx context.Context, matchID string) (*models.Match, error) {
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}
