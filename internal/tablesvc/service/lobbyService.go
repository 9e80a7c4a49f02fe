package service

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/decklist"
	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/models"
	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/store"
)

// LobbyService is the per-seat readiness and deck-selection gate in front
// of match creation.
type LobbyService struct {
	rooms       *store.RoomStore
	players     *store.RoomPlayerStore
	decks       *store.DeckStore
	matches     *store.MatchStore
	matchSeats  *store.MatchPlayerStore
	materialize *MaterializeService
}

func NewLobbyService(rooms *store.RoomStore, players *store.RoomPlayerStore, decks *store.DeckStore,
	matches *store.MatchStore, matchSeats *store.MatchPlayerStore, materialize *MaterializeService) *LobbyService {
	return &LobbyService{
		rooms:       rooms,
		players:     players,
		decks:       decks,
		matches:     matches,
		matchSeats:  matchSeats,
		materialize: materialize,
	}
}

// StartResult bundles everything a started match changed, for broadcast.
type StartResult struct {
	Room  *models.Room
	Match *models.Match
	Seats []*models.MatchPlayer
	Cards []*models.MatchCard
}

// validDeckFor checks that the deck exists, belongs to the user and passes
// the format rule. Returns the violated rule as a validation error.
func (s *LobbyService) validDeckFor(ctx context.Context, userID, deckID string) error {
	deck, err := s.decks.Get(ctx, deckID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrDeckNotFound
		}
		return err
	}
	if deck.UserID != userID {
		return ErrNotYourDeck
	}

	cards, err := s.decks.GetCards(ctx, deckID)
	if err != nil {
		return err
	}
	if err := decklist.Validate(cards); err != nil {
		return validationf("deck %q is not valid: %s", deck.Name, err)
	}
	return nil
}

func (s *LobbyService) ownSeat(ctx context.Context, roomID, userID string) (*models.RoomPlayer, error) {
	seat, err := s.players.Get(ctx, roomID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotYourSeat
		}
		return nil, err
	}
	return seat, nil
}

// ChooseDeck selects (or clears, with nil) the caller's deck for their own
// seat. Invalid decks are refused with the violated rule; a ready seat
// must un-ready before changing its selection.
func (s *LobbyService) ChooseDeck(ctx context.Context, roomID, userID string, deckID *string) (*models.RoomPlayer, error) {
	seat, err := s.ownSeat(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if seat.IsReady {
		return nil, validationf("un-ready before changing your deck")
	}

	if deckID != nil {
		if err := s.validDeckFor(ctx, userID, *deckID); err != nil {
			return nil, err
		}
	}

	return s.players.UpdateDeck(ctx, seat.ID, deckID)
}

// Rename changes the caller's nickname; refused while ready.
func (s *LobbyService) Rename(ctx context.Context, roomID, userID, nickname string) (*models.RoomPlayer, error) {
	seat, err := s.ownSeat(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if seat.IsReady {
		return nil, validationf("un-ready before changing your nickname")
	}
	if nickname == "" {
		return nil, validationf("nickname cannot be empty")
	}

	return s.players.UpdateNickname(ctx, seat.ID, nickname)
}

// ToggleReady flips the caller's readiness. Becoming ready requires a
// currently-valid deck selection; becoming un-ready is always allowed.
func (s *LobbyService) ToggleReady(ctx context.Context, roomID, userID string) (*models.RoomPlayer, error) {
	seat, err := s.ownSeat(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}

	if !seat.IsReady {
		if seat.DeckID == nil {
			return nil, validationf("pick a deck first")
		}
		if err := s.validDeckFor(ctx, userID, *seat.DeckID); err != nil {
			return nil, err
		}
	}

	return s.players.UpdateReady(ctx, seat.ID, !seat.IsReady)
}

// StartMatch is owner-only and gates on: room open, every seat filled,
// every seat ready with a valid deck. On success it creates the match,
// snapshots the seats, materializes every library and flips the room to
// started. Each failed precondition is its own user-facing reason.
func (s *LobbyService) StartMatch(ctx context.Context, roomID, callerUserID string) (*StartResult, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if room.OwnerUserID != callerUserID {
		return nil, ErrNotOwner
	}
	if room.Status != models.RoomOpen {
		return nil, ErrRoomNotOpen
	}

	players, err := s.players.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if len(players) < models.MaxSeats {
		return nil, validationf("waiting for players: %d of %d seats filled", len(players), models.MaxSeats)
	}
	for _, p := range players {
		if p.DeckID == nil {
			return nil, validationf("%s has not picked a deck", p.Nickname)
		}
		if err := s.validDeckFor(ctx, p.UserID, *p.DeckID); err != nil {
			return nil, err
		}
		if !p.IsReady {
			return nil, validationf("%s is not ready", p.Nickname)
		}
	}

	match, err := s.matches.Create(ctx, roomID)
	if err != nil {
		return nil, err
	}

	snapshot := make([]*models.MatchPlayer, 0, len(players))
	for _, p := range players {
		snapshot = append(snapshot, &models.MatchPlayer{
			MatchID: match.ID,
			UserID:  p.UserID,
			Seat:    p.Seat,
			Life:    models.StartingLife,
			DeckID:  *p.DeckID,
		})
	}
	if err := s.matchSeats.InsertSnapshot(ctx, snapshot); err != nil {
		return nil, err
	}

	cards, seats, err := s.materialize.Materialize(ctx, match.ID)
	if err != nil {
		return nil, err
	}

	started, err := s.rooms.UpdateStatus(ctx, roomID, models.RoomStarted)
	if err != nil {
		return nil, err
	}

	log.Infof("match %s started in room %s", match.ID, room.Pin)

	return &StartResult{Room: started, Match: match, Seats: seats, Cards: cards}, nil
}

// EndMatch flips the live match to ended and reopens the room so the lobby
// can gather for another game. Owner-only.
func (s *LobbyService) EndMatch(ctx context.Context, matchID, callerUserID string) (*models.Match, *models.Room, error) {
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrMatchNotFound
		}
		return nil, nil, err
	}

	room, err := s.rooms.GetByID(ctx, match.RoomID)
	if err != nil {
		return nil, nil, err
	}
	if room.OwnerUserID != callerUserID {
		return nil, nil, ErrNotOwner
	}

	ended, err := s.matches.UpdateStatus(ctx, matchID, models.MatchEnded)
	if err != nil {
		return nil, nil, err
	}

	reopened, err := s.rooms.UpdateStatus(ctx, room.ID, models.RoomOpen)
	if err != nil {
		return nil, nil, err
	}

	return ended, reopened, nil
}
