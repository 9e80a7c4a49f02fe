package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	log "github.com/sirupsen/logrus"

	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/models"
	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/store"
)

// pinAttempts bounds the random PIN allocation loop. Allocation fails
// deterministically after this many collisions instead of spinning.
const pinAttempts = 5

type RoomService struct {
	rooms   *store.RoomStore
	players *store.RoomPlayerStore
}

func NewRoomService(rooms *store.RoomStore, players *store.RoomPlayerStore) *RoomService {
	return &RoomService{rooms: rooms, players: players}
}

// randomPin returns a candidate 4-digit PIN, 1000..9999.
func randomPin() string {
	return fmt.Sprintf("%04d", 1000+rand.Intn(9000))
}

// lowestFreeSeat picks the lowest unused seat in 1..MaxSeats, or 0 when
// the table is full.
func lowestFreeSeat(players []*models.RoomPlayer) int {
	used := make(map[int]bool, len(players))
	for _, p := range players {
		used[p.Seat] = true
	}
	for seat := 1; seat <= models.MaxSeats; seat++ {
		if !used[seat] {
			return seat
		}
	}
	return 0
}

// CreateRoom allocates a PIN-keyed room and seats the owner at seat 1.
func (s *RoomService) CreateRoom(ctx context.Context, ownerUserID, nickname string) (*models.Room, *models.RoomPlayer, error) {
	var room *models.Room
	for i := 0; i < pinAttempts; i++ {
		r, err := s.rooms.Create(ctx, randomPin(), ownerUserID)
		if err == nil {
			room = r
			break
		}
		if errors.Is(err, store.ErrDuplicatePin) {
			log.Infof("room PIN collision, retrying (%d/%d)", i+1, pinAttempts)
			continue
		}
		return nil, nil, err
	}
	if room == nil {
		return nil, nil, ErrPinExhausted
	}

	owner, err := s.players.Seat(ctx, room.ID, ownerUserID, nickname, 1)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to seat room owner: %w", err)
	}

	return room, owner, nil
}

// JoinRoom seats a user at the lowest free seat of the open room behind the
// PIN. Join is idempotent per (room, user): a rejoin keeps the existing
// seat and only refreshes the nickname. The returned bool is true when a
// new seat row was created.
func (s *RoomService) JoinRoom(ctx context.Context, pin, userID, nickname string) (*models.Room, *models.RoomPlayer, bool, error) {
	room, err := s.rooms.GetByPin(ctx, pin)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, false, ErrRoomNotFound
		}
		return nil, nil, false, err
	}
	if room.Status != models.RoomOpen {
		return nil, nil, false, ErrRoomNotOpen
	}

	if existing, err := s.players.Get(ctx, room.ID, userID); err == nil {
		if nickname == "" || nickname == existing.Nickname {
			return room, existing, false, nil
		}
		updated, err := s.players.UpdateNickname(ctx, existing.ID, nickname)
		if err != nil {
			return nil, nil, false, err
		}
		return room, updated, false, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, nil, false, err
	}

	// Two joins can race for the last seat; the unique (room, seat)
	// constraint picks the winner and the loser recomputes occupancy once.
	for attempt := 0; attempt < 2; attempt++ {
		current, err := s.players.ListByRoom(ctx, room.ID)
		if err != nil {
			return nil, nil, false, err
		}

		seat := lowestFreeSeat(current)
		if seat == 0 {
			return nil, nil, false, ErrRoomFull
		}

		player, err := s.players.Seat(ctx, room.ID, userID, nickname, seat)
		if err == nil {
			return room, player, true, nil
		}
		if !errors.Is(err, store.ErrSeatTaken) {
			return nil, nil, false, err
		}
	}

	return nil, nil, false, ErrSeatNotAvailable
}

// Leave removes the caller's own seat.
func (s *RoomService) Leave(ctx context.Context, roomID, userID string) (*models.RoomPlayer, error) {
	seat, err := s.players.Get(ctx, roomID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return s.players.Delete(ctx, seat.ID)
}

// Kick removes another player's seat; only the room owner may do it.
func (s *RoomService) Kick(ctx context.Context, roomID, callerUserID, targetUserID string) (*models.RoomPlayer, error) {
	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.OwnerUserID != callerUserID {
		return nil, ErrNotOwner
	}

	seat, err := s.players.Get(ctx, roomID, targetUserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return s.players.Delete(ctx, seat.ID)
}

// CloseRoom flips the room to closed; observers are pushed out by the
// resulting rooms UPDATE event.
func (s *RoomService) CloseRoom(ctx context.Context, roomID, callerUserID string) (*models.Room, error) {
	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.OwnerUserID != callerUserID {
		return nil, ErrNotOwner
	}

	return s.rooms.UpdateStatus(ctx, roomID, models.RoomClosed)
}

func (s *RoomService) GetByPin(ctx context.Context, pin string) (*models.Room, error) {
	room, err := s.rooms.GetByPin(ctx, pin)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

func (s *RoomService) ListPlayers(ctx context.Context, roomID string) ([]*models.RoomPlayer, error) {
	return s.players.ListByRoom(ctx, roomID)
}

func (s *RoomService) getRoom(ctx context.Context, roomID string) (*models.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}
