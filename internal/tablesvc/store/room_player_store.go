package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/models"
)

type RoomPlayerStore struct {
	db *pgxpool.Pool
}

func NewRoomPlayerStore(db *pgxpool.Pool) *RoomPlayerStore {
	return &RoomPlayerStore{db: db}
}

const roomPlayerColumns = "id, room_id, user_id, nickname, deck_id, is_ready, seat, created_at, updated_at"

func scanRoomPlayer(row pgx.Row) (*models.RoomPlayer, error) {
	p := &models.RoomPlayer{}
	err := row.Scan(&p.ID, &p.RoomID, &p.UserID, &p.Nickname, &p.DeckID,
		&p.IsReady, &p.Seat, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *RoomPlayerStore) ListByRoom(ctx context.Context, roomID string) ([]*models.RoomPlayer, error) {
	query := `
		SELECT ` + roomPlayerColumns + `
		FROM room_players
		WHERE room_id = $1
		ORDER BY seat ASC
	`

	rows, err := s.db.Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list room players: %w", err)
	}
	defer rows.Close()

	var players []*models.RoomPlayer
	for rows.Next() {
		p, err := scanRoomPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}

	return players, rows.Err()
}

func (s *RoomPlayerStore) Get(ctx context.Context, roomID, userID string) (*models.RoomPlayer, error) {
	query := `
		SELECT ` + roomPlayerColumns + `
		FROM room_players
		WHERE room_id = $1 AND user_id = $2
	`

	p, err := scanRoomPlayer(s.db.QueryRow(ctx, query, roomID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get room player: %w", err)
	}

	return p, nil
}

// Seat inserts a seat row for (room, user). Two joins racing for the same
// seat resolve on the unique (room_id, seat) constraint: the loser gets
// ErrSeatTaken and is expected to retry against fresh occupancy.
func (s *RoomPlayerStore) Seat(ctx context.Context, roomID, userID, nickname string, seat int) (*models.RoomPlayer, error) {
	query := `
		INSERT INTO room_players (id, room_id, user_id, nickname, seat)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + roomPlayerColumns

	p, err := scanRoomPlayer(s.db.QueryRow(ctx, query, uuid.New().String(), roomID, userID, nickname, seat))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrSeatTaken
		}
		return nil, fmt.Errorf("failed to seat player: %w", err)
	}

	return p, nil
}

// UpdateNickname renames the seat and returns the updated row.
func (s *RoomPlayerStore) UpdateNickname(ctx context.Context, id, nickname string) (*models.RoomPlayer, error) {
	query := `
		UPDATE room_players
		SET nickname = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + roomPlayerColumns

	p, err := scanRoomPlayer(s.db.QueryRow(ctx, query, id, nickname))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update nickname: %w", err)
	}

	return p, nil
}

// UpdateDeck sets or clears the seat's deck selection.
func (s *RoomPlayerStore) UpdateDeck(ctx context.Context, id string, deckID *string) (*models.RoomPlayer, error) {
	query := `
		UPDATE room_players
		SET deck_id = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + roomPlayerColumns

	p, err := scanRoomPlayer(s.db.QueryRow(ctx, query, id, deckID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update deck selection: %w", err)
	}

	return p, nil
}

func (s *RoomPlayerStore) UpdateReady(ctx context.Context, id string, ready bool) (*models.RoomPlayer, error) {
	query := `
		UPDATE room_players
		SET is_ready = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + roomPlayerColumns

	p, err := scanRoomPlayer(s.db.QueryRow(ctx, query, id, ready))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update readiness: %w", err)
	}

	return p, nil
}

// Delete removes a seat row (leave or kick) and returns the old image for
// the DELETE change event.
func (s *RoomPlayerStore) Delete(ctx context.Context, id string) (*models.RoomPlayer, error) {
	query := `
		DELETE FROM room_players
		WHERE id = $1
		RETURNING ` + roomPlayerColumns

	p, err := scanRoomPlayer(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete room player: %w", err)
	}

	return p, nil
}
