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

type RoomStore struct {
	db *pgxpool.Pool
}

func NewRoomStore(db *pgxpool.Pool) *RoomStore {
	return &RoomStore{db: db}
}

const roomColumns = "id, pin, owner_user_id, status, created_at, updated_at"

func scanRoom(row pgx.Row) (*models.Room, error) {
	r := &models.Room{}
	err := row.Scan(&r.ID, &r.Pin, &r.OwnerUserID, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Create inserts a new open room under the given PIN. A partial unique
// index on pin (status='open') guards the PIN namespace; a collision is
// reported as ErrDuplicatePin so the caller can retry with a fresh PIN.
func (s *RoomStore) Create(ctx context.Context, pin, ownerUserID string) (*models.Room, error) {
	query := `
		INSERT INTO rooms (id, pin, owner_user_id, status)
		VALUES ($1, $2, $3, 'open')
		RETURNING ` + roomColumns

	room, err := scanRoom(s.db.QueryRow(ctx, query, uuid.New().String(), pin, ownerUserID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrDuplicatePin
		}
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	return room, nil
}

func (s *RoomStore) GetByPin(ctx context.Context, pin string) (*models.Room, error) {
	query := `
		SELECT ` + roomColumns + `
		FROM rooms
		WHERE pin = $1 AND status <> 'closed'
		ORDER BY created_at DESC
		LIMIT 1
	`

	room, err := scanRoom(s.db.QueryRow(ctx, query, pin))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get room by pin: %w", err)
	}

	return room, nil
}

func (s *RoomStore) GetByID(ctx context.Context, roomID string) (*models.Room, error) {
	query := `
		SELECT ` + roomColumns + `
		FROM rooms
		WHERE id = $1
	`

	room, err := scanRoom(s.db.QueryRow(ctx, query, roomID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get room by id: %w", err)
	}

	return room, nil
}

// UpdateStatus flips a room's lifecycle status and returns the updated row.
func (s *RoomStore) UpdateStatus(ctx context.Context, roomID, status string) (*models.Room, error) {
	query := `
		UPDATE rooms
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + roomColumns

	room, err := scanRoom(s.db.QueryRow(ctx, query, roomID, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update room status: %w", err)
	}

	return room, nil
}
