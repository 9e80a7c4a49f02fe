package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/models"
)

type MatchStore struct {
	db *pgxpool.Pool
}

func NewMatchStore(db *pgxpool.Pool) *MatchStore {
	return &MatchStore{db: db}
}

const matchColumns = "id, room_id, status, created_at, updated_at"

func scanMatch(row pgx.Row) (*models.Match, error) {
	m := &models.Match{}
	err := row.Scan(&m.ID, &m.RoomID, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MatchStore) Create(ctx context.Context, roomID string) (*models.Match, error) {
	query := `
		INSERT INTO matches (id, room_id, status)
		VALUES ($1, $2, 'active')
		RETURNING ` + matchColumns

	m, err := scanMatch(s.db.QueryRow(ctx, query, uuid.New().String(), roomID))
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	return m, nil
}

func (s *MatchStore) GetByID(ctx context.Context, matchID string) (*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE id = $1
	`

	m, err := scanMatch(s.db.QueryRow(ctx, query, matchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return m, nil
}

// LatestByRoom returns the most recent match for a room; a room accumulates
// one match per start, only the newest is live.
func (s *MatchStore) LatestByRoom(ctx context.Context, roomID string) (*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE room_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	m, err := scanMatch(s.db.QueryRow(ctx, query, roomID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest match: %w", err)
	}

	return m, nil
}

func (s *MatchStore) UpdateStatus(ctx context.Context, matchID, status string) (*models.Match, error) {
	query := `
		UPDATE matches
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + matchColumns

	m, err := scanMatch(s.db.QueryRow(ctx, query, matchID, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update match status: %w", err)
	}

	return m, nil
}
