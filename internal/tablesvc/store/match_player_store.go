package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/models"
)

type MatchPlayerStore struct {
	db *pgxpool.Pool
}

func NewMatchPlayerStore(db *pgxpool.Pool) *MatchPlayerStore {
	return &MatchPlayerStore{db: db}
}

const matchPlayerColumns = "match_id, user_id, seat, life, deck_id, hand_count, library_count, graveyard_count, exile_count"

func scanMatchPlayer(row pgx.Row) (*models.MatchPlayer, error) {
	p := &models.MatchPlayer{}
	err := row.Scan(&p.MatchID, &p.UserID, &p.Seat, &p.Life, &p.DeckID,
		&p.HandCount, &p.LibraryCount, &p.GraveyardCount, &p.ExileCount)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// InsertSnapshot writes the seated players captured at match start. Life
// and counters start at their defaults; materialization sets the real
// library counts right after.
func (s *MatchPlayerStore) InsertSnapshot(ctx context.Context, players []*models.MatchPlayer) error {
	batch := &pgx.Batch{}
	for _, p := range players {
		batch.Queue(`
			INSERT INTO match_players (match_id, user_id, seat, life, deck_id)
			VALUES ($1, $2, $3, $4, $5)
		`, p.MatchID, p.UserID, p.Seat, p.Life, p.DeckID)
	}

	br := s.db.SendBatch(ctx, batch)
	defer br.Close()
	for range players {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to snapshot match player: %w", err)
		}
	}
	return nil
}

func (s *MatchPlayerStore) ListByMatch(ctx context.Context, matchID string) ([]*models.MatchPlayer, error) {
	query := `
		SELECT ` + matchPlayerColumns + `
		FROM match_players
		WHERE match_id = $1
		ORDER BY seat ASC
	`

	rows, err := s.db.Query(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list match players: %w", err)
	}
	defer rows.Close()

	var players []*models.MatchPlayer
	for rows.Next() {
		p, err := scanMatchPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}

	return players, rows.Err()
}

func (s *MatchPlayerStore) Get(ctx context.Context, matchID, userID string) (*models.MatchPlayer, error) {
	query := `
		SELECT ` + matchPlayerColumns + `
		FROM match_players
		WHERE match_id = $1 AND user_id = $2
	`

	p, err := scanMatchPlayer(s.db.QueryRow(ctx, query, matchID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get match player: %w", err)
	}

	return p, nil
}

// AdjustLife applies an unconstrained delta to the player's life total.
// There is no floor and no elimination rule here.
func (s *MatchPlayerStore) AdjustLife(ctx context.Context, matchID, userID string, delta int) (*models.MatchPlayer, error) {
	query := `
		UPDATE match_players
		SET life = life + $3
		WHERE match_id = $1 AND user_id = $2
		RETURNING ` + matchPlayerColumns

	p, err := scanMatchPlayer(s.db.QueryRow(ctx, query, matchID, userID, delta))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to adjust life: %w", err)
	}

	return p, nil
}

// AdjustZoneCount applies a free-standing manual correction to the
// graveyard or exile counter, clamped at zero.
func (s *MatchPlayerStore) AdjustZoneCount(ctx context.Context, matchID, userID, zone string, delta int) (*models.MatchPlayer, error) {
	var column string
	switch zone {
	case models.ZoneGraveyard:
		column = "graveyard_count"
	case models.ZoneExile:
		column = "exile_count"
	default:
		return nil, fmt.Errorf("zone %q does not support manual adjustment", zone)
	}

	query := fmt.Sprintf(`
		UPDATE match_players
		SET %s = GREATEST(0, %s + $3)
		WHERE match_id = $1 AND user_id = $2
		RETURNING `+matchPlayerColumns, column, column)

	p, err := scanMatchPlayer(s.db.QueryRow(ctx, query, matchID, userID, delta))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to adjust %s: %w", column, err)
	}

	return p, nil
}
