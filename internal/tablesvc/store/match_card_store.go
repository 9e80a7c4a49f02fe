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

// MatchCardStore owns the card instances of live matches. Every zone
// transition updates the card row and the owner's match_players counters in
// a single transaction, so the counter cache can never drift from actual
// zone membership.
type MatchCardStore struct {
	db *pgxpool.Pool
}

func NewMatchCardStore(db *pgxpool.Pool) *MatchCardStore {
	return &MatchCardStore{db: db}
}

const matchCardColumns = "id, match_id, owner_user_id, deck_id, card_name, set_code, collector_number, zone, library_index"

func scanMatchCard(row pgx.Row) (*models.MatchCard, error) {
	c := &models.MatchCard{}
	err := row.Scan(&c.ID, &c.MatchID, &c.OwnerUserID, &c.DeckID, &c.CardName,
		&c.SetCode, &c.CollectorNumber, &c.Zone, &c.LibraryIndex)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ReplaceForMatch wipes every card instance of the match and writes the
// freshly materialized set, then resets each seated player's counters to
// the new library sizes. Re-running it for the same match is therefore
// safe: prior state is gone before the new state lands.
func (s *MatchCardStore) ReplaceForMatch(ctx context.Context, matchID string, cards []*models.MatchCard, libraryCounts map[string]int) ([]*models.MatchPlayer, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin materialization: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM match_cards WHERE match_id = $1`, matchID); err != nil {
		return nil, fmt.Errorf("failed to wipe match cards: %w", err)
	}

	batch := &pgx.Batch{}
	for _, c := range cards {
		batch.Queue(`
			INSERT INTO match_cards
				(id, match_id, owner_user_id, deck_id, card_name, set_code, collector_number, zone, library_index)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, uuid.New().String(), c.MatchID, c.OwnerUserID, c.DeckID, c.CardName,
			c.SetCode, c.CollectorNumber, c.Zone, c.LibraryIndex)
	}

	br := tx.SendBatch(ctx, batch)
	for range cards {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return nil, fmt.Errorf("failed to insert match card: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush match card batch: %w", err)
	}

	var players []*models.MatchPlayer
	for userID, libraryCount := range libraryCounts {
		p, err := scanMatchPlayer(tx.QueryRow(ctx, `
			UPDATE match_players
			SET life = $3, hand_count = 0, library_count = $4, graveyard_count = 0, exile_count = 0
			WHERE match_id = $1 AND user_id = $2
			RETURNING `+matchPlayerColumns, matchID, userID, models.StartingLife, libraryCount))
		if err != nil {
			return nil, fmt.Errorf("failed to reset counters for player %s: %w", userID, err)
		}
		players = append(players, p)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit materialization: %w", err)
	}

	return players, nil
}

// ListZone returns one owner's cards in a zone, library order first.
func (s *MatchCardStore) ListZone(ctx context.Context, matchID, ownerUserID, zone string) ([]*models.MatchCard, error) {
	query := `
		SELECT ` + matchCardColumns + `
		FROM match_cards
		WHERE match_id = $1 AND owner_user_id = $2 AND zone = $3
		ORDER BY library_index ASC NULLS LAST, card_name ASC
	`

	rows, err := s.db.Query(ctx, query, matchID, ownerUserID, zone)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s cards: %w", zone, err)
	}
	defer rows.Close()

	return collectMatchCards(rows)
}

// ListMatchZone returns every player's cards in a shared-visibility zone
// (battlefield, graveyard, exile, command).
func (s *MatchCardStore) ListMatchZone(ctx context.Context, matchID, zone string) ([]*models.MatchCard, error) {
	query := `
		SELECT ` + matchCardColumns + `
		FROM match_cards
		WHERE match_id = $1 AND zone = $2
		ORDER BY owner_user_id ASC, card_name ASC
	`

	rows, err := s.db.Query(ctx, query, matchID, zone)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s cards: %w", zone, err)
	}
	defer rows.Close()

	return collectMatchCards(rows)
}

func collectMatchCards(rows pgx.Rows) ([]*models.MatchCard, error) {
	var cards []*models.MatchCard
	for rows.Next() {
		c, err := scanMatchCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// DrawTop moves the owner's lowest-indexed library card to hand and shifts
// the counters, atomically. The vacated library index is returned alongside
// the card so observers can see which slot emptied. An empty library is
// reported as ErrEmptyLibrary with nothing written.
func (s *MatchCardStore) DrawTop(ctx context.Context, matchID, userID string) (*models.MatchCard, int, *models.MatchPlayer, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("failed to begin draw: %w", err)
	}
	defer tx.Rollback(ctx)

	card := &models.MatchCard{}
	var prevIndex int
	err = tx.QueryRow(ctx, `
		WITH top AS (
			SELECT id, library_index FROM match_cards
			WHERE match_id = $1 AND owner_user_id = $2 AND zone = 'library'
			ORDER BY library_index ASC
			LIMIT 1
			FOR UPDATE
		)
		UPDATE match_cards mc
		SET zone = 'hand', library_index = NULL
		FROM top
		WHERE mc.id = top.id
		RETURNING mc.id, mc.match_id, mc.owner_user_id, mc.deck_id, mc.card_name,
			mc.set_code, mc.collector_number, mc.zone, mc.library_index, top.library_index
	`, matchID, userID).Scan(&card.ID, &card.MatchID, &card.OwnerUserID, &card.DeckID,
		&card.CardName, &card.SetCode, &card.CollectorNumber, &card.Zone, &card.LibraryIndex,
		&prevIndex)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, nil, ErrEmptyLibrary
		}
		return nil, 0, nil, fmt.Errorf("failed to draw card: %w", err)
	}

	player, err := scanMatchPlayer(tx.QueryRow(ctx, `
		UPDATE match_players
		SET library_count = library_count - 1, hand_count = hand_count + 1
		WHERE match_id = $1 AND user_id = $2
		RETURNING `+matchPlayerColumns, matchID, userID))
	if err != nil {
		return nil, 0, nil, fmt.Errorf("failed to update counters after draw: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, nil, fmt.Errorf("failed to commit draw: %w", err)
	}

	return card, prevIndex, player, nil
}

// MoveFromHand moves one of the owner's hand cards to the battlefield,
// graveyard or exile, updating the counters in the same transaction.
func (s *MatchCardStore) MoveFromHand(ctx context.Context, matchID, userID, cardID, toZone string) (*models.MatchCard, *models.MatchPlayer, error) {
	var counterUpdate string
	switch toZone {
	case models.ZoneBattlefield:
		counterUpdate = "hand_count = hand_count - 1"
	case models.ZoneGraveyard:
		counterUpdate = "hand_count = hand_count - 1, graveyard_count = graveyard_count + 1"
	case models.ZoneExile:
		counterUpdate = "hand_count = hand_count - 1, exile_count = exile_count + 1"
	default:
		return nil, nil, fmt.Errorf("cannot move a hand card to zone %q", toZone)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin hand move: %w", err)
	}
	defer tx.Rollback(ctx)

	card, err := scanMatchCard(tx.QueryRow(ctx, `
		UPDATE match_cards
		SET zone = $4
		WHERE id = $3 AND match_id = $1 AND owner_user_id = $2 AND zone = 'hand'
		RETURNING `+matchCardColumns, matchID, userID, cardID, toZone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to move card from hand: %w", err)
	}

	player, err := scanMatchPlayer(tx.QueryRow(ctx, `
		UPDATE match_players
		SET `+counterUpdate+`
		WHERE match_id = $1 AND user_id = $2
		RETURNING `+matchPlayerColumns, matchID, userID))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update counters after hand move: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit hand move: %w", err)
	}

	return card, player, nil
}

// Mulligan returns the owner's entire hand to the library and deals a
// fresh uniform permutation over everything now in the library, the
// returned cards included. The old indexes are cleared before the new ones
// are assigned: the unique library-order index is not deferrable, so
// renumbering rows that still hold live indexes would collide mid-statement.
func (s *MatchCardStore) Mulligan(ctx context.Context, matchID, userID string) (int, *models.MatchPlayer, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to begin mulligan: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE match_cards
		SET zone = 'library', library_index = NULL
		WHERE match_id = $1 AND owner_user_id = $2 AND zone = 'hand'
	`, matchID, userID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to return hand to library: %w", err)
	}
	returned := int(tag.RowsAffected())

	if _, err := tx.Exec(ctx, `
		UPDATE match_cards
		SET library_index = NULL
		WHERE match_id = $1 AND owner_user_id = $2 AND zone = 'library'
			AND library_index IS NOT NULL
	`, matchID, userID); err != nil {
		return 0, nil, fmt.Errorf("failed to clear library order: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		WITH shuffled AS (
			SELECT id, row_number() OVER (ORDER BY random()) AS idx
			FROM match_cards
			WHERE match_id = $1 AND owner_user_id = $2 AND zone = 'library'
		)
		UPDATE match_cards mc
		SET library_index = s.idx
		FROM shuffled s
		WHERE mc.id = s.id
	`, matchID, userID); err != nil {
		return 0, nil, fmt.Errorf("failed to reshuffle library: %w", err)
	}

	player, err := scanMatchPlayer(tx.QueryRow(ctx, `
		UPDATE match_players
		SET hand_count = 0, library_count = library_count + $3
		WHERE match_id = $1 AND user_id = $2
		RETURNING `+matchPlayerColumns, matchID, userID, returned))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to update counters after mulligan: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, nil, fmt.Errorf("failed to commit mulligan: %w", err)
	}

	return returned, player, nil
}
