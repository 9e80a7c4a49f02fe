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

type DeckStore struct {
	db *pgxpool.Pool
}

func NewDeckStore(db *pgxpool.Pool) *DeckStore {
	return &DeckStore{db: db}
}

const deckColumns = "id, user_id, name, list_text, created_at, updated_at"

func scanDeck(row pgx.Row) (*models.Deck, error) {
	d := &models.Deck{}
	err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.ListText, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Create inserts the deck row and its card rows in one transaction. Card
// rows are upserted on (deck_id, card_name) so a list repeating a name
// keeps a single row per card.
func (s *DeckStore) Create(ctx context.Context, userID, name, listText string, cards []*models.DeckCard) (*models.Deck, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin deck create: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO decks (id, user_id, name, list_text)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + deckColumns

	deck, err := scanDeck(tx.QueryRow(ctx, query, uuid.New().String(), userID, name, listText))
	if err != nil {
		return nil, fmt.Errorf("failed to create deck: %w", err)
	}

	if err := upsertDeckCards(ctx, tx, deck.ID, cards); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit deck create: %w", err)
	}

	return deck, nil
}

// Update rewrites the deck's name, raw list and card rows. The old card
// rows are replaced wholesale, matching how a re-imported list behaves.
func (s *DeckStore) Update(ctx context.Context, deckID, name, listText string, cards []*models.DeckCard) (*models.Deck, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin deck update: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE decks
		SET name = $2, list_text = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + deckColumns

	deck, err := scanDeck(tx.QueryRow(ctx, query, deckID, name, listText))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update deck: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM deck_cards WHERE deck_id = $1`, deckID); err != nil {
		return nil, fmt.Errorf("failed to clear deck cards: %w", err)
	}

	if err := upsertDeckCards(ctx, tx, deckID, cards); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit deck update: %w", err)
	}

	return deck, nil
}

func upsertDeckCards(ctx context.Context, tx pgx.Tx, deckID string, cards []*models.DeckCard) error {
	batch := &pgx.Batch{}
	for _, c := range cards {
		batch.Queue(`
			INSERT INTO deck_cards (deck_id, card_name, count, is_commander, set_code, collector_number)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (deck_id, card_name) DO UPDATE
			SET count = EXCLUDED.count,
			    is_commander = EXCLUDED.is_commander,
			    set_code = EXCLUDED.set_code,
			    collector_number = EXCLUDED.collector_number
		`, deckID, c.CardName, c.Count, c.IsCommander, c.SetCode, c.CollectorNumber)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for range cards {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to upsert deck card: %w", err)
		}
	}
	return nil
}

func (s *DeckStore) Get(ctx context.Context, deckID string) (*models.Deck, error) {
	query := `
		SELECT ` + deckColumns + `
		FROM decks
		WHERE id = $1
	`

	deck, err := scanDeck(s.db.QueryRow(ctx, query, deckID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get deck: %w", err)
	}

	return deck, nil
}

func (s *DeckStore) ListByUser(ctx context.Context, userID string) ([]*models.Deck, error) {
	query := `
		SELECT ` + deckColumns + `
		FROM decks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer rows.Close()

	var decks []*models.Deck
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}

	return decks, rows.Err()
}

func (s *DeckStore) GetCards(ctx context.Context, deckID string) ([]*models.DeckCard, error) {
	query := `
		SELECT deck_id, card_name, count, is_commander, set_code, collector_number
		FROM deck_cards
		WHERE deck_id = $1
		ORDER BY card_name ASC
	`

	rows, err := s.db.Query(ctx, query, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to get deck cards: %w", err)
	}
	defer rows.Close()

	var cards []*models.DeckCard
	for rows.Next() {
		c := &models.DeckCard{}
		err := rows.Scan(&c.DeckID, &c.CardName, &c.Count, &c.IsCommander, &c.SetCode, &c.CollectorNumber)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}

	return cards, rows.Err()
}

// SetCommander designates a single card row as the commander: every row is
// cleared first, then the named row is flagged, all in one transaction.
// Passing an empty name just clears the designation.
func (s *DeckStore) SetCommander(ctx context.Context, deckID, cardName string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin commander update: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE deck_cards SET is_commander = false WHERE deck_id = $1`, deckID); err != nil {
		return fmt.Errorf("failed to clear commander: %w", err)
	}

	if cardName != "" {
		tag, err := tx.Exec(ctx, `
			UPDATE deck_cards SET is_commander = true
			WHERE deck_id = $1 AND card_name = $2
		`, deckID, cardName)
		if err != nil {
			return fmt.Errorf("failed to set commander: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
	}

	return tx.Commit(ctx)
}

func (s *DeckStore) Delete(ctx context.Context, deckID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM decks WHERE id = $1`, deckID)
	if err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
