package store

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/models"
)

// These tests run the real store SQL and need a database with
// scripts/schema.sql applied. They skip when TEST_POSTGRES_URL is not set.

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("TEST_POSTGRES_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

// seedMatch creates a room with one seated match player and returns the
// match and user ids. The room is deleted on cleanup, cascading everything.
func seedMatch(t *testing.T, pool *pgxpool.Pool) (string, string) {
	t.Helper()
	ctx := context.Background()

	owner := uuid.New().String()
	room, err := NewRoomStore(pool).Create(ctx, fmt.Sprintf("%04d", 1000+rand.Intn(9000)), owner)
	require.NoError(t, err)
	t.Cleanup(func() {
		pool.Exec(context.Background(), `DELETE FROM rooms WHERE id = $1`, room.ID)
	})

	match, err := NewMatchStore(pool).Create(ctx, room.ID)
	require.NoError(t, err)

	err = NewMatchPlayerStore(pool).InsertSnapshot(ctx, []*models.MatchPlayer{{
		MatchID: match.ID,
		UserID:  owner,
		Seat:    1,
		Life:    models.StartingLife,
		DeckID:  uuid.New().String(),
	}})
	require.NoError(t, err)

	return match.ID, owner
}

func libraryFor(matchID, userID string, n int) []*models.MatchCard {
	deckID := uuid.New().String()
	cards := make([]*models.MatchCard, 0, n)
	for i := 1; i <= n; i++ {
		idx := i
		cards = append(cards, &models.MatchCard{
			MatchID:      matchID,
			OwnerUserID:  userID,
			DeckID:       deckID,
			CardName:     fmt.Sprintf("Card %d", i),
			Zone:         models.ZoneLibrary,
			LibraryIndex: &idx,
		})
	}
	return cards
}

func TestDrawTopReportsVacatedIndex(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	matchID, userID := seedMatch(t, pool)
	store := NewMatchCardStore(pool)

	_, err := store.ReplaceForMatch(ctx, matchID, libraryFor(matchID, userID, 5), map[string]int{userID: 5})
	require.NoError(t, err)

	for want := 1; want <= 3; want++ {
		card, prevIndex, player, err := store.DrawTop(ctx, matchID, userID)
		require.NoError(t, err)
		assert.Equal(t, want, prevIndex)
		assert.Equal(t, models.ZoneHand, card.Zone)
		assert.Nil(t, card.LibraryIndex)
		assert.Equal(t, 5-want, player.LibraryCount)
		assert.Equal(t, want, player.HandCount)
	}
}

func TestDrawTopEmptyLibrary(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	matchID, userID := seedMatch(t, pool)
	store := NewMatchCardStore(pool)

	_, err := store.ReplaceForMatch(ctx, matchID, libraryFor(matchID, userID, 2), map[string]int{userID: 2})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, _, _, err := store.DrawTop(ctx, matchID, userID)
		require.NoError(t, err)
	}

	_, _, _, err = store.DrawTop(ctx, matchID, userID)
	assert.ErrorIs(t, err, ErrEmptyLibrary)

	// Nothing written: the hand still holds exactly the two drawn cards.
	hand, err := store.ListZone(ctx, matchID, userID, models.ZoneHand)
	require.NoError(t, err)
	assert.Len(t, hand, 2)
}

// Mulligan after a few draws: the hand returns to the library, hand plus
// library conserves the pool, and the new order is again a dense 1..N
// permutation. The mid-reshuffle renumbering must not trip the unique
// library-order index left by the old permutation.
func TestMulliganRestoresDensePermutation(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	matchID, userID := seedMatch(t, pool)
	store := NewMatchCardStore(pool)

	const poolSize = 20
	_, err := store.ReplaceForMatch(ctx, matchID, libraryFor(matchID, userID, poolSize), map[string]int{userID: poolSize})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, _, _, err := store.DrawTop(ctx, matchID, userID)
		require.NoError(t, err)
	}

	returned, player, err := store.Mulligan(ctx, matchID, userID)
	require.NoError(t, err)
	assert.Equal(t, 3, returned)
	assert.Equal(t, 0, player.HandCount)
	assert.Equal(t, poolSize, player.LibraryCount)

	hand, err := store.ListZone(ctx, matchID, userID, models.ZoneHand)
	require.NoError(t, err)
	assert.Empty(t, hand)

	library, err := store.ListZone(ctx, matchID, userID, models.ZoneLibrary)
	require.NoError(t, err)
	require.Len(t, library, poolSize)

	seen := make(map[int]bool, len(library))
	for _, c := range library {
		require.NotNil(t, c.LibraryIndex)
		seen[*c.LibraryIndex] = true
	}
	for i := 1; i <= poolSize; i++ {
		assert.True(t, seen[i], "library_index %d missing", i)
	}
}
