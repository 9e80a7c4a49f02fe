package service

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/models"
)

func seated(seats ...int) []*models.RoomPlayer {
	var players []*models.RoomPlayer
	for _, s := range seats {
		players = append(players, &models.RoomPlayer{Seat: s})
	}
	return players
}

func TestLowestFreeSeat(t *testing.T) {
	tests := []struct {
		name    string
		players []*models.RoomPlayer
		want    int
	}{
		{name: "empty room", players: nil, want: 1},
		{name: "owner seated", players: seated(1), want: 2},
		{name: "gap filled first", players: seated(1, 3), want: 2},
		{name: "last seat", players: seated(1, 2, 3), want: 4},
		{name: "full room", players: seated(1, 2, 3, 4), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lowestFreeSeat(tt.players))
		})
	}
}

func TestRandomPinShape(t *testing.T) {
	re := regexp.MustCompile(`^\d{4}$`)
	for i := 0; i < 1000; i++ {
		pin := randomPin()
		assert.Regexp(t, re, pin)
		assert.GreaterOrEqual(t, pin, "1000")
	}
}
