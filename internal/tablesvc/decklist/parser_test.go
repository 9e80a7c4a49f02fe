package decklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListSingleLines(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Row
	}{
		{name: "plain count", line: "1 Sol Ring", want: Row{Count: 1, CardName: "Sol Ring"}},
		{name: "x suffix", line: "2x Forest", want: Row{Count: 2, CardName: "Forest"}},
		{name: "uppercase X", line: "3X Island", want: Row{Count: 3, CardName: "Island"}},
		{
			name: "set and collector number",
			line: "1 Sol Ring (ltr) 224",
			want: Row{Count: 1, CardName: "Sol Ring", SetCode: "ltr", CollectorNumber: "224"},
		},
		{
			name: "set code is lowercased",
			line: "1x Sol Ring (LTR) 224a",
			want: Row{Count: 1, CardName: "Sol Ring", SetCode: "ltr", CollectorNumber: "224a"},
		},
		{
			name: "parenthetical without collector number stays in the name",
			line: "1 Borrowing 100,000 Arrows",
			want: Row{Count: 1, CardName: "Borrowing 100,000 Arrows"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ParseList(tt.line)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, tt.want, rows[0])
		})
	}
}

func TestParseListRejectsBadLines(t *testing.T) {
	for _, line := range []string{
		"Sol Ring",       // no count
		"x Sol Ring",     // no count before x
		"0.5 Sol Ring",   // not an integer
		"- 2 Forest",     // garbage prefix
	} {
		_, err := ParseList(line)
		require.Error(t, err, "line %q should be rejected", line)
		assert.Contains(t, err.Error(), line, "error must echo the offending line")
	}
}

func TestParseListMultipleLines(t *testing.T) {
	text := "1 Sol Ring\r\n\n2x Forest\n1 Arcane Signet (cmm) 381\n"
	rows, err := ParseList(text)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Sol Ring", rows[0].CardName)
	assert.Equal(t, 2, rows[1].Count)
	assert.Equal(t, "cmm", rows[2].SetCode)
	assert.Equal(t, "381", rows[2].CollectorNumber)
}

func TestParseListStopsAtFirstBadLine(t *testing.T) {
	_, err := ParseList("1 Sol Ring\nnot a card line\n2x Forest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a card line")
}
