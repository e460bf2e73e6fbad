package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckHas52DistinctCards(t *testing.T) {
	deck := NewDeck()
	require.Len(t, deck, DeckSize)

	seen := make(map[Card]bool)
	for _, c := range deck {
		assert.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
	for _, suit := range Suits {
		for rank := RankAce; rank <= RankKing; rank++ {
			assert.True(t, seen[Card{Rank: rank, Suit: suit}])
		}
	}
}

func TestDeckCanonicalOrder(t *testing.T) {
	tokens := NewDeck().Tokens()
	assert.Equal(t, "01H", tokens[0])
	assert.Equal(t, "13H", tokens[12])
	assert.Equal(t, "01D", tokens[13])
	assert.Equal(t, "13S", tokens[51])
}

func TestParseCard(t *testing.T) {
	c, err := ParseCard("12S")
	require.NoError(t, err)
	assert.Equal(t, Card{Rank: RankQueen, Suit: "S"}, c)
	assert.True(t, c.IsFace())
	assert.Equal(t, "12S", c.String())

	ace, err := ParseCard("01D")
	require.NoError(t, err)
	assert.True(t, ace.IsAce())

	for _, bad := range []string{"", "1H", "00H", "14C", "05X", "A1H"} {
		_, err := ParseCard(bad)
		assert.Error(t, err, "token %q", bad)
	}
}
