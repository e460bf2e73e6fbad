// internal/game/dealer_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequence returns the given values in order, ignoring the requested range.
func sequence(values ...int) RandomSource {
	i := 0
	return RandomFunc(func(min, max int) int {
		v := values[i]
		i++
		return v
	})
}

func abcDeck(t *testing.T) Deck {
	return Deck(mustCards(t, "01H", "02H", "03H"))
}

func TestDealerShuffle(t *testing.T) {
	dealer := NewDealer(sequence(2, 1))
	deck := abcDeck(t)

	dealer.Shuffle(deck)

	assert.Equal(t, []string{"03H", "02H", "01H"}, deck.Tokens())
}

func TestDealerShuffleDiffersWithDifferentSources(t *testing.T) {
	deck1 := abcDeck(t)
	deck2 := abcDeck(t)

	NewDealer(sequence(2, 1)).Shuffle(deck1)
	NewDealer(sequence(2, 0)).Shuffle(deck2)

	assert.NotEqual(t, deck1, deck2)
}

func TestDealerShuffleRequestsInclusiveRange(t *testing.T) {
	var calls [][2]int
	dealer := NewDealer(RandomFunc(func(min, max int) int {
		calls = append(calls, [2]int{min, max})
		return min
	}))
	deck := NewDeck()

	dealer.Shuffle(deck)

	require.Len(t, calls, DeckSize-1)
	for i, c := range calls {
		assert.Equal(t, [2]int{i, DeckSize - 1}, c)
	}
	assert.Equal(t, NewDeck(), deck, "always picking j=i keeps the order")
}

func TestDealerShuffleIsReproducible(t *testing.T) {
	deck1, deck2, deck3 := NewDeck(), NewDeck(), NewDeck()

	NewDealer(NewRandom(7)).Shuffle(deck1)
	NewDealer(NewRandom(7)).Shuffle(deck2)
	NewDealer(NewRandom(8)).Shuffle(deck3)

	assert.Equal(t, deck1, deck2)
	assert.NotEqual(t, deck1, deck3)
	assert.ElementsMatch(t, NewDeck(), deck1)
}

func TestDealerShuffleEmptyDeck(t *testing.T) {
	dealer := NewDealer(RandomFunc(func(min, max int) int { return 0 }))
	deck := Deck{}

	dealer.Shuffle(deck)

	assert.Empty(t, deck)
}

func TestDealerDrawReturnsLastCard(t *testing.T) {
	dealer := NewDealer(nil)
	deck := abcDeck(t)

	c, ok := dealer.Draw(&deck)

	require.True(t, ok)
	assert.Equal(t, "03H", c.String())
	assert.Equal(t, []string{"01H", "02H"}, deck.Tokens())
}

func TestDealerDrawFromEmptyDeck(t *testing.T) {
	dealer := NewDealer(nil)
	deck := Deck{}

	c, ok := dealer.Draw(&deck)

	assert.False(t, ok)
	assert.Equal(t, Card{}, c)
}

func TestRandomIntWithinRange(t *testing.T) {
	r := NewRandom(99)
	for i := 0; i < 1000; i++ {
		v := r.RandomInt(10, 100)
		assert.GreaterOrEqual(t, v, 10)
		assert.LessOrEqual(t, v, 100)
	}
}

func TestRandomIntSingleValueRange(t *testing.T) {
	assert.Equal(t, 0, NewRandom(1).RandomInt(0, 0))
}

func TestRandomIntSmallRangeHitsBothEnds(t *testing.T) {
	r := NewRandom(3)
	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		seen[r.RandomInt(99, 100)] = true
	}
	assert.Equal(t, map[int]bool{99: true, 100: true}, seen)
}
