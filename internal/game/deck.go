// internal/game/deck.go
package game

// DeckSize is the number of cards in a fresh deck.
const DeckSize = 52

// Deck is an ordered pile of cards. Draws take from the end.
type Deck []Card

// NewDeck returns the 52 cards of a standard deck in canonical, unshuffled order:
// suit by suit (hearts, diamonds, clubs, spades), ace through king within each suit.
func NewDeck() Deck {
	deck := make(Deck, 0, DeckSize)
	for _, suit := range Suits {
		for rank := RankAce; rank <= RankKing; rank++ {
			deck = append(deck, Card{Rank: rank, Suit: suit})
		}
	}
	return deck
}

// Tokens returns the wire tokens of the deck, in order.
func (d Deck) Tokens() []string {
	return cardTokens(d)
}

func cardTokens(cards []Card) []string {
	tokens := make([]string, len(cards))
	for i, c := range cards {
		tokens[i] = c.String()
	}
	return tokens
}
