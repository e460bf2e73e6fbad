// internal/game/dealer.go
package game

// Dealer shuffles and draws from a deck.
type Dealer interface {
	// Shuffle permutes the deck in place.
	Shuffle(deck Deck)
	// Draw removes and returns the last card of the deck. On an empty deck it
	// returns the zero Card and false.
	Draw(deck *Deck) (Card, bool)
}

// StandardDealer shuffles with Fisher-Yates using an injected RandomSource.
type StandardDealer struct {
	random RandomSource
}

func NewDealer(random RandomSource) *StandardDealer {
	return &StandardDealer{random: random}
}

// Shuffle walks i from the front of the deck, swapping each position with a
// uniformly chosen j in [i, len-1].
func (d *StandardDealer) Shuffle(deck Deck) {
	for i := 0; i < len(deck)-1; i++ {
		j := d.random.RandomInt(i, len(deck)-1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

func (d *StandardDealer) Draw(deck *Deck) (Card, bool) {
	n := len(*deck)
	if n == 0 {
		return Card{}, false
	}
	card := (*deck)[n-1]
	*deck = (*deck)[:n-1]
	return card, true
}
