// internal/game/lucky21.go
package game

import (
	"errors"

	"github.com/google/uuid"
)

// ErrDeckExhausted is returned when a card is needed but the deck is empty.
// The game state is left untouched.
var ErrDeckExhausted = errors.New("deck exhausted")

const (
	target       = 21
	aceHighValue = 11
	aceLowValue  = 1
	faceValue    = 10
)

// Outcome is the status of a game, derived from its cards on every call.
type Outcome string

const (
	OutcomeInProgress Outcome = "in_progress"
	OutcomeWon        Outcome = "won"
	// OutcomeBust: the player guessed 21 or under and went over.
	OutcomeBust Outcome = "bust"
	// OutcomeFailedOverGuess: the player guessed over 21 and stayed at or under it.
	OutcomeFailedOverGuess Outcome = "failed_over_guess"
)

// State is the serialisable snapshot of a game returned to clients.
type State struct {
	Cards []string `json:"cards"`
	Card  *string  `json:"card,omitempty"`
}

// Lucky21 holds one game: the remaining deck, the visible hand, and the
// pending card drawn by an "over 21" guess.
//
// A Lucky21 is not safe for concurrent use; the session store serialises access.
type Lucky21 struct {
	ID uuid.UUID

	deck   Deck
	dealer Dealer
	cards  []Card
	card   *Card
}

// NewLucky21 shuffles the deck with the dealer and draws the two opening cards.
func NewLucky21(deck Deck, dealer Dealer) (*Lucky21, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	dealer.Shuffle(deck)

	g := &Lucky21{
		ID:     id,
		deck:   deck,
		dealer: dealer,
		cards:  make([]Card, 0, 2),
	}
	for i := 0; i < 2; i++ {
		c, ok := dealer.Draw(&g.deck)
		if !ok {
			return nil, ErrDeckExhausted
		}
		g.cards = append(g.cards, c)
	}
	return g, nil
}

// Start begins a game with a fresh deck and a dealer drawing on random.
func Start(random RandomSource) (*Lucky21, error) {
	return NewLucky21(NewDeck(), NewDealer(random))
}

// Guess21OrUnder draws the next card into the hand and clears any pending card.
func (g *Lucky21) Guess21OrUnder() error {
	next, ok := g.dealer.Draw(&g.deck)
	if !ok {
		return ErrDeckExhausted
	}
	g.card = nil
	g.cards = append(g.cards, next)
	return nil
}

// GuessOver21 draws the next card and holds it as the pending card. The hand is unchanged.
func (g *Lucky21) GuessOver21() error {
	next, ok := g.dealer.Draw(&g.deck)
	if !ok {
		return ErrDeckExhausted
	}
	g.card = &next
	return nil
}

// PlayerWon reports a correct guess: 21 exactly after guessing 21 or under,
// or over 21 after guessing over.
func (g *Lucky21) PlayerWon() bool {
	total := g.Total()
	if g.card == nil {
		return total == target
	}
	return total > target
}

// IsGameOver reports whether the player has won or lost.
func (g *Lucky21) IsGameOver() bool {
	return g.Outcome() != OutcomeInProgress
}

func (g *Lucky21) Outcome() Outcome {
	total := g.Total()
	switch {
	case g.PlayerWon():
		return OutcomeWon
	case g.card == nil && total > target:
		return OutcomeBust
	case g.card != nil && total <= target:
		return OutcomeFailedOverGuess
	default:
		return OutcomeInProgress
	}
}

// Cards returns a copy of the hand.
func (g *Lucky21) Cards() []Card {
	out := make([]Card, len(g.cards))
	copy(out, g.cards)
	return out
}

// Card returns the pending card, if any.
func (g *Lucky21) Card() (Card, bool) {
	if g.card == nil {
		return Card{}, false
	}
	return *g.card, true
}

// CardsValue is the value of the hand alone.
func (g *Lucky21) CardsValue() int {
	return HandValue(g.cards)
}

// CardValue is the value of the pending card, or false when there is none.
func (g *Lucky21) CardValue() (int, bool) {
	if g.card == nil {
		return 0, false
	}
	return PendingCardValue(*g.card), true
}

// Total is the hand value plus the pending card value, if a card is pending.
func (g *Lucky21) Total() int {
	total := g.CardsValue()
	if v, ok := g.CardValue(); ok {
		total += v
	}
	return total
}

// DeckSize is the number of cards left to draw.
func (g *Lucky21) DeckSize() int {
	return len(g.deck)
}

func (g *Lucky21) State() State {
	st := State{Cards: cardTokens(g.cards)}
	if g.card != nil {
		tok := g.card.String()
		st.Card = &tok
	}
	return st
}

// HandValue sums a hand. Aces are counted after every other card, in the
// order they appear, each as 11 if that keeps the running total at 21 or
// below and as 1 otherwise.
func HandValue(hand []Card) int {
	total := 0
	var aces []Card
	for _, c := range hand {
		if c.IsAce() {
			aces = append(aces, c)
			continue
		}
		total += cardValue(c, total)
	}
	for _, c := range aces {
		total += cardValue(c, total)
	}
	return total
}

// PendingCardValue values the card drawn by an "over 21" guess. An ace is
// always 11 here, since the card is meant to push the total over.
func PendingCardValue(c Card) int {
	switch {
	case c.IsFace():
		return faceValue
	case c.IsAce():
		return aceHighValue
	default:
		return c.Rank
	}
}

func cardValue(c Card, runningTotal int) int {
	switch {
	case c.IsAce():
		if runningTotal+aceHighValue <= target {
			return aceHighValue
		}
		return aceLowValue
	case c.IsFace():
		return faceValue
	default:
		return c.Rank
	}
}
