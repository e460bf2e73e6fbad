// internal/game/card.go
package game

import (
	"fmt"
	"strconv"
)

// Suits in canonical deck order. The suit never affects scoring.
var Suits = []string{"H", "D", "C", "S"}

const (
	RankAce   = 1
	RankJack  = 11
	RankQueen = 12
	RankKing  = 13
)

// Card is an immutable playing card. Its wire form is a token of a two-digit
// rank followed by the suit letter, e.g. "01H" for the ace of hearts.
type Card struct {
	Rank int
	Suit string
}

// NewCard builds a card, rejecting ranks outside 1..13 and unknown suits.
func NewCard(rank int, suit string) (Card, error) {
	if rank < RankAce || rank > RankKing {
		return Card{}, fmt.Errorf("invalid rank %d", rank)
	}
	if !validSuit(suit) {
		return Card{}, fmt.Errorf("invalid suit %q", suit)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// ParseCard decodes a card token such as "12S".
func ParseCard(token string) (Card, error) {
	if len(token) != 3 {
		return Card{}, fmt.Errorf("invalid card token %q", token)
	}
	rank, err := strconv.Atoi(token[:2])
	if err != nil {
		return Card{}, fmt.Errorf("invalid card token %q: %w", token, err)
	}
	return NewCard(rank, token[2:])
}

// String returns the card token.
func (c Card) String() string {
	return fmt.Sprintf("%02d%s", c.Rank, c.Suit)
}

func (c Card) IsAce() bool {
	return c.Rank == RankAce
}

// IsFace reports whether the card is a jack, queen or king.
func (c Card) IsFace() bool {
	return c.Rank > 10
}

func validSuit(suit string) bool {
	for _, s := range Suits {
		if s == suit {
			return true
		}
	}
	return false
}
