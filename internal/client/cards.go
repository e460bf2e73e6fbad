// internal/client/cards.go
package client

import (
	"strconv"
	"strings"

	"github.com/jason-s-yu/lucky21/internal/game"
)

// DisplayName maps a card token to the short name used for card artwork:
// "01H" -> "Ah", "11S" -> "Js", "05D" -> "5d", "10C" -> "10c".
// Malformed tokens are returned lowercased.
func DisplayName(token string) string {
	t := strings.ToLower(token)
	if len(t) != 3 {
		return t
	}
	if t[0] == '1' {
		switch t[1] {
		case '1':
			return "J" + t[2:]
		case '2':
			return "Q" + t[2:]
		case '3':
			return "K" + t[2:]
		default:
			return t
		}
	}
	if t[1] == '1' {
		return "A" + t[2:]
	}
	return t[1:]
}

var suitSymbols = map[string]string{
	"H": "♥",
	"D": "♦",
	"C": "♣",
	"S": "♠",
}

// Pretty renders a card token for a terminal, e.g. "01H" -> "A♥".
func Pretty(token string) string {
	c, err := game.ParseCard(token)
	if err != nil {
		return token
	}
	var rank string
	switch c.Rank {
	case game.RankAce:
		rank = "A"
	case game.RankJack:
		rank = "J"
	case game.RankQueen:
		rank = "Q"
	case game.RankKing:
		rank = "K"
	default:
		rank = strconv.Itoa(c.Rank)
	}
	return rank + suitSymbols[c.Suit]
}

// IsRed reports whether the token is a heart or diamond.
func IsRed(token string) bool {
	c, err := game.ParseCard(token)
	return err == nil && (c.Suit == "H" || c.Suit == "D")
}
