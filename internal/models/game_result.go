// internal/models/game_result.go
package models

import "time"

// GameResult is one finished game, as stored in the "GameResult" table.
type GameResult struct {
	Won bool `json:"won"`
	// Score is the value of the hand alone when the game ended.
	Score int `json:"score"`
	// Total includes the pending card, if the last guess was "over 21".
	Total      int       `json:"total"`
	InsertDate time.Time `json:"insertDate"`
}

// Stats aggregates the result history.
type Stats struct {
	TotalNumberOfGames int64 `json:"totalNumberOfGames"`
	TotalNumberOfWins  int64 `json:"totalNumberOfWins"`
	TotalNumberOf21    int64 `json:"totalNumberOf21"`
}
