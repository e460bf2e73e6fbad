// internal/handlers/game_server.go
package handlers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jason-s-yu/lucky21/internal/auth"
	"github.com/jason-s-yu/lucky21/internal/game"
	"github.com/jason-s-yu/lucky21/internal/models"
	"github.com/sirupsen/logrus"
)

var (
	ErrNoGame         = errors.New("game not started")
	ErrGameInProgress = errors.New("there is already a game in progress")
	ErrGameOver       = errors.New("game is already over")
)

// ResultRecorder receives every finished game. Both database.ResultStore and
// cache.ResultQueue implement it.
type ResultRecorder interface {
	RecordResult(ctx context.Context, r models.GameResult) error
}

// StatsReader answers the history queries behind /stats.
type StatsReader interface {
	Stats(ctx context.Context) (models.Stats, error)
}

// GuessKind selects one of the two player actions.
type GuessKind string

const (
	Guess21OrUnder GuessKind = "guess21OrUnder"
	GuessOver21    GuessKind = "guessOver21"
)

// StateResponse is what clients see after every request.
type StateResponse struct {
	Cards      []string     `json:"cards"`
	Card       *string      `json:"card,omitempty"`
	CardsValue int          `json:"cardsValue"`
	CardValue  *int         `json:"cardValue,omitempty"`
	Total      int          `json:"total"`
	GameOver   bool         `json:"gameOver"`
	PlayerWon  bool         `json:"playerWon"`
	Outcome    game.Outcome `json:"outcome"`
}

func newStateResponse(g *game.Lucky21) StateResponse {
	st := g.State()
	resp := StateResponse{
		Cards:      st.Cards,
		Card:       st.Card,
		CardsValue: g.CardsValue(),
		Total:      g.Total(),
		GameOver:   g.IsGameOver(),
		PlayerWon:  g.PlayerWon(),
		Outcome:    g.Outcome(),
	}
	if v, ok := g.CardValue(); ok {
		resp.CardValue = &v
	}
	return resp
}

// GameServer maps sessions to games and records each game's result when it ends.
type GameServer struct {
	Games    *game.GameStore
	Random   game.RandomSource
	Results  ResultRecorder
	Stats    StatsReader
	Sessions *auth.Sessions
	Logger   *logrus.Logger
}

func NewGameServer(games *game.GameStore, random game.RandomSource, results ResultRecorder, stats StatsReader, sessions *auth.Sessions, logger *logrus.Logger) *GameServer {
	return &GameServer{
		Games:    games,
		Random:   random,
		Results:  results,
		Stats:    stats,
		Sessions: sessions,
		Logger:   logger,
	}
}

// StartGame deals a new game for the session unless one is still being played.
func (gs *GameServer) StartGame(ctx context.Context, sessionID uuid.UUID) (StateResponse, error) {
	sess := gs.Games.Session(sessionID)
	sess.Lock()
	defer sess.Unlock()

	if sess.Game != nil && !sess.Game.IsGameOver() {
		return StateResponse{}, ErrGameInProgress
	}
	g, err := game.Start(gs.Random)
	if err != nil {
		return StateResponse{}, err
	}
	sess.Reset(g)
	gs.Logger.WithFields(logrus.Fields{
		"session": sessionID,
		"game":    g.ID,
	}).Debug("game started")

	// an opening hand of 21 is already a win
	gs.recordIfOver(ctx, sess)
	return newStateResponse(g), nil
}

// State returns the session's current game.
func (gs *GameServer) State(ctx context.Context, sessionID uuid.UUID) (StateResponse, error) {
	sess := gs.Games.Session(sessionID)
	sess.Lock()
	defer sess.Unlock()

	if sess.Game == nil {
		return StateResponse{}, ErrNoGame
	}
	return newStateResponse(sess.Game), nil
}

// Guess applies a guess to the session's game and records the result if the game ends.
func (gs *GameServer) Guess(ctx context.Context, sessionID uuid.UUID, kind GuessKind) (StateResponse, error) {
	sess := gs.Games.Session(sessionID)
	sess.Lock()
	defer sess.Unlock()

	g := sess.Game
	if g == nil {
		return StateResponse{}, ErrNoGame
	}
	if g.IsGameOver() {
		return StateResponse{}, ErrGameOver
	}

	var err error
	switch kind {
	case Guess21OrUnder:
		err = g.Guess21OrUnder()
	case GuessOver21:
		err = g.GuessOver21()
	default:
		return StateResponse{}, errors.New("unknown guess " + string(kind))
	}
	if err != nil {
		return StateResponse{}, err
	}

	gs.recordIfOver(ctx, sess)
	return newStateResponse(g), nil
}

// recordIfOver records the session's game once it has ended. Caller holds the session lock.
func (gs *GameServer) recordIfOver(ctx context.Context, sess *game.Session) {
	g := sess.Game
	if !g.IsGameOver() || !sess.MarkRecorded() {
		return
	}
	result := models.GameResult{
		Won:   g.PlayerWon(),
		Score: g.CardsValue(),
		Total: g.Total(),
	}
	entry := gs.Logger.WithFields(logrus.Fields{
		"session": sess.ID,
		"game":    g.ID,
		"won":     result.Won,
		"score":   result.Score,
		"total":   result.Total,
	})
	if gs.Results == nil {
		entry.Warn("no result recorder configured, dropping result")
		return
	}
	if err := gs.Results.RecordResult(ctx, result); err != nil {
		entry.WithError(err).Error("failed to record game result")
		return
	}
	entry.Info("game finished")
}
